package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Requisition 请购单
type Requisition struct {
	ID     string `json:"id" gorm:"primaryKey;size:32"`
	Code   string `json:"code" gorm:"size:32;uniqueIndex;not null"`
	Status string `json:"status" gorm:"size:20;default:pending;index"` // pending/authorized/approved/rejected

	// 提交人
	StaffID    string `json:"staff_id" gorm:"size:32;not null;index"`
	StaffName  string `json:"staff_name" gorm:"size:100"`
	StaffEmail string `json:"staff_email" gorm:"size:200"`

	// 请购内容
	Date        string           `json:"date" gorm:"size:10;not null"` // YYYY-MM-DD
	Activity    string           `json:"activity" gorm:"type:text;not null"`
	Items       RequisitionItems `json:"items" gorm:"type:jsonb;not null"`
	TotalAmount float64          `json:"total_amount" gorm:"type:decimal(15,2);not null"`
	Documents   DocumentRefs     `json:"documents" gorm:"type:jsonb"`

	// 审批记录
	AuthoriserNotes string     `json:"authoriser_notes" gorm:"type:text"`
	ApproverNotes   string     `json:"approver_notes" gorm:"type:text"`
	AuthorizedAt    *time.Time `json:"authorized_at"`
	ApprovedAt      *time.Time `json:"approved_at"`

	// 核销（仅approved状态有意义）
	LiquidationStatus string     `json:"liquidation_status" gorm:"size:20"` // liquidated/not_liquidated/not_applicable
	LiquidatedBy      string     `json:"liquidated_by" gorm:"size:32"`
	LiquidatedAt      *time.Time `json:"liquidated_at"`

	// 归档（软删除）
	Archived      bool       `json:"archived" gorm:"default:false;index"`
	ArchivedBy    string     `json:"archived_by" gorm:"size:32"`
	ArchivedAt    *time.Time `json:"archived_at"`
	ArchiveReason string     `json:"archive_reason" gorm:"size:200"`

	// 编辑溯源
	OriginalRequisitionID *string `json:"original_requisition_id" gorm:"size:32"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Requisition) TableName() string {
	return "requisitions"
}

// 请购单状态
const (
	StatusPending    = "pending"
	StatusAuthorized = "authorized"
	StatusApproved   = "approved"
	StatusRejected   = "rejected"
)

// 核销状态
const (
	LiquidationLiquidated    = "liquidated"
	LiquidationNotLiquidated = "not_liquidated"
	LiquidationNotApplicable = "not_applicable"
)

// IsTerminal 是否终态
func IsTerminalStatus(status string) bool {
	return status == StatusApproved || status == StatusRejected
}

// RequisitionItem 请购单行项
type RequisitionItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
}

// RequisitionItems 行项列表，整体存为JSONB
type RequisitionItems []RequisitionItem

func (items RequisitionItems) Value() (driver.Value, error) {
	if items == nil {
		return json.Marshal([]RequisitionItem{})
	}
	return json.Marshal(items)
}

func (items *RequisitionItems) Scan(value interface{}) error {
	if value == nil {
		*items = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan RequisitionItems: %v", value)
	}
	return json.Unmarshal(bytes, items)
}

// Total 行项金额合计
func (items RequisitionItems) Total() float64 {
	var total float64
	for _, item := range items {
		total += item.Quantity * item.UnitPrice
	}
	return total
}

// DocumentRef 附件引用
type DocumentRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Path string `json:"path"` // 对象存储路径，删除时使用
}

// DocumentRefs 附件列表，整体存为JSONB
type DocumentRefs []DocumentRef

func (d DocumentRefs) Value() (driver.Value, error) {
	if d == nil {
		return json.Marshal([]DocumentRef{})
	}
	return json.Marshal(d)
}

func (d *DocumentRefs) Scan(value interface{}) error {
	if value == nil {
		*d = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan DocumentRefs: %v", value)
	}
	return json.Unmarshal(bytes, d)
}
