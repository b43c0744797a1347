package entity

import "time"

// AuditLog 请购单操作日志，每次生命周期变更写入一条，只增不改
type AuditLog struct {
	ID            string `json:"id" gorm:"primaryKey;size:32"`
	RequisitionID string `json:"requisition_id" gorm:"size:32;not null;index"`

	Action          string `json:"action" gorm:"size:30;not null"` // created/authorized/approved/rejected/archived/status_changed/permanently_deleted
	PerformedBy     string `json:"performed_by" gorm:"size:32;not null"`
	PerformedByRole string `json:"performed_by_role" gorm:"size:20;not null"`

	PreviousValue string `json:"previous_value" gorm:"size:50"`
	NewValue      string `json:"new_value" gorm:"size:50"`
	Notes         string `json:"notes" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// 操作类型
const (
	ActionCreated            = "created"
	ActionAuthorized         = "authorized"
	ActionApproved           = "approved"
	ActionRejected           = "rejected"
	ActionArchived           = "archived"
	ActionStatusChanged      = "status_changed"
	ActionPermanentlyDeleted = "permanently_deleted"
)
