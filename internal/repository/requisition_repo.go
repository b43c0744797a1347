package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Mahmoudshee/Niru-DRS/internal/entity"
	"gorm.io/gorm"
)

// RequisitionRepository 请购单仓库
type RequisitionRepository struct {
	db *gorm.DB
}

func NewRequisitionRepository(db *gorm.DB) *RequisitionRepository {
	return &RequisitionRepository{db: db}
}

// FindAll 查询请购单列表
func (r *RequisitionRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Requisition, int64, error) {
	var items []entity.Requisition
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Requisition{})

	if staffID := filters["staff_id"]; staffID != "" {
		query = query.Where("staff_id = ?", staffID)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if statuses := filters["statuses"]; statuses != "" {
		query = query.Where("status IN ?", strings.Split(statuses, ","))
	}
	switch filters["archived"] {
	case "true":
		query = query.Where("archived = ?", true)
	case "all":
		// 包含归档与未归档
	default:
		query = query.Where("archived = ?", false)
	}
	if search := filters["search"]; search != "" {
		query = query.Where("activity ILIKE ? OR code ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID 根据ID查找请购单
func (r *RequisitionRepository) FindByID(ctx context.Context, id string) (*entity.Requisition, error) {
	var req entity.Requisition
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// Create 创建请购单
func (r *RequisitionRepository) Create(ctx context.Context, req *entity.Requisition) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// Update 更新请购单
func (r *RequisitionRepository) Update(ctx context.Context, req *entity.Requisition) error {
	return r.db.WithContext(ctx).Save(req).Error
}

// UpdateFields 按字段更新请购单
func (r *RequisitionRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&entity.Requisition{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// TransitionStatus 条件更新状态：仅当当前状态仍为expected时生效，
// 返回是否有行被更新，防止两个并发审批同时成功
func (r *RequisitionRepository) TransitionStatus(ctx context.Context, tx *gorm.DB, id, expected string, fields map[string]interface{}) (bool, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	result := db.WithContext(ctx).
		Model(&entity.Requisition{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(fields)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FindDuplicates 查重：同一提交人、同日期、同活动、同总额的未归档请购单，
// 行项在上层按无序集合比较，excludeID用于编辑重提时排除自身
func (r *RequisitionRepository) FindDuplicates(ctx context.Context, staffID, date, activity string, totalAmount float64, excludeID string) ([]entity.Requisition, error) {
	var items []entity.Requisition
	query := r.db.WithContext(ctx).
		Where("staff_id = ?", staffID).
		Where("date = ?", date).
		Where("activity = ?", activity).
		Where("total_amount = ?", totalAmount).
		Where("archived = ?", false)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Find(&items).Error
	return items, err
}

// HasUnliquidatedApproved 提交人是否有未核销的已批准请购单（核销锁）
func (r *RequisitionRepository) HasUnliquidatedApproved(ctx context.Context, staffID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Requisition{}).
		Where("staff_id = ?", staffID).
		Where("status = ?", entity.StatusApproved).
		Where("archived = ?", false).
		Where("liquidation_status IS NULL OR liquidation_status IN ?", []string{"", entity.LiquidationNotLiquidated}).
		Count(&count).Error
	return count > 0, err
}

// FindActiveByOwner 查询提交人所有未归档请购单
func (r *RequisitionRepository) FindActiveByOwner(ctx context.Context, staffID string) ([]entity.Requisition, error) {
	var items []entity.Requisition
	err := r.db.WithContext(ctx).
		Where("staff_id = ?", staffID).
		Where("archived = ?", false).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

// FindArchived 查询所有已归档请购单
func (r *RequisitionRepository) FindArchived(ctx context.Context) ([]entity.Requisition, error) {
	var items []entity.Requisition
	err := r.db.WithContext(ctx).
		Where("archived = ?", true).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

// Delete 硬删除请购单行
func (r *RequisitionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Requisition{}).Error
}

// Count 请购单总数（含归档）
func (r *RequisitionRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Requisition{}).Count(&count).Error
	return count, err
}

// GenerateCode 生成请购单编码 REQ-{year}-{4位}
func (r *RequisitionRepository) GenerateCode(ctx context.Context) (string, error) {
	year := time.Now().Format("2006")
	prefix := fmt.Sprintf("REQ-%s-", year)

	var maxCode string
	err := r.db.WithContext(ctx).
		Model(&entity.Requisition{}).
		Select("COALESCE(MAX(code), '')").
		Where("code LIKE ?", prefix+"%").
		Scan(&maxCode).Error
	if err != nil {
		return "", err
	}

	var seq int
	if maxCode != "" {
		fmt.Sscanf(maxCode, "REQ-"+year+"-%04d", &seq)
	}
	seq++
	return fmt.Sprintf("REQ-%s-%04d", year, seq), nil
}
