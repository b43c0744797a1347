package repository

import (
	"context"

	"github.com/Mahmoudshee/Niru-DRS/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLogRepository 操作日志仓库
type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// Create 写入一条操作日志
func (r *AuditLogRepository) Create(ctx context.Context, log *entity.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()[:32]
	}
	return r.db.WithContext(ctx).Create(log).Error
}

// CreateTx 在事务内写入一条操作日志
func (r *AuditLogRepository) CreateTx(ctx context.Context, tx *gorm.DB, log *entity.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()[:32]
	}
	return tx.WithContext(ctx).Create(log).Error
}

// FindByRequisition 查询某请购单的操作日志
func (r *AuditLogRepository) FindByRequisition(ctx context.Context, requisitionID string) ([]entity.AuditLog, error) {
	var items []entity.AuditLog
	err := r.db.WithContext(ctx).
		Where("requisition_id = ?", requisitionID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

// FindAll 查询全部操作日志（管理员）
func (r *AuditLogRepository) FindAll(ctx context.Context, page, pageSize int) ([]entity.AuditLog, int64, error) {
	var items []entity.AuditLog
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.AuditLog{})
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

// DeleteByRequisition 级联删除某请购单的全部操作日志
func (r *AuditLogRepository) DeleteByRequisition(ctx context.Context, requisitionID string) error {
	return r.db.WithContext(ctx).
		Where("requisition_id = ?", requisitionID).
		Delete(&entity.AuditLog{}).Error
}

// Count 操作日志总数
func (r *AuditLogRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.AuditLog{}).Count(&count).Error
	return count, err
}
