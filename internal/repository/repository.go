package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories 仓库集合
type Repositories struct {
	Requisition *RequisitionRepository
	AuditLog    *AuditLogRepository
	User        *UserRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Requisition: NewRequisitionRepository(db),
		AuditLog:    NewAuditLogRepository(db),
		User:        NewUserRepository(db),
	}
}
