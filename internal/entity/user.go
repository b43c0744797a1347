package entity

import "time"

// User 用户账号，一个用户可以同时持有多个角色
type User struct {
	ID           string     `json:"id" gorm:"primaryKey;size:32"`
	Name         string     `json:"name" gorm:"size:100;not null"`
	Email        string     `json:"email" gorm:"size:200;uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"size:100;not null"`
	Roles        StringList `json:"roles" gorm:"type:jsonb;not null"`
	SignatureURL string     `json:"signature_url" gorm:"size:500"`
	Status       string     `json:"status" gorm:"size:20;default:active"`

	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// 角色
const (
	RoleStaff      = "staff"
	RoleAuthoriser = "authoriser"
	RoleApprover   = "approver"
	RoleAdmin      = "admin"
)

// ValidRole 是否为合法角色
func ValidRole(role string) bool {
	switch role {
	case RoleStaff, RoleAuthoriser, RoleApprover, RoleAdmin:
		return true
	}
	return false
}
