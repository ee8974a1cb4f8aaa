package user

import "time"

const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

type User struct {
	ID           int64     `gorm:"primaryKey"`
	OrgID        int64     `gorm:"column:org_id;not null;index"`
	Name         string    `gorm:"column:name;not null"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Status       string    `gorm:"column:status;not null;default:active"`
	IsSuperAdmin bool      `gorm:"column:is_super_admin;not null;default:false"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
