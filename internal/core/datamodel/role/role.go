package role

import "time"

type Role struct {
	ID          int64     `gorm:"primaryKey"`
	OrgID       int64     `gorm:"column:org_id;not null;uniqueIndex:idx_roles_org_name"`
	Name        string    `gorm:"column:name;not null;uniqueIndex:idx_roles_org_name"`
	Description string    `gorm:"column:description"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Role) TableName() string {
	return "roles"
}

// RolePermission rows are removed together with their role.
type RolePermission struct {
	RoleID       int64 `gorm:"column:role_id;primaryKey;autoIncrement:false"`
	PermissionID int64 `gorm:"column:permission_id;primaryKey;autoIncrement:false"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}

type UserRole struct {
	UserID int64 `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	RoleID int64 `gorm:"column:role_id;primaryKey;autoIncrement:false"`
}

func (UserRole) TableName() string {
	return "user_roles"
}
