package permission

type Permission struct {
	ID          int64  `gorm:"primaryKey"`
	Key         string `gorm:"column:key;uniqueIndex;not null"`
	Description string `gorm:"column:description"`
}

func (Permission) TableName() string {
	return "permissions"
}
