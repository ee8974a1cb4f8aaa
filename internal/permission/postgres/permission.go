package postgres

import (
	"context"

	permissionDatamodel "github.com/frahmantamala/docdraft/internal/core/datamodel/permission"
	"github.com/frahmantamala/docdraft/internal/permission"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PermissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) permission.RepositoryAPI {
	return &PermissionRepository{db: db}
}

func (r *PermissionRepository) GetAll(ctx context.Context) ([]*permissionDatamodel.Permission, error) {
	var perms []*permissionDatamodel.Permission
	err := r.db.WithContext(ctx).Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).Find(&perms).Error
	return perms, err
}

// Ensure inserts perms, skipping keys that already exist.
func (r *PermissionRepository) Ensure(ctx context.Context, perms []*permissionDatamodel.Permission) error {
	if len(perms) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "key"}}, DoNothing: true}).
		Create(&perms).Error
}
