package postgres

import (
	"context"
	stderrors "errors"

	errors "github.com/frahmantamala/docdraft/internal"
	"github.com/frahmantamala/docdraft/internal/core/common/txn"
	organizationDatamodel "github.com/frahmantamala/docdraft/internal/core/datamodel/organization"
	permissionDatamodel "github.com/frahmantamala/docdraft/internal/core/datamodel/permission"
	roleDatamodel "github.com/frahmantamala/docdraft/internal/core/datamodel/role"
	"github.com/frahmantamala/docdraft/internal/core/scope"
	"github.com/frahmantamala/docdraft/internal/role"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const rolesTable = "roles"

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) role.RepositoryAPI {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) List(ctx context.Context, pred scope.Predicate) ([]*role.Role, error) {
	var rows []*roleDatamodel.Role
	err := pred.Apply(r.db.WithContext(ctx).Model(&roleDatamodel.Role{}), rolesTable).
		Order("roles.name ASC, roles.id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	keys, err := permissionKeysByRole(r.db.WithContext(ctx), ids)
	if err != nil {
		return nil, err
	}

	roles := make([]*role.Role, 0, len(rows))
	for _, row := range rows {
		roles = append(roles, role.FromDataModel(row, keys[row.ID]))
	}
	return roles, nil
}

func (r *RoleRepository) GetByID(ctx context.Context, pred scope.Predicate, id int64) (*role.Role, error) {
	db := r.db.WithContext(ctx)
	row, err := findScoped(db, pred, id)
	if err != nil {
		return nil, err
	}
	return withPermissions(db, row)
}

// Create checks the target organization, inserts the role and grants the
// requested catalog keys, all in one transaction.
func (r *RoleRepository) Create(ctx context.Context, row *roleDatamodel.Role, permissionKeys []string) (*role.Role, error) {
	var created *role.Role
	err := txn.Run(ctx, r.db, func(tx *gorm.DB) error {
		var orgCount int64
		if err := tx.Model(&organizationDatamodel.Organization{}).Where("id = ?", row.OrgID).Count(&orgCount).Error; err != nil {
			return err
		}
		if orgCount == 0 {
			return errors.ErrOrganizationNotFound
		}

		if err := tx.Create(row).Error; err != nil {
			if txn.IsUniqueViolation(err) {
				return errRoleNameTaken()
			}
			return err
		}

		if err := grantPermissions(tx, row.ID, permissionKeys); err != nil {
			return err
		}

		var err error
		created, err = withPermissions(tx, row)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *RoleRepository) Update(ctx context.Context, pred scope.Predicate, id int64, changes role.UpdateRoleDTO) (*role.Role, error) {
	var updated *role.Role
	err := txn.Run(ctx, r.db, func(tx *gorm.DB) error {
		row, err := lockScoped(tx, pred, id)
		if err != nil {
			return err
		}

		values := map[string]interface{}{}
		if changes.Name != nil {
			values["name"] = *changes.Name
		}
		if changes.Description != nil {
			values["description"] = *changes.Description
		}
		if len(values) > 0 {
			if err := tx.Model(row).Updates(values).Error; err != nil {
				if txn.IsUniqueViolation(err) {
					return errRoleNameTaken()
				}
				return err
			}
			if row, err = findScoped(tx, pred, id); err != nil {
				return err
			}
		}

		updated, err = withPermissions(tx, row)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *RoleRepository) Delete(ctx context.Context, pred scope.Predicate, id int64) (*role.Role, error) {
	var deleted *role.Role
	err := txn.Run(ctx, r.db, func(tx *gorm.DB) error {
		row, err := lockScoped(tx, pred, id)
		if err != nil {
			return err
		}
		if err := tx.Where("role_id = ?", id).Delete(&roleDatamodel.RolePermission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("role_id = ?", id).Delete(&roleDatamodel.UserRole{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(row).Error; err != nil {
			return err
		}
		deleted = role.FromDataModel(row, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// ReplacePermissions swaps the whole permission set of a role. The scope
// check locks the role row, and both writes run under that lock in the same
// transaction.
func (r *RoleRepository) ReplacePermissions(ctx context.Context, pred scope.Predicate, id int64, permissionKeys []string) (*role.Role, error) {
	var updated *role.Role
	err := txn.Run(ctx, r.db, func(tx *gorm.DB) error {
		row, err := lockScoped(tx, pred, id)
		if err != nil {
			return err
		}
		if err := tx.Where("role_id = ?", id).Delete(&roleDatamodel.RolePermission{}).Error; err != nil {
			return err
		}
		if err := grantPermissions(tx, id, permissionKeys); err != nil {
			return err
		}
		updated, err = withPermissions(tx, row)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func findScoped(db *gorm.DB, pred scope.Predicate, id int64) (*roleDatamodel.Role, error) {
	var row roleDatamodel.Role
	err := pred.Apply(db.Model(&roleDatamodel.Role{}), rolesTable).
		Where("roles.id = ?", id).
		First(&row).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrRoleNotFound
		}
		return nil, err
	}
	return &row, nil
}

// lockScoped is findScoped holding a row lock until the transaction ends, so
// concurrent writers of the same role run one after the other.
func lockScoped(tx *gorm.DB, pred scope.Predicate, id int64) (*roleDatamodel.Role, error) {
	return findScoped(tx.Clauses(clause.Locking{Strength: "UPDATE"}), pred, id)
}

// grantPermissions inserts a grant for every catalog key in keys. Keys that
// are not in the catalog match no row and are skipped.
func grantPermissions(tx *gorm.DB, roleID int64, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	var permissionIDs []int64
	err := tx.Model(&permissionDatamodel.Permission{}).
		Where(clause.IN{Column: clause.Column{Name: "key"}, Values: toValues(keys)}).
		Pluck("id", &permissionIDs).Error
	if err != nil {
		return err
	}
	if len(permissionIDs) == 0 {
		return nil
	}

	grants := make([]roleDatamodel.RolePermission, 0, len(permissionIDs))
	for _, pid := range permissionIDs {
		grants = append(grants, roleDatamodel.RolePermission{RoleID: roleID, PermissionID: pid})
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&grants).Error
}

func withPermissions(db *gorm.DB, row *roleDatamodel.Role) (*role.Role, error) {
	keys, err := permissionKeysByRole(db, []int64{row.ID})
	if err != nil {
		return nil, err
	}
	return role.FromDataModel(row, keys[row.ID]), nil
}

func permissionKeysByRole(db *gorm.DB, roleIDs []int64) (map[int64][]string, error) {
	out := make(map[int64][]string, len(roleIDs))
	if len(roleIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		RoleID  int64
		PermKey string
	}
	err := db.Table("role_permissions").
		Select(`role_permissions.role_id AS role_id, permissions."key" AS perm_key`).
		Joins("JOIN permissions ON permissions.id = role_permissions.permission_id").
		Where("role_permissions.role_id IN ?", roleIDs).
		Order(`permissions."key" ASC`).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		out[row.RoleID] = append(out[row.RoleID], row.PermKey)
	}
	return out, nil
}

func errRoleNameTaken() error {
	return errors.NewValidationFieldError("name", "a role with this name already exists in the organization", errors.ErrCodeRoleNameTaken)
}

func toValues(keys []string) []interface{} {
	values := make([]interface{}, len(keys))
	for i, k := range keys {
		values[i] = k
	}
	return values
}
