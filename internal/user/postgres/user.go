package postgres

import (
	"context"
	stderrors "errors"

	errors "github.com/frahmantamala/docdraft/internal"
	"github.com/frahmantamala/docdraft/internal/access"
	"github.com/frahmantamala/docdraft/internal/core/common/txn"
	organizationDatamodel "github.com/frahmantamala/docdraft/internal/core/datamodel/organization"
	roleDatamodel "github.com/frahmantamala/docdraft/internal/core/datamodel/role"
	userDatamodel "github.com/frahmantamala/docdraft/internal/core/datamodel/user"
	"github.com/frahmantamala/docdraft/internal/core/scope"
	"github.com/frahmantamala/docdraft/internal/user"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	usersTable = "users"
	rolesTable = "roles"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context, pred scope.Predicate) ([]*user.User, error) {
	db := r.db.WithContext(ctx)

	var rows []*userDatamodel.User
	err := pred.Apply(db.Model(&userDatamodel.User{}), usersTable).
		Order("users.name ASC, users.id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	roles, err := rolesByUser(db, ids)
	if err != nil {
		return nil, err
	}

	users := make([]*user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, user.FromDataModel(row, roles[row.ID]))
	}
	return users, nil
}

func (r *UserRepository) GetByID(ctx context.Context, pred scope.Predicate, id int64) (*user.User, error) {
	db := r.db.WithContext(ctx)
	row, err := findScoped(db, pred, id)
	if err != nil {
		return nil, err
	}
	return withRoles(db, row)
}

// Create inserts the user and its initial role assignment in one
// transaction. The super-admin flag is always stored as false.
func (r *UserRepository) Create(ctx context.Context, row *userDatamodel.User, pred scope.Predicate, roleIDs []int64) (*user.User, error) {
	row.IsSuperAdmin = false

	var created *user.User
	err := txn.Run(ctx, r.db, func(tx *gorm.DB) error {
		var orgCount int64
		if err := tx.Model(&organizationDatamodel.Organization{}).Where("id = ?", row.OrgID).Count(&orgCount).Error; err != nil {
			return err
		}
		if orgCount == 0 {
			return errors.ErrOrganizationNotFound
		}

		if err := tx.Omit("is_super_admin").Create(row).Error; err != nil {
			if txn.IsUniqueViolation(err) {
				return errors.NewValidationFieldError("email", "a user with this email already exists", errors.ErrCodeEmailTaken)
			}
			return err
		}

		if err := assignRoles(tx, pred, row, roleIDs); err != nil {
			return err
		}

		var err error
		created, err = withRoles(tx, row)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// AssignRoles replaces the user's roles. The scope check locks the user row,
// and the delete and insert run under that lock in the same transaction.
func (r *UserRepository) AssignRoles(ctx context.Context, pred scope.Predicate, userID int64, roleIDs []int64) (*user.User, error) {
	var updated *user.User
	err := txn.Run(ctx, r.db, func(tx *gorm.DB) error {
		row, err := lockScoped(tx, pred, userID)
		if err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&roleDatamodel.UserRole{}).Error; err != nil {
			return err
		}
		if err := assignRoles(tx, pred, row, roleIDs); err != nil {
			return err
		}
		updated, err = withRoles(tx, row)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *UserRepository) SetStatus(ctx context.Context, pred scope.Predicate, userID int64, status string) (*user.User, error) {
	var updated *user.User
	err := txn.Run(ctx, r.db, func(tx *gorm.DB) error {
		row, err := lockScoped(tx, pred, userID)
		if err != nil {
			return err
		}
		if err := tx.Model(row).Update("status", status).Error; err != nil {
			return err
		}
		row.Status = status
		updated, err = withRoles(tx, row)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func findScoped(db *gorm.DB, pred scope.Predicate, id int64) (*userDatamodel.User, error) {
	var row userDatamodel.User
	err := pred.Apply(db.Model(&userDatamodel.User{}), usersTable).
		Where("users.id = ?", id).
		First(&row).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}
	return &row, nil
}

// lockScoped is findScoped holding a row lock until the transaction ends, so
// concurrent writers of the same user run one after the other.
func lockScoped(tx *gorm.DB, pred scope.Predicate, id int64) (*userDatamodel.User, error) {
	return findScoped(tx.Clauses(clause.Locking{Strength: "UPDATE"}), pred, id)
}

// assignRoles keeps only ids of roles in the target user's organization that
// the actor can also see, then inserts them, skipping existing pairs.
func assignRoles(tx *gorm.DB, pred scope.Predicate, target *userDatamodel.User, roleIDs []int64) error {
	if len(roleIDs) == 0 {
		return nil
	}

	var allowed []int64
	err := pred.Apply(tx.Model(&roleDatamodel.Role{}), rolesTable).
		Where("roles.id IN ?", roleIDs).
		Where("roles.org_id = ?", target.OrgID).
		Pluck("roles.id", &allowed).Error
	if err != nil {
		return err
	}
	if len(allowed) == 0 {
		return nil
	}

	assignments := make([]roleDatamodel.UserRole, 0, len(allowed))
	for _, id := range allowed {
		assignments = append(assignments, roleDatamodel.UserRole{UserID: target.ID, RoleID: id})
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&assignments).Error
}

func withRoles(db *gorm.DB, row *userDatamodel.User) (*user.User, error) {
	roles, err := rolesByUser(db, []int64{row.ID})
	if err != nil {
		return nil, err
	}
	return user.FromDataModel(row, roles[row.ID]), nil
}

func rolesByUser(db *gorm.DB, userIDs []int64) (map[int64][]access.RoleRef, error) {
	out := make(map[int64][]access.RoleRef, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		UserID int64
		ID     int64
		Name   string
	}
	err := db.Table("user_roles").
		Select("user_roles.user_id AS user_id, roles.id AS id, roles.name AS name").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("user_roles.user_id IN ?", userIDs).
		Order("roles.name ASC, roles.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		out[row.UserID] = append(out[row.UserID], access.RoleRef{ID: row.ID, Name: row.Name})
	}
	return out, nil
}
