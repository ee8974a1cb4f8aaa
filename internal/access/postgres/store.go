package postgres

import (
	"context"

	"github.com/frahmantamala/docdraft/internal/access"
	"github.com/jmoiron/sqlx"
)

const (
	allPermissionKeysQuery = `SELECT "key" FROM permissions ORDER BY "key"`

	userPermissionKeysQuery = `SELECT DISTINCT p."key"
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		JOIN user_roles ur ON ur.role_id = rp.role_id
		WHERE ur.user_id = ?
		ORDER BY p."key"`

	userRolesQuery = `SELECT r.id, r.name
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = ?
		ORDER BY r.name, r.id`
)

// Store reads the assignment graph with plain SQL on every call.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

var _ access.Store = (*Store)(nil)

func (s *Store) AllPermissionKeys(ctx context.Context) ([]string, error) {
	keys := []string{}
	if err := s.db.SelectContext(ctx, &keys, allPermissionKeysQuery); err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *Store) PermissionKeysForUser(ctx context.Context, userID int64) ([]string, error) {
	keys := []string{}
	if err := s.db.SelectContext(ctx, &keys, s.db.Rebind(userPermissionKeysQuery), userID); err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *Store) RolesForUser(ctx context.Context, userID int64) ([]access.RoleRef, error) {
	roles := []access.RoleRef{}
	if err := s.db.SelectContext(ctx, &roles, s.db.Rebind(userRolesQuery), userID); err != nil {
		return nil, err
	}
	return roles, nil
}
