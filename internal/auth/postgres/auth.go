package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/frahmantamala/docdraft/internal/access"
	"github.com/frahmantamala/docdraft/internal/auth"
	"github.com/jmoiron/sqlx"
)

const (
	credentialsByEmailQuery = `SELECT id, password_hash, status FROM users WHERE email = ?`

	identityByIDQuery = `SELECT u.id, u.org_id, o.name AS org_name, u.name, u.email, u.status, u.is_super_admin
		FROM users u
		JOIN organizations o ON o.id = u.org_id
		WHERE u.id = ?`
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

var (
	_ auth.CredentialsRepository = (*Repository)(nil)
	_ auth.IdentityRepository    = (*Repository)(nil)
)

type credentialsRow struct {
	ID           int64  `db:"id"`
	PasswordHash string `db:"password_hash"`
	Status       string `db:"status"`
}

type identityRow struct {
	ID           int64  `db:"id"`
	OrgID        int64  `db:"org_id"`
	OrgName      string `db:"org_name"`
	Name         string `db:"name"`
	Email        string `db:"email"`
	Status       string `db:"status"`
	IsSuperAdmin bool   `db:"is_super_admin"`
}

func (r *Repository) GetCredentialsByEmail(ctx context.Context, email string) (*auth.Credentials, error) {
	var row credentialsRow
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(credentialsByEmailQuery), email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrUnknownUser
		}
		return nil, err
	}
	return &auth.Credentials{
		UserID:       row.ID,
		PasswordHash: row.PasswordHash,
		Status:       row.Status,
	}, nil
}

// GetIdentity reads the user on every call so status and super-admin changes
// apply to the next request.
func (r *Repository) GetIdentity(ctx context.Context, userID int64) (*access.Identity, error) {
	var row identityRow
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(identityByIDQuery), userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrUnknownUser
		}
		return nil, err
	}
	return &access.Identity{
		UserID:       row.ID,
		OrgID:        row.OrgID,
		OrgName:      row.OrgName,
		Name:         row.Name,
		Email:        row.Email,
		Status:       row.Status,
		IsSuperAdmin: row.IsSuperAdmin,
	}, nil
}
