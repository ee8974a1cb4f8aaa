package user

import (
	"time"

	"github.com/frahmantamala/docdraft/internal/access"
	userDatamodel "github.com/frahmantamala/docdraft/internal/core/datamodel/user"
)

type User struct {
	ID           int64            `json:"id"`
	OrgID        int64            `json:"org_id"`
	Name         string           `json:"name"`
	Email        string           `json:"email"`
	PasswordHash string           `json:"-"`
	Status       string           `json:"status"`
	IsSuperAdmin bool             `json:"is_super_admin"`
	Roles        []access.RoleRef `json:"roles"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func (u *User) IsActive() bool {
	return u.Status == userDatamodel.StatusActive
}

func FromDataModel(u *userDatamodel.User, roles []access.RoleRef) *User {
	if roles == nil {
		roles = []access.RoleRef{}
	}
	return &User{
		ID:           u.ID,
		OrgID:        u.OrgID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Status:       u.Status,
		IsSuperAdmin: u.IsSuperAdmin,
		Roles:        roles,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
