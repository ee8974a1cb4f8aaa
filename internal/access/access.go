// Package access answers "may this request proceed": it resolves the
// effective permission set of the session user and gates handlers on it.
package access

import (
	"errors"

	userDatamodel "github.com/frahmantamala/docdraft/internal/core/datamodel/user"
	"github.com/frahmantamala/docdraft/internal/core/scope"
)

// ErrNoSession is returned by a SessionResolver when the request carries no
// usable session: missing, malformed, expired, or naming an unknown user.
var ErrNoSession = errors.New("no session")

// Identity is the session user as loaded from the store for this request.
type Identity struct {
	UserID       int64  `json:"id"`
	OrgID        int64  `json:"org_id"`
	OrgName      string `json:"org_name"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Status       string `json:"status"`
	IsSuperAdmin bool   `json:"is_super_admin"`
}

func (i Identity) IsActive() bool {
	return i.Status == userDatamodel.StatusActive
}

func (i Identity) Actor() scope.Actor {
	return scope.Actor{
		UserID:       i.UserID,
		OrgID:        i.OrgID,
		IsSuperAdmin: i.IsSuperAdmin,
	}
}

type RoleRef struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
