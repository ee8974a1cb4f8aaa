package access

import (
	"net/http"

	errors "github.com/frahmantamala/docdraft/internal"
)

// Decision is either Authorized or Rejected. Callers switch on the concrete
// type; there is no third outcome.
type Decision interface {
	decision()
}

type Authorized struct {
	Identity    Identity
	Roles       []RoleRef
	Permissions []string
}

type Rejected struct {
	Status int
	Reason string
}

func (Authorized) decision() {}
func (Rejected) decision()   {}

// HasPermission reports whether key is in the resolved set.
func (a Authorized) HasPermission(key string) bool {
	for _, p := range a.Permissions {
		if p == key {
			return true
		}
	}
	return false
}

var (
	rejectUnauthenticated = Rejected{Status: http.StatusUnauthorized, Reason: "authentication required"}
	rejectInactive        = Rejected{Status: http.StatusForbidden, Reason: "user account is inactive"}
	rejectForbidden       = Rejected{Status: http.StatusForbidden, Reason: "insufficient permissions"}
	rejectUnavailable     = Rejected{Status: http.StatusInternalServerError, Reason: "unable to complete request"}
)

// AppError maps the rejection onto the shared error envelope. The body never
// names the permission that was missing.
func (r Rejected) AppError() *errors.AppError {
	switch r.Status {
	case http.StatusUnauthorized:
		return errors.ErrUnauthenticated
	case http.StatusForbidden:
		if r == rejectInactive {
			return errors.ErrUserInactive
		}
		return errors.ErrAccessDenied
	default:
		return errors.NewInternalError("Unable to complete request", nil)
	}
}
