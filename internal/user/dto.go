package user

import (
	"strings"

	errors "github.com/frahmantamala/docdraft/internal"
	"github.com/frahmantamala/docdraft/internal/core/common/validation"
	userDatamodel "github.com/frahmantamala/docdraft/internal/core/datamodel/user"
)

const minPasswordLength = 8

// CreateUserDTO has no super-admin field: that flag cannot be granted
// through the API.
type CreateUserDTO struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	RoleIDs  []int64 `json:"role_ids"`
	OrgID    *int64  `json:"org_id,omitempty"`
}

func (d *CreateUserDTO) Validate() *errors.AppError {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))

	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(100)
	v.Field("email", d.Email).Required().Email().MaxLength(254)
	v.Field("password", d.Password).Required().MinLength(minPasswordLength).MaxLength(72)
	return v.Validate()
}

type AssignRolesDTO struct {
	RoleIDs []int64 `json:"role_ids"`
}

type SetStatusDTO struct {
	Status string `json:"status"`
}

func (d *SetStatusDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("status", d.Status).OneOf(errors.ErrCodeInvalidStatus, userDatamodel.StatusActive, userDatamodel.StatusDisabled)
	return v.Validate()
}

type UsersResponse struct {
	Users []*User `json:"users"`
}
