package role

import (
	"strings"

	errors "github.com/frahmantamala/docdraft/internal"
	"github.com/frahmantamala/docdraft/internal/core/common/validation"
)

const (
	maxNameLength        = 100
	maxDescriptionLength = 500
)

type CreateRoleDTO struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	OrgID       *int64   `json:"org_id,omitempty"`
	Permissions []string `json:"permissions"`
}

func (d *CreateRoleDTO) Validate() *errors.AppError {
	d.Name = strings.TrimSpace(d.Name)

	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(maxNameLength)
	v.Field("description", d.Description).MaxLength(maxDescriptionLength)
	return v.Validate()
}

// UpdateRoleDTO changes only the fields that are present.
type UpdateRoleDTO struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (d *UpdateRoleDTO) Validate() *errors.AppError {
	if d.Name != nil {
		trimmed := strings.TrimSpace(*d.Name)
		d.Name = &trimmed
	}

	v := validation.NewValidator()
	v.Field("name", d.Name).NotBlank().MaxLength(maxNameLength)
	v.Field("description", d.Description).MaxLength(maxDescriptionLength)
	return v.Validate()
}

type ReplacePermissionsDTO struct {
	Permissions []string `json:"permissions"`
}

type RolesResponse struct {
	Roles []*Role `json:"roles"`
}
