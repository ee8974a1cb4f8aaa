package organization

import (
	"strings"

	errors "github.com/frahmantamala/docdraft/internal"
	"github.com/frahmantamala/docdraft/internal/core/common/validation"
)

type CreateOrganizationDTO struct {
	Name string `json:"name"`
}

func (d *CreateOrganizationDTO) Validate() *errors.AppError {
	d.Name = strings.TrimSpace(d.Name)

	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(200)
	return v.Validate()
}

type OrganizationsResponse struct {
	Organizations []*Organization `json:"organizations"`
}
