package auth

import (
	"strings"

	errors "github.com/frahmantamala/docdraft/internal"
	"github.com/frahmantamala/docdraft/internal/core/common/validation"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d *LoginDTO) Validate() *errors.AppError {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))

	v := validation.NewValidator()
	v.Field("email", d.Email).Required()
	v.Field("password", d.Password).Required()
	return v.Validate()
}
