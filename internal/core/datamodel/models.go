package datamodel

import (
	"github.com/frahmantamala/docdraft/internal/core/datamodel/organization"
	"github.com/frahmantamala/docdraft/internal/core/datamodel/permission"
	"github.com/frahmantamala/docdraft/internal/core/datamodel/role"
	"github.com/frahmantamala/docdraft/internal/core/datamodel/user"
)

// All lists every table model in dependency order, for gorm AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&organization.Organization{},
		&user.User{},
		&permission.Permission{},
		&role.Role{},
		&role.RolePermission{},
		&role.UserRole{},
	}
}
