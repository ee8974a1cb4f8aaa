package permission

import (
	"sort"
	"strings"

	permissionDatamodel "github.com/frahmantamala/docdraft/internal/core/datamodel/permission"
)

// Permission keys are "<resource>:<action>".
const (
	UsersRead   = "users:read"
	UsersManage = "users:manage"
	RolesRead   = "roles:read"
	RolesManage = "roles:manage"
	OrgsRead    = "orgs:read"
	OrgsManage  = "orgs:manage"
	DocsRead    = "docs:read"
	DocsWrite   = "docs:write"
	DocsDelete  = "docs:delete"
	DocsShare   = "docs:share"
)

type Permission struct {
	ID          int64  `json:"id"`
	Key         string `json:"key"`
	Description string `json:"description"`
}

// Resource is the part of the key before the colon.
func (p Permission) Resource() string {
	resource, _, _ := strings.Cut(p.Key, ":")
	return resource
}

// BuiltinPermissions is the catalog installed by the seeder. No runtime API
// adds to it.
var BuiltinPermissions = []Permission{
	{Key: UsersRead, Description: "View users of the organization"},
	{Key: UsersManage, Description: "Create users, change their status and assign roles"},
	{Key: RolesRead, Description: "View roles and the permission catalog"},
	{Key: RolesManage, Description: "Create, edit and delete roles"},
	{Key: OrgsRead, Description: "View organizations"},
	{Key: OrgsManage, Description: "Create organizations"},
	{Key: DocsRead, Description: "Open documents"},
	{Key: DocsWrite, Description: "Create and edit documents"},
	{Key: DocsDelete, Description: "Delete documents"},
	{Key: DocsShare, Description: "Share documents with other users"},
}

func BuiltinKeys() []string {
	keys := make([]string, 0, len(BuiltinPermissions))
	for _, p := range BuiltinPermissions {
		keys = append(keys, p.Key)
	}
	sort.Strings(keys)
	return keys
}

func FromDataModel(p *permissionDatamodel.Permission) Permission {
	return Permission{
		ID:          p.ID,
		Key:         p.Key,
		Description: p.Description,
	}
}

func ToDataModel(p Permission) *permissionDatamodel.Permission {
	return &permissionDatamodel.Permission{
		ID:          p.ID,
		Key:         p.Key,
		Description: p.Description,
	}
}
