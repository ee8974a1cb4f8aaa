package permission

type PermissionsResponse struct {
	Permissions []Permission            `json:"permissions"`
	Groups      map[string][]Permission `json:"groups"`
}
