package permission

import (
	"context"
	"net/http"

	"github.com/frahmantamala/docdraft/internal/transport"
)

type ServiceAPI interface {
	ListPermissions(ctx context.Context) ([]Permission, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// ListPermissions handles GET /permissions
func (h *Handler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := h.Service.ListPermissions(r.Context())
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, PermissionsResponse{
		Permissions: perms,
		Groups:      Grouped(perms),
	})
}
