package role

import (
	"context"
	"net/http"

	errors "github.com/frahmantamala/docdraft/internal"
	"github.com/frahmantamala/docdraft/internal/access"
	"github.com/frahmantamala/docdraft/internal/core/scope"
	"github.com/frahmantamala/docdraft/internal/transport"
)

type ServiceAPI interface {
	ListRoles(ctx context.Context, actor scope.Actor) ([]*Role, error)
	CreateRole(ctx context.Context, actor scope.Actor, dto CreateRoleDTO) (*Role, error)
	UpdateRole(ctx context.Context, actor scope.Actor, id int64, dto UpdateRoleDTO) (*Role, error)
	DeleteRole(ctx context.Context, actor scope.Actor, id int64) error
	ReplacePermissions(ctx context.Context, actor scope.Actor, id int64, keys []string) (*Role, error)
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

// ListRoles handles GET /roles
func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	actor, ok := access.ActorFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, errors.ErrUnauthenticated)
		return
	}

	roles, err := h.Service.ListRoles(r.Context(), actor)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, RolesResponse{Roles: roles})
}

// CreateRole handles POST /roles
func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := access.ActorFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, errors.ErrUnauthenticated)
		return
	}

	var dto CreateRoleDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}

	created, err := h.Service.CreateRole(r.Context(), actor, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, created)
}

// UpdateRole handles PATCH /roles/{id}
func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := access.ActorFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, errors.ErrUnauthenticated)
		return
	}

	id, err := h.PathID(r, "id", errors.ErrRoleNotFound)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	var dto UpdateRoleDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}

	updated, err := h.Service.UpdateRole(r.Context(), actor, id, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, updated)
}

// DeleteRole handles DELETE /roles/{id}
func (h *Handler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := access.ActorFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, errors.ErrUnauthenticated)
		return
	}

	id, err := h.PathID(r, "id", errors.ErrRoleNotFound)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	if err := h.Service.DeleteRole(r.Context(), actor, id); err != nil {
		h.WriteAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReplacePermissions handles PUT /roles/{id}/permissions
func (h *Handler) ReplacePermissions(w http.ResponseWriter, r *http.Request) {
	actor, ok := access.ActorFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, errors.ErrUnauthenticated)
		return
	}

	id, err := h.PathID(r, "id", errors.ErrRoleNotFound)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	var dto ReplacePermissionsDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}
	if dto.Permissions == nil {
		h.WriteAppError(w, errors.NewValidationFieldError("permissions", "permissions must be an array", errors.ErrCodeRequired))
		return
	}

	updated, err := h.Service.ReplacePermissions(r.Context(), actor, id, dto.Permissions)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, updated)
}
