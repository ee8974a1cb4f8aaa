package user

import (
	"context"
	"net/http"

	errors "github.com/frahmantamala/docdraft/internal"
	"github.com/frahmantamala/docdraft/internal/access"
	"github.com/frahmantamala/docdraft/internal/core/scope"
	"github.com/frahmantamala/docdraft/internal/transport"
)

type ServiceAPI interface {
	ListUsers(ctx context.Context, actor scope.Actor) ([]*User, error)
	GetUser(ctx context.Context, actor scope.Actor, id int64) (*User, error)
	CreateUser(ctx context.Context, actor scope.Actor, dto CreateUserDTO) (*User, error)
	AssignRoles(ctx context.Context, actor scope.Actor, userID int64, roleIDs []int64) (*User, error)
	SetUserStatus(ctx context.Context, actor scope.Actor, userID int64, status string) (*User, error)
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

// MeResponse is the session user with everything the guard resolved.
type MeResponse struct {
	User        access.Identity  `json:"user"`
	Roles       []access.RoleRef `json:"roles"`
	Permissions []string         `json:"permissions"`
}

// GetCurrentUser handles GET /me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	authorized, ok := access.AuthorizationFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, errors.ErrUnauthenticated)
		return
	}

	h.WriteJSON(w, http.StatusOK, MeResponse{
		User:        authorized.Identity,
		Roles:       authorized.Roles,
		Permissions: authorized.Permissions,
	})
}

// ListUsers handles GET /users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor, ok := access.ActorFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, errors.ErrUnauthenticated)
		return
	}

	users, err := h.Service.ListUsers(r.Context(), actor)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, UsersResponse{Users: users})
}

// GetUser handles GET /users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := access.ActorFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, errors.ErrUnauthenticated)
		return
	}

	id, err := h.PathID(r, "id", errors.ErrUserNotFound)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	u, err := h.Service.GetUser(r.Context(), actor, id)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, u)
}

// CreateUser handles POST /users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := access.ActorFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, errors.ErrUnauthenticated)
		return
	}

	var dto CreateUserDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}

	created, err := h.Service.CreateUser(r.Context(), actor, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, created)
}

// AssignRoles handles PUT /users/{id}/roles
func (h *Handler) AssignRoles(w http.ResponseWriter, r *http.Request) {
	actor, ok := access.ActorFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, errors.ErrUnauthenticated)
		return
	}

	id, err := h.PathID(r, "id", errors.ErrUserNotFound)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	var dto AssignRolesDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}
	if dto.RoleIDs == nil {
		h.WriteAppError(w, errors.NewValidationFieldError("role_ids", "role_ids must be an array", errors.ErrCodeRequired))
		return
	}

	updated, err := h.Service.AssignRoles(r.Context(), actor, id, dto.RoleIDs)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, updated)
}

// SetUserStatus handles PATCH /users/{id}/status
func (h *Handler) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := access.ActorFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, errors.ErrUnauthenticated)
		return
	}

	id, err := h.PathID(r, "id", errors.ErrUserNotFound)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	var dto SetStatusDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}

	updated, err := h.Service.SetUserStatus(r.Context(), actor, id, dto.Status)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, updated)
}
