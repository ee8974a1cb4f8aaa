package organization

import (
	"context"
	"net/http"

	errors "github.com/frahmantamala/docdraft/internal"
	"github.com/frahmantamala/docdraft/internal/access"
	"github.com/frahmantamala/docdraft/internal/core/scope"
	"github.com/frahmantamala/docdraft/internal/transport"
)

type ServiceAPI interface {
	ListOrganizations(ctx context.Context, actor scope.Actor) ([]*Organization, error)
	CreateOrganization(ctx context.Context, actor scope.Actor, dto CreateOrganizationDTO) (*Organization, error)
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

// ListOrganizations handles GET /organizations
func (h *Handler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	actor, ok := access.ActorFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, errors.ErrUnauthenticated)
		return
	}

	orgs, err := h.Service.ListOrganizations(r.Context(), actor)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, OrganizationsResponse{Organizations: orgs})
}

// CreateOrganization handles POST /organizations
func (h *Handler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	actor, ok := access.ActorFromContext(r.Context())
	if !ok {
		h.WriteAppError(w, errors.ErrUnauthenticated)
		return
	}

	var dto CreateOrganizationDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		h.WriteAppError(w, err)
		return
	}

	created, err := h.Service.CreateOrganization(r.Context(), actor, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, created)
}
