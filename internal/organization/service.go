package organization

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/docdraft/internal"
	"github.com/frahmantamala/docdraft/internal/core/events"
	"github.com/frahmantamala/docdraft/internal/core/scope"
)

type RepositoryAPI interface {
	List(ctx context.Context, pred scope.Predicate) ([]*Organization, error)
	Create(ctx context.Context, name string) (*Organization, error)
	Bootstrap(ctx context.Context, name string) (*Organization, error)
}

type Service struct {
	repo      RepositoryAPI
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) ListOrganizations(ctx context.Context, actor scope.Actor) ([]*Organization, error) {
	orgs, err := s.repo.List(ctx, scope.For(actor))
	if err != nil {
		s.logger.Error("failed to list organizations", "actor_id", actor.UserID, "error", err)
		return nil, err
	}
	return orgs, nil
}

// CreateOrganization is reserved to super-admins, whatever permissions the
// actor holds.
func (s *Service) CreateOrganization(ctx context.Context, actor scope.Actor, dto CreateOrganizationDTO) (*Organization, error) {
	if !actor.IsSuperAdmin {
		s.logger.Warn("organization creation denied", "actor_id", actor.UserID)
		return nil, errors.ErrAccessDenied
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, dto.Name)
	if err != nil {
		s.logger.Error("failed to create organization", "actor_id", actor.UserID, "error", err)
		return nil, err
	}

	s.logger.Info("organization created", "org_id", created.ID, "actor_id", actor.UserID)
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.NewOrganizationCreatedEvent(actor.UserID, created.ID, created.Name)); err != nil {
			s.logger.Warn("failed to publish event", "event_type", events.EventTypeOrganizationCreated, "error", err)
		}
	}
	return created, nil
}
