package role

import (
	"context"
	"log/slog"

	roleDatamodel "github.com/frahmantamala/docdraft/internal/core/datamodel/role"
	"github.com/frahmantamala/docdraft/internal/core/events"
	"github.com/frahmantamala/docdraft/internal/core/scope"
)

// RepositoryAPI runs every mutation as a single transaction. A role outside
// the predicate is reported exactly like a missing one.
type RepositoryAPI interface {
	List(ctx context.Context, pred scope.Predicate) ([]*Role, error)
	GetByID(ctx context.Context, pred scope.Predicate, id int64) (*Role, error)
	Create(ctx context.Context, r *roleDatamodel.Role, permissionKeys []string) (*Role, error)
	Update(ctx context.Context, pred scope.Predicate, id int64, changes UpdateRoleDTO) (*Role, error)
	Delete(ctx context.Context, pred scope.Predicate, id int64) (*Role, error)
	ReplacePermissions(ctx context.Context, pred scope.Predicate, id int64, permissionKeys []string) (*Role, error)
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

func (s *Service) ListRoles(ctx context.Context, actor scope.Actor) ([]*Role, error) {
	roles, err := s.repo.List(ctx, scope.For(actor))
	if err != nil {
		s.logger.Error("failed to list roles", "actor_id", actor.UserID, "error", err)
		return nil, err
	}
	return roles, nil
}

func (s *Service) GetRole(ctx context.Context, actor scope.Actor, id int64) (*Role, error) {
	return s.repo.GetByID(ctx, scope.For(actor), id)
}

// CreateRole creates a role in the actor's organization, or in dto.OrgID
// when the actor is a super-admin, seeded with the catalog keys among
// dto.Permissions.
func (s *Service) CreateRole(ctx context.Context, actor scope.Actor, dto CreateRoleDTO) (*Role, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	orgID := scope.For(actor).ResolveTargetOrg(actor, dto.OrgID)
	created, err := s.repo.Create(ctx, &roleDatamodel.Role{
		OrgID:       orgID,
		Name:        dto.Name,
		Description: dto.Description,
	}, dto.Permissions)
	if err != nil {
		s.logger.Warn("role creation failed", "actor_id", actor.UserID, "org_id", orgID, "error", err)
		return nil, err
	}

	s.logger.Info("role created", "role_id", created.ID, "org_id", created.OrgID, "actor_id", actor.UserID)
	s.publish(ctx, events.NewRoleCreatedEvent(actor.UserID, created.OrgID, created.ID, created.Name, created.Permissions))
	return created, nil
}

func (s *Service) UpdateRole(ctx context.Context, actor scope.Actor, id int64, dto UpdateRoleDTO) (*Role, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, scope.For(actor), id, dto)
	if err != nil {
		return nil, err
	}

	s.logger.Info("role updated", "role_id", id, "actor_id", actor.UserID)
	s.publish(ctx, events.NewRoleUpdatedEvent(actor.UserID, updated.OrgID, updated.ID, updated.Name))
	return updated, nil
}

// DeleteRole removes the role together with its grants and assignments.
func (s *Service) DeleteRole(ctx context.Context, actor scope.Actor, id int64) error {
	deleted, err := s.repo.Delete(ctx, scope.For(actor), id)
	if err != nil {
		return err
	}

	s.logger.Info("role deleted", "role_id", id, "actor_id", actor.UserID)
	s.publish(ctx, events.NewRoleDeletedEvent(actor.UserID, deleted.OrgID, deleted.ID))
	return nil
}

// ReplacePermissions makes the role hold exactly the catalog keys among
// keys. Unknown keys are ignored and duplicates collapse.
func (s *Service) ReplacePermissions(ctx context.Context, actor scope.Actor, id int64, keys []string) (*Role, error) {
	updated, err := s.repo.ReplacePermissions(ctx, scope.For(actor), id, keys)
	if err != nil {
		return nil, err
	}

	s.logger.Info("role permissions replaced", "role_id", id, "count", len(updated.Permissions), "actor_id", actor.UserID)
	s.publish(ctx, events.NewRolePermissionsReplacedEvent(actor.UserID, updated.OrgID, updated.ID, updated.Permissions))
	return updated, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
