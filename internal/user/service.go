package user

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/docdraft/internal"
	userDatamodel "github.com/frahmantamala/docdraft/internal/core/datamodel/user"
	"github.com/frahmantamala/docdraft/internal/core/events"
	"github.com/frahmantamala/docdraft/internal/core/scope"
)

type RepositoryAPI interface {
	List(ctx context.Context, pred scope.Predicate) ([]*User, error)
	GetByID(ctx context.Context, pred scope.Predicate, id int64) (*User, error)
	Create(ctx context.Context, u *userDatamodel.User, pred scope.Predicate, roleIDs []int64) (*User, error)
	AssignRoles(ctx context.Context, pred scope.Predicate, userID int64, roleIDs []int64) (*User, error)
	SetStatus(ctx context.Context, pred scope.Predicate, userID int64, status string) (*User, error)
}

// PasswordHasher turns a plaintext password into a storable digest.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

type Service struct {
	repo      RepositoryAPI
	hasher    PasswordHasher
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, hasher PasswordHasher, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		hasher:    hasher,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) ListUsers(ctx context.Context, actor scope.Actor) ([]*User, error) {
	users, err := s.repo.List(ctx, scope.For(actor))
	if err != nil {
		s.logger.Error("failed to list users", "actor_id", actor.UserID, "error", err)
		return nil, err
	}
	return users, nil
}

func (s *Service) GetUser(ctx context.Context, actor scope.Actor, id int64) (*User, error) {
	return s.repo.GetByID(ctx, scope.For(actor), id)
}

// CreateUser registers an active, non-super-admin user and assigns the
// requested roles that belong to the new user's organization.
func (s *Service) CreateUser(ctx context.Context, actor scope.Actor, dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(dto.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, errors.NewInternalError("failed to create user", err)
	}

	pred := scope.For(actor)
	created, err := s.repo.Create(ctx, &userDatamodel.User{
		OrgID:        pred.ResolveTargetOrg(actor, dto.OrgID),
		Name:         dto.Name,
		Email:        dto.Email,
		PasswordHash: hash,
		Status:       userDatamodel.StatusActive,
	}, pred, dto.RoleIDs)
	if err != nil {
		s.logger.Warn("user creation failed", "actor_id", actor.UserID, "error", err)
		return nil, err
	}

	s.logger.Info("user created", "user_id", created.ID, "org_id", created.OrgID, "actor_id", actor.UserID)
	s.publish(ctx, events.NewUserCreatedEvent(actor.UserID, created.OrgID, created.ID, created.Email, roleIDs(created)))
	return created, nil
}

// AssignRoles replaces the roles of a user. Role ids outside the user's
// organization, or outside the actor's scope, are dropped without error.
func (s *Service) AssignRoles(ctx context.Context, actor scope.Actor, userID int64, ids []int64) (*User, error) {
	updated, err := s.repo.AssignRoles(ctx, scope.For(actor), userID, ids)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user roles assigned", "user_id", userID, "requested", len(ids), "assigned", len(updated.Roles), "actor_id", actor.UserID)
	s.publish(ctx, events.NewUserRolesAssignedEvent(actor.UserID, updated.OrgID, updated.ID, roleIDs(updated)))
	return updated, nil
}

func (s *Service) SetUserStatus(ctx context.Context, actor scope.Actor, userID int64, status string) (*User, error) {
	dto := SetStatusDTO{Status: status}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.SetStatus(ctx, scope.For(actor), userID, status)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user status changed", "user_id", userID, "status", status, "actor_id", actor.UserID)
	s.publish(ctx, events.NewUserStatusChangedEvent(actor.UserID, updated.OrgID, updated.ID, status))
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

func roleIDs(u *User) []int64 {
	ids := make([]int64, len(u.Roles))
	for i, r := range u.Roles {
		ids[i] = r.ID
	}
	return ids
}
