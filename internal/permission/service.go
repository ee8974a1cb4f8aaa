package permission

import (
	"context"
	"log/slog"

	errors "github.com/frahmantamala/docdraft/internal"
	permissionDatamodel "github.com/frahmantamala/docdraft/internal/core/datamodel/permission"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*permissionDatamodel.Permission, error)
	Ensure(ctx context.Context, perms []*permissionDatamodel.Permission) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ListPermissions returns the catalog ordered by key.
func (s *Service) ListPermissions(ctx context.Context) ([]Permission, error) {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to list permissions", "error", err)
		return nil, errors.NewInternalError("failed to list permissions", err)
	}

	perms := make([]Permission, 0, len(rows))
	for _, row := range rows {
		perms = append(perms, FromDataModel(row))
	}
	return perms, nil
}

// SeedBuiltins installs BuiltinPermissions. Running it twice changes nothing.
func (s *Service) SeedBuiltins(ctx context.Context) error {
	rows := make([]*permissionDatamodel.Permission, 0, len(BuiltinPermissions))
	for _, p := range BuiltinPermissions {
		rows = append(rows, ToDataModel(p))
	}
	if err := s.repo.Ensure(ctx, rows); err != nil {
		s.logger.Error("failed to seed permission catalog", "error", err)
		return err
	}
	s.logger.Info("permission catalog seeded", "count", len(rows))
	return nil
}

// Grouped buckets perms by resource, keeping their order.
func Grouped(perms []Permission) map[string][]Permission {
	groups := make(map[string][]Permission)
	for _, p := range perms {
		groups[p.Resource()] = append(groups[p.Resource()], p)
	}
	return groups
}
