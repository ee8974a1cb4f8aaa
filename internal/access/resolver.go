package access

import (
	"context"
	"fmt"
	"sort"
)

// Store reads the assignment graph. Implementations never cache.
type Store interface {
	AllPermissionKeys(ctx context.Context) ([]string, error)
	PermissionKeysForUser(ctx context.Context, userID int64) ([]string, error)
	RolesForUser(ctx context.Context, userID int64) ([]RoleRef, error)
}

type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// ResolvePermissions returns the sorted, de-duplicated permission keys of a
// user. A super-admin holds every key present in the catalog right now,
// whether or not any role grants it.
func (r *Resolver) ResolvePermissions(ctx context.Context, userID int64, isSuperAdmin bool) ([]string, error) {
	var (
		keys []string
		err  error
	)
	if isSuperAdmin {
		keys, err = r.store.AllPermissionKeys(ctx)
	} else {
		keys, err = r.store.PermissionKeysForUser(ctx, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve permissions for user %d: %w", userID, err)
	}
	return normalize(keys), nil
}

// ResolveRoles returns the roles assigned to a user ordered by name.
func (r *Resolver) ResolveRoles(ctx context.Context, userID int64) ([]RoleRef, error) {
	roles, err := r.store.RolesForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve roles for user %d: %w", userID, err)
	}
	if roles == nil {
		roles = []RoleRef{}
	}
	return roles, nil
}

func normalize(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
