package access

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
)

// SessionResolver loads the session user of a request. It returns
// ErrNoSession when there is none.
type SessionResolver interface {
	ResolveSession(r *http.Request) (*Identity, error)
}

// PermissionResolver is satisfied by *Resolver.
type PermissionResolver interface {
	ResolvePermissions(ctx context.Context, userID int64, isSuperAdmin bool) ([]string, error)
	ResolveRoles(ctx context.Context, userID int64) ([]RoleRef, error)
}

// Guard decides every request from scratch. It keeps no per-user state, so a
// role or status change is visible on the very next request.
type Guard struct {
	sessions SessionResolver
	resolver PermissionResolver
	logger   *slog.Logger
}

func NewGuard(sessions SessionResolver, resolver PermissionResolver, logger *slog.Logger) *Guard {
	return &Guard{
		sessions: sessions,
		resolver: resolver,
		logger:   logger,
	}
}

// RequireAnyPermission authorizes the request when the session user holds at
// least one of keys. With no keys nothing is granted.
func (g *Guard) RequireAnyPermission(r *http.Request, keys ...string) Decision {
	authorized, rejected := g.authenticate(r)
	if rejected != nil {
		return *rejected
	}

	if !holdsAny(authorized.Permissions, keys) {
		g.logger.Warn("access denied",
			"user_id", authorized.Identity.UserID,
			"required_any", keys,
			"path", r.URL.Path)
		recordDecision(outcomeForbidden)
		return rejectForbidden
	}

	recordDecision(outcomeAuthorized)
	return authorized
}

// RequireSession authorizes any active session user, whatever they hold.
func (g *Guard) RequireSession(r *http.Request) Decision {
	authorized, rejected := g.authenticate(r)
	if rejected != nil {
		return *rejected
	}
	recordDecision(outcomeAuthorized)
	return authorized
}

func (g *Guard) authenticate(r *http.Request) (Authorized, *Rejected) {
	ctx := r.Context()

	identity, err := g.sessions.ResolveSession(r)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			recordDecision(outcomeUnauthenticated)
			return Authorized{}, &rejectUnauthenticated
		}
		g.logger.Error("session lookup failed", "error", err)
		recordDecision(outcomeError)
		return Authorized{}, &rejectUnavailable
	}
	if identity == nil {
		recordDecision(outcomeUnauthenticated)
		return Authorized{}, &rejectUnauthenticated
	}

	if !identity.IsActive() {
		g.logger.Warn("inactive user rejected", "user_id", identity.UserID, "status", identity.Status)
		recordDecision(outcomeInactive)
		return Authorized{}, &rejectInactive
	}

	perms, err := g.resolver.ResolvePermissions(ctx, identity.UserID, identity.IsSuperAdmin)
	if err != nil {
		g.logger.Error("permission resolution failed", "user_id", identity.UserID, "error", err)
		recordDecision(outcomeError)
		return Authorized{}, &rejectUnavailable
	}

	roles, err := g.resolver.ResolveRoles(ctx, identity.UserID)
	if err != nil {
		g.logger.Error("role resolution failed", "user_id", identity.UserID, "error", err)
		recordDecision(outcomeError)
		return Authorized{}, &rejectUnavailable
	}

	return Authorized{
		Identity:    *identity,
		Roles:       roles,
		Permissions: perms,
	}, nil
}

func holdsAny(held, required []string) bool {
	for _, want := range required {
		for _, have := range held {
			if have == want {
				return true
			}
		}
	}
	return false
}
