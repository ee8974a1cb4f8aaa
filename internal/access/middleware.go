package access

import (
	"context"
	"net/http"

	"github.com/frahmantamala/docdraft/internal/core/scope"
	"github.com/frahmantamala/docdraft/internal/transport"
	"github.com/frahmantamala/docdraft/pkg/logger"
)

type ctxKey string

const authorizedKey ctxKey = "access.authorized"

func ContextWithAuthorization(ctx context.Context, a Authorized) context.Context {
	return context.WithValue(ctx, authorizedKey, a)
}

func AuthorizationFromContext(ctx context.Context) (Authorized, bool) {
	a, ok := ctx.Value(authorizedKey).(Authorized)
	return a, ok
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	a, ok := AuthorizationFromContext(ctx)
	return a.Identity, ok
}

// ActorFromContext is what services receive as the acting user.
func ActorFromContext(ctx context.Context) (scope.Actor, bool) {
	a, ok := AuthorizationFromContext(ctx)
	if !ok {
		return scope.Actor{}, false
	}
	return a.Identity.Actor(), true
}

// Middleware lets a request through when the session user holds any of keys.
func (g *Guard) Middleware(keys ...string) func(http.Handler) http.Handler {
	return g.middleware(func(r *http.Request) Decision {
		return g.RequireAnyPermission(r, keys...)
	})
}

// SessionMiddleware only requires an active session.
func (g *Guard) SessionMiddleware() func(http.Handler) http.Handler {
	return g.middleware(g.RequireSession)
}

func (g *Guard) middleware(decide func(*http.Request) Decision) func(http.Handler) http.Handler {
	base := transport.NewBaseHandler(g.logger)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch d := decide(r).(type) {
			case Authorized:
				ctx := ContextWithAuthorization(r.Context(), d)
				ctx = logger.With(ctx, "user_id", d.Identity.UserID, "org_id", d.Identity.OrgID)
				next.ServeHTTP(w, r.WithContext(ctx))
			case Rejected:
				base.WriteAppError(w, d.AppError())
			}
		})
	}
}
