package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/docdraft/internal/access"
	"github.com/frahmantamala/docdraft/internal/auth"
	"github.com/frahmantamala/docdraft/internal/organization"
	"github.com/frahmantamala/docdraft/internal/permission"
	"github.com/frahmantamala/docdraft/internal/role"
	"github.com/frahmantamala/docdraft/internal/transport/middleware"
	"github.com/frahmantamala/docdraft/internal/transport/swagger"
	"github.com/frahmantamala/docdraft/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Health       *HealthHandler
	Auth         *auth.Handler
	User         *user.Handler
	Role         *role.Handler
	Permission   *permission.Handler
	Organization *organization.Handler
}

type RouterConfig struct {
	AllowedOrigins string
	MetricsEnabled bool
	MetricsPath    string
	OpenAPISpec    []byte
}

// RegisterAllRoutes mounts the API under /api/v1. Every route except login,
// ping and health goes through the guard before its body is validated.
func RegisterAllRoutes(router chi.Router, cfg RouterConfig, guard *access.Guard, validator *middleware.RequestValidator, h Handlers, logger *slog.Logger) {
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	if cfg.MetricsEnabled {
		router.Handle(cfg.MetricsPath, promhttp.Handler())
	}

	// The API document lives outside /api/v1 so the swagger UI can load it.
	router.Get(swagger.DocumentPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(cfg.OpenAPISpec)
	})
	router.Handle("/swagger/*", swagger.Handler(swagger.DocumentPath))

	validate := validator.Middleware
	anyOf := guard.Middleware

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health.Health)
		r.Get("/ping", h.Health.Ping)

		r.With(validate).Post("/auth/login", h.Auth.Login)

		r.With(guard.SessionMiddleware()).Get("/me", h.User.GetCurrentUser)

		r.With(anyOf(permission.RolesRead, permission.RolesManage)).Get("/permissions", h.Permission.ListPermissions)

		r.Route("/roles", func(rr chi.Router) {
			rr.With(anyOf(permission.RolesRead, permission.RolesManage)).Get("/", h.Role.ListRoles)
			rr.Group(func(mr chi.Router) {
				mr.Use(anyOf(permission.RolesManage), validate)
				mr.Post("/", h.Role.CreateRole)
				mr.Patch("/{id}", h.Role.UpdateRole)
				mr.Delete("/{id}", h.Role.DeleteRole)
				mr.Put("/{id}/permissions", h.Role.ReplacePermissions)
			})
		})

		r.Route("/users", func(ur chi.Router) {
			ur.Group(func(rr chi.Router) {
				rr.Use(anyOf(permission.UsersRead, permission.UsersManage))
				rr.Get("/", h.User.ListUsers)
				rr.Get("/{id}", h.User.GetUser)
			})
			ur.Group(func(mr chi.Router) {
				mr.Use(anyOf(permission.UsersManage), validate)
				mr.Post("/", h.User.CreateUser)
				mr.Put("/{id}/roles", h.User.AssignRoles)
				mr.Patch("/{id}/status", h.User.SetUserStatus)
			})
		})

		r.Route("/organizations", func(orgr chi.Router) {
			orgr.With(anyOf(permission.OrgsRead, permission.OrgsManage)).Get("/", h.Organization.ListOrganizations)
			orgr.With(anyOf(permission.OrgsManage), validate).Post("/", h.Organization.CreateOrganization)
		})
	})
}
