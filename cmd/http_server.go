package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/docdraft/api"
	"github.com/frahmantamala/docdraft/internal"
	"github.com/frahmantamala/docdraft/internal/access"
	accessPostgres "github.com/frahmantamala/docdraft/internal/access/postgres"
	"github.com/frahmantamala/docdraft/internal/audit"
	"github.com/frahmantamala/docdraft/internal/auth"
	authPostgres "github.com/frahmantamala/docdraft/internal/auth/postgres"
	"github.com/frahmantamala/docdraft/internal/core/events"
	"github.com/frahmantamala/docdraft/internal/organization"
	organizationPostgres "github.com/frahmantamala/docdraft/internal/organization/postgres"
	"github.com/frahmantamala/docdraft/internal/permission"
	permissionPostgres "github.com/frahmantamala/docdraft/internal/permission/postgres"
	"github.com/frahmantamala/docdraft/internal/role"
	rolePostgres "github.com/frahmantamala/docdraft/internal/role/postgres"
	"github.com/frahmantamala/docdraft/internal/transport"
	"github.com/frahmantamala/docdraft/internal/transport/middleware"
	"github.com/frahmantamala/docdraft/internal/transport/rest"
	"github.com/frahmantamala/docdraft/internal/user"
	userPostgres "github.com/frahmantamala/docdraft/internal/user/postgres"
	"github.com/frahmantamala/docdraft/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Gorm   *gorm.DB
	Bus    *events.EventBus
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	cfg := mustLoadConfig()

	deps, err := initializeDependencies(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up routes: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		deps.Bus.Wait()
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) error {
	cfg := deps.Config
	lg := deps.Logger
	base := transport.NewBaseHandler(lg)

	permissionService := permission.NewService(permissionPostgres.NewPermissionRepository(deps.Gorm), lg)
	roleService := role.NewService(rolePostgres.NewRoleRepository(deps.Gorm), deps.Bus, lg)
	organizationService := organization.NewService(organizationPostgres.NewOrganizationRepository(deps.Gorm), deps.Bus, lg)

	hasher := auth.NewHasher(cfg.Security.BCryptCost)
	tokens := auth.NewJWTTokenGenerator(cfg.Security.SessionSecret, cfg.Security.AccessTokenDuration)
	authRepo := authPostgres.NewRepository(deps.DB)
	authService := auth.NewService(authRepo, hasher, tokens, lg)
	userService := user.NewService(userPostgres.NewUserRepository(deps.Gorm), hasher, deps.Bus, lg)

	guard := access.NewGuard(
		auth.NewSessionResolver(tokens, authRepo, cfg.Security.CookieName()),
		access.NewResolver(accessPostgres.NewStore(deps.DB)),
		lg,
	)

	validator, err := middleware.NewRequestValidator(api.OpenAPISpec, lg)
	if err != nil {
		return err
	}

	rest.RegisterAllRoutes(deps.Router, rest.RouterConfig{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MetricsEnabled: cfg.Observability.Metrics.Enabled,
		MetricsPath:    cfg.Observability.Metrics.Path,
		OpenAPISpec:    api.OpenAPISpec,
	}, guard, validator, rest.Handlers{
		Health:       rest.NewHealthHandler(base, deps.DB.DB),
		Auth:         auth.NewHandler(base, authService, cfg.Security.CookieName(), cfg.Env == "production"),
		User:         user.NewHandler(base, userService),
		Role:         role.NewHandler(base, roleService),
		Permission:   permission.NewHandler(base, permissionService),
		Organization: organization.NewHandler(base, organizationService),
	}, lg)
	return nil
}

func initializeDependencies(cfg *internal.Config) (*Dependencies, error) {
	lg := logger.LoggerWrapper()

	db, err := initDB(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	bus := events.NewEventBus(lg)
	audit.NewSubscriber(lg).Register(bus)

	return &Dependencies{
		Config: cfg,
		Logger: lg,
		DB:     db,
		Gorm:   gormDB,
		Bus:    bus,
		Router: chi.NewRouter(),
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm runs gorm over the pool sqlx already owns, so both share limits.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Warn),
	})
}
