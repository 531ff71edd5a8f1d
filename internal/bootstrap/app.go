package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"html/template"
	"strings"

	"github.com/gin-gonic/gin"

	"resumeiq/internal/apiclient"
	googleauth "resumeiq/internal/auth"
	"resumeiq/internal/dashboard"
	"resumeiq/internal/services/health"
	"resumeiq/internal/sessions"
	sharedauth "resumeiq/internal/shared/auth"
	"resumeiq/internal/shared/config"
	"resumeiq/internal/shared/server"
	"resumeiq/internal/shared/server/middleware"
	"resumeiq/internal/shared/storage/db"
	"resumeiq/internal/shared/telemetry"
	"resumeiq/internal/upload"
	"resumeiq/internal/users"
	"resumeiq/internal/web"
	"resumeiq/internal/workflow"
)

// App holds shared dependencies.
type App struct {
	Config      config.Config
	Router      *gin.Engine
	DB          *sql.DB
	Templates   *template.Template
	API         *apiclient.Client
	Workspaces  *workflow.Registry
	RateLimiter *middleware.RateLimiter

	UsersRepo       users.Repo
	SessionsRepo    sessions.Repo
	UsersService    *users.Service
	SessionsService *sessions.Service
	HealthService   *health.Service

	UsersHandler     *users.Handler
	DashboardHandler *dashboard.Handler
	HealthHandler    *health.Handler
	GoogleAuth       *googleauth.GoogleService
}

// Build prepares shared dependencies and the router. ctx bounds the
// lifetime of background workflow requests.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:      cfg,
		DB:          sqlDB,
		Templates:   tmpl,
		API:         apiclient.New(cfg.APIBaseURL, nil, cfg.APITimeout),
		RateLimiter: middleware.NewRateLimiter(nil),
	}
	buildServices(ctx, app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:      app.Config,
		Templates:   app.Templates,
		Sessions:    app.SessionsService,
		RateLimiter: app.RateLimiter,
		Dashboard:   app.DashboardHandler,
		UserHandler: app.UsersHandler,
		Health:      app.HealthHandler,
		GoogleAuth:  app.GoogleAuth,
	})

	return app, nil
}

// Close releases the database pool.
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_stores", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_stores", map[string]any{"reason": "database connect failed", "error": err})
			return nil, nil
		}
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	return sqlDB, nil
}

func buildServices(ctx context.Context, app *App) {
	var userRepo users.Repo
	var sessionRepo sessions.Repo
	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
		sessionRepo = &sessions.PGRepo{DB: app.DB}
	} else {
		userRepo = users.NewMemoryRepo()
		sessionRepo = sessions.NewMemoryRepo()
	}

	cfg := app.Config
	userSvc := users.NewService(userRepo)
	sessionSvc := sessions.NewService(sessionRepo, userSvc, cfg.SessionTTL)

	api := app.API
	workspaces := workflow.NewRegistry(func() *workflow.Workspace {
		return workflow.NewWorkspace(api, upload.NewGate(cfg.MaxUploadBytes, cfg.UploadAccept))
	})

	healthSvc := health.NewService(api, app.DB)

	googleAuthSvc := googleauth.NewGoogleService(
		googleauth.GoogleConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  googleRedirectURL(cfg),
			CookieName:   cfg.SessionCookie,
			CookieSecure: cfg.CookieSecure,
			SessionTTL:   cfg.SessionTTL,
		},
		sharedauth.NewStateSigner(cfg.SessionSecret, 0),
		userSvc,
		sessionSvc,
		workspaces,
	)

	app.UsersRepo = userRepo
	app.SessionsRepo = sessionRepo
	app.UsersService = userSvc
	app.SessionsService = sessionSvc
	app.HealthService = healthSvc
	app.Workspaces = workspaces
	app.UsersHandler = users.NewHandler(userSvc)
	app.DashboardHandler = dashboard.NewHandler(workspaces, ctx)
	app.HealthHandler = health.NewHandler(healthSvc)
	app.GoogleAuth = googleAuthSvc
}

// googleRedirectURL derives the callback from PUBLIC_URL when it is not set.
func googleRedirectURL(cfg config.Config) string {
	if cfg.GoogleRedirectURL != "" {
		return cfg.GoogleRedirectURL
	}
	if cfg.PublicURL != "" {
		return cfg.PublicURL + "/auth/google/callback"
	}
	return ""
}
