package server

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "resumeiq/internal/auth"
	"resumeiq/internal/dashboard"
	"resumeiq/internal/services/health"
	"resumeiq/internal/shared/config"
	"resumeiq/internal/shared/metrics"
	"resumeiq/internal/shared/server/middleware"
	"resumeiq/internal/shared/server/respond"
	"resumeiq/internal/users"
	"resumeiq/internal/web"
)

const submitRateGroup = "SUBMIT"

// RouterDeps carries the handlers and shared pieces the router wires.
type RouterDeps struct {
	Config      config.Config
	Templates   *template.Template
	Sessions    middleware.SessionResolver
	RateLimiter *middleware.RateLimiter
	Dashboard   *dashboard.Handler
	UserHandler *users.Handler
	Health      *health.Handler
	GoogleAuth  *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	if deps.Templates != nil {
		r.SetHTMLTemplate(deps.Templates)
	}
	r.MaxMultipartMemory = 2*deps.Config.MaxUploadBytes + 1<<20

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Session(middleware.SessionConfig{
			Resolver:       deps.Sessions,
			CookieName:     deps.Config.SessionCookie,
			SignInPath:     "/auth/signin",
			PublicPrefixes: []string{"/auth/", "/healthz", "/metrics", "/static/", "/favicon.ico"},
			Secure:         deps.Config.CookieSecure,
		}),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				submitRateGroup: {Rate: deps.Config.SubmitRate, Burst: deps.Config.SubmitBurst},
			},
			GroupFor: func(c *gin.Context) string {
				if dashboard.IsSubmitRoute(c) {
					return submitRateGroup
				}
				return ""
			},
			Limiter: deps.RateLimiter,
		}),
	)

	r.StaticFS("/static", http.FS(web.Static()))
	r.GET("/metrics", metrics.Handler())
	r.GET("/favicon.ico", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	if deps.Health != nil {
		deps.Health.RegisterRoutes(r)
	}
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(r)
	}
	if deps.Dashboard != nil {
		deps.Dashboard.RegisterRoutes(r)
	}

	api := r.Group("/api")
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api)
	}
	if deps.Dashboard != nil {
		deps.Dashboard.RegisterAPIRoutes(api)
	}
	if deps.Health != nil {
		deps.Health.RegisterAPIRoutes(api)
	}

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			respond.Error(c, http.StatusNotFound, "not_found", "route not found", nil)
			return
		}
		c.String(http.StatusNotFound, "Page not found")
	})

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
