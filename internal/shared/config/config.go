package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"resumeiq/internal/shared/telemetry"
)

const devSessionSecret = "dev-secret"

// Config holds application configuration.
type Config struct {
	Port             string
	Env              string
	APIBaseURL       string        `validate:"required,url"`
	APITimeout       time.Duration `validate:"gte=0"`
	DatabaseURL      string
	AutoMigrate      bool
	CORSAllowOrigin  []string
	PublicURL        string `validate:"omitempty,url"`
	SessionSecret    string `validate:"required,min=8"`
	SessionTTL       time.Duration `validate:"gt=0"`
	SessionCookie    string        `validate:"required"`
	CookieSecure     bool
	WorkspaceIdleTTL time.Duration `validate:"gt=0"`
	MaxUploadBytes   int64         `validate:"gt=0"`
	UploadAccept     string        `validate:"required"`
	SubmitRate       float64       `validate:"gte=0"`
	SubmitBurst      int           `validate:"gte=0"`

	GoogleClientID     string `validate:"required_if=Env production"`
	GoogleClientSecret string `validate:"required_if=Env production"`
	GoogleRedirectURL  string `validate:"omitempty,url"`
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")
	if env == "production" && dbURL == "" {
		telemetry.Warn("config.database_url_missing", map[string]any{"env": env})
	}

	secret := getEnv("SESSION_SECRET", "")
	if secret == "" && env != "production" {
		secret = devSessionSecret
	}

	return Config{
		Port:               getEnv("PORT", "8080"),
		Env:                env,
		APIBaseURL:         strings.TrimRight(getEnv("API_BASE_URL", getEnv("NEXT_PUBLIC_API_URL", "http://localhost:5000")), "/"),
		APITimeout:         getEnvDuration("API_TIMEOUT", 0),
		DatabaseURL:        dbURL,
		AutoMigrate:        getEnvBool("AUTO_MIGRATE", true),
		CORSAllowOrigin:    splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "")),
		PublicURL:          strings.TrimRight(getEnv("PUBLIC_URL", ""), "/"),
		SessionSecret:      secret,
		SessionTTL:         getEnvDuration("SESSION_TTL", 30*24*time.Hour),
		SessionCookie:      getEnv("SESSION_COOKIE", "resumeiq_session"),
		CookieSecure:       getEnvBool("COOKIE_SECURE", env == "production"),
		WorkspaceIdleTTL:   getEnvDuration("WORKSPACE_IDLE_TTL", 2*time.Hour),
		MaxUploadBytes:     getEnvInt64("MAX_UPLOAD_BYTES", 5<<20),
		UploadAccept:       getEnv("UPLOAD_ACCEPT", "application/pdf"),
		SubmitRate:         getEnvFloat("RATE_LIMIT_SUBMIT_RPS", 0.5),
		SubmitBurst:        int(getEnvInt64("RATE_LIMIT_SUBMIT_BURST", 5)),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
	}
}

// Validate checks the loaded configuration.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.IsProduction() && c.SessionSecret == devSessionSecret {
		return errors.New("invalid config: SESSION_SECRET must be set in production")
	}
	return nil
}

// IsProduction reports whether the app runs in production.
func (c Config) IsProduction() bool { return c.Env == "production" }

// IsDevLike reports whether in-memory fallbacks are allowed.
func (c Config) IsDevLike() bool { return c.Env == "dev" || c.Env == "local" }

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		telemetry.Warn("config.invalid", map[string]any{"key": key, "type": "bool", "error": err})
		return def
	}
	return v
}

func getEnvInt64(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		telemetry.Warn("config.invalid", map[string]any{"key": key, "type": "int", "error": err})
		return def
	}
	return v
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		telemetry.Warn("config.invalid", map[string]any{"key": key, "type": "float", "error": err})
		return def
	}
	return v
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		telemetry.Warn("config.invalid", map[string]any{"key": key, "type": "duration", "error": err})
		return def
	}
	return v
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}
