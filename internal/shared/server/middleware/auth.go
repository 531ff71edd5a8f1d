package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"resumeiq/internal/shared/auth"
	"resumeiq/internal/shared/server/respond"
)

const (
	userIDKey    = "userId"
	sessionIDKey = "sessionId"
	identityKey  = "identity"
)

// SessionResolver turns a session token into the signed-in identity.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (auth.Identity, error)
}

// SessionConfig configures the Session middleware.
type SessionConfig struct {
	Resolver   SessionResolver
	CookieName string
	// SignInPath receives unauthenticated browser requests.
	SignInPath string
	// PublicPrefixes are served without a session.
	PublicPrefixes []string
	Secure         bool
}

// Session requires a valid session on every non-public route. The token is
// read from the session cookie or an "Authorization: Bearer" header.
// Unauthenticated /api/ requests get 401 JSON; other requests are redirected
// to the sign-in page.
func Session(cfg SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		path := c.Request.URL.Path
		for _, prefix := range cfg.PublicPrefixes {
			if path == prefix || (strings.HasSuffix(prefix, "/") && strings.HasPrefix(path, prefix)) {
				c.Next()
				return
			}
		}

		token := sessionToken(c, cfg.CookieName)
		if token == "" {
			deny(c, cfg)
			return
		}

		ident, err := cfg.Resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			if cfg.CookieName != "" {
				c.SetCookie(cfg.CookieName, "", -1, "/", "", cfg.Secure, true)
			}
			deny(c, cfg)
			return
		}

		SetIdentity(c, ident)
		c.Next()
	}
}

func sessionToken(c *gin.Context, cookieName string) string {
	if header := strings.TrimSpace(c.GetHeader("Authorization")); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookieName == "" {
		return ""
	}
	token, err := c.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(token)
}

func deny(c *gin.Context, cfg SessionConfig) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") || cfg.SignInPath == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "login required", nil)
		return
	}
	next := "/"
	if c.Request.Method == http.MethodGet {
		next = c.Request.URL.RequestURI()
	}
	c.Redirect(http.StatusSeeOther, cfg.SignInPath+"?next="+url.QueryEscape(next))
	c.Abort()
}

// SetIdentity stores the identity in the request context.
func SetIdentity(c *gin.Context, ident auth.Identity) {
	c.Set(identityKey, ident)
	c.Set(userIDKey, ident.UserID)
	c.Set(sessionIDKey, ident.SessionID)
}

// IdentityFromContext fetches the identity set by the session middleware.
func IdentityFromContext(c *gin.Context) (auth.Identity, bool) {
	if c == nil {
		return auth.Identity{}, false
	}
	val, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}
	ident, ok := val.(auth.Identity)
	return ident, ok
}

// UserIDFromContext fetches the user ID set by the session middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(userIDKey)
}

// SessionIDFromContext fetches the session ID set by the session middleware.
func SessionIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(sessionIDKey)
}
