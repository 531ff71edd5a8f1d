// Package auth implements Google sign-in for the dashboard.
package auth

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	sharedauth "resumeiq/internal/shared/auth"
	"resumeiq/internal/shared/telemetry"
	"resumeiq/internal/sessions"
	"resumeiq/internal/users"
)

const (
	// DefaultUserInfoURL is Google's OAuth2 profile endpoint.
	DefaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

	nonceCookie = "resumeiq_oauth_nonce"
	noncePath   = "/auth/"
	signInPath  = "/auth/signin"
)

// UserStore records the signed-in profile.
type UserStore interface {
	UpsertFromAuth(ctx context.Context, user users.User) (users.User, error)
}

// SessionStore issues and revokes dashboard sessions.
type SessionStore interface {
	Issue(ctx context.Context, userID string) (string, sessions.Session, error)
	Resolve(ctx context.Context, token string) (sharedauth.Identity, error)
	Revoke(ctx context.Context, token string) error
}

// WorkspaceDropper forgets the per-session dashboard state.
type WorkspaceDropper interface {
	Drop(sessionID string)
}

// GoogleConfig configures GoogleService.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// Endpoint defaults to google.Endpoint.
	Endpoint    oauth2.Endpoint
	UserInfoURL string

	CookieName   string
	CookieSecure bool
	SessionTTL   time.Duration
}

// GoogleService handles Google OAuth flows and the session cookie.
type GoogleService struct {
	oauthConfig *oauth2.Config
	userInfoURL string
	states      *sharedauth.StateSigner
	users       UserStore
	sessions    SessionStore
	workspaces  WorkspaceDropper

	cookieName string
	secure     bool
	sessionTTL time.Duration
}

// NewGoogleService builds a GoogleService.
func NewGoogleService(cfg GoogleConfig, states *sharedauth.StateSigner, userStore UserStore, sessionStore SessionStore, workspaces WorkspaceDropper) *GoogleService {
	endpoint := cfg.Endpoint
	if endpoint.AuthURL == "" {
		endpoint = google.Endpoint
	}
	userInfoURL := cfg.UserInfoURL
	if userInfoURL == "" {
		userInfoURL = DefaultUserInfoURL
	}
	return &GoogleService{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: endpoint,
		},
		userInfoURL: userInfoURL,
		states:      states,
		users:       userStore,
		sessions:    sessionStore,
		workspaces:  workspaces,
		cookieName:  cfg.CookieName,
		secure:      cfg.CookieSecure,
		sessionTTL:  cfg.SessionTTL,
	}
}

// RegisterRoutes attaches the sign-in, OAuth and sign-out routes.
func (s *GoogleService) RegisterRoutes(r gin.IRouter) {
	r.GET(signInPath, s.signin)
	r.GET("/auth/google/start", s.start)
	r.GET("/auth/google/callback", s.callback)
	r.POST("/auth/signout", s.signout)
}

type signinPage struct {
	Title   string
	Refresh bool
	Next    string
	Error   string
}

func (s *GoogleService) renderSignin(c *gin.Context, status int, next, message string) {
	c.HTML(status, "signin", signinPage{Title: "Sign in - ResumeIQ", Next: SafeNext(next), Error: message})
}

func (s *GoogleService) signin(c *gin.Context) {
	s.renderSignin(c, http.StatusOK, c.Query("next"), "")
}

func (s *GoogleService) configured() bool {
	return s.oauthConfig.ClientID != "" && s.oauthConfig.ClientSecret != "" && s.oauthConfig.RedirectURL != ""
}

func (s *GoogleService) start(c *gin.Context) {
	next := SafeNext(c.Query("next"))
	if !s.configured() {
		telemetry.Error("auth.not_configured", nil)
		s.renderSignin(c, http.StatusServiceUnavailable, next, "Google sign-in is not configured")
		return
	}

	nonce := uuid.NewString()
	state, err := s.states.Sign(nonce, next)
	if err != nil {
		telemetry.Error("auth.state_sign_failed", map[string]any{"error": err})
		s.renderSignin(c, http.StatusInternalServerError, next, "Sign-in failed, please try again")
		return
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     nonceCookie,
		Value:    nonce,
		Path:     noncePath,
		MaxAge:   int((5 * time.Minute).Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})

	authURL := s.oauthConfig.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
	c.Redirect(http.StatusFound, authURL)
}

func (s *GoogleService) callback(c *gin.Context) {
	if reason := c.Query("error"); reason != "" {
		telemetry.Info("auth.denied", map[string]any{"reason": reason})
		s.renderSignin(c, http.StatusBadRequest, "", "Sign-in was cancelled")
		return
	}
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		s.renderSignin(c, http.StatusBadRequest, "", "Sign-in failed, please try again")
		return
	}

	claims, err := s.states.Verify(state)
	if err != nil {
		telemetry.Warn("auth.invalid_state", map[string]any{"error": err})
		s.renderSignin(c, http.StatusBadRequest, "", "Sign-in expired, please try again")
		return
	}
	nonce, _ := c.Cookie(nonceCookie)
	s.clearCookie(c, nonceCookie, noncePath)
	if nonce == "" || subtle.ConstantTimeCompare([]byte(nonce), []byte(claims.Nonce)) != 1 {
		telemetry.Warn("auth.nonce_mismatch", nil)
		s.renderSignin(c, http.StatusBadRequest, claims.Next, "Sign-in expired, please try again")
		return
	}

	ctx := c.Request.Context()
	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		telemetry.Warn("auth.exchange_failed", map[string]any{"error": err})
		s.renderSignin(c, http.StatusBadRequest, claims.Next, "Sign-in failed, please try again")
		return
	}

	info, err := s.fetchUserInfo(ctx, token)
	if err != nil || info.Sub == "" || info.Email == "" {
		telemetry.Error("auth.userinfo_failed", map[string]any{"error": err})
		s.renderSignin(c, http.StatusBadGateway, claims.Next, "Could not load your Google profile")
		return
	}

	user, err := s.users.UpsertFromAuth(ctx, users.User{
		ID:         "google:" + info.Sub,
		Email:      info.Email,
		Name:       info.Name,
		PictureURL: info.Picture,
	})
	if err != nil {
		telemetry.Error("auth.user_upsert_failed", map[string]any{"error": err})
		s.renderSignin(c, http.StatusInternalServerError, claims.Next, "Sign-in failed, please try again")
		return
	}

	raw, sess, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		telemetry.Error("auth.session_issue_failed", map[string]any{"error": err, "user_id": user.ID})
		s.renderSignin(c, http.StatusInternalServerError, claims.Next, "Sign-in failed, please try again")
		return
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     s.cookieName,
		Value:    raw,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		MaxAge:   int(time.Until(sess.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	telemetry.Info("auth.signed_in", map[string]any{"user_id": user.ID, "session_id": sess.ID})
	c.Redirect(http.StatusFound, SafeNext(claims.Next))
}

func (s *GoogleService) signout(c *gin.Context) {
	if token, err := c.Cookie(s.cookieName); err == nil && token != "" {
		ctx := c.Request.Context()
		if ident, err := s.sessions.Resolve(ctx, token); err == nil && s.workspaces != nil {
			s.workspaces.Drop(ident.SessionID)
		}
		if err := s.sessions.Revoke(ctx, token); err != nil {
			telemetry.Error("auth.revoke_failed", map[string]any{"error": err})
		}
	}
	s.clearCookie(c, s.cookieName, "/")
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *GoogleService) clearCookie(c *gin.Context, name, path string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

type googleUserInfo struct {
	Sub     string `json:"sub"`
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func (s *GoogleService) fetchUserInfo(ctx context.Context, token *oauth2.Token) (googleUserInfo, error) {
	client := s.oauthConfig.Client(ctx, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.userInfoURL, nil)
	if err != nil {
		return googleUserInfo{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return googleUserInfo{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return googleUserInfo{}, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return googleUserInfo{}, err
	}

	// The v2 endpoint returns "id" instead of "sub".
	if info.Sub == "" {
		info.Sub = info.ID
	}
	if info.Sub == "" {
		return googleUserInfo{}, errors.New("userinfo without subject")
	}
	return info, nil
}

// SafeNext returns next when it is a local path, "/" otherwise. Sign-in
// routes are never a return target.
func SafeNext(next string) string {
	next = strings.TrimSpace(next)
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	if strings.HasPrefix(u.Path, "/auth/") {
		return "/"
	}
	return next
}
