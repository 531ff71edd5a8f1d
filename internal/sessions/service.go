package sessions

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"resumeiq/internal/shared/auth"
	"resumeiq/internal/shared/util"
	"resumeiq/internal/users"
)

const tokenBytes = 32

// UserLookup loads the profile behind a session.
type UserLookup interface {
	GetByID(ctx context.Context, userID string) (users.User, error)
}

type Service struct {
	Repo  Repo
	Users UserLookup
	TTL   time.Duration
	now   func() time.Time
}

func NewService(repo Repo, lookup UserLookup, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Service{Repo: repo, Users: lookup, TTL: ttl, now: time.Now}
}

// Issue creates a session for userID and returns the raw token for the cookie.
func (s *Service) Issue(ctx context.Context, userID string) (string, Session, error) {
	if strings.TrimSpace(userID) == "" {
		return "", Session{}, errors.New("user id is required")
	}
	token, err := newToken()
	if err != nil {
		return "", Session{}, err
	}
	now := s.now().UTC()
	sess := Session{
		ID:        uuid.NewString(),
		TokenHash: util.HashToken(token),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.TTL),
	}
	if err := s.Repo.Create(ctx, sess); err != nil {
		return "", Session{}, fmt.Errorf("create session: %w", err)
	}
	return token, sess, nil
}

// Resolve implements middleware.SessionResolver.
func (s *Service) Resolve(ctx context.Context, token string) (auth.Identity, error) {
	if strings.TrimSpace(token) == "" {
		return auth.Identity{}, ErrNotFound
	}
	hash := util.HashToken(token)
	sess, err := s.Repo.GetByTokenHash(ctx, hash)
	if err != nil {
		return auth.Identity{}, err
	}
	if sess.Expired(s.now()) {
		_ = s.Repo.DeleteByTokenHash(ctx, hash)
		return auth.Identity{}, ErrExpired
	}
	ident := auth.Identity{SessionID: sess.ID, UserID: sess.UserID}
	if s.Users != nil {
		user, err := s.Users.GetByID(ctx, sess.UserID)
		if err != nil {
			return auth.Identity{}, fmt.Errorf("load session user: %w", err)
		}
		ident.Name = user.DisplayName()
		ident.Email = user.Email
		ident.Picture = user.PictureURL
	}
	return ident, nil
}

// Revoke deletes the session behind token. Unknown tokens are not an error.
func (s *Service) Revoke(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return nil
	}
	return s.Repo.DeleteByTokenHash(ctx, util.HashToken(token))
}

// Sweep removes expired sessions.
func (s *Service) Sweep(ctx context.Context) (int64, error) {
	return s.Repo.DeleteExpired(ctx, s.now())
}

func newToken() (string, error) {
	var b [tokenBytes]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}
