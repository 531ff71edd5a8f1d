package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const stateIssuer = "resumeiq"

var (
	ErrInvalidState  = errors.New("invalid oauth state")
	errMissingSecret = errors.New("state secret not configured")
)

// StateClaims travel in the OAuth state parameter.
type StateClaims struct {
	Nonce string `json:"nonce"`
	Next  string `json:"next,omitempty"`
	jwt.RegisteredClaims
}

// StateSigner signs and verifies OAuth state tokens with HS256.
type StateSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewStateSigner builds a signer. A zero ttl defaults to five minutes.
func NewStateSigner(secret string, ttl time.Duration) *StateSigner {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &StateSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Sign issues a state token for nonce and the local return path.
func (s *StateSigner) Sign(nonce, next string) (string, error) {
	if len(s.secret) == 0 {
		return "", errMissingSecret
	}
	now := s.now()
	claims := StateClaims{
		Nonce: nonce,
		Next:  next,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    stateIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign state: %w", err)
	}
	return signed, nil
}

// Verify parses a state token and checks signature, issuer and expiry.
func (s *StateSigner) Verify(token string) (StateClaims, error) {
	if len(s.secret) == 0 {
		return StateClaims{}, errMissingSecret
	}
	var claims StateClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(stateIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid || claims.Nonce == "" {
		return StateClaims{}, ErrInvalidState
	}
	return claims, nil
}
