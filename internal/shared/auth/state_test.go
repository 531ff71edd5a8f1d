package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateRoundTrip(t *testing.T) {
	s := NewStateSigner("test-secret", time.Minute)
	token, err := s.Sign("nonce-1", "/?tab=compare")
	require.NoError(t, err)

	claims, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "nonce-1", claims.Nonce)
	assert.Equal(t, "/?tab=compare", claims.Next)
}

func TestStateRejectsTampering(t *testing.T) {
	s := NewStateSigner("test-secret", time.Minute)
	token, err := s.Sign("nonce-1", "/")
	require.NoError(t, err)

	other := NewStateSigner("other-secret", time.Minute)
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = s.Verify(token + "x")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestStateExpires(t *testing.T) {
	now := time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)
	s := NewStateSigner("test-secret", time.Minute)
	s.now = func() time.Time { return now }
	token, err := s.Sign("nonce-1", "/")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestStateRequiresSecret(t *testing.T) {
	s := NewStateSigner("", 0)
	_, err := s.Sign("n", "/")
	assert.Error(t, err)
}
