package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewService_EmptySecret(t *testing.T) {
	t.Parallel()

	s, err := NewService("", time.Hour)
	require.ErrorIs(t, err, ErrMissingSecret)
	assert.Nil(t, s)
}

func TestNewService_DefaultTTL(t *testing.T) {
	t.Parallel()

	s, err := NewService("k", 0)
	require.NoError(t, err)
	assert.Equal(t, 5*24*time.Hour, s.TTL())
}

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	s, err := NewService("super-secret", DefaultTTL)
	require.NoError(t, err)

	before := time.Now().UTC()
	tok, err := s.Issue("user-123")
	require.NoError(t, err)
	assert.WithinDuration(t, before.Add(DefaultTTL), tok.ExpiresAt, 2*time.Second)

	uid, err := s.Verify(tok.Value)
	require.NoError(t, err)
	assert.Equal(t, "user-123", uid)
}

func TestIssue_TwoTokensForSameUserDiffer(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s, err := NewService("k", time.Hour, WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)

	a, err := s.Issue("u1")
	require.NoError(t, err)
	b, err := s.Issue("u1")
	require.NoError(t, err)
	assert.NotEqual(t, a.Value, b.Value)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	issuedAt := time.Now().Add(-6 * 24 * time.Hour)
	old, err := NewService("secret", DefaultTTL, WithClock(func() time.Time { return issuedAt }))
	require.NoError(t, err)
	tok, err := old.Issue("u1")
	require.NoError(t, err)

	s, err := NewService("secret", DefaultTTL)
	require.NoError(t, err)
	_, err = s.Verify(tok.Value)
	require.ErrorIs(t, err, ErrTokenInvalid)
	assert.True(t, errors.Is(err, ErrTokenInvalid))
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	a, _ := NewService("right-secret", time.Hour)
	b, _ := NewService("wrong-secret", time.Hour)

	tok, err := a.Issue("u2")
	require.NoError(t, err)

	_, err = b.Verify(tok.Value)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	s, _ := NewService("k", time.Hour)
	for _, raw := range []string{"", "not.a.jwt", "abc"} {
		_, err := s.Verify(raw)
		assert.ErrorIs(t, err, ErrTokenInvalid, "raw=%q", raw)
	}
}

func TestVerify_RejectsNoneAlgorithm(t *testing.T) {
	t.Parallel()

	s, _ := NewService("k", time.Hour)
	claims := jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = s.Verify(raw)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_MissingSubject(t *testing.T) {
	t.Parallel()

	s, _ := NewService("k", time.Hour)
	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = s.Verify(raw)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_MissingExpiry(t *testing.T) {
	t.Parallel()

	s, _ := NewService("k", time.Hour)
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "u1"}).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = s.Verify(raw)
	require.ErrorIs(t, err, ErrTokenInvalid)
}
