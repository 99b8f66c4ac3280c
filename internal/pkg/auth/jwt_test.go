package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService() *JWTService {
	return NewJWTService(JWTConfig{SecretKey: "test-secret", SessionExp: time.Hour, TokenIssuer: "councilcms"})
}

func TestSessionTokenRoundTrip(t *testing.T) {
	s := newTestService()
	token, expiresIn, err := s.GenerateSessionToken("lead@council.in")
	require.NoError(t, err)
	assert.Equal(t, 3600, expiresIn)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "lead@council.in", claims.Email)
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	token, _, err := newTestService().GenerateSessionToken("lead@council.in")
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{SecretKey: "other", SessionExp: time.Hour, TokenIssuer: "councilcms"})
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenExpired(t *testing.T) {
	s := newTestService()
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := s.GenerateSessionToken("lead@council.in")
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestExtractBearerToken(t *testing.T) {
	tok, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", tok)

	_, err = ExtractBearerToken("Basic Zm9v")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestCheckPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, CheckPassword(string(hash), "hunter22"))
	assert.False(t, CheckPassword(string(hash), "wrong"))
	assert.False(t, CheckPassword("", "hunter22"))
}
