package token

import (
	"testing"
	"time"

	"github.com/deppfellow/muslimah-travel/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager() *Manager {
	return NewManager(config.AuthConfig{
		JWTSecret:      "0123456789abcdef0123456789abcdef",
		Issuer:         "muslimah-travel",
		AccessTokenTTL: time.Hour,
	})
}

func TestIssueAndParse(t *testing.T) {
	m := testManager()

	raw, err := m.Issue("user-1", "aisyah@example.com", "admin")
	require.NoError(t, err)

	claims, err := m.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "aisyah@example.com", claims.Email)
}

func TestParseExpired(t *testing.T) {
	m := testManager()
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	raw, err := m.Issue("user-1", "a@b.co", "user")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseWrongSecret(t *testing.T) {
	raw, err := testManager().Issue("user-1", "a@b.co", "user")
	require.NoError(t, err)

	other := NewManager(config.AuthConfig{
		JWTSecret:      "ffffffffffffffffffffffffffffffff",
		Issuer:         "muslimah-travel",
		AccessTokenTTL: time.Hour,
	})
	_, err = other.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsNoneAlgorithm(t *testing.T) {
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    "muslimah-travel",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = testManager().Parse(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
