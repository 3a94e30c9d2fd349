package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchup-gg/matchup/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:          uuid.New(),
		Email:       "alice@example.com",
		DisplayName: "Alice",
		Role:        models.RoleUser,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	u := testUser()
	token, err := CreateToken(u, "secret", time.Hour)
	require.NoError(t, err)

	p, err := ParseToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, p.UserID)
	assert.Equal(t, u.Email, p.Email)
	assert.Equal(t, u.DisplayName, p.DisplayName)
	assert.Equal(t, models.RoleUser, p.Role)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := CreateToken(testUser(), "secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, "other-secret")
	assert.ErrorIs(t, err, errInvalidToken)
}

func TestTokenExpired(t *testing.T) {
	u := testUser()
	claims := jwt.MapClaims{
		"sub": u.ID.String(),
		"exp": time.Now().Add(-time.Minute).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = ParseToken(token, "secret")
	assert.ErrorIs(t, err, errInvalidToken)
}

func TestTokenNoExpiry(t *testing.T) {
	token, err := CreateToken(testUser(), "secret", 0)
	require.NoError(t, err)

	_, err = ParseToken(token, "secret")
	assert.NoError(t, err, "ttl 0 issues a non-expiring token")
}

func TestTokenGarbage(t *testing.T) {
	_, err := ParseToken("not.a.token", "secret")
	assert.ErrorIs(t, err, errInvalidToken)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := CreateHash("correct horse battery staple", Params)
	require.NoError(t, err)
	assert.NotContains(t, hash, "correct horse")

	match, err := ComparePasswordAndHash("correct horse battery staple", hash)
	require.NoError(t, err)
	assert.True(t, match)

	match, err = ComparePasswordAndHash("wrong password", hash)
	require.NoError(t, err)
	assert.False(t, match)
}
