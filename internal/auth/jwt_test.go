package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CTU-F-2025/forum-service/internal/models"
)

func testUser() *models.User {
	return &models.User{
		ID:       7,
		Username: "student7",
		Role:     models.RoleStudent,
	}
}

func TestTokenManager_GenerateAndParse(t *testing.T) {
	tm := NewTokenManager([]byte("unit-test-secret"), "forum-service", time.Hour)

	token, err := tm.Generate(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), identity.UserID)
	assert.Equal(t, "student7", identity.Username)
	assert.Equal(t, models.RoleStudent, identity.Role)
	assert.False(t, identity.IsAdmin())
}

func TestTokenManager_AdminRole(t *testing.T) {
	tm := NewTokenManager([]byte("unit-test-secret"), "forum-service", time.Hour)

	user := testUser()
	user.Role = models.RoleAdmin

	token, err := tm.Generate(user)
	require.NoError(t, err)

	identity, err := tm.Parse(token)
	require.NoError(t, err)
	assert.True(t, identity.IsAdmin())
}

func TestTokenManager_ExpiredToken(t *testing.T) {
	tm := NewTokenManager([]byte("unit-test-secret"), "forum-service", -time.Minute)

	token, err := tm.Generate(testUser())
	require.NoError(t, err)

	_, err = tm.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	tm := NewTokenManager([]byte("secret-a"), "forum-service", time.Hour)
	other := NewTokenManager([]byte("secret-b"), "forum-service", time.Hour)

	token, err := tm.Generate(testUser())
	require.NoError(t, err)

	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_GarbageToken(t *testing.T) {
	tm := NewTokenManager([]byte("unit-test-secret"), "forum-service", time.Hour)

	_, err := tm.Parse("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsUnknownRole(t *testing.T) {
	secret := []byte("unit-test-secret")
	tm := NewTokenManager(secret, "forum-service", time.Hour)

	now := time.Now()
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		UserID:   1,
		Username: "forger",
		Role:     "Superuser",
	})
	token, err := forged.SignedString(secret)
	require.NoError(t, err)

	_, err = tm.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsMissingClaims(t *testing.T) {
	secret := []byte("unit-test-secret")
	tm := NewTokenManager(secret, "forum-service", time.Hour)

	now := time.Now()
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	})
	token, err := forged.SignedString(secret)
	require.NoError(t, err)

	_, err = tm.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
