package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnhub/internal/shared/authorization"
)

func TestJWTService_GenerateAndVerify(t *testing.T) {
	svc := NewJWTService("secret", "learnhub")

	token, err := svc.Generate(42, authorization.RoleAdmin, time.Minute)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)

	userID, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
	assert.True(t, claims.Role.IsAdmin())
}

func TestJWTService_Verify_Rejects(t *testing.T) {
	svc := NewJWTService("secret", "learnhub")

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewJWTService("other", "learnhub").Generate(1, authorization.RoleUser, time.Minute)
		require.NoError(t, err)
		_, err = svc.Verify(token)
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token, err := NewJWTService("secret", "someone-else").Generate(1, authorization.RoleUser, time.Minute)
		require.NoError(t, err)
		_, err = svc.Verify(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := svc.Generate(1, authorization.RoleUser, -time.Minute)
		require.NoError(t, err)
		_, err = svc.Verify(token)
		assert.Error(t, err)
	})

	t.Run("non numeric subject", func(t *testing.T) {
		claims := &Claims{
			Role: authorization.RoleUser,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "alice",
				Issuer:    "learnhub",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = svc.Verify(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Verify("not-a-token")
		assert.Error(t, err)
	})
}
