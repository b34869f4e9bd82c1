package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	gen, err := NewJWTGenerator(JWTGeneratorConfig{
		SecretKey: "secret",
		Issuer:    "annograph",
	})
	require.NoError(t, err)
	val, err := NewJWTValidator(JWTConfig{SecretKey: "secret", Issuer: "annograph"})
	require.NoError(t, err)

	token, err := gen.GenerateToken("u1", "u1@example.com", []string{"annotator"})
	require.NoError(t, err)

	claims, err := val.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "u1@example.com", claims.Email)
	assert.Equal(t, []string{"annotator"}, claims.Roles)
}

func TestWrongSecretRejected(t *testing.T) {
	gen, err := NewJWTGenerator(JWTGeneratorConfig{SecretKey: "secret"})
	require.NoError(t, err)
	val, err := NewJWTValidator(JWTConfig{SecretKey: "other"})
	require.NoError(t, err)

	token, err := gen.GenerateToken("u1", "", nil)
	require.NoError(t, err)
	_, err = val.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestExpiredTokenRejected(t *testing.T) {
	gen, err := NewJWTGenerator(JWTGeneratorConfig{
		SecretKey:  "secret",
		ExpiryTime: time.Nanosecond,
	})
	require.NoError(t, err)
	val, err := NewJWTValidator(JWTConfig{SecretKey: "secret"})
	require.NoError(t, err)

	token, err := gen.GenerateToken("u1", "", nil)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	_, err = val.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestGarbageTokenRejected(t *testing.T) {
	val, err := NewJWTValidator(JWTConfig{SecretKey: "secret"})
	require.NoError(t, err)
	_, err = val.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUserContextRoundTrip(t *testing.T) {
	_, err := GetUserFromContext(context.Background())
	assert.ErrorIs(t, err, ErrNoUserInContext)

	ctx := SetUserInContext(context.Background(),
		&UserContext{UserID: "u1", Roles: []string{"annotator"}})
	user, err := GetUserFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", user.UserID)
}
