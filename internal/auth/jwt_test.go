package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	mgr := NewTokenManager("test-secret", time.Hour)

	token, err := mgr.Generate("user-1", "a@b.c")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := mgr.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@b.c", claims.Email)
	assert.Equal(t, "taskquest", claims.Issuer)
}

func TestTokenExpired(t *testing.T) {
	mgr := NewTokenManager("test-secret", -time.Minute)
	// Negative lifetime falls back to the default, so build one that is
	// already expired by hand.
	mgr.lifetime = -time.Minute

	token, err := mgr.Generate("user-1", "a@b.c")
	require.NoError(t, err)

	_, err = mgr.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).Generate("user-1", "a@b.c")
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", time.Hour).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenGarbage(t *testing.T) {
	mgr := NewTokenManager("test-secret", time.Hour)
	_, err := mgr.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
