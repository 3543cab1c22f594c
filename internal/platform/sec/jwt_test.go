// Copyright (c) 2026 Melodia. All rights reserved.

package sec_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melodia-app/melodia/internal/platform/sec"
)

const testSecret = "0123456789abcdef0123456789abcdef"

/*
TestNewTokenService rejects secrets too short for HS256.
*/
func TestNewTokenService(t *testing.T) {
	_, err := sec.NewTokenService("short", "melodia.app")
	require.Error(t, err)

	service, err := sec.NewTokenService(testSecret, "melodia.app")
	require.NoError(t, err)
	require.NotNil(t, service)
}

/*
TestTokenService_RoundTrip generates a token and verifies its claims survive.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service, err := sec.NewTokenService(testSecret, "melodia.app")
	require.NoError(t, err)

	tokenString, err := service.GenerateAccessToken(42, "ana@example.com", "Ana", true, 15*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := service.VerifyToken(tokenString)
	require.NoError(t, err)

	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "Ana", claims.Name)
	assert.True(t, claims.IsPremium)
	assert.Equal(t, "melodia.app", claims.Issuer)
	assert.Equal(t, "42", claims.Subject)
}

/*
TestTokenService_VerifyToken covers the two failure sentinels: expiry is
distinguished from every other invalidity.
*/
func TestTokenService_VerifyToken(t *testing.T) {
	service, err := sec.NewTokenService(testSecret, "melodia.app")
	require.NoError(t, err)

	t.Run("expired_token", func(t *testing.T) {
		tokenString, err := service.GenerateAccessToken(42, "ana@example.com", "Ana", false, -time.Minute)
		require.NoError(t, err)

		_, err = service.VerifyToken(tokenString)
		require.Error(t, err)
		assert.ErrorIs(t, err, sec.ErrTokenExpired)
	})

	t.Run("garbage_token", func(t *testing.T) {
		_, err := service.VerifyToken("not.a.jwt")
		require.Error(t, err)
		assert.ErrorIs(t, err, sec.ErrTokenInvalid)
		assert.False(t, errors.Is(err, sec.ErrTokenExpired))
	})

	t.Run("wrong_secret", func(t *testing.T) {
		other, err := sec.NewTokenService("ffffffffffffffffffffffffffffffff", "melodia.app")
		require.NoError(t, err)

		tokenString, err := other.GenerateAccessToken(42, "ana@example.com", "Ana", false, 15*time.Minute)
		require.NoError(t, err)

		_, err = service.VerifyToken(tokenString)
		require.Error(t, err)
		assert.ErrorIs(t, err, sec.ErrTokenInvalid)
	})
}
