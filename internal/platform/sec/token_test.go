// Copyright (c) 2026 Melodia. All rights reserved.

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melodia-app/melodia/internal/platform/sec"
)

/*
TestGenerateSecureToken checks length and uniqueness of the opaque tokens.
*/
func TestGenerateSecureToken(t *testing.T) {
	token, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)

	// Hex encoding doubles the byte length.
	assert.Len(t, token, 64)

	other, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

/*
TestHashToken checks the hash is deterministic and never the raw token.
*/
func TestHashToken(t *testing.T) {
	hash := sec.HashToken("opaque-refresh-token")

	assert.Equal(t, hash, sec.HashToken("opaque-refresh-token"))
	assert.NotEqual(t, "opaque-refresh-token", hash)
	assert.Len(t, hash, 64) // SHA-256 hex digest
	assert.NotEqual(t, hash, sec.HashToken("different-token"))
}
