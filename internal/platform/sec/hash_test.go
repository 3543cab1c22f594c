// Copyright (c) 2026 Melodia. All rights reserved.

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melodia-app/melodia/internal/platform/sec"
)

/*
TestHashPassword verifies the bcrypt round trip and the cost fallback.
*/
func TestHashPassword(t *testing.T) {
	t.Run("round_trip", func(t *testing.T) {
		hash, err := sec.HashPassword("s3cret-melody", 4)
		require.NoError(t, err)

		assert.NotEqual(t, "s3cret-melody", hash)
		assert.True(t, sec.CheckPasswordHash("s3cret-melody", hash))
		assert.False(t, sec.CheckPasswordHash("wrong-melody", hash))
	})

	t.Run("same_password_different_hashes", func(t *testing.T) {
		first, err := sec.HashPassword("s3cret-melody", 4)
		require.NoError(t, err)
		second, err := sec.HashPassword("s3cret-melody", 4)
		require.NoError(t, err)

		// bcrypt salts internally, so equal inputs never collide.
		assert.NotEqual(t, first, second)
	})

	t.Run("out_of_range_cost_falls_back", func(t *testing.T) {
		hash, err := sec.HashPassword("s3cret-melody", 99)
		require.NoError(t, err)
		assert.True(t, sec.CheckPasswordHash("s3cret-melody", hash))
	})
}

/*
TestCheckPasswordHash_Garbage verifies malformed hashes never verify.
*/
func TestCheckPasswordHash_Garbage(t *testing.T) {
	assert.False(t, sec.CheckPasswordHash("anything", ""))
	assert.False(t, sec.CheckPasswordHash("anything", "not-a-bcrypt-hash"))
}
