// Copyright (c) 2026 Melodia. All rights reserved.

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultHashCost is the bcrypt work factor used when no explicit cost is
// configured. Cost 10 keeps login latency acceptable under registration spikes
// while remaining resistant to offline cracking.
const DefaultHashCost = 10

// HashPassword hashes a plain-text password using the bcrypt algorithm with
// the given work factor. A cost outside the bcrypt range falls back to
// [DefaultHashCost].
func HashPassword(plainTextPassword string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultHashCost
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), cost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}
