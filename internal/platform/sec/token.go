// Copyright (c) 2026 Melodia. All rights reserved.

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// GenerateSecureToken returns a cryptographically random, hex-encoded opaque
// token of byteLength random bytes (the resulting string is twice as long).
//
// These tokens are bearer credentials: refresh tokens, password reset tokens,
// and email verification tokens all use this primitive.
func GenerateSecureToken(byteLength int) (string, error) {
	buffer := make([]byte, byteLength)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(buffer), nil
}

// HashToken returns the hex-encoded SHA-256 digest of a token.
//
// Refresh tokens are stored hashed so that a leaked database snapshot cannot
// be replayed as live credentials. SHA-256 (not bcrypt) is sufficient here
// because the input already carries full random entropy.
func HashToken(token string) string {
	digest := sha256.Sum256([]byte(token))
	return hex.EncodeToString(digest[:])
}
