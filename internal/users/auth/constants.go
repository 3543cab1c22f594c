// Copyright (c) 2026 Melodia. All rights reserved.

package auth

import "time"

// # Authentication Constraints

const (
	// PasswordMinLength is the minimum accepted password length, in runes.
	PasswordMinLength = 8

	// RefreshTokenLength is the byte length of the random secure token.
	RefreshTokenLength = 32

	// ResetTokenLength is the byte length of the random password reset token.
	ResetTokenLength = 32

	// VerificationTokenLength is the byte length of the random verification token.
	VerificationTokenLength = 32
)

// Policy holds the tunable security parameters of the auth service.
//
// Values come from environment configuration; [DefaultPolicy] documents the
// shipped defaults.
type Policy struct {
	// AccessTokenTTL is the lifetime of a signed JWT access token.
	AccessTokenTTL time.Duration

	// RefreshTokenTTL is the lifetime of a persisted refresh token.
	RefreshTokenTTL time.Duration

	// ResetTokenTTL is the lifetime of a password reset token.
	ResetTokenTTL time.Duration

	// VerificationTokenTTL is the lifetime of an email verification token.
	VerificationTokenTTL time.Duration

	// MaxLoginAttempts is the failed-login count that triggers a lockout.
	MaxLoginAttempts int

	// LockoutDuration is how long a locked account stays locked.
	LockoutDuration time.Duration

	// HashCost is the bcrypt work factor for password hashing.
	HashCost int
}

// DefaultPolicy returns the standard production policy.
//
// Access tokens are short (15m) to minimize the impact of a leak; refresh
// tokens last 7 days; a lockout of 30 minutes engages after 5 failures.
func DefaultPolicy() Policy {
	return Policy{
		AccessTokenTTL:       15 * time.Minute,
		RefreshTokenTTL:      7 * 24 * time.Hour,
		ResetTokenTTL:        1 * time.Hour,
		VerificationTokenTTL: 24 * time.Hour,
		MaxLoginAttempts:     5,
		LockoutDuration:      30 * time.Minute,
		HashCost:             10,
	}
}
