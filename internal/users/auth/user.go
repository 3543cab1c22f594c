// Copyright (c) 2026 Melodia. All rights reserved.

/*
Package auth implements the authentication and session-security core of Melodia.

It defines the identity entities (User, SecuritySettings, RefreshToken, the
single-use token types, LoginHistory) and the logic for registration, login
with account lockout, token issuance and revocation, password recovery, email
verification, and scheduled token cleanup.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies; persistence, hashing, and token signing are injected behind
interfaces so the service can be exercised with fakes.
*/
package auth

import "time"

// # Account Status

// UserStatus represents the lifecycle state of an account.
type UserStatus string

const (
	// StatusActive accounts can log in and refresh sessions.
	StatusActive UserStatus = "ACTIVE"

	// StatusInactive accounts are disabled pending reactivation.
	StatusInactive UserStatus = "INACTIVE"

	// StatusSuspended accounts are blocked by moderation.
	StatusSuspended UserStatus = "SUSPENDED"
)

// # Domain Entities

// User represents a registered listener of the Melodia platform.
type User struct {
	ID            int64      `json:"id"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"` // Explicitly omitted from JSON for security.
	Name          string     `json:"name"`
	IsPremium     bool       `json:"is_premium"`
	EmailVerified bool       `json:"email_verified"`
	Status        UserStatus `json:"status"`
	LastLoginAt   *time.Time `json:"last_login_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// SecuritySettings is the per-user lockout bookkeeping record.
//
// One row exists for every User from the moment of registration; the pair is
// created in the same transaction.
type SecuritySettings struct {
	UserID              int64      `json:"user_id"`
	FailedLoginAttempts int        `json:"failed_login_attempts"`
	LastFailedLoginAt   *time.Time `json:"last_failed_login_at,omitempty"`
	AccountLockedUntil  *time.Time `json:"account_locked_until,omitempty"`
}

// RefreshToken is a long-lived, revocable session credential.
//
// Only the SHA-256 hash of the opaque token string is persisted. An expired or
// revoked row must never yield a new access token.
type RefreshToken struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	TokenHash string    `json:"-"` // Hashed value of the refresh token. Omitted for security.
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	IsRevoked bool      `json:"is_revoked"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// PasswordResetToken is a short-lived, single-use recovery credential.
//
// It is marked used on redemption (never deleted at that point); the cleanup
// job removes expired-or-used rows later.
type PasswordResetToken struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Token     string    `json:"-"`
	IsUsed    bool      `json:"is_used"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// EmailVerificationToken proves mailbox ownership. Deleted immediately on use.
type EmailVerificationToken struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// # Login Audit

// LoginOutcome is the recorded result of a login attempt.
type LoginOutcome string

const (
	OutcomeSuccess LoginOutcome = "SUCCESS"
	OutcomeFailed  LoginOutcome = "FAILED"
)

// LoginHistoryEntry is an append-only audit record of a login attempt.
//
// UserID is nil when the attempted email matched no account; the attempt is
// still recorded for abuse analysis.
type LoginHistoryEntry struct {
	ID            int64        `json:"id"`
	UserID        *int64       `json:"user_id,omitempty"`
	IPAddress     string       `json:"ip_address"`
	UserAgent     string       `json:"user_agent"`
	Outcome       LoginOutcome `json:"outcome"`
	FailureReason *string      `json:"failure_reason,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldName            = "name"
	FieldToken           = "token"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldAccessToken     = "access_token"
	FieldTokenType       = "token_type"
	FieldExpiresIn       = "expires_in"
	FieldUser            = "user"
	FieldMessage         = "message"
)
