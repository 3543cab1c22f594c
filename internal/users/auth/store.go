// Copyright (c) 2026 Melodia. All rights reserved.

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		Create persists a brand-new user account, its paired SecuritySettings
		row, and the initial EmailVerificationToken as a single transaction.

		Parameters:
		  - context: context.Context
		  - user: *User (ID is populated from the insert)
		  - verification: *EmailVerificationToken (UserID is populated after the user insert)

		Returns:
		  - error: apperr.Conflict on duplicate email, or persistence failures
	*/
	Create(context context.Context, user *User, verification *EmailVerificationToken) error

	/*
		FindByID returns the account with the given id.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id int64) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByEmailWithSettings returns the account and its security settings
		in one round trip (the login hot path).

		Returns:
		  - *User, *SecuritySettings: Hydrated pair
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByEmailWithSettings(context context.Context, email string) (*User, *SecuritySettings, error)

	/*
		UpdatePassword replaces only the user's password hash.
	*/
	UpdatePassword(context context.Context, userID int64, newHash string) error

	/*
		MarkVerified flips the user's email-verified flag to true.
	*/
	MarkVerified(context context.Context, userID int64) error

	/*
		RecordLoginSuccess stamps the user's last-login timestamp.
	*/
	RecordLoginSuccess(context context.Context, userID int64, at time.Time) error
}

// # Lockout Bookkeeping

// SecurityRepository defines the data access contract for lockout state.
type SecurityRepository interface {

	/*
		IncrementFailedAttempts atomically bumps the failed-login counter and
		stamps the last-failed timestamp, returning the post-increment value.

		The increment MUST be a single statement (counter = counter + 1 ...
		RETURNING); two concurrent failed attempts may not lose an update.
	*/
	IncrementFailedAttempts(context context.Context, userID int64, at time.Time) (int, error)

	/*
		LockAccount sets the locked-until timestamp for a user.
	*/
	LockAccount(context context.Context, userID int64, until time.Time) error

	/*
		ResetFailedAttempts zeroes the counter and clears any lock.
	*/
	ResetFailedAttempts(context context.Context, userID int64) error
}

// # Session Data Access

// SessionRepository defines the data access contract for refresh tokens.
type SessionRepository interface {

	/*
		Create persists a new refresh token for an authenticated login.
	*/
	Create(context context.Context, token *RefreshToken) error

	/*
		FindByTokenHash returns the non-revoked token matching the given hash,
		regardless of expiry. The caller distinguishes expired from absent so
		it can report "Refresh token expired" separately.

		Returns:
		  - *RefreshToken: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByTokenHash(context context.Context, tokenHash string) (*RefreshToken, error)

	/*
		Revoke marks the token with the given hash as revoked. Revoking an
		already-revoked or nonexistent token is not an error (idempotent).
	*/
	Revoke(context context.Context, tokenHash string) error

	/*
		RevokeAllForUser revokes every active refresh token of the user,
		forcing re-authentication on every device.
	*/
	RevokeAllForUser(context context.Context, userID int64) error

	/*
		DeleteExpired physically removes tokens whose expiry is in the past.

		Returns:
		  - int64: Number of rows removed
	*/
	DeleteExpired(context context.Context, now time.Time) (int64, error)
}

// # Single-Use Token Data Access

// ResetTokenRepository defines the contract for password reset tokens.
type ResetTokenRepository interface {

	/*
		Create persists a new reset token.
	*/
	Create(context context.Context, token *PasswordResetToken) error

	/*
		FindActive returns the token only if it is unused and unexpired.

		Returns:
		  - *PasswordResetToken: Hydrated entity
		  - error: apperr.NotFound for absent, used, or expired tokens
	*/
	FindActive(context context.Context, token string, now time.Time) (*PasswordResetToken, error)

	/*
		MarkUsed flags the token as redeemed. The row is kept for the cleanup
		job; single-use is enforced by the flag, not by deletion.
	*/
	MarkUsed(context context.Context, id int64) error

	/*
		DeleteExpiredOrUsed removes tokens that are past expiry OR redeemed.

		Returns:
		  - int64: Number of rows removed
	*/
	DeleteExpiredOrUsed(context context.Context, now time.Time) (int64, error)
}

// VerificationTokenRepository defines the contract for email verification tokens.
type VerificationTokenRepository interface {

	/*
		FindValid returns the token only if it has not expired.

		Returns:
		  - *EmailVerificationToken: Hydrated entity
		  - error: apperr.NotFound for absent or expired tokens
	*/
	FindValid(context context.Context, token string, now time.Time) (*EmailVerificationToken, error)

	/*
		Delete removes the token row on successful verification (single-use).
	*/
	Delete(context context.Context, id int64) error

	/*
		DeleteExpired removes tokens past their expiry.

		Returns:
		  - int64: Number of rows removed
	*/
	DeleteExpired(context context.Context, now time.Time) (int64, error)
}

// # Login Audit Data Access

// LoginHistoryRepository defines the contract for the append-only login audit log.
type LoginHistoryRepository interface {

	/*
		Record appends one attempt. Entries are never mutated afterwards.
	*/
	Record(context context.Context, entry *LoginHistoryEntry) error

	/*
		ListByUser returns a page of the user's attempts, newest first, plus
		the total count for pagination metadata.
	*/
	ListByUser(context context.Context, userID int64, limit, offset int) ([]*LoginHistoryEntry, int, error)
}
