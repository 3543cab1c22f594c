// Copyright (c) 2026 Melodia. All rights reserved.

// # Storage Layer (PostgreSQL)
//
// Repositories in this file are strictly separated from domain logic. They
// implement the domain-defined interfaces (e.g., [UserRepository]) using the
// [pgxpool.Pool] connection manager.
//
// # err Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/melodia-app/melodia/internal/platform/apperr"
	"github.com/melodia-app/melodia/internal/platform/dberr"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new user account, its security settings row, and the initial
email verification token inside a single transaction.

Description: The three inserts either all land or none do; a registered account
can never exist without lockout bookkeeping or a pending verification token.

Parameters:
  - context: context.Context
  - user: *User (ID is filled in from the account insert)
  - verification: *EmailVerificationToken (UserID is filled in before its insert)

Returns:
  - error: apperr.Conflict on duplicate email, or persistence failures
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User, verification *EmailVerificationToken) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_begin_failed: %w", err)
	}
	defer transaction.Rollback(context)

	const userQuery = `
		INSERT INTO users.account (
			email, passwordhash, name, ispremium, emailverified, status, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	err = transaction.QueryRow(context, userQuery,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.IsPremium,
		user.EmailVerified,
		user.Status,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)

	if err != nil {
		if dberr.IsUniqueViolation(err, "") {
			return apperr.Conflict("An account with this email already exists")
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	const settingsQuery = `
		INSERT INTO users.securitysettings (userid, failedloginattempts)
		VALUES ($1, 0)`

	if _, err = transaction.Exec(context, settingsQuery, user.ID); err != nil {
		return fmt.Errorf("postgres_user_repo_create_settings_failed: %w", err)
	}

	const verificationQuery = `
		INSERT INTO users.emailverificationtoken (userid, token, expiresat, createdat)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	verification.UserID = user.ID
	if verification.CreatedAt.IsZero() {
		verification.CreatedAt = now
	}

	err = transaction.QueryRow(context, verificationQuery,
		verification.UserID,
		verification.Token,
		verification.ExpiresAt,
		verification.CreatedAt,
	).Scan(&verification.ID)

	if err != nil {
		return fmt.Errorf("postgres_user_repo_create_verification_failed: %w", err)
	}

	if err = transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_user_repo_commit_failed: %w", err)
	}

	return nil
}

/*
FindByID retrieves a user record by their unique ID.

Description: Primary key resolution for user accounts.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id int64) (*User, error) {
	const query = `
		SELECT id, email, passwordhash, name, ispremium, emailverified, status, lastloginat, createdat, updatedat
		FROM users.account
		WHERE id = $1`

	user := &User{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.IsPremium,
		&user.EmailVerified,
		&user.Status,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

/*
FindByEmail retrieves a user record by their unique email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	const query = `
		SELECT id, email, passwordhash, name, ispremium, emailverified, status, lastloginat, createdat, updatedat
		FROM users.account
		WHERE email = $1`

	user := &User{}
	err := repository.pool.QueryRow(context, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.IsPremium,
		&user.EmailVerified,
		&user.Status,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_email_failed: %w", err)
	}

	return user, nil
}

/*
FindByEmailWithSettings retrieves a user and its security settings in one
round trip.

Description: The login hot path; joining avoids a second query between the
password check and the lockout check.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User, *SecuritySettings: Hydrated pair
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmailWithSettings(context context.Context, email string) (*User, *SecuritySettings, error) {
	const query = `
		SELECT
			a.id, a.email, a.passwordhash, a.name, a.ispremium, a.emailverified, a.status, a.lastloginat, a.createdat, a.updatedat,
			s.failedloginattempts, s.lastfailedloginat, s.accountlockeduntil
		FROM users.account a
		JOIN users.securitysettings s ON s.userid = a.id
		WHERE a.email = $1`

	user := &User{}
	settings := &SecuritySettings{}
	err := repository.pool.QueryRow(context, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.IsPremium,
		&user.EmailVerified,
		&user.Status,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
		&settings.FailedLoginAttempts,
		&settings.LastFailedLoginAt,
		&settings.AccountLockedUntil,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperr.NotFound("User")
		}
		return nil, nil, fmt.Errorf("postgres_user_repo_find_with_settings_failed: %w", err)
	}

	settings.UserID = user.ID
	return user, settings, nil
}

/*
UpdatePassword updates only the password hash for a specific user.

Parameters:
  - context: context.Context
  - userID: int64
  - newHash: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID int64, newHash string) error {
	const query = `
		UPDATE users.account
		SET passwordhash = $2, updatedat = NOW()
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, newHash)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_password_failed: %w", err)
	}

	return nil
}

/*
MarkVerified flips the email-verified flag for a specific user.

Parameters:
  - context: context.Context
  - userID: int64

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) MarkVerified(context context.Context, userID int64) error {
	const query = `
		UPDATE users.account
		SET emailverified = TRUE, updatedat = NOW()
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_mark_verified_failed: %w", err)
	}

	return nil
}

/*
RecordLoginSuccess stamps the last successful login timestamp.

Parameters:
  - context: context.Context
  - userID: int64
  - at: time.Time

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) RecordLoginSuccess(context context.Context, userID int64, at time.Time) error {
	const query = `
		UPDATE users.account
		SET lastloginat = $2, updatedat = NOW()
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, at)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_record_login_failed: %w", err)
	}

	return nil
}

// # Security Repository

// PostgresSecurityRepository implements the SecurityRepository interface using pgx.
type PostgresSecurityRepository struct {
	pool *pgxpool.Pool
}

// NewSecurityRepository creates a new PostgreSQL implementation of the SecurityRepository.
func NewSecurityRepository(pool *pgxpool.Pool) *PostgresSecurityRepository {
	return &PostgresSecurityRepository{pool: pool}
}

/*
IncrementFailedAttempts atomically bumps the failed-login counter and returns
the post-increment value.

Description: A single UPDATE ... RETURNING statement. Reading the counter back
separately would let two concurrent failed attempts observe the same value
and under-count toward the lockout threshold.

Parameters:
  - context: context.Context
  - userID: int64
  - at: time.Time (stamped as the last failed attempt)

Returns:
  - int: Counter value after the increment
  - error: Execution errors
*/
func (repository *PostgresSecurityRepository) IncrementFailedAttempts(context context.Context, userID int64, at time.Time) (int, error) {
	const query = `
		UPDATE users.securitysettings
		SET failedloginattempts = failedloginattempts + 1, lastfailedloginat = $2
		WHERE userid = $1
		RETURNING failedloginattempts`

	var attempts int
	err := repository.pool.QueryRow(context, query, userID, at).Scan(&attempts)
	if err != nil {
		return 0, fmt.Errorf("postgres_security_repo_increment_failed: %w", err)
	}

	return attempts, nil
}

/*
LockAccount sets the locked-until timestamp for a user.

Parameters:
  - context: context.Context
  - userID: int64
  - until: time.Time

Returns:
  - error: Execution errors
*/
func (repository *PostgresSecurityRepository) LockAccount(context context.Context, userID int64, until time.Time) error {
	const query = `
		UPDATE users.securitysettings
		SET accountlockeduntil = $2
		WHERE userid = $1`

	_, err := repository.pool.Exec(context, query, userID, until)
	if err != nil {
		return fmt.Errorf("postgres_security_repo_lock_failed: %w", err)
	}

	return nil
}

/*
ResetFailedAttempts zeroes the counter and clears any lock.

Parameters:
  - context: context.Context
  - userID: int64

Returns:
  - error: Execution errors
*/
func (repository *PostgresSecurityRepository) ResetFailedAttempts(context context.Context, userID int64) error {
	const query = `
		UPDATE users.securitysettings
		SET failedloginattempts = 0, lastfailedloginat = NULL, accountlockeduntil = NULL
		WHERE userid = $1`

	_, err := repository.pool.Exec(context, query, userID)
	if err != nil {
		return fmt.Errorf("postgres_security_repo_reset_failed: %w", err)
	}

	return nil
}
