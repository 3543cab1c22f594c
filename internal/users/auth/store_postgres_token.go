// Copyright (c) 2026 Melodia. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/melodia-app/melodia/internal/platform/database/schema"
	"github.com/melodia-app/melodia/internal/platform/dberr"
)

// Queries are rendered once from the schema definitions. Keeping them as
// package variables lets the test suite check every rendered statement.

// # Session Repository

var (
	sessionInsertQuery = fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, FALSE, $5, NOW())
		RETURNING %s, %s
	`,
		schema.UserRefreshToken.Table, schema.UserRefreshToken.UserID, schema.UserRefreshToken.TokenHash,
		schema.UserRefreshToken.IPAddress, schema.UserRefreshToken.UserAgent, schema.UserRefreshToken.IsRevoked,
		schema.UserRefreshToken.ExpiresAt, schema.UserRefreshToken.CreatedAt,
		schema.UserRefreshToken.ID, schema.UserRefreshToken.CreatedAt,
	)

	sessionFindByHashQuery = fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = FALSE
	`,
		schema.UserRefreshToken.ID, schema.UserRefreshToken.UserID, schema.UserRefreshToken.TokenHash,
		schema.UserRefreshToken.IPAddress, schema.UserRefreshToken.UserAgent, schema.UserRefreshToken.IsRevoked,
		schema.UserRefreshToken.ExpiresAt, schema.UserRefreshToken.CreatedAt,
		schema.UserRefreshToken.Table, schema.UserRefreshToken.TokenHash, schema.UserRefreshToken.IsRevoked,
	)

	sessionRevokeQuery = fmt.Sprintf(`UPDATE %s SET %s = TRUE WHERE %s = $1`,
		schema.UserRefreshToken.Table, schema.UserRefreshToken.IsRevoked, schema.UserRefreshToken.TokenHash,
	)

	sessionRevokeAllQuery = fmt.Sprintf(`UPDATE %s SET %s = TRUE WHERE %s = $1 AND %s = FALSE`,
		schema.UserRefreshToken.Table, schema.UserRefreshToken.IsRevoked,
		schema.UserRefreshToken.UserID, schema.UserRefreshToken.IsRevoked,
	)

	sessionDeleteExpiredQuery = fmt.Sprintf(`DELETE FROM %s WHERE %s < $1`,
		schema.UserRefreshToken.Table, schema.UserRefreshToken.ExpiresAt,
	)
)

// PostgresSessionRepository implements the SessionRepository interface using pgx.
type PostgresSessionRepository struct {
	db *pgxpool.Pool
}

// NewSessionRepository creates a new PostgreSQL implementation of the SessionRepository.
func NewSessionRepository(db *pgxpool.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{db: db}
}

func (repository *PostgresSessionRepository) Create(context context.Context, token *RefreshToken) error {
	err := repository.db.QueryRow(context, sessionInsertQuery,
		token.UserID, token.TokenHash, token.IPAddress, token.UserAgent, token.ExpiresAt,
	).Scan(&token.ID, &token.CreatedAt)

	return dberr.Wrap(err, "create_refresh_token")
}

// FindByTokenHash returns the non-revoked token matching the hash regardless
// of expiry. The service distinguishes expired from absent.
func (repository *PostgresSessionRepository) FindByTokenHash(context context.Context, tokenHash string) (*RefreshToken, error) {
	token := &RefreshToken{}
	err := repository.db.QueryRow(context, sessionFindByHashQuery, tokenHash).Scan(
		&token.ID, &token.UserID, &token.TokenHash, &token.IPAddress, &token.UserAgent,
		&token.IsRevoked, &token.ExpiresAt, &token.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "find_refresh_token")
	}

	return token, nil
}

// Revoke is idempotent; revoking an unknown or already-revoked hash is a no-op.
func (repository *PostgresSessionRepository) Revoke(context context.Context, tokenHash string) error {
	_, err := repository.db.Exec(context, sessionRevokeQuery, tokenHash)
	return dberr.Wrap(err, "revoke_refresh_token")
}

func (repository *PostgresSessionRepository) RevokeAllForUser(context context.Context, userID int64) error {
	_, err := repository.db.Exec(context, sessionRevokeAllQuery, userID)
	return dberr.Wrap(err, "revoke_all_refresh_tokens")
}

func (repository *PostgresSessionRepository) DeleteExpired(context context.Context, now time.Time) (int64, error) {
	tag, err := repository.db.Exec(context, sessionDeleteExpiredQuery, now)
	if err != nil {
		return 0, dberr.Wrap(err, "delete_expired_refresh_tokens")
	}

	return tag.RowsAffected(), nil
}

// # Reset Token Repository

var (
	resetTokenInsertQuery = fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, FALSE, $3, NOW())
		RETURNING %s, %s
	`,
		schema.UserPasswordResetToken.Table, schema.UserPasswordResetToken.UserID,
		schema.UserPasswordResetToken.Token, schema.UserPasswordResetToken.IsUsed,
		schema.UserPasswordResetToken.ExpiresAt, schema.UserPasswordResetToken.CreatedAt,
		schema.UserPasswordResetToken.ID, schema.UserPasswordResetToken.CreatedAt,
	)

	resetTokenFindActiveQuery = fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = FALSE AND %s > $2
	`,
		schema.UserPasswordResetToken.ID, schema.UserPasswordResetToken.UserID,
		schema.UserPasswordResetToken.Token, schema.UserPasswordResetToken.IsUsed,
		schema.UserPasswordResetToken.ExpiresAt, schema.UserPasswordResetToken.CreatedAt,
		schema.UserPasswordResetToken.Table, schema.UserPasswordResetToken.Token,
		schema.UserPasswordResetToken.IsUsed, schema.UserPasswordResetToken.ExpiresAt,
	)

	resetTokenMarkUsedQuery = fmt.Sprintf(`UPDATE %s SET %s = TRUE WHERE %s = $1`,
		schema.UserPasswordResetToken.Table, schema.UserPasswordResetToken.IsUsed,
		schema.UserPasswordResetToken.ID,
	)

	resetTokenDeleteStaleQuery = fmt.Sprintf(`DELETE FROM %s WHERE %s < $1 OR %s = TRUE`,
		schema.UserPasswordResetToken.Table, schema.UserPasswordResetToken.ExpiresAt,
		schema.UserPasswordResetToken.IsUsed,
	)
)

// PostgresResetTokenRepository implements the ResetTokenRepository interface using pgx.
type PostgresResetTokenRepository struct {
	db *pgxpool.Pool
}

// NewResetTokenRepository creates a new PostgreSQL implementation of the ResetTokenRepository.
func NewResetTokenRepository(db *pgxpool.Pool) *PostgresResetTokenRepository {
	return &PostgresResetTokenRepository{db: db}
}

func (repository *PostgresResetTokenRepository) Create(context context.Context, token *PasswordResetToken) error {
	err := repository.db.QueryRow(context, resetTokenInsertQuery,
		token.UserID, token.Token, token.ExpiresAt,
	).Scan(&token.ID, &token.CreatedAt)

	return dberr.Wrap(err, "create_reset_token")
}

// FindActive returns the token only if it is unused and unexpired.
func (repository *PostgresResetTokenRepository) FindActive(context context.Context, token string, now time.Time) (*PasswordResetToken, error) {
	resetToken := &PasswordResetToken{}
	err := repository.db.QueryRow(context, resetTokenFindActiveQuery, token, now).Scan(
		&resetToken.ID, &resetToken.UserID, &resetToken.Token,
		&resetToken.IsUsed, &resetToken.ExpiresAt, &resetToken.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "find_reset_token")
	}

	return resetToken, nil
}

func (repository *PostgresResetTokenRepository) MarkUsed(context context.Context, id int64) error {
	_, err := repository.db.Exec(context, resetTokenMarkUsedQuery, id)
	return dberr.Wrap(err, "mark_reset_token_used")
}

func (repository *PostgresResetTokenRepository) DeleteExpiredOrUsed(context context.Context, now time.Time) (int64, error) {
	tag, err := repository.db.Exec(context, resetTokenDeleteStaleQuery, now)
	if err != nil {
		return 0, dberr.Wrap(err, "delete_stale_reset_tokens")
	}

	return tag.RowsAffected(), nil
}

// # Verification Token Repository

var (
	verificationTokenFindValidQuery = fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s > $2
	`,
		schema.UserEmailVerificationToken.ID, schema.UserEmailVerificationToken.UserID,
		schema.UserEmailVerificationToken.Token, schema.UserEmailVerificationToken.ExpiresAt,
		schema.UserEmailVerificationToken.CreatedAt,
		schema.UserEmailVerificationToken.Table, schema.UserEmailVerificationToken.Token,
		schema.UserEmailVerificationToken.ExpiresAt,
	)

	verificationTokenDeleteQuery = fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.UserEmailVerificationToken.Table, schema.UserEmailVerificationToken.ID,
	)

	verificationTokenDeleteExpiredQuery = fmt.Sprintf(`DELETE FROM %s WHERE %s < $1`,
		schema.UserEmailVerificationToken.Table, schema.UserEmailVerificationToken.ExpiresAt,
	)
)

// PostgresVerificationTokenRepository implements the VerificationTokenRepository interface using pgx.
type PostgresVerificationTokenRepository struct {
	db *pgxpool.Pool
}

// NewVerificationTokenRepository creates a new PostgreSQL implementation of the VerificationTokenRepository.
func NewVerificationTokenRepository(db *pgxpool.Pool) *PostgresVerificationTokenRepository {
	return &PostgresVerificationTokenRepository{db: db}
}

// FindValid returns the token only if it has not expired.
func (repository *PostgresVerificationTokenRepository) FindValid(context context.Context, token string, now time.Time) (*EmailVerificationToken, error) {
	verificationToken := &EmailVerificationToken{}
	err := repository.db.QueryRow(context, verificationTokenFindValidQuery, token, now).Scan(
		&verificationToken.ID, &verificationToken.UserID, &verificationToken.Token,
		&verificationToken.ExpiresAt, &verificationToken.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "find_verification_token")
	}

	return verificationToken, nil
}

// Delete removes a redeemed token row; verification tokens are single-use.
func (repository *PostgresVerificationTokenRepository) Delete(context context.Context, id int64) error {
	_, err := repository.db.Exec(context, verificationTokenDeleteQuery, id)
	return dberr.Wrap(err, "delete_verification_token")
}

func (repository *PostgresVerificationTokenRepository) DeleteExpired(context context.Context, now time.Time) (int64, error) {
	tag, err := repository.db.Exec(context, verificationTokenDeleteExpiredQuery, now)
	if err != nil {
		return 0, dberr.Wrap(err, "delete_expired_verification_tokens")
	}

	return tag.RowsAffected(), nil
}

// # Login History Repository

var (
	loginHistoryInsertQuery = fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING %s, %s
	`,
		schema.UserLoginHistory.Table, schema.UserLoginHistory.UserID, schema.UserLoginHistory.IPAddress,
		schema.UserLoginHistory.UserAgent, schema.UserLoginHistory.Outcome, schema.UserLoginHistory.FailureReason,
		schema.UserLoginHistory.CreatedAt,
		schema.UserLoginHistory.ID, schema.UserLoginHistory.CreatedAt,
	)

	loginHistoryCountQuery = fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1`,
		schema.UserLoginHistory.Table, schema.UserLoginHistory.UserID,
	)

	loginHistoryListQuery = fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC
		LIMIT $2 OFFSET $3
	`,
		schema.UserLoginHistory.ID, schema.UserLoginHistory.UserID, schema.UserLoginHistory.IPAddress,
		schema.UserLoginHistory.UserAgent, schema.UserLoginHistory.Outcome, schema.UserLoginHistory.FailureReason,
		schema.UserLoginHistory.CreatedAt,
		schema.UserLoginHistory.Table, schema.UserLoginHistory.UserID, schema.UserLoginHistory.CreatedAt,
	)
)

// PostgresLoginHistoryRepository implements the LoginHistoryRepository interface using pgx.
type PostgresLoginHistoryRepository struct {
	db *pgxpool.Pool
}

// NewLoginHistoryRepository creates a new PostgreSQL implementation of the LoginHistoryRepository.
func NewLoginHistoryRepository(db *pgxpool.Pool) *PostgresLoginHistoryRepository {
	return &PostgresLoginHistoryRepository{db: db}
}

// Record appends one attempt to the audit log. Rows are never updated.
func (repository *PostgresLoginHistoryRepository) Record(context context.Context, entry *LoginHistoryEntry) error {
	err := repository.db.QueryRow(context, loginHistoryInsertQuery,
		entry.UserID, entry.IPAddress, entry.UserAgent, entry.Outcome, entry.FailureReason,
	).Scan(&entry.ID, &entry.CreatedAt)

	return dberr.Wrap(err, "record_login_attempt")
}

func (repository *PostgresLoginHistoryRepository) ListByUser(context context.Context, userID int64, limit, offset int) ([]*LoginHistoryEntry, int, error) {
	var total int
	if err := repository.db.QueryRow(context, loginHistoryCountQuery, userID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_login_history")
	}

	rows, err := repository.db.Query(context, loginHistoryListQuery, userID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_login_history")
	}
	defer rows.Close()

	var entries []*LoginHistoryEntry
	for rows.Next() {
		entry := &LoginHistoryEntry{}
		if err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.IPAddress, &entry.UserAgent,
			&entry.Outcome, &entry.FailureReason, &entry.CreatedAt,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_login_history")
		}
		entries = append(entries, entry)
	}

	return entries, total, nil
}
