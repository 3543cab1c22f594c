// Copyright (c) 2026 Melodia. All rights reserved.

package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/melodia-app/melodia/internal/platform/apperr"
	"github.com/melodia-app/melodia/internal/platform/database/schema"
	"github.com/melodia-app/melodia/internal/users/auth"
)

// # Account Repository

// PostgresAccountRepository implements [AccountRepository] using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new Postgres implementation for profile management.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

/*
FindByID retrieves a profile from the users.account table.

Parameters:
  - context: context.Context
  - id: int64

Returns:
  - *auth.User: Hydrated profile
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, id int64) (*auth.User, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.UserAccount.ID, schema.UserAccount.Email, schema.UserAccount.PasswordHash,
		schema.UserAccount.Name, schema.UserAccount.IsPremium, schema.UserAccount.EmailVerified,
		schema.UserAccount.Status, schema.UserAccount.LastLoginAt,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
		schema.UserAccount.Table, schema.UserAccount.ID,
	)

	user := &auth.User{}
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
		return nil, fmt.Errorf("postgres_account_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

/*
UpdateName replaces the listener's display name.

Parameters:
  - context: context.Context
  - userID: int64
  - name: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresAccountRepository) UpdateName(context context.Context, userID int64, name string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = NOW()
		WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.Name,
		schema.UserAccount.UpdatedAt, schema.UserAccount.ID,
	)

	_, err := repository.pool.Exec(context, query, userID, name)
	if err != nil {
		return fmt.Errorf("postgres_account_repo_update_name_failed: %w", err)
	}

	return nil
}
