// Copyright (c) 2026 Melodia. All rights reserved.

package dberr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melodia-app/melodia/internal/platform/apperr"
	"github.com/melodia-app/melodia/internal/platform/dberr"
)

/*
TestWrap classifies the database error families into application errors.
*/
func TestWrap(t *testing.T) {
	tests := []struct {
		name       string
		input      error
		wantCode   string
		wantStatus int
	}{
		{
			name:       "no_rows_maps_to_not_found",
			input:      pgx.ErrNoRows,
			wantCode:   "NOT_FOUND",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "wrapped_no_rows",
			input:      fmt.Errorf("scan failed: %w", pgx.ErrNoRows),
			wantCode:   "NOT_FOUND",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "unique_violation_maps_to_conflict",
			input:      &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "account_email_key"},
			wantCode:   "CONFLICT",
			wantStatus: http.StatusConflict,
		},
		{
			name:       "foreign_key_violation_maps_to_validation",
			input:      &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation},
			wantCode:   "VALIDATION_ERROR",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown_error_maps_to_internal",
			input:      errors.New("connection reset by peer"),
			wantCode:   "INTERNAL_ERROR",
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := dberr.Wrap(tt.input, "create user")

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.wantCode, ae.Code)
			assert.Equal(t, tt.wantStatus, ae.HTTPStatus)
		})
	}
}

/*
TestWrap_Nil confirms that a nil error passes through untouched.
*/
func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, dberr.Wrap(nil, "noop"))
}

/*
TestIsUniqueViolation checks constraint-scoped unique-violation detection.
*/
func TestIsUniqueViolation(t *testing.T) {
	uniqueErr := &pgconn.PgError{
		Code:           pgerrcode.UniqueViolation,
		ConstraintName: "account_email_key",
	}

	t.Run("any_constraint", func(t *testing.T) {
		assert.True(t, dberr.IsUniqueViolation(uniqueErr, ""))
	})

	t.Run("matching_constraint", func(t *testing.T) {
		assert.True(t, dberr.IsUniqueViolation(uniqueErr, "account_email_key"))
	})

	t.Run("different_constraint", func(t *testing.T) {
		assert.False(t, dberr.IsUniqueViolation(uniqueErr, "session_tokenhash_key"))
	})

	t.Run("wrapped_pg_error", func(t *testing.T) {
		wrapped := fmt.Errorf("insert failed: %w", uniqueErr)
		assert.True(t, dberr.IsUniqueViolation(wrapped, "account_email_key"))
	})

	t.Run("not_a_pg_error", func(t *testing.T) {
		assert.False(t, dberr.IsUniqueViolation(errors.New("boom"), ""))
	})

	t.Run("other_sqlstate", func(t *testing.T) {
		fkErr := &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}
		assert.False(t, dberr.IsUniqueViolation(fkErr, ""))
	})
}
