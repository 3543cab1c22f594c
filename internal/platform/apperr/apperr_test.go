// Copyright (c) 2026 Melodia. All rights reserved.

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/melodia-app/melodia/internal/platform/apperr"
)

/*
TestConstructors checks that each constructor produces the expected code,
status, and client-facing message.
*/
func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *apperr.AppError
		wantCode   string
		wantStatus int
		wantMsg    string
	}{
		{"not_found", apperr.NotFound("User"), "NOT_FOUND", http.StatusNotFound, "User not found"},
		{"unauthorized", apperr.Unauthorized("Invalid email or password"), "UNAUTHORIZED", http.StatusUnauthorized, "Invalid email or password"},
		{"forbidden", apperr.Forbidden("Account is not active"), "FORBIDDEN", http.StatusForbidden, "Account is not active"},
		{"conflict", apperr.Conflict("An account with this email already exists"), "CONFLICT", http.StatusConflict, "An account with this email already exists"},
		{"validation", apperr.ValidationError("Validation failed"), "VALIDATION_ERROR", http.StatusBadRequest, "Validation failed"},
		{"locked", apperr.Locked(30), "ACCOUNT_LOCKED", http.StatusLocked, "Account is locked. Try again in 30 minutes."},
		{"rate_limited", apperr.RateLimited(60), "RATE_LIMITED", http.StatusTooManyRequests, "Too many requests. Try again in 60s."},
		{"internal", apperr.Internal(errors.New("pq: boom")), "INTERNAL_ERROR", http.StatusInternalServerError, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.Equal(t, tt.wantStatus, tt.err.HTTPStatus)
			assert.Equal(t, tt.wantMsg, tt.err.Error())
		})
	}
}

/*
TestInternal_HidesCause verifies that the underlying server-side error never
leaks into the client-facing message but stays reachable for logging.
*/
func TestInternal_HidesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := apperr.Internal(cause)

	assert.NotContains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, cause)
}

/*
TestValidationError_Details checks that per-field details are carried through.
*/
func TestValidationError_Details(t *testing.T) {
	err := apperr.ValidationError("Validation failed",
		apperr.FieldError{Field: "email", Message: "Must be a valid email address"},
		apperr.FieldError{Field: "password", Message: "Minimum 8 characters"},
	)

	require.Len(t, err.Details, 2)
	assert.Equal(t, "email", err.Details[0].Field)
	assert.Equal(t, "password", err.Details[1].Field)
}

/*
TestHelpers exercises IsAppError and As across wrapped chains.
*/
func TestHelpers(t *testing.T) {
	t.Run("direct", func(t *testing.T) {
		err := apperr.NotFound("User")
		assert.True(t, apperr.IsAppError(err))
		require.NotNil(t, apperr.As(err))
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})

	t.Run("wrapped", func(t *testing.T) {
		err := fmt.Errorf("auth_service_login_failed: %w", apperr.Unauthorized("Invalid email or password"))
		assert.True(t, apperr.IsAppError(err))
		require.NotNil(t, apperr.As(err))
		assert.Equal(t, http.StatusUnauthorized, apperr.As(err).HTTPStatus)
	})

	t.Run("plain_error", func(t *testing.T) {
		err := errors.New("something broke")
		assert.False(t, apperr.IsAppError(err))
		assert.Nil(t, apperr.As(err))
	})

	t.Run("nil", func(t *testing.T) {
		assert.False(t, apperr.IsAppError(nil))
		assert.Nil(t, apperr.As(nil))
	})
}
