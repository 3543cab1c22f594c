// Copyright (c) 2026 Melodia. All rights reserved.

/*
Package account provides self-service profile management for listeners.

It exposes the authenticated user's own profile (the /me surface) and the
small set of fields a listener may edit directly. Identity mutations with
security consequences (password, email verification) live in the auth package.
*/
package account

import (
	"context"

	"github.com/melodia-app/melodia/internal/users/auth"
)

// # Contracts

// AccountRepository defines the data access contract for profile reads and
// the listener-editable subset of account fields.
type AccountRepository interface {

	/*
		FindByID returns the account with the given id.

		Returns:
		  - *auth.User: Hydrated profile
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id int64) (*auth.User, error)

	/*
		UpdateName replaces the listener's display name.
	*/
	UpdateName(context context.Context, userID int64, name string) error
}

// # Field Identifiers

// Field names for validation in the account domain.
const (
	FieldName = "name"
)
