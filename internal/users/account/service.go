// Copyright (c) 2026 Melodia. All rights reserved.

package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/melodia-app/melodia/internal/users/auth"
)

// # Service Layer

// Service orchestrates profile reads and updates for the authenticated listener.
type Service struct {
	accountRepository AccountRepository
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(accountRepo AccountRepository, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accountRepo,
		logger:            logger,
	}
}

/*
GetProfile retrieves the full private identity of a listener.

Parameters:
  - context: context.Context
  - userID: int64

Returns:
  - *auth.User: The hydrated profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID int64) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfileInput defines the mutable subset of profile fields.
type UpdateProfileInput struct {
	Name *string
}

/*
UpdateProfile applies a partial set of changes to the listener's profile.

Description: Only provided fields are written; nil pointers leave the stored
value untouched.

Parameters:
  - context: context.Context
  - userID: int64
  - input: UpdateProfileInput

Returns:
  - *auth.User: The profile after the update
  - error: Not found or update failures
*/
func (service *Service) UpdateProfile(context context.Context, userID int64, input UpdateProfileInput) (*auth.User, error) {
	if input.Name != nil {
		if err := service.accountRepository.UpdateName(context, userID, *input.Name); err != nil {
			return nil, fmt.Errorf("account_service_update_name_failed: %w", err)
		}
		service.logger.Info("profile name updated", slog.Int64("user_id", userID))
	}

	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}
