// Copyright (c) 2026 Melodia. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"
	"unicode/utf8"

	"github.com/melodia-app/melodia/internal/platform/apperr"
	"github.com/melodia-app/melodia/internal/platform/sec"
	"github.com/melodia-app/melodia/pkg/pagination"
)

// # Contracts & Types

// TokenProvider defines the contract for generating signed access tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - email: The email of the account.
	//   - name: The display name of the account.
	//   - isPremium: The subscription flag baked into the claims.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateAccessToken(userID int64, email, name string, isPremium bool, timeToLive time.Duration) (string, error)
}

// Service implements authentication and session-security use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, lockout,
// or token logic must be reviewed by the security team.
type Service struct {
	userRepository              UserRepository
	securityRepository          SecurityRepository
	sessionRepository           SessionRepository
	resetTokenRepository        ResetTokenRepository
	verificationTokenRepository VerificationTokenRepository
	loginHistoryRepository      LoginHistoryRepository
	tokenProvider               TokenProvider
	policy                      Policy
	logger                      *slog.Logger

	// now is injectable so lockout expiry can be tested deterministically.
	now func() time.Time
}

// NewService constructs a new [Service] with its dependencies.
func NewService(
	userRepo UserRepository,
	securityRepo SecurityRepository,
	sessionRepo SessionRepository,
	resetRepo ResetTokenRepository,
	verifyRepo VerificationTokenRepository,
	historyRepo LoginHistoryRepository,
	tokenProv TokenProvider,
	policy Policy,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository:              userRepo,
		securityRepository:          securityRepo,
		sessionRepository:           sessionRepo,
		resetTokenRepository:        resetRepo,
		verificationTokenRepository: verifyRepo,
		loginHistoryRepository:      historyRepo,
		tokenProvider:               tokenProv,
		policy:                      policy,
		logger:                      logger,
		now:                         time.Now,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new listener.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// validatePassword enforces the minimum password length inside every
// operation that sets a password. The HTTP layer runs the same rule, but the
// invariant must hold for any caller of the service.
func validatePassword(field, password string) error {
	if utf8.RuneCountInString(password) < PasswordMinLength {
		return apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   field,
			Message: fmt.Sprintf("Minimum %d characters", PasswordMinLength),
		})
	}
	return nil
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Enrolls a new listener. The account row, its security settings,
and the initial email verification token are created in one transaction, so a
user can never exist without lockout bookkeeping.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - err: Conflict (if the email is taken) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	if err := validatePassword(FieldPassword, input.Password); err != nil {
		return nil, err
	}

	// Verify email uniqueness. Return a client-safe Conflict err. The unique
	// index backs this up against concurrent registrations.
	_, err := service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("An account with this email already exists")
	}

	hashedPassword, err := sec.HashPassword(input.Password, service.policy.HashCost)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		Email:         input.Email,
		PasswordHash:  hashedPassword,
		Name:          input.Name,
		IsPremium:     false,
		EmailVerified: false,
		Status:        StatusActive,
	}

	verificationToken, err := sec.GenerateSecureToken(VerificationTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_verification_token_failed: %w", err)
	}

	verification := &EmailVerificationToken{
		Token:     verificationToken,
		ExpiresAt: service.now().Add(service.policy.VerificationTokenTTL),
	}

	if err := service.userRepository.Create(context, user, verification); err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	// TODO: Hand the token to the mail sender once the notification worker lands.
	service.logger.Info("verification token issued",
		slog.Int64("user_id", user.ID),
		slog.String("token", verificationToken),
	)

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

// LoginSession represents a successfully established user session.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
}

/*
Login validates user credentials and issues security tokens.

Description: Verifies identity with a constant-time password comparison,
enforces the account lockout policy, appends the attempt to the login audit
log, and establishes a new session on success.

The "Invalid email or password" message is identical for unknown emails and
wrong passwords so responses cannot be used to enumerate accounts.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Transport-ready session identifiers
  - err: Unauthorized, Locked, Forbidden, or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	now := service.now()

	user, settings, err := service.userRepository.FindByEmailWithSettings(context, input.Email)

	// If (err != nil) the user does not exist. Generic message to prevent enumeration;
	// the attempt is still recorded (with no user id) for abuse analysis.
	if err != nil {
		service.recordAttempt(context, nil, input, OutcomeFailed, "User not found")
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	// Lockout check. An expired lock is cleared here rather than by a background
	// job, so the first login after the window behaves like a fresh account.
	if settings.AccountLockedUntil != nil {
		if settings.AccountLockedUntil.After(now) {
			service.recordAttempt(context, &user.ID, input, OutcomeFailed, "Account locked")
			remaining := int(math.Ceil(settings.AccountLockedUntil.Sub(now).Minutes()))
			return nil, apperr.Locked(remaining)
		}
		if err := service.securityRepository.ResetFailedAttempts(context, user.ID); err != nil {
			return nil, fmt.Errorf("auth_service_unlock_failed: %w", err)
		}
		settings.FailedLoginAttempts = 0
		settings.AccountLockedUntil = nil
	}

	if user.Status != StatusActive {
		service.recordAttempt(context, &user.ID, input, OutcomeFailed, "Account not active")
		return nil, apperr.Forbidden("Account is not active")
	}

	// Verify password hash using bcrypt's constant-time comparison.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		service.recordAttempt(context, &user.ID, input, OutcomeFailed, "Invalid password")

		attempts, err := service.securityRepository.IncrementFailedAttempts(context, user.ID, now)
		if err != nil {
			return nil, fmt.Errorf("auth_service_increment_attempts_failed: %w", err)
		}

		if attempts >= service.policy.MaxLoginAttempts {
			until := now.Add(service.policy.LockoutDuration)
			if err := service.securityRepository.LockAccount(context, user.ID, until); err != nil {
				return nil, fmt.Errorf("auth_service_lock_failed: %w", err)
			}
			service.logger.Warn("account locked after repeated failures",
				slog.Int64("user_id", user.ID),
				slog.Int("attempts", attempts),
			)
			remaining := int(math.Ceil(service.policy.LockoutDuration.Minutes()))
			return nil, apperr.Locked(remaining)
		}

		return nil, apperr.Unauthorized("Invalid email or password")
	}

	// Successful authentication: clear lockout state and stamp the login.
	if err := service.securityRepository.ResetFailedAttempts(context, user.ID); err != nil {
		return nil, fmt.Errorf("auth_service_reset_attempts_failed: %w", err)
	}
	if err := service.userRepository.RecordLoginSuccess(context, user.ID, now); err != nil {
		return nil, fmt.Errorf("auth_service_record_login_failed: %w", err)
	}
	service.recordAttempt(context, &user.ID, input, OutcomeSuccess, "")

	accessToken, err := service.tokenProvider.GenerateAccessToken(
		user.ID, user.Email, user.Name, user.IsPremium, service.policy.AccessTokenTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	expiresAt := now.Add(service.policy.RefreshTokenTTL)
	session := &RefreshToken{
		UserID:    user.ID,
		TokenHash: sec.HashToken(refreshToken),
		UserAgent: input.UserAgent,
		IPAddress: input.IPAddress,
		ExpiresAt: expiresAt,
	}

	if err := service.sessionRepository.Create(context, session); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: expiresAt,
		User:                  user,
	}, nil
}

// recordAttempt appends one entry to the login audit log. Audit failures are
// logged and swallowed so bookkeeping can never block an authentication outcome.
func (service *Service) recordAttempt(context context.Context, userID *int64, input LoginInput, outcome LoginOutcome, reason string) {
	entry := &LoginHistoryEntry{
		UserID:    userID,
		IPAddress: input.IPAddress,
		UserAgent: input.UserAgent,
		Outcome:   outcome,
	}
	if reason != "" {
		entry.FailureReason = &reason
	}

	if err := service.loginHistoryRepository.Record(context, entry); err != nil {
		service.logger.Warn("failed to record login attempt", slog.String("error", err.Error()))
	}
}

// # Session Management

// RefreshResult carries the credentials minted by a refresh call.
type RefreshResult struct {
	AccessToken string
	User        *User
}

/*
RefreshAccessToken exchanges a valid refresh token for a new access token.

Description: Verifies the opaque refresh token against its stored hash and,
if the owner is still an active account, mints a fresh JWT. The refresh token
itself is NOT rotated; it stays valid until expiry, logout, or revocation.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *RefreshResult: New access token and the owning user
  - err: Unauthorized, Forbidden, or storage failures
*/
func (service *Service) RefreshAccessToken(context context.Context, refreshToken string) (*RefreshResult, error) {
	if refreshToken == "" {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}

	tokenHash := sec.HashToken(refreshToken)
	session, err := service.sessionRepository.FindByTokenHash(context, tokenHash)

	// If (err != nil) the token is revoked or was never issued.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}

	// Expiry is distinguished from absence so clients know to re-authenticate
	// rather than retry.
	if session.ExpiresAt.Before(service.now()) {
		return nil, apperr.Unauthorized("Refresh token expired")
	}

	user, err := service.userRepository.FindByID(context, session.UserID)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}

	if user.Status != StatusActive {
		return nil, apperr.Forbidden("Account is not active")
	}

	accessToken, err := service.tokenProvider.GenerateAccessToken(
		user.ID, user.Email, user.Name, user.IsPremium, service.policy.AccessTokenTTL,
	)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_access_token_failed: %w", err)
	}

	return &RefreshResult{AccessToken: accessToken, User: user}, nil
}

/*
Logout permanently revokes the presented refresh token.

Description: Ensures that a tracked refresh token can never be used again.
Logging out with an unknown or already-revoked token succeeds silently
(idempotent operation).

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - err: Revocation failures
*/
func (service *Service) Logout(context context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	tokenHash := sec.HashToken(refreshToken)
	if err := service.sessionRepository.Revoke(context, tokenHash); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

// # Password Management

/*
ChangePassword updates the password of an authenticated user.

Description: Verifies the current password before accepting the new one, then
revokes every active refresh token so stolen sessions die with the old
password.

Parameters:
  - context: context.Context
  - userID: int64
  - currentPassword: string
  - newPassword: string

Returns:
  - err: NotFound, Unauthorized, or update failures
*/
func (service *Service) ChangePassword(context context.Context, userID int64, currentPassword, newPassword string) error {
	if err := validatePassword(FieldNewPassword, newPassword); err != nil {
		return err
	}

	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	newHash, err := sec.HashPassword(newPassword, service.policy.HashCost)
	if err != nil {
		return fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, userID, newHash); err != nil {
		return fmt.Errorf("auth_service_change_password_failed: %w", err)
	}

	if err := service.sessionRepository.RevokeAllForUser(context, userID); err != nil {
		return fmt.Errorf("auth_service_revoke_sessions_failed: %w", err)
	}

	return nil
}

/*
RequestPasswordReset initiates the forgot-password flow.

Description: Generates and persists a single-use reset token. An unknown email
returns success with no token; the HTTP layer replies with the same generic
message either way to prevent user enumeration.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - string: Reset token, empty when the email matched no account
  - err: Generation or storage errors
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) (string, error) {
	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		return "", nil
	}

	token, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return "", fmt.Errorf("auth_service_generate_reset_token_failed: %w", err)
	}

	resetToken := &PasswordResetToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: service.now().Add(service.policy.ResetTokenTTL),
	}

	if err := service.resetTokenRepository.Create(context, resetToken); err != nil {
		return "", fmt.Errorf("auth_service_save_reset_token_failed: %w", err)
	}

	// TODO: Hand the token to the mail sender once the notification worker lands.
	service.logger.Info("password reset token issued",
		slog.Int64("user_id", user.ID),
		slog.String("token", token),
	)

	return token, nil
}

/*
ResetPassword completes the forgot-password flow.

Description: Redeems a reset token, updates the password hash, marks the token
used, and revokes all active refresh tokens for the account.

Parameters:
  - context: context.Context
  - token: string
  - newPassword: string

Returns:
  - err: ValidationError for bad tokens, or update failures
*/
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {
	if err := validatePassword(FieldPassword, newPassword); err != nil {
		return err
	}

	resetToken, err := service.resetTokenRepository.FindActive(context, token, service.now())
	if err != nil {
		return apperr.ValidationError("Invalid or expired reset token")
	}

	newHash, err := sec.HashPassword(newPassword, service.policy.HashCost)
	if err != nil {
		return fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, resetToken.UserID, newHash); err != nil {
		return fmt.Errorf("auth_service_reset_password_failed: %w", err)
	}

	// Single-use: the flag blocks replays; the row itself is swept by the
	// cleanup job later.
	if err := service.resetTokenRepository.MarkUsed(context, resetToken.ID); err != nil {
		return fmt.Errorf("auth_service_mark_token_used_failed: %w", err)
	}

	if err := service.sessionRepository.RevokeAllForUser(context, resetToken.UserID); err != nil {
		return fmt.Errorf("auth_service_revoke_sessions_failed: %w", err)
	}

	return nil
}

// # Email Verification

/*
VerifyEmail confirms mailbox ownership.

Description: Redeems a verification token, flips the account's verified flag,
and deletes the token row so it cannot be replayed.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - err: ValidationError for bad tokens, or update failures
*/
func (service *Service) VerifyEmail(context context.Context, token string) error {
	verificationToken, err := service.verificationTokenRepository.FindValid(context, token, service.now())
	if err != nil {
		return apperr.ValidationError("Invalid or expired verification token")
	}

	if err := service.userRepository.MarkVerified(context, verificationToken.UserID); err != nil {
		return fmt.Errorf("auth_service_mark_verified_failed: %w", err)
	}

	if err := service.verificationTokenRepository.Delete(context, verificationToken.ID); err != nil {
		return fmt.Errorf("auth_service_delete_verification_token_failed: %w", err)
	}

	return nil
}

// # Maintenance

/*
CleanupExpiredTokens sweeps dead token rows from all three token tables.

Description: Removes expired refresh tokens, expired-or-used reset tokens, and
expired verification tokens. Each table is swept independently; a failure in
one is logged and does not stop the others.

Parameters:
  - context: context.Context
*/
func (service *Service) CleanupExpiredTokens(context context.Context) {
	now := service.now()

	if removed, err := service.sessionRepository.DeleteExpired(context, now); err != nil {
		service.logger.Error("refresh token sweep failed", slog.String("error", err.Error()))
	} else if removed > 0 {
		service.logger.Info("swept expired refresh tokens", slog.Int64("removed", removed))
	}

	if removed, err := service.resetTokenRepository.DeleteExpiredOrUsed(context, now); err != nil {
		service.logger.Error("reset token sweep failed", slog.String("error", err.Error()))
	} else if removed > 0 {
		service.logger.Info("swept stale reset tokens", slog.Int64("removed", removed))
	}

	if removed, err := service.verificationTokenRepository.DeleteExpired(context, now); err != nil {
		service.logger.Error("verification token sweep failed", slog.String("error", err.Error()))
	} else if removed > 0 {
		service.logger.Info("swept expired verification tokens", slog.Int64("removed", removed))
	}
}

// # Login Audit

/*
LoginActivity returns a page of the user's login attempts, newest first.

Parameters:
  - context: context.Context
  - userID: int64
  - params: pagination.Params

Returns:
  - []*LoginHistoryEntry: One page of audit entries
  - pagination.Meta: Page metadata
  - err: Storage failures
*/
func (service *Service) LoginActivity(context context.Context, userID int64, params pagination.Params) ([]*LoginHistoryEntry, pagination.Meta, error) {
	entries, total, err := service.loginHistoryRepository.ListByUser(context, userID, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("auth_service_login_activity_failed: %w", err)
	}

	return entries, pagination.NewMeta(params.Page, params.Limit, total), nil
}
