// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/mailer"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/uuid"
)

// usernameUnsafe matches characters not allowed in a username.
var usernameUnsafe = regexp.MustCompile(`[^\w.@+-]+`)

// # Contracts & Types

// Options tunes token lifetimes and code handling.
type Options struct {
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// RotateCodeOnExchange invalidates the code after its first successful exchange.
	RotateCodeOnExchange bool
}

// Service implements the confirmation-code sign-in use cases.
type Service struct {
	userRepository    UserRepository
	sessionRepository SessionRepository
	mailer            Mailer
	tokenProvider     TokenProvider
	options           Options
	logger            *slog.Logger
	now               func() time.Time
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	sessionRepo SessionRepository,
	mail Mailer,
	tokenProv TokenProvider,
	options Options,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository:    userRepo,
		sessionRepository: sessionRepo,
		mailer:            mail,
		tokenProvider:     tokenProv,
		options:           options,
		logger:            logger,
		now:               time.Now,
	}
}

// # Code Issuance

// RequestCodeInput carries the e-mail and an optional preferred username.
type RequestCodeInput struct {
	Email    string
	Username string
}

/*
RequestCode issues a confirmation code for email and mails it.

Description: Creates the account on first contact (role user, unverified).
An unverified account gets a fresh code, which invalidates the previous one.
A verified account must use [Service.ReissueCode] instead.

Parameters:
  - context: context.Context
  - input: RequestCodeInput

Returns:
  - *User: The account the code was issued for
  - error: VALIDATION_ERROR, CONFLICT, DELIVERY_ERROR or storage failures
*/
func (service *Service) RequestCode(context context.Context, input RequestCodeInput) (*User, error) {
	email := NormalizeEmail(input.Email)
	username := strings.TrimSpace(input.Username)

	validator := &validate.Validator{}
	ValidateEmail(validator, email)
	if username != "" {
		ValidateUsername(validator, username)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Resolve the account state for this address
	created := false
	user, err := service.userRepository.FindByEmail(context, email)
	switch {
	case err == nil:
		if user.IsVerified {
			return nil, apperr.Conflict("Email is already bound to a verified account, request a new code via reissue-code")
		}
		if username != "" && username != user.Username {
			return nil, apperr.Conflict("Email is already registered with a different username")
		}
	case apperr.HasCode(err, apperr.CodeNotFound):
		user, err = service.createAccount(context, email, username)
		if err != nil {
			return nil, err
		}
		created = true
	default:
		return nil, fmt.Errorf("auth_service_lookup_failed: %w", err)
	}

	if err := service.issueCode(context, user); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "confirmation_code_issued",
		slog.String("user_id", user.ID),
		slog.Bool("new_account", created),
	)

	return user, nil
}

/*
ReissueCode generates, stores and mails a new code for an existing account.
The previous code stops matching as soon as the new hash is stored.

Returns:
  - error: NOT_FOUND if no account uses email, DELIVERY_ERROR, or storage failures
*/
func (service *Service) ReissueCode(context context.Context, email string) error {
	email = NormalizeEmail(email)

	validator := &validate.Validator{}
	ValidateEmail(validator, email)
	if err := validator.Err(); err != nil {
		return err
	}

	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		return err
	}

	if err := service.issueCode(context, user); err != nil {
		return err
	}

	service.logger.InfoContext(context, "confirmation_code_reissued", slog.String("user_id", user.ID))
	return nil
}

// # Code Exchange

/*
ExchangeCode trades a confirmation code for an access and a refresh token.

Description: The submitted code is compared against the stored bcrypt hash.
The code stays valid afterwards unless [Options.RotateCodeOnExchange] is set.

Returns:
  - *TokenPair: Credentials for the account
  - error: NOT_FOUND (unknown e-mail), INVALID_CODE (mismatch) or internal failures
*/
func (service *Service) ExchangeCode(context context.Context, email, code string) (*TokenPair, error) {
	email = NormalizeEmail(email)
	code = strings.TrimSpace(code)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).Required(FieldConfirmationCode, code)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		return nil, err
	}

	if !sec.CheckCodeHash(code, user.CodeHash) {
		service.logger.WarnContext(context, "confirmation_code_mismatch", slog.String("user_id", user.ID))
		return nil, apperr.InvalidCode()
	}

	if !user.IsVerified {
		if err := service.userRepository.MarkVerified(context, user.ID); err != nil {
			return nil, fmt.Errorf("auth_service_verify_failed: %w", err)
		}
		user.IsVerified = true
	}

	if service.options.RotateCodeOnExchange {
		if err := service.userRepository.SetCodeHash(context, user.ID, ""); err != nil {
			return nil, fmt.Errorf("auth_service_code_rotation_failed: %w", err)
		}
	}

	pair, err := service.issueTokens(context, user)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "user_signed_in", slog.String("user_id", user.ID))
	return pair, nil
}

// # Session Lifecycle

/*
Refresh rotates a refresh token: the presented session is revoked and a new
token pair is issued with the account's current role.

Returns:
  - error: UNAUTHORIZED for unknown, expired or orphaned sessions
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (*TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, validate.RequiredError(FieldRefreshToken, "This field is required")
	}

	session, err := service.sessionRepository.FindByTokenHash(context, sec.HashToken(refreshToken))
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.Unauthorized("Invalid or expired refresh token")
		}
		return nil, err
	}

	user, err := service.userRepository.FindByID(context, session.UserID)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.Unauthorized("Invalid or expired refresh token")
		}
		return nil, err
	}

	if err := service.sessionRepository.Delete(context, session); err != nil {
		return nil, fmt.Errorf("auth_service_session_rotation_failed: %w", err)
	}

	return service.issueTokens(context, user)
}

// Logout revokes the session of refreshToken. Unknown tokens are ignored.
func (service *Service) Logout(context context.Context, refreshToken string) error {
	session, err := service.sessionRepository.FindByTokenHash(context, sec.HashToken(refreshToken))
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil
		}
		return err
	}

	if err := service.sessionRepository.Delete(context, session); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	service.logger.InfoContext(context, "user_signed_out", slog.String("user_id", session.UserID))
	return nil
}

// RevokeSessions drops every refresh session of the account.
func (service *Service) RevokeSessions(context context.Context, userID string) error {
	return service.sessionRepository.DeleteAllForUser(context, userID)
}

// # Internal Helpers

// createAccount inserts a fresh unverified account. A derived username is
// retried with a random suffix when it collides with an existing one.
func (service *Service) createAccount(context context.Context, email, preferred string) (*User, error) {
	base := preferred
	if base == "" {
		base = DeriveUsername(email)
	}

	candidate := base
	for attempt := 1; ; attempt++ {
		user := &User{
			ID:       uuid.New(),
			Username: candidate,
			Email:    email,
			Role:     sec.RoleUser,
		}

		err := service.userRepository.Create(context, user)
		switch {
		case err == nil:
			service.logger.InfoContext(context, "user_registered",
				slog.String("user_id", user.ID),
				slog.String("username", user.Username),
			)
			return user, nil

		case errors.Is(err, ErrUsernameTaken) && preferred == "" && attempt < usernameAttempts:
			suffix, suffixErr := sec.GenerateSecureToken(usernameSuffixBytes)
			if suffixErr != nil {
				return nil, fmt.Errorf("auth_service_username_suffix_failed: %w", suffixErr)
			}
			candidate = truncate(base, MaxUsernameLength-len(suffix)-1) + "_" + suffix

		case errors.Is(err, ErrEmailTaken):
			// A concurrent request created the account first
			return nil, apperr.Conflict("Email is already registered, request a new code via reissue-code")

		default:
			if apperr.IsAppError(err) {
				return nil, err
			}
			return nil, fmt.Errorf("auth_service_register_failed: %w", err)
		}
	}
}

// issueCode stores the hash of a fresh code, then mails the plain code.
func (service *Service) issueCode(context context.Context, user *User) error {
	code, err := sec.GenerateConfirmationCode()
	if err != nil {
		return fmt.Errorf("auth_service_code_generation_failed: %w", err)
	}

	codeHash, err := sec.HashCode(code)
	if err != nil {
		return fmt.Errorf("auth_service_code_hash_failed: %w", err)
	}

	if err := service.userRepository.SetCodeHash(context, user.ID, codeHash); err != nil {
		return fmt.Errorf("auth_service_code_store_failed: %w", err)
	}

	data := mailer.ConfirmationCodeData{Username: user.Username, Code: code}
	if err := service.mailer.Send(context, user.Email, mailer.TemplateConfirmationCode, data); err != nil {
		service.logger.ErrorContext(context, "confirmation_code_delivery_failed",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
		return apperr.DeliveryFailed(err)
	}
	return nil
}

// issueTokens signs an access token and opens a refresh session.
func (service *Service) issueTokens(context context.Context, user *User) (*TokenPair, error) {
	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username, user.Role, service.options.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	session := &Session{
		TokenHash: sec.HashToken(refreshToken),
		UserID:    user.ID,
		ExpiresAt: service.now().Add(service.options.RefreshTokenTTL),
	}
	if err := service.sessionRepository.Create(context, session); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    constants.TokenTypeBearer,
		ExpiresIn:    int64(service.options.AccessTokenTTL.Seconds()),
	}, nil
}

// # Shared Rules

// NormalizeEmail trims and lowercases an address so one mailbox maps to one account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateUsername applies the username rules to a candidate.
func ValidateUsername(validator *validate.Validator, username string) {
	validator.Required(FieldUsername, username).
		MaxLen(FieldUsername, username, MaxUsernameLength).
		Username(FieldUsername, username).
		Custom(FieldUsername, strings.EqualFold(username, ReservedUsername), "This username is reserved")
}

// ValidateEmail applies the e-mail rules to a normalized address.
func ValidateEmail(validator *validate.Validator, email string) {
	validator.Required(FieldEmail, email).
		MaxLen(FieldEmail, email, MaxEmailLength).
		Email(FieldEmail, email)
}

// DeriveUsername builds a username from the local part of an e-mail address.
func DeriveUsername(email string) string {
	local, _, _ := strings.Cut(email, "@")
	candidate := usernameUnsafe.ReplaceAllString(local, "")
	if candidate == "" || strings.EqualFold(candidate, ReservedUsername) {
		candidate = "user"
	}
	return truncate(candidate, MaxUsernameLength)
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	return value[:max]
}
