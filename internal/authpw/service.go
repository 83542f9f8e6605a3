// Package authpw provides email/password credentials with verification and
// password reset flows.
package authpw

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"sprout/api/internal/store"
	"sprout/api/internal/util"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// ResetTokenTTL is how long a password reset token stays valid.
const ResetTokenTTL = 1 * time.Hour

var (
	// ErrInvalidCredentials is returned when the email or password is wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrPasswordTooShort is returned when a password fails the length check.
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
)

// UserStore defines the storage interface for credentials
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (store.User, error)
	ConsumeVerificationToken(ctx context.Context, token string) (bool, error)
	SetResetToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	ConsumeResetToken(ctx context.Context, token, passwordHash string) (bool, error)
}

// Service provides email/password credential operations
type Service struct {
	store UserStore
}

// NewService creates a new credential service
func NewService(store UserStore) *Service {
	return &Service{store: store}
}

// HashPassword validates and hashes a plaintext password for storage.
func (s *Service) HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// SignIn authenticates a user by email and password. A missing account and a
// wrong password both come back as ErrInvalidCredentials so the response
// never reveals whether the email is registered.
func (s *Service) SignIn(ctx context.Context, email, password string) (store.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return store.User{}, ErrInvalidCredentials
	}
	if user.PasswordHash == "" {
		// Google-only account
		return store.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return store.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// VerifyEmail spends a verification token. The bool result reports whether
// the token matched an unverified account.
func (s *Service) VerifyEmail(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	return s.store.ConsumeVerificationToken(ctx, token)
}

// RequestPasswordReset creates a reset token for the account behind an email
// address. When the email is unknown it reports ok=false with no error, so
// the handler can answer identically either way.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (token string, user store.User, ok bool, err error) {
	user, err = s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return "", store.User{}, false, nil
	}

	token = util.NewToken()
	expiresAt := time.Now().Add(ResetTokenTTL)
	if err := s.store.SetResetToken(ctx, user.ID, token, expiresAt); err != nil {
		return "", store.User{}, false, fmt.Errorf("set reset token: %w", err)
	}
	return token, user, true, nil
}

// ResetPassword sets a new password using a reset token. The bool result
// reports whether the token was valid and unexpired.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) (bool, error) {
	if token == "" {
		return false, nil
	}
	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return false, err
	}
	return s.store.ConsumeResetToken(ctx, token, hash)
}
