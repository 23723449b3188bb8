package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/shelf/internal/shelf/domain"
	"github.com/aussiebroadwan/shelf/internal/shelf/store"
	"github.com/aussiebroadwan/shelf/pkg/cryptox"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

var (
	ErrTOTPNotEnrolled     = fmt.Errorf("authenticator app %w", ErrNotFound)
	ErrTOTPAlreadyEnabled  = fmt.Errorf("%w: authenticator app already enabled", ErrConflict)
	ErrInvalidTOTPCode     = fmt.Errorf("%w: authenticator code rejected", ErrInvalidCode)
	errPasswordConfirmFail = fmt.Errorf("%w: password is incorrect", ErrInvalidCredentials)
)

// MFAService manages the second factors a user can opt into: an emailed
// code on every login, and an authenticator app.
type MFAService struct {
	Store  store.Store
	Issuer string // shown in authenticator apps, e.g. "Shelf"
	Now    func() time.Time
}

// TOTPEnrollment is what the user scans into their authenticator app.
type TOTPEnrollment struct {
	Secret string
	URI    string // otpauth:// URL, usually rendered as a QR code
}

// SetEmailMFA turns the emailed login code on or off. The current password
// is required either way.
func (s *MFAService) SetEmailMFA(ctx context.Context, userID string, enabled bool, password string) (domain.User, error) {
	user, err := s.confirmPassword(ctx, userID, password)
	if err != nil {
		return domain.User{}, err
	}

	if err := s.Store.Users().SetMFAEnabled(ctx, userID, enabled); err != nil {
		return domain.User{}, fmt.Errorf("failed to update mfa setting: %w", err)
	}

	user.MFAEnabled = enabled
	return user, nil
}

// EnrollTOTP generates a fresh authenticator secret. It takes effect once
// ConfirmTOTP accepts a code from it.
func (s *MFAService) EnrollTOTP(ctx context.Context, userID string) (TOTPEnrollment, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return TOTPEnrollment{}, mapStoreErr(err, "user")
	}
	if user.TOTPEnabled() {
		return TOTPEnrollment{}, ErrTOTPAlreadyEnabled
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      s.issuer(),
		AccountName: user.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return TOTPEnrollment{}, fmt.Errorf("failed to generate TOTP key: %w", err)
	}

	if err := s.Store.Users().SetTOTPSecret(ctx, userID, key.Secret()); err != nil {
		return TOTPEnrollment{}, fmt.Errorf("failed to store TOTP secret: %w", err)
	}

	return TOTPEnrollment{Secret: key.Secret(), URI: key.URL()}, nil
}

// ConfirmTOTP enables the enrolled authenticator app once it produces a
// valid code.
func (s *MFAService) ConfirmTOTP(ctx context.Context, userID, code string) error {
	if err := Validator().Var(code, "required,len=6,numeric"); err != nil {
		return invalid("code", "must be a 6 digit code")
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return mapStoreErr(err, "user")
	}
	if user.TOTPSecret == nil {
		return ErrTOTPNotEnrolled
	}
	if user.TOTPEnabled() {
		return ErrTOTPAlreadyEnabled
	}

	if !s.validateCode(*user.TOTPSecret, code) {
		return ErrInvalidTOTPCode
	}

	if err := s.Store.Users().EnableTOTP(ctx, userID, clock(s.Now)); err != nil {
		return fmt.Errorf("failed to enable TOTP: %w", err)
	}
	return nil
}

// DisableTOTP removes the authenticator app after checking the password.
func (s *MFAService) DisableTOTP(ctx context.Context, userID, password string) error {
	user, err := s.confirmPassword(ctx, userID, password)
	if err != nil {
		return err
	}
	if user.TOTPSecret == nil {
		return ErrTOTPNotEnrolled
	}

	if err := s.Store.Users().ClearTOTP(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear TOTP: %w", err)
	}
	return nil
}

// ValidateTOTP checks code against the user's confirmed authenticator app.
func (s *MFAService) ValidateTOTP(user domain.User, code string) bool {
	return user.TOTPEnabled() && s.validateCode(*user.TOTPSecret, code)
}

// validateCode allows one period of clock skew either way.
func (s *MFAService) validateCode(secret, code string) bool {
	ok, err := totp.ValidateCustom(code, secret, clock(s.Now), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}

func (s *MFAService) confirmPassword(ctx context.Context, userID, password string) (domain.User, error) {
	if password == "" {
		return domain.User{}, invalid("password", "is required")
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.User{}, mapStoreErr(err, "user")
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return domain.User{}, errPasswordConfirmFail
		}
		return domain.User{}, fmt.Errorf("failed to verify password: %w", err)
	}
	return user, nil
}

func (s *MFAService) issuer() string {
	if s.Issuer != "" {
		return s.Issuer
	}
	return "Shelf"
}

// mapStoreErr turns store.ErrNotFound into ErrNotFound for what.
func mapStoreErr(err error, what string) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}
	return fmt.Errorf("failed to load %s: %w", what, err)
}
