package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/shelf/internal/shelf/domain"
	"github.com/aussiebroadwan/shelf/internal/shelf/store"
	"github.com/aussiebroadwan/shelf/pkg/cryptox"
	"github.com/aussiebroadwan/shelf/pkg/idx"
	"github.com/aussiebroadwan/shelf/pkg/slogx"
)

// DefaultResetGrantTTL bounds the gap between verifying a reset code and
// choosing the new password.
const DefaultResetGrantTTL = 10 * time.Minute

// ErrResetGrantNotFound means the reset code was never verified, or the
// grant it produced was already redeemed.
var ErrResetGrantNotFound = fmt.Errorf("reset grant %w", ErrNotFound)

// AuthService drives registration, login with a second factor and password
// reset.
type AuthService struct {
	Store    store.Store
	OTP      *OTPService
	Sessions *SessionService
	MFA      *MFAService

	// RequireMFA demands an emailed code on every login.
	RequireMFA    bool
	ResetGrantTTL time.Duration
	Now           func() time.Time
}

type RegisterInput struct {
	Name            string `validate:"required,min=2,max=100"`
	Email           string `validate:"required,email,max=254"`
	Password        string `validate:"required,strongpassword"`
	ConfirmPassword string `validate:"omitempty,eqfield=Password"`
}

type LoginInput struct {
	Email    string `validate:"required,max=254"`
	Password string `validate:"required,max=128"`
}

// Second factor methods accepted by VerifyOTP.
const (
	MethodEmail = "email"
	MethodTOTP  = "totp"
)

type VerifyOTPInput struct {
	UserID string `validate:"required"`
	Code   string `validate:"required,len=6,numeric"`
	Method string `validate:"omitempty,oneof=email totp"`
}

type VerifyResetInput struct {
	Email string `validate:"required,email,max=254"`
	Code  string `validate:"required,len=6,numeric"`
}

type ResetPasswordInput struct {
	UserID      string `validate:"required"`
	ResetToken  string `validate:"required"`
	NewPassword string `validate:"required,strongpassword"`
}

// LoginResult is either an authenticated session or a pending second step.
// When Pending is true a code was emailed and Session is nil.
type LoginResult struct {
	User    domain.User
	Session *IssuedSession
	Pending bool
}

// ResetTicket proves the reset code was verified. Only the token holder can
// set the new password.
type ResetTicket struct {
	UserID     string
	ResetToken string
	ExpiresAt  time.Time
}

// Register creates an unverified account and emails a register code. A
// pending account is refreshed with a new code only when the same password
// is presented again; any other attempt on a taken email is ErrConflict.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)
	if err := check(in); err != nil {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	var user domain.User
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		existing, err := tx.Users().GetUserByEmail(ctx, in.Email)
		switch {
		case err == nil && existing.Verified:
			return fmt.Errorf("%w: email already registered", ErrConflict)

		case err == nil:
			// Only the holder of the pending password may restart its
			// registration; the stored hash is never replaced.
			if err := cryptox.VerifyPassword(in.Password, existing.PasswordHash); err != nil {
				if errors.Is(err, cryptox.ErrPasswordMismatch) {
					return fmt.Errorf("%w: email already registered", ErrConflict)
				}
				return fmt.Errorf("failed to verify password: %w", err)
			}
			if err := tx.Users().RenamePendingUser(ctx, existing.ID, in.Name); err != nil {
				return fmt.Errorf("failed to update pending user: %w", err)
			}
			existing.Name = in.Name
			user = existing

		case errors.Is(err, store.ErrNotFound):
			now := s.now()
			user = domain.User{
				ID:           idx.NewAt(now).String(),
				Name:         in.Name,
				Email:        in.Email,
				PasswordHash: hash,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := tx.Users().CreateUser(ctx, user); err != nil {
				if errors.Is(err, store.ErrAlreadyExists) {
					return fmt.Errorf("%w: email already registered", ErrConflict)
				}
				return fmt.Errorf("failed to create user: %w", err)
			}

		default:
			return fmt.Errorf("failed to look up email: %w", err)
		}

		_, err = s.OTP.IssueTx(ctx, tx, user, domain.PurposeRegister)
		return err
	})
	if err != nil {
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user registered", "user_id", user.ID)
	return user, nil
}

// Login checks the password. Unverified accounts and accounts needing a
// second factor get an emailed code and a pending result instead of a
// session.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	in.Email = NormalizeEmail(in.Email)
	if err := check(in); err != nil {
		return LoginResult{}, err
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, in.Email)
	if errors.Is(err, store.ErrNotFound) {
		cryptox.BurnPasswordCheck(in.Password)
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := cryptox.VerifyPassword(in.Password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("failed to verify password: %w", err)
	}

	switch {
	case !user.Verified:
		if _, err := s.OTP.Issue(ctx, user, domain.PurposeRegister); err != nil {
			return LoginResult{}, err
		}
		return LoginResult{User: user, Pending: true}, nil

	case user.RequiresMFA(s.RequireMFA):
		if _, err := s.OTP.Issue(ctx, user, domain.PurposeLoginMFA); err != nil {
			return LoginResult{}, err
		}
		return LoginResult{User: user, Pending: true}, nil
	}

	issued, err := s.Sessions.Issue(ctx, user, []string{domain.AMRPassword})
	if err != nil {
		return LoginResult{}, err
	}

	slogx.FromContext(ctx).Info("user logged in", "user_id", user.ID)
	return LoginResult{User: user, Session: &issued}, nil
}

// VerifyOTP completes registration or a second-factor login. The purpose
// follows the account: register while unverified, login-mfa afterwards.
func (s *AuthService) VerifyOTP(ctx context.Context, in VerifyOTPInput) (LoginResult, error) {
	in.UserID = strings.TrimSpace(in.UserID)
	in.Code = strings.TrimSpace(in.Code)
	if err := check(in); err != nil {
		return LoginResult{}, err
	}

	user, err := s.Store.Users().GetUserByID(ctx, in.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return LoginResult{}, ErrChallengeNotFound
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("failed to look up user: %w", err)
	}

	purpose := domain.PurposeLoginMFA
	amr := []string{domain.AMRPassword, domain.AMROTP, domain.AMRMFA}
	match := CodeMatcher(in.Code)

	if !user.Verified {
		purpose = domain.PurposeRegister
		amr = []string{domain.AMRPassword, domain.AMROTP}
	}

	if in.Method == MethodTOTP {
		if !user.Verified || !user.TOTPEnabled() || s.MFA == nil {
			return LoginResult{}, invalid("method", "no authenticator app is enrolled")
		}
		amr = []string{domain.AMRPassword, domain.AMRTOTP, domain.AMRMFA}
		match = func(domain.Challenge) bool {
			return s.MFA.ValidateTOTP(user, in.Code)
		}
	}

	var issued IssuedSession
	err = s.OTP.VerifyWith(ctx, user.ID, purpose, match, func(tx store.Tx) error {
		if purpose == domain.PurposeRegister {
			if err := tx.Users().MarkVerified(ctx, user.ID); err != nil {
				return fmt.Errorf("failed to verify user: %w", err)
			}
		}

		var err error
		issued, err = s.Sessions.IssueTx(ctx, tx, user, amr)
		return err
	})
	if err != nil {
		return LoginResult{}, err
	}

	user.Verified = true
	slogx.FromContext(ctx).Info("otp verified", "user_id", user.ID, "purpose", string(purpose))
	return LoginResult{User: user, Session: &issued}, nil
}

// ResendOTP re-issues the code the user is waiting on: register while
// unverified, otherwise a pending login-mfa code.
func (s *AuthService) ResendOTP(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return invalid("userId", "is required")
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrChallengeNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}

	purpose := domain.PurposeRegister
	if user.Verified {
		pending, err := s.OTP.Pending(ctx, user.ID, domain.PurposeLoginMFA)
		if err != nil {
			return fmt.Errorf("failed to look up challenge: %w", err)
		}
		if !pending {
			return ErrChallengeNotFound
		}
		purpose = domain.PurposeLoginMFA
	}

	return s.OTP.Resend(ctx, user, purpose)
}

// ForgotPassword emails a reset code when a verified account owns email.
// The result is the same whether or not it does, including when the code
// is throttled or cannot be delivered; only storage faults surface.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if err := Validator().Var(email, "required,email,max=254"); err != nil {
		return invalid("email", "must be a valid email address")
	}

	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) || (err == nil && !user.Verified) {
		log.Debug("password reset requested for unknown or unverified email")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}

	_, err = s.OTP.Issue(ctx, user, domain.PurposePasswordReset)
	switch {
	case errors.Is(err, ErrRateLimited):
		log.Warn("password reset throttled", "user_id", user.ID)
		return nil
	case errors.Is(err, ErrDeliveryFailed):
		// Already logged by the OTP service; the caller cannot tell this
		// apart from an unknown email.
		return nil
	}
	return err
}

// VerifyResetCode consumes the reset code and hands back a single-use
// ticket for ResetPassword.
func (s *AuthService) VerifyResetCode(ctx context.Context, in VerifyResetInput) (ResetTicket, error) {
	in.Email = NormalizeEmail(in.Email)
	in.Code = strings.TrimSpace(in.Code)
	if err := check(in); err != nil {
		return ResetTicket{}, err
	}

	// Emails that could never hold a reset code answer like a wrong code, so
	// this step does not reveal which accounts exist.
	user, err := s.Store.Users().GetUserByEmail(ctx, in.Email)
	if errors.Is(err, store.ErrNotFound) || (err == nil && !user.Verified) {
		return ResetTicket{}, ErrInvalidCode
	}
	if err != nil {
		return ResetTicket{}, fmt.Errorf("failed to look up user: %w", err)
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return ResetTicket{}, err
	}

	now := s.now()
	grant := domain.ResetGrant{
		UserID:    user.ID,
		TokenHash: cryptox.FingerprintToken(token),
		CreatedAt: now,
		ExpiresAt: now.Add(s.resetGrantTTL()),
	}

	err = s.OTP.Verify(ctx, user.ID, domain.PurposePasswordReset, in.Code, func(tx store.Tx) error {
		if err := tx.ResetGrants().UpsertResetGrant(ctx, grant); err != nil {
			return fmt.Errorf("failed to store reset grant: %w", err)
		}
		return nil
	})
	if err != nil {
		return ResetTicket{}, err
	}

	return ResetTicket{UserID: user.ID, ResetToken: token, ExpiresAt: grant.ExpiresAt}, nil
}

// ResetPassword redeems a reset ticket. A password failing the policy
// leaves the ticket usable. On success every session and pending code of
// the user is dropped.
func (s *AuthService) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	in.UserID = strings.TrimSpace(in.UserID)
	if err := check(in); err != nil {
		return err
	}

	hash, err := cryptox.HashPassword(in.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	var revoked int64
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		grant, err := tx.ResetGrants().GetResetGrant(ctx, in.UserID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrResetGrantNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load reset grant: %w", err)
		}

		now := s.now()
		if !now.Before(grant.ExpiresAt) {
			return fmt.Errorf("%w: reset window has closed", ErrExpiredCode)
		}
		if !cryptox.FingerprintEqual(in.ResetToken, grant.TokenHash) {
			return fmt.Errorf("%w: reset token does not match", ErrInvalidCode)
		}

		if err := tx.ResetGrants().DeleteResetGrant(ctx, in.UserID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrResetGrantNotFound
			}
			return fmt.Errorf("failed to redeem reset grant: %w", err)
		}
		if err := tx.Users().UpdatePasswordHash(ctx, in.UserID, hash); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}
		if err := tx.Challenges().DeleteUserChallenges(ctx, in.UserID); err != nil {
			return fmt.Errorf("failed to clear challenges: %w", err)
		}

		revoked, err = tx.Sessions().RevokeUserSessions(ctx, in.UserID, now)
		if err != nil {
			return fmt.Errorf("failed to revoke sessions: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("password reset", "user_id", in.UserID, "sessions_revoked", revoked)
	return nil
}

func (s *AuthService) resetGrantTTL() time.Duration {
	if s.ResetGrantTTL > 0 {
		return s.ResetGrantTTL
	}
	return DefaultResetGrantTTL
}

func (s *AuthService) now() time.Time {
	return clock(s.Now)
}

// User loads the account behind a resolved session.
func (s *AuthService) User(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return domain.User{}, mapStoreErr(err, "user")
	}
	return user, nil
}
