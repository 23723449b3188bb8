package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/shelf/internal/shelf/domain"
	"github.com/aussiebroadwan/shelf/internal/shelf/mail"
	"github.com/aussiebroadwan/shelf/internal/shelf/store"
	"github.com/aussiebroadwan/shelf/internal/shelf/throttle"
	"github.com/aussiebroadwan/shelf/pkg/cryptox"
	"github.com/aussiebroadwan/shelf/pkg/idx"
	"github.com/aussiebroadwan/shelf/pkg/slogx"
)

const (
	DefaultOTPTTL         = 10 * time.Minute
	DefaultOTPMaxAttempts = 5
)

// OTPService issues and verifies emailed one-time codes. A user holds at most
// one live code per purpose.
type OTPService struct {
	Store    store.Store
	Mailer   mail.Mailer
	Throttle throttle.Throttle // optional

	TTL         time.Duration
	MaxAttempts int
	Now         func() time.Time
}

// Matcher decides whether a submission satisfies the pending challenge.
type Matcher func(c domain.Challenge) bool

// CodeMatcher compares code against the stored digest in constant time.
func CodeMatcher(code string) Matcher {
	return func(c domain.Challenge) bool {
		return cryptox.OTPEqual(c.ID, code, c.CodeHash)
	}
}

// Issue creates a code for user and purpose, replacing any earlier one, and
// emails it. It returns the plaintext code.
func (s *OTPService) Issue(ctx context.Context, user domain.User, purpose domain.Purpose) (string, error) {
	var code string
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		code, err = s.IssueTx(ctx, tx, user, purpose)
		return err
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

// Resend is Issue invoked again by the user.
func (s *OTPService) Resend(ctx context.Context, user domain.User, purpose domain.Purpose) error {
	_, err := s.Issue(ctx, user, purpose)
	return err
}

// IssueTx is Issue inside a caller's transaction. The email goes out before
// the transaction commits, so a delivery failure leaves no new challenge.
func (s *OTPService) IssueTx(ctx context.Context, tx store.Tx, user domain.User, purpose domain.Purpose) (string, error) {
	if !purpose.Valid() {
		return "", fmt.Errorf("unknown otp purpose %q", purpose)
	}

	if err := s.throttle(ctx, user.ID, purpose); err != nil {
		return "", err
	}

	code, err := cryptox.GenerateOTP()
	if err != nil {
		return "", err
	}

	now := s.now()
	c := domain.Challenge{
		ID:        idx.New().String(),
		UserID:    user.ID,
		Email:     user.Email,
		Purpose:   purpose,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl()),
	}
	c.CodeHash = cryptox.HashOTP(c.ID, code)

	if err := tx.Challenges().UpsertChallenge(ctx, c); err != nil {
		return "", fmt.Errorf("failed to store challenge: %w", err)
	}

	log := slogx.FromContext(ctx).With("user_id", user.ID, "purpose", string(purpose))
	if err := s.Mailer.Send(ctx, mail.CodeMessage(purpose, user.Email, user.Name, code, s.ttl())); err != nil {
		log.Error("failed to deliver code", "err", err)
		return "", fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	log.Info("otp issued", "expires_at", c.ExpiresAt)
	return code, nil
}

// Verify checks code against the user's live challenge for purpose. On a
// match the challenge is consumed and then, when not nil, runs in the same
// transaction; an error from then undoes the consumption.
//
// Rejections (ErrChallengeNotFound, ErrExpiredCode, ErrInvalidCode,
// ErrTooManyAttempts) still commit their bookkeeping.
func (s *OTPService) Verify(ctx context.Context, userID string, purpose domain.Purpose, code string, then func(tx store.Tx) error) error {
	return s.VerifyWith(ctx, userID, purpose, CodeMatcher(code), then)
}

// VerifyWith is Verify with a custom matcher.
func (s *OTPService) VerifyWith(ctx context.Context, userID string, purpose domain.Purpose, match Matcher, then func(tx store.Tx) error) error {
	var outcome error
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		outcome = s.consume(ctx, tx, userID, purpose, match)
		switch {
		case outcome == nil:
			if then != nil {
				return then(tx)
			}
			return nil
		case isRejection(outcome):
			return nil
		default:
			return outcome
		}
	})
	if err != nil {
		return err
	}

	if outcome != nil {
		slogx.FromContext(ctx).Info("otp rejected", "user_id", userID, "purpose", string(purpose), "reason", outcome.Error())
	}
	return outcome
}

// Pending reports whether the user holds a live challenge for purpose.
func (s *OTPService) Pending(ctx context.Context, userID string, purpose domain.Purpose) (bool, error) {
	c, err := s.Store.Challenges().GetChallenge(ctx, userID, purpose)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !c.Expired(s.now()), nil
}

func (s *OTPService) consume(ctx context.Context, tx store.Tx, userID string, purpose domain.Purpose, match Matcher) error {
	c, err := tx.Challenges().GetChallenge(ctx, userID, purpose)
	if errors.Is(err, store.ErrNotFound) {
		return ErrChallengeNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load challenge: %w", err)
	}

	if c.Expired(s.now()) {
		if err := tx.Challenges().DeleteChallenge(ctx, c.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("failed to delete expired challenge: %w", err)
		}
		return ErrExpiredCode
	}

	if !match(c) {
		attempts, err := tx.Challenges().IncrementAttempts(ctx, c.ID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrChallengeNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to count attempt: %w", err)
		}

		if attempts >= s.maxAttempts() {
			if err := tx.Challenges().DeleteChallenge(ctx, c.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("failed to delete exhausted challenge: %w", err)
			}
			return ErrTooManyAttempts
		}
		return ErrInvalidCode
	}

	// Losing this delete to a concurrent verifier means the code was spent.
	if err := tx.Challenges().DeleteChallenge(ctx, c.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrChallengeNotFound
		}
		return fmt.Errorf("failed to consume challenge: %w", err)
	}
	return nil
}

func (s *OTPService) throttle(ctx context.Context, userID string, purpose domain.Purpose) error {
	if s.Throttle == nil {
		return nil
	}

	ok, retry, err := s.Throttle.Allow(ctx, userID+":"+string(purpose))
	if err != nil {
		// Fail open: the per-IP HTTP limiter still applies.
		slogx.FromContext(ctx).Warn("otp throttle unavailable", "err", err)
		return nil
	}
	if !ok {
		return &RateLimitError{RetryAfter: retry}
	}
	return nil
}

func isRejection(err error) bool {
	return errors.Is(err, ErrChallengeNotFound) ||
		errors.Is(err, ErrExpiredCode) ||
		errors.Is(err, ErrInvalidCode) ||
		errors.Is(err, ErrTooManyAttempts)
}

func (s *OTPService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultOTPTTL
}

func (s *OTPService) maxAttempts() int {
	if s.MaxAttempts > 0 {
		return s.MaxAttempts
	}
	return DefaultOTPMaxAttempts
}

func (s *OTPService) now() time.Time {
	return clock(s.Now)
}

func clock(now func() time.Time) time.Time {
	if now != nil {
		return now().UTC()
	}
	return time.Now().UTC()
}
