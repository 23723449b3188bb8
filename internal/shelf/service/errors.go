package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidCode        = errors.New("invalid_code")
	ErrExpiredCode        = errors.New("expired_code")
	ErrTooManyAttempts    = errors.New("too_many_attempts")
	ErrNotFound           = errors.New("not_found")
	ErrConflict           = errors.New("conflict")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrRateLimited        = errors.New("rate_limited")
)

// ErrChallengeNotFound means there is no live code for the user and purpose,
// including one that was already consumed.
var ErrChallengeNotFound = fmt.Errorf("otp challenge %w", ErrNotFound)

// ErrDeliveryFailed is returned when a code could not be emailed. The
// challenge it belonged to was rolled back.
var ErrDeliveryFailed = errors.New("code delivery failed")

// ValidationError describes the first field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Unwrap() error { return ErrInvalidRequest }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// RateLimitError carries how long the caller should wait.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("too many codes requested, retry in %s", e.RetryAfter.Round(time.Second))
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }
