package domain

import "time"

// Purpose says which flow an OTP challenge belongs to. A user holds at most
// one live challenge per purpose.
type Purpose string

const (
	PurposeRegister      Purpose = "register"
	PurposeLoginMFA      Purpose = "login-mfa"
	PurposePasswordReset Purpose = "password-reset"
)

// Valid reports whether p is one of the known purposes.
func (p Purpose) Valid() bool {
	switch p {
	case PurposeRegister, PurposeLoginMFA, PurposePasswordReset:
		return true
	}
	return false
}

// Challenge is an issued one-time code awaiting verification. Only a digest
// of the code is kept.
type Challenge struct {
	ID        string
	UserID    string
	Email     string
	Purpose   Purpose
	CodeHash  string // HMAC digest bound to ID
	Attempts  int    // failed submissions so far
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the challenge is past its expiry at now.
func (c Challenge) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// ResetGrant is the CodeVerified state of a password reset: proof that the
// emailed code was consumed, redeemable once for a new password.
type ResetGrant struct {
	UserID    string
	TokenHash string // deterministic fingerprint (base64url SHA-256)
	CreatedAt time.Time
	ExpiresAt time.Time
}
