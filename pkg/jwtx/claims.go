package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultSessionTTL is the lifetime of a session token when none is configured.
const DefaultSessionTTL = 7 * 24 * time.Hour

// Claims are the session-token claims. The token is only a pointer: SID
// names a server-side session row which decides whether the token is live.
type Claims struct {
	jwt.RegisteredClaims

	// Session ID
	SID string `json:"sid"`

	// Authentication Methods Reference
	// 		"pwd": password
	//		"otp": emailed one-time code
	//		"totp": authenticator app
	//		"mfa": more than one factor was used
	AMR []string `json:"amr,omitempty"`
}

// NewSessionClaims builds claims for a session issued at now.
func NewSessionClaims(subject, sid string, amr []string, ttl time.Duration, issuer string, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		SID: sid,
		AMR: amr,
	}
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't before
// nbf, allowing leeway for clock skew.
func (c *Claims) ValidateExpiry(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}
	return nil
}

// ValidateShape ensures the claims the session layer depends on are present.
func (c *Claims) ValidateShape() error {
	if c.Subject == "" || c.SID == "" || c.ExpiresAt == nil {
		return ErrInvalidClaim
	}
	return nil
}
