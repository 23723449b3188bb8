package domain

import "time"

// Authentication method references recorded on a session.
const (
	AMRPassword = "pwd"
	AMROTP      = "otp"
	AMRTOTP     = "totp"
	AMRMFA      = "mfa"
	AMROAuth    = "oauth"
)

// Session is the server-side record a session token points at. Revoking the
// row ends the session whatever the token's own expiry says.
type Session struct {
	ID        string
	UserID    string
	AMR       []string
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// Active reports whether the session can still authenticate requests.
func (s Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
