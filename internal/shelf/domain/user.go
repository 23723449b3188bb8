package domain

import "time"

type User struct {
	ID            string
	Name          string
	Email         string // trimmed and lower-cased
	PasswordHash  string // argon2 encoded
	Verified      bool
	MFAEnabled    bool       // emailed code required at login
	TOTPSecret    *string    // authenticator app secret (nullable, base32 encoded)
	TOTPEnabledAt *time.Time // set once the authenticator app is confirmed
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TOTPEnabled reports whether an authenticator app is confirmed for the user.
func (u User) TOTPEnabled() bool {
	return u.TOTPEnabledAt != nil && u.TOTPSecret != nil
}

// RequiresMFA reports whether a password alone is not enough to sign in.
func (u User) RequiresMFA(forceAll bool) bool {
	return forceAll || u.MFAEnabled || u.TOTPEnabled()
}
