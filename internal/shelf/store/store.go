package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/shelf/internal/shelf/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement this.
// It exposes sub-repositories to keep concerns tidy and testable; inside
// WithTx only the Tx's repositories may be used.
type Store interface {
	Users() Users
	Challenges() Challenges
	ResetGrants() ResetGrants
	Sessions() Sessions
	Books() Books
	ReadingList() ReadingList
	Profiles() Profiles

	ApplyMigrations() error

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. Nested transactions are not supported.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a new user. ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks up a normalised email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// RenamePendingUser rewrites the name of an unverified user. ErrNotFound
	// once the user is verified.
	RenamePendingUser(ctx context.Context, id, name string) error

	// MarkVerified sets verified=1 and bumps updated_at.
	MarkVerified(ctx context.Context, id string) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, id, hash string) error

	UpdateName(ctx context.Context, id, name string) error

	// SetMFAEnabled toggles the emailed-code second factor.
	SetMFAEnabled(ctx context.Context, id string, enabled bool) error

	// SetTOTPSecret stores a pending authenticator secret and clears any
	// previous confirmation.
	SetTOTPSecret(ctx context.Context, id, secret string) error

	// EnableTOTP stamps totp_enabled_at.
	EnableTOTP(ctx context.Context, id string, at time.Time) error

	// ClearTOTP removes the secret and the confirmation.
	ClearTOTP(ctx context.Context, id string) error
}

type Challenges interface {
	// UpsertChallenge writes c as the only challenge for (UserID, Purpose),
	// replacing whatever was there and resetting attempts.
	UpsertChallenge(ctx context.Context, c domain.Challenge) error

	GetChallenge(ctx context.Context, userID string, purpose domain.Purpose) (domain.Challenge, error)

	// IncrementAttempts bumps attempts on the challenge with id and returns
	// the new count. ErrNotFound if it was consumed meanwhile.
	IncrementAttempts(ctx context.Context, id string) (int, error)

	// DeleteChallenge removes the challenge with id. ErrNotFound if it was
	// already gone, which callers use to detect a lost race.
	DeleteChallenge(ctx context.Context, id string) error

	// DeleteUserChallenges removes every challenge the user holds.
	DeleteUserChallenges(ctx context.Context, userID string) error

	// DeleteExpiredChallenges is housekeeping; it returns the rows removed.
	DeleteExpiredChallenges(ctx context.Context, now time.Time) (int64, error)
}

type ResetGrants interface {
	// UpsertResetGrant stores g as the user's only grant.
	UpsertResetGrant(ctx context.Context, g domain.ResetGrant) error

	GetResetGrant(ctx context.Context, userID string) (domain.ResetGrant, error)

	DeleteResetGrant(ctx context.Context, userID string) error

	DeleteExpiredResetGrants(ctx context.Context, now time.Time) (int64, error)
}

type Sessions interface {
	CreateSession(ctx context.Context, s domain.Session) error

	GetSession(ctx context.Context, id string) (domain.Session, error)

	// RevokeSession stamps revoked_at. Revoking twice is not an error.
	RevokeSession(ctx context.Context, id string, at time.Time) error

	// RevokeUserSessions revokes every live session of the user.
	RevokeUserSessions(ctx context.Context, userID string, at time.Time) (int64, error)

	// DeleteStaleSessions removes sessions expired or revoked before now.
	DeleteStaleSessions(ctx context.Context, now time.Time) (int64, error)
}

// BookFilter narrows ListBooks. Zero values match everything.
type BookFilter struct {
	Genre     string
	CreatedBy string
}

type Books interface {
	CreateBook(ctx context.Context, b domain.Book) error
	GetBook(ctx context.Context, id string) (domain.Book, error)

	// ListBooks returns books newest first.
	ListBooks(ctx context.Context, f BookFilter) ([]domain.Book, error)

	UpdateBook(ctx context.Context, b domain.Book) error

	// DeleteBook cascades to reading entries (per schema).
	DeleteBook(ctx context.Context, id string) error
}

type ReadingList interface {
	// CreateEntry adds a book to a list. ErrAlreadyExists for a duplicate
	// (user, book).
	CreateEntry(ctx context.Context, e domain.ReadingEntry) error

	// GetEntry returns the entry with its book joined in.
	GetEntry(ctx context.Context, id string) (domain.ReadingEntry, error)

	// ListEntries returns the user's entries with books joined, most
	// recently updated first.
	ListEntries(ctx context.Context, userID string) ([]domain.ReadingEntry, error)

	UpdateEntry(ctx context.Context, e domain.ReadingEntry) error
	DeleteEntry(ctx context.Context, id string) error

	// RecordActivity marks day as a reading day for the user. Idempotent.
	RecordActivity(ctx context.Context, userID string, day time.Time) error

	// ActivityDays returns the user's reading days in ascending order.
	ActivityDays(ctx context.Context, userID string) ([]time.Time, error)
}

type Profiles interface {
	// GetProfile returns the profile or ErrNotFound when never saved.
	GetProfile(ctx context.Context, userID string) (domain.Profile, error)

	// UpsertProfile writes p as the user's profile.
	UpsertProfile(ctx context.Context, p domain.Profile) error
}
