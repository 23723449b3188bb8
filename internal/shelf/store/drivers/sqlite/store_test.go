package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/shelf/internal/shelf/domain"
	"github.com/aussiebroadwan/shelf/internal/shelf/store"
	"github.com/aussiebroadwan/shelf/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedUser(t *testing.T, s *Store, email string) domain.User {
	t.Helper()

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New().String(),
		Name:         "Reader",
		Email:        email,
		PasswordHash: "argon2id$dummy",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func seedBook(t *testing.T, s *Store, owner, title, genre string) domain.Book {
	t.Helper()

	now := time.Now().UTC()
	b := domain.Book{
		ID:        idx.New().String(),
		Title:     title,
		Author:    "Anon",
		Genre:     genre,
		Pages:     320,
		CreatedBy: owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.Books().CreateBook(context.Background(), b))
	return b
}

func TestMigrations(t *testing.T) {
	s := newTestStore(t)

	version, dirty, err := s.MigrationVersion()
	require.NoError(t, err)
	require.False(t, dirty)
	require.EqualValues(t, 2, version)

	// Re-applying is a no-op.
	require.NoError(t, s.ApplyMigrations())

	require.NoError(t, s.MigrateDown(1))
	version, _, err = s.MigrationVersion()
	require.NoError(t, err)
	require.EqualValues(t, 1, version)

	require.Error(t, s.MigrateDown(0))
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	u := seedUser(t, s, "reader@example.com")

	t.Run("email is unique regardless of case", func(t *testing.T) {
		dup := u
		dup.ID = idx.New().String()
		dup.Email = "READER@example.com"
		err := s.Users().CreateUser(ctx, dup)
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("lookup by email and id", func(t *testing.T) {
		got, err := s.Users().GetUserByEmail(ctx, "reader@example.com")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
		require.False(t, got.Verified)

		_, err = s.Users().GetUserByID(ctx, "missing")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("pending user can be renamed until verified", func(t *testing.T) {
		require.NoError(t, s.Users().RenamePendingUser(ctx, u.ID, "Renamed"))
		require.NoError(t, s.Users().MarkVerified(ctx, u.ID))

		err := s.Users().RenamePendingUser(ctx, u.ID, "Again")
		require.ErrorIs(t, err, store.ErrNotFound)

		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.True(t, got.Verified)
		require.Equal(t, "Renamed", got.Name)
		require.Equal(t, u.PasswordHash, got.PasswordHash, "renaming never touches the password")
	})

	t.Run("totp lifecycle", func(t *testing.T) {
		err := s.Users().EnableTOTP(ctx, u.ID, time.Now())
		require.ErrorIs(t, err, store.ErrNotFound, "cannot enable without a secret")

		require.NoError(t, s.Users().SetTOTPSecret(ctx, u.ID, "JBSWY3DPEHPK3PXP"))
		require.NoError(t, s.Users().EnableTOTP(ctx, u.ID, time.Now()))

		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.True(t, got.TOTPEnabled())

		require.NoError(t, s.Users().ClearTOTP(ctx, u.ID))
		got, err = s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.False(t, got.TOTPEnabled())
		require.Nil(t, got.TOTPSecret)
	})
}

func TestChallenges(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := seedUser(t, s, "otp@example.com")

	now := time.Now().UTC()
	first := domain.Challenge{
		ID:        idx.New().String(),
		UserID:    u.ID,
		Email:     u.Email,
		Purpose:   domain.PurposeRegister,
		CodeHash:  "first",
		IssuedAt:  now,
		ExpiresAt: now.Add(10 * time.Minute),
	}
	require.NoError(t, s.Challenges().UpsertChallenge(ctx, first))

	n, err := s.Challenges().IncrementAttempts(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	t.Run("upsert supersedes and resets attempts", func(t *testing.T) {
		second := first
		second.ID = idx.New().String()
		second.CodeHash = "second"
		require.NoError(t, s.Challenges().UpsertChallenge(ctx, second))

		got, err := s.Challenges().GetChallenge(ctx, u.ID, domain.PurposeRegister)
		require.NoError(t, err)
		require.Equal(t, second.ID, got.ID)
		require.Equal(t, "second", got.CodeHash)
		require.Zero(t, got.Attempts)

		// The superseded id is gone.
		_, err = s.Challenges().IncrementAttempts(ctx, first.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
		require.ErrorIs(t, s.Challenges().DeleteChallenge(ctx, first.ID), store.ErrNotFound)
	})

	t.Run("purposes are independent", func(t *testing.T) {
		reset := first
		reset.ID = idx.New().String()
		reset.Purpose = domain.PurposePasswordReset
		require.NoError(t, s.Challenges().UpsertChallenge(ctx, reset))

		_, err := s.Challenges().GetChallenge(ctx, u.ID, domain.PurposeRegister)
		require.NoError(t, err)
		_, err = s.Challenges().GetChallenge(ctx, u.ID, domain.PurposePasswordReset)
		require.NoError(t, err)
	})

	t.Run("delete consumes once", func(t *testing.T) {
		got, err := s.Challenges().GetChallenge(ctx, u.ID, domain.PurposePasswordReset)
		require.NoError(t, err)

		require.NoError(t, s.Challenges().DeleteChallenge(ctx, got.ID))
		require.ErrorIs(t, s.Challenges().DeleteChallenge(ctx, got.ID), store.ErrNotFound)
	})

	t.Run("expired challenges are swept", func(t *testing.T) {
		removed, err := s.Challenges().DeleteExpiredChallenges(ctx, now.Add(time.Hour))
		require.NoError(t, err)
		require.EqualValues(t, 1, removed)

		_, err = s.Challenges().GetChallenge(ctx, u.ID, domain.PurposeRegister)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestResetGrantsAndSessions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := seedUser(t, s, "reset@example.com")
	now := time.Now().UTC()

	grant := domain.ResetGrant{UserID: u.ID, TokenHash: "h1", CreatedAt: now, ExpiresAt: now.Add(10 * time.Minute)}
	require.NoError(t, s.ResetGrants().UpsertResetGrant(ctx, grant))
	grant.TokenHash = "h2"
	require.NoError(t, s.ResetGrants().UpsertResetGrant(ctx, grant))

	got, err := s.ResetGrants().GetResetGrant(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "h2", got.TokenHash)

	require.NoError(t, s.ResetGrants().DeleteResetGrant(ctx, u.ID))
	require.ErrorIs(t, s.ResetGrants().DeleteResetGrant(ctx, u.ID), store.ErrNotFound)

	for range 2 {
		require.NoError(t, s.Sessions().CreateSession(ctx, domain.Session{
			ID:        idx.New().String(),
			UserID:    u.ID,
			AMR:       []string{domain.AMRPassword, domain.AMROTP},
			CreatedAt: now,
			ExpiresAt: now.Add(time.Hour),
		}))
	}

	revoked, err := s.Sessions().RevokeUserSessions(ctx, u.ID, now)
	require.NoError(t, err)
	require.EqualValues(t, 2, revoked)

	removed, err := s.Sessions().DeleteStaleSessions(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 2, removed)
}

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := seedUser(t, s, "session@example.com")
	now := time.Now().UTC()

	sess := domain.Session{
		ID:        idx.New().String(),
		UserID:    u.ID,
		AMR:       []string{domain.AMRPassword},
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
	require.NoError(t, s.Sessions().CreateSession(ctx, sess))

	got, err := s.Sessions().GetSession(ctx, sess.ID)
	require.NoError(t, err)
	require.Equal(t, []string{domain.AMRPassword}, got.AMR)
	require.True(t, got.Active(now))

	require.NoError(t, s.Sessions().RevokeSession(ctx, sess.ID, now))
	require.NoError(t, s.Sessions().RevokeSession(ctx, sess.ID, now.Add(time.Minute)))

	got, err = s.Sessions().GetSession(ctx, sess.ID)
	require.NoError(t, err)
	require.False(t, got.Active(now))
	require.WithinDuration(t, now, *got.RevokedAt, time.Second)
}

func TestBooksAndReadingList(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := seedUser(t, s, "books@example.com")

	dune := seedBook(t, s, u.ID, "Dune", "Sci-Fi")
	emma := seedBook(t, s, u.ID, "Emma", "Classic")

	t.Run("list newest first with filters", func(t *testing.T) {
		all, err := s.Books().ListBooks(ctx, store.BookFilter{})
		require.NoError(t, err)
		require.Len(t, all, 2)
		require.Equal(t, emma.ID, all[0].ID)

		scifi, err := s.Books().ListBooks(ctx, store.BookFilter{Genre: "sci-fi"})
		require.NoError(t, err)
		require.Len(t, scifi, 1)
		require.Equal(t, dune.ID, scifi[0].ID)
	})

	now := time.Now().UTC()
	entry := domain.ReadingEntry{
		ID:        idx.New().String(),
		UserID:    u.ID,
		BookID:    dune.ID,
		Status:    domain.StatusReading,
		Progress:  10,
		StartedAt: &now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.ReadingList().CreateEntry(ctx, entry))

	t.Run("one entry per book", func(t *testing.T) {
		dup := entry
		dup.ID = idx.New().String()
		require.ErrorIs(t, s.ReadingList().CreateEntry(ctx, dup), store.ErrAlreadyExists)
	})

	t.Run("entries carry their book", func(t *testing.T) {
		got, err := s.ReadingList().GetEntry(ctx, entry.ID)
		require.NoError(t, err)
		require.Equal(t, "Dune", got.Book.Title)
		require.NotNil(t, got.StartedAt)
		require.Nil(t, got.FinishedAt)

		got.Status = domain.StatusFinished
		got.Progress = 100
		got.FinishedAt = &now
		got.UpdatedAt = now.Add(time.Second)
		require.NoError(t, s.ReadingList().UpdateEntry(ctx, got))

		list, err := s.ReadingList().ListEntries(ctx, u.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, domain.StatusFinished, list[0].Status)
		require.NotNil(t, list[0].FinishedAt)
	})

	t.Run("activity days are idempotent and ordered", func(t *testing.T) {
		day := domain.Day(now)
		require.NoError(t, s.ReadingList().RecordActivity(ctx, u.ID, day))
		require.NoError(t, s.ReadingList().RecordActivity(ctx, u.ID, day))
		require.NoError(t, s.ReadingList().RecordActivity(ctx, u.ID, day.AddDate(0, 0, -3)))

		days, err := s.ReadingList().ActivityDays(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, []time.Time{day.AddDate(0, 0, -3), day}, days)
	})

	t.Run("deleting a book cascades to entries", func(t *testing.T) {
		require.NoError(t, s.Books().DeleteBook(ctx, dune.ID))

		_, err := s.ReadingList().GetEntry(ctx, entry.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
		require.ErrorIs(t, s.Books().DeleteBook(ctx, dune.ID), store.ErrNotFound)
	})
}

func TestProfiles(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	u := seedUser(t, s, "profile@example.com")

	_, err := s.Profiles().GetProfile(ctx, u.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	p := domain.Profile{UserID: u.ID, Bio: "hi", YearlyGoal: 12, UpdatedAt: time.Now()}
	require.NoError(t, s.Profiles().UpsertProfile(ctx, p))
	p.YearlyGoal = 24
	require.NoError(t, s.Profiles().UpsertProfile(ctx, p))

	got, err := s.Profiles().GetProfile(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 24, got.YearlyGoal)
	require.Equal(t, "hi", got.Bio)
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx store.Tx) error {
		now := time.Now().UTC()
		require.NoError(t, tx.Users().CreateUser(ctx, domain.User{
			ID: idx.New().String(), Name: "Tx", Email: "tx@example.com",
			PasswordHash: "x", CreatedAt: now, UpdatedAt: now,
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Users().GetUserByEmail(ctx, "tx@example.com")
	require.ErrorIs(t, err, store.ErrNotFound, "rolled back")

	err = s.WithTx(ctx, func(tx store.Tx) error {
		return tx.WithTx(ctx, func(store.Tx) error { return nil })
	})
	require.Error(t, err, "nested transactions are refused")
}
