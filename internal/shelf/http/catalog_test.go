package http_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/shelf/pkg/shelfsdk"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestBooks(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ctx := context.Background()

	alice := ts.signUp(t, "alice@x.com")
	bob := ts.signUp(t, "bob@x.com")

	dune, err := alice.CreateBook(ctx, shelfsdk.BookRequest{Title: "Dune", Author: "Frank Herbert", Genre: "Sci-Fi", Pages: 412})
	require.NoError(t, err)
	_, err = bob.CreateBook(ctx, shelfsdk.BookRequest{Title: "Emma", Author: "Jane Austen", Genre: "Classic"})
	require.NoError(t, err)

	_, err = alice.CreateBook(ctx, shelfsdk.BookRequest{Title: "", Author: "Nobody"})
	requireCode(t, err, shelfsdk.ErrorCodeInvalidRequest)
	_, err = alice.CreateBook(ctx, shelfsdk.BookRequest{Title: "T", Author: "A", CoverImage: "ftp://x"})
	requireCode(t, err, shelfsdk.ErrorCodeInvalidRequest)

	// The catalog is public.
	all, err := ts.client.ListBooks(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)

	scifi, err := ts.client.ListBooks(ctx, "sci-fi")
	require.NoError(t, err)
	require.Len(t, scifi, 1)
	require.Equal(t, dune.ID, scifi[0].ID)

	got, err := ts.client.GetBook(ctx, dune.ID)
	require.NoError(t, err)
	require.Equal(t, "Frank Herbert", got.Author)

	_, err = ts.client.GetBook(ctx, "missing")
	requireCode(t, err, shelfsdk.ErrorCodeNotFound)

	mine, err := alice.MyBooks(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	// Only the creator may change a book.
	_, err = bob.UpdateBook(ctx, dune.ID, shelfsdk.BookRequest{Title: "Dune!", Author: "Frank Herbert"})
	requireCode(t, err, shelfsdk.ErrorCodeForbidden)
	requireCode(t, bob.DeleteBook(ctx, dune.ID), shelfsdk.ErrorCodeForbidden)

	updated, err := alice.UpdateBook(ctx, dune.ID, shelfsdk.BookRequest{Title: "Dune Messiah", Author: "Frank Herbert"})
	require.NoError(t, err)
	require.Equal(t, "Dune Messiah", updated.Title)

	// Deleting a book takes it off reading lists.
	_, err = bob.AddEntry(ctx, shelfsdk.AddEntryRequest{BookID: dune.ID})
	require.NoError(t, err)
	require.NoError(t, alice.DeleteBook(ctx, dune.ID))

	entries, err := bob.ListEntries(ctx)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestReadingList(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ctx := context.Background()

	jane := ts.signUp(t, "jane@x.com")
	other := ts.signUp(t, "other@x.com")

	book, err := jane.CreateBook(ctx, shelfsdk.BookRequest{Title: "Dune", Author: "Frank Herbert"})
	require.NoError(t, err)

	entry, err := jane.AddEntry(ctx, shelfsdk.AddEntryRequest{BookID: book.ID})
	require.NoError(t, err)
	require.Equal(t, "wishlist", entry.Status)
	require.Zero(t, entry.Progress)
	require.NotNil(t, entry.Book)
	require.Equal(t, "Dune", entry.Book.Title)

	_, err = jane.AddEntry(ctx, shelfsdk.AddEntryRequest{BookID: book.ID})
	requireCode(t, err, shelfsdk.ErrorCodeConflict)
	_, err = jane.AddEntry(ctx, shelfsdk.AddEntryRequest{BookID: "missing"})
	requireCode(t, err, shelfsdk.ErrorCodeNotFound)

	entry, err = jane.UpdateEntry(ctx, entry.ID, shelfsdk.UpdateEntryRequest{Progress: ptr(40)})
	require.NoError(t, err)
	require.Equal(t, "reading", entry.Status)
	require.Equal(t, 40, entry.Progress)
	require.NotNil(t, entry.StartedAt)
	require.Equal(t, 1, entry.DaysReading)

	entry, err = jane.UpdateEntry(ctx, entry.ID, shelfsdk.UpdateEntryRequest{Progress: ptr(250)})
	require.NoError(t, err)
	require.Equal(t, "finished", entry.Status)
	require.Equal(t, 100, entry.Progress)
	require.NotNil(t, entry.FinishedAt)

	_, err = jane.UpdateEntry(ctx, entry.ID, shelfsdk.UpdateEntryRequest{})
	requireCode(t, err, shelfsdk.ErrorCodeInvalidRequest)
	_, err = jane.UpdateEntry(ctx, entry.ID, shelfsdk.UpdateEntryRequest{Status: ptr("lost")})
	requireCode(t, err, shelfsdk.ErrorCodeInvalidRequest)

	// Other users cannot see the entry at all.
	_, err = other.UpdateEntry(ctx, entry.ID, shelfsdk.UpdateEntryRequest{Progress: ptr(10)})
	requireCode(t, err, shelfsdk.ErrorCodeNotFound)
	requireCode(t, other.DeleteEntry(ctx, entry.ID), shelfsdk.ErrorCodeNotFound)

	_, err = jane.UpdateProfile(ctx, shelfsdk.ProfileRequest{YearlyGoal: ptr(4)})
	require.NoError(t, err)

	sum, err := jane.Summary(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, sum.Total)
	require.Equal(t, 1, sum.Finished)
	require.Equal(t, 1, sum.FinishedThisYear)
	require.Equal(t, 4, sum.YearlyGoal)
	require.Equal(t, 25, sum.GoalPercent)
	require.Equal(t, 1, sum.CurrentStreak)
	require.Equal(t, 1, sum.LongestStreak)

	entry, err = jane.UpdateEntry(ctx, entry.ID, shelfsdk.UpdateEntryRequest{Status: ptr("wishlist")})
	require.NoError(t, err)
	require.Zero(t, entry.Progress)
	require.Nil(t, entry.StartedAt)
	require.Nil(t, entry.FinishedAt)
	require.Zero(t, entry.DaysReading)

	require.NoError(t, jane.DeleteEntry(ctx, entry.ID))
	entries, err := jane.ListEntries(ctx)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestProfile(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ctx := context.Background()

	jane := ts.signUp(t, "jane@x.com")

	p, err := jane.GetProfile(ctx)
	require.NoError(t, err)
	require.Equal(t, "Reader", p.Name)
	require.Equal(t, "jane@x.com", p.Email)
	require.Empty(t, p.Bio)

	p, err = jane.UpdateProfile(ctx, shelfsdk.ProfileRequest{
		Name:          ptr("  Jane Doe "),
		Bio:           ptr("Reads on trains."),
		FavoriteGenre: ptr("Sci-Fi"),
	})
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", p.Name)
	require.Equal(t, "Reads on trains.", p.Bio)

	// Omitted fields are kept.
	p, err = jane.UpdateProfile(ctx, shelfsdk.ProfileRequest{Location: ptr("Perth")})
	require.NoError(t, err)
	require.Equal(t, "Reads on trains.", p.Bio)
	require.Equal(t, "Perth", p.Location)

	_, err = jane.UpdateProfile(ctx, shelfsdk.ProfileRequest{Name: ptr("J")})
	requireCode(t, err, shelfsdk.ErrorCodeInvalidRequest)
	_, err = jane.UpdateProfile(ctx, shelfsdk.ProfileRequest{YearlyGoal: ptr(5000)})
	requireCode(t, err, shelfsdk.ErrorCodeInvalidRequest)

	me, err := jane.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", me.Name)
}

func TestAuthenticatorApp(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ctx := context.Background()

	jane := ts.signUp(t, "jane@x.com")

	enrollment, err := jane.EnrollTOTP(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, enrollment.Secret)
	require.Contains(t, enrollment.URI, "otpauth://totp/")

	code, err := totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)

	requireCode(t, jane.ConfirmTOTP(ctx, "12345"), shelfsdk.ErrorCodeInvalidRequest)
	wrong := string('0'+(code[0]-'0'+1)%10) + code[1:]
	requireCode(t, jane.ConfirmTOTP(ctx, wrong), shelfsdk.ErrorCodeInvalidCode)
	require.NoError(t, jane.ConfirmTOTP(ctx, code))

	me, err := jane.Me(ctx)
	require.NoError(t, err)
	require.True(t, me.TOTPEnabled)

	resp, _, err := ts.client.Login(ctx, shelfsdk.LoginRequest{Email: "jane@x.com", Password: testPassword})
	require.NoError(t, err)
	require.True(t, resp.MFA)

	code, err = totp.GenerateCode(enrollment.Secret, time.Now())
	require.NoError(t, err)
	session, err := ts.client.VerifyOTP(ctx, shelfsdk.VerifyOTPRequest{UserID: resp.UserID, OTP: code, Method: "totp"})
	require.NoError(t, err)

	// The pending emailed code went with it.
	_, err = ts.client.VerifyOTP(ctx, shelfsdk.VerifyOTPRequest{UserID: resp.UserID, OTP: ts.lastCode(t, "jane@x.com")})
	requireCode(t, err, shelfsdk.ErrorCodeNotFound)

	requireCode(t, session.DisableTOTP(ctx, "Wrong1!pw"), shelfsdk.ErrorCodeInvalidCredentials)
	require.NoError(t, session.DisableTOTP(ctx, testPassword))

	resp, direct, err := ts.client.Login(ctx, shelfsdk.LoginRequest{Email: "jane@x.com", Password: testPassword})
	require.NoError(t, err)
	require.False(t, resp.MFA)
	require.NotNil(t, direct)
}
