package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/aussiebroadwan/shelf/internal/shelf/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const (
	googleCode  = "good-code"
	googleToken = "access-1"
)

// fakeGoogle serves the token and userinfo endpoints of an OAuth provider.
type fakeGoogle struct {
	srv            *httptest.Server
	info           map[string]any
	userinfoStatus int
}

func newFakeGoogle(t *testing.T) *fakeGoogle {
	t.Helper()

	g := &fakeGoogle{userinfoStatus: http.StatusOK}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := r.ParseForm(); err != nil || r.PostForm.Get("code") != googleCode {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": googleToken,
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})

	mux.HandleFunc("GET /userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+googleToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if g.userinfoStatus != http.StatusOK {
			w.WriteHeader(g.userinfoStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(g.info)
	})

	g.srv = httptest.NewServer(mux)
	t.Cleanup(g.srv.Close)
	return g
}

func (g *fakeGoogle) signIn(email string, verified bool, name string) {
	g.info = map[string]any{
		"sub":            "google-" + email,
		"email":          email,
		"email_verified": verified,
		"name":           name,
	}
}

func (e *testEnv) google(g *fakeGoogle) *GoogleService {
	return &GoogleService{
		Store:    e.store,
		Sessions: e.sessions,
		OTP:      e.otp,
		OAuth: &oauth2.Config{
			ClientID:     "client",
			ClientSecret: "secret",
			RedirectURL:  "http://shelf.test/api/auth/google/callback",
			Endpoint: oauth2.Endpoint{
				AuthURL:   g.srv.URL + "/auth",
				TokenURL:  g.srv.URL + "/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
			Scopes: []string{"openid", "email", "profile"},
		},
		UserInfoURL: g.srv.URL + "/userinfo",
		Now:         e.clock.Now,
	}
}

func TestGoogleAuthCodeURL(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	svc := env.google(newFakeGoogle(t))

	u, err := url.Parse(svc.AuthCodeURL("state-123"))
	require.NoError(t, err)
	assert.Equal(t, "/auth", u.Path)
	assert.Equal(t, "state-123", u.Query().Get("state"))
	assert.Equal(t, "client", u.Query().Get("client_id"))
	assert.Equal(t, "code", u.Query().Get("response_type"))
}

func TestGoogleCallbackCreatesUser(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	g := newFakeGoogle(t)
	svc := env.google(g)
	ctx := context.Background()

	g.signIn("New.Reader@Gmail.com", true, "New Reader")

	res, err := svc.Callback(ctx, googleCode)
	require.NoError(t, err)
	require.False(t, res.Pending)
	require.NotNil(t, res.Session)
	assert.Equal(t, "new.reader@gmail.com", res.User.Email)
	assert.Equal(t, "New Reader", res.User.Name)
	assert.True(t, res.User.Verified)
	assert.Equal(t, []string{domain.AMROAuth}, res.Session.Session.AMR)

	user, sess, err := env.sessions.Current(ctx, res.Session.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, user.ID)
	assert.Equal(t, []string{"oauth"}, sess.AMR)

	// The same Google account lands on the same user.
	again, err := svc.Callback(ctx, googleCode)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, again.User.ID)

	// No password was chosen, so none works.
	_, err = env.auth.Login(ctx, LoginInput{Email: "new.reader@gmail.com", Password: testPassword})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGoogleCallbackExistingUser(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	g := newFakeGoogle(t)
	svc := env.google(g)
	ctx := context.Background()

	existing := env.activeUser(t, "reader@x.com")
	g.signIn("reader@x.com", true, "Someone Else")

	res, err := svc.Callback(ctx, googleCode)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, res.User.ID)
	assert.Equal(t, "Reader", res.User.Name, "profile name does not overwrite the account")

	// The password keeps working alongside Google.
	login, err := env.auth.Login(ctx, LoginInput{Email: "reader@x.com", Password: testPassword})
	require.NoError(t, err)
	assert.NotNil(t, login.Session)
}

func TestGoogleCallbackTakesOverPendingRegistration(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	g := newFakeGoogle(t)
	svc := env.google(g)
	ctx := context.Background()

	pending, code := env.register(t, "Squatter", "owner@x.com")
	g.signIn("owner@x.com", true, "Owner")

	res, err := svc.Callback(ctx, googleCode)
	require.NoError(t, err)
	assert.Equal(t, pending.ID, res.User.ID)
	assert.True(t, res.User.Verified)
	require.NotNil(t, res.Session)

	// Whoever registered the address no longer holds a way in.
	_, err = env.auth.Login(ctx, LoginInput{Email: "owner@x.com", Password: testPassword})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.auth.VerifyOTP(ctx, VerifyOTPInput{UserID: pending.ID, Code: code})
	require.ErrorIs(t, err, ErrChallengeNotFound)
}

func TestGoogleCallbackRequiresMFA(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	g := newFakeGoogle(t)
	svc := env.google(g)
	ctx := context.Background()

	u := env.activeUser(t, "careful@x.com")
	_, err := env.mfa.SetEmailMFA(ctx, u.ID, true, testPassword)
	require.NoError(t, err)
	sent := len(env.mail.Sent())

	g.signIn("careful@x.com", true, "Careful")
	res, err := svc.Callback(ctx, googleCode)
	require.NoError(t, err)
	assert.True(t, res.Pending)
	assert.Nil(t, res.Session)
	assert.Len(t, env.mail.Sent(), sent+1, "a login code was emailed")

	done, err := env.auth.VerifyOTP(ctx, VerifyOTPInput{UserID: u.ID, Code: env.lastCode(t, "careful@x.com")})
	require.NoError(t, err)
	assert.NotNil(t, done.Session)
}

func TestGoogleCallbackRejections(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("unverified google email", func(t *testing.T) {
		env := newTestEnv(t)
		g := newFakeGoogle(t)
		g.signIn("loose@x.com", false, "Loose")

		_, err := env.google(g).Callback(ctx, googleCode)
		require.ErrorIs(t, err, ErrForbidden)

		_, err = env.store.Users().GetUserByEmail(ctx, "loose@x.com")
		require.Error(t, err, "no user is created")
	})

	t.Run("rejected code", func(t *testing.T) {
		env := newTestEnv(t)
		g := newFakeGoogle(t)
		g.signIn("a@x.com", true, "A")

		_, err := env.google(g).Callback(ctx, "stale-code")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("missing code", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.google(newFakeGoogle(t)).Callback(ctx, " ")
		require.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("userinfo outage is a fault", func(t *testing.T) {
		env := newTestEnv(t)
		g := newFakeGoogle(t)
		g.userinfoStatus = http.StatusBadGateway

		_, err := env.google(g).Callback(ctx, googleCode)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
		assert.NotErrorIs(t, err, ErrForbidden)
	})
}

func TestDisplayName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Jane Doe", displayName("  Jane Doe ", "jane@x.com"))
	assert.Equal(t, "jane", displayName("", "jane@x.com"))
	assert.Equal(t, "jane", displayName("J", "jane@x.com"))
}
