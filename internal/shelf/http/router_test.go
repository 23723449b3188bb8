package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	shelfhttp "github.com/aussiebroadwan/shelf/internal/shelf/http"
	"github.com/aussiebroadwan/shelf/internal/shelf/mail"
	"github.com/aussiebroadwan/shelf/internal/shelf/service"
	"github.com/aussiebroadwan/shelf/internal/shelf/store/drivers/sqlite"
	"github.com/aussiebroadwan/shelf/pkg/cryptox"
	"github.com/aussiebroadwan/shelf/pkg/httpx"
	"github.com/aussiebroadwan/shelf/pkg/jwtx"
	"github.com/aussiebroadwan/shelf/pkg/shelfsdk"
	"github.com/aussiebroadwan/shelf/pkg/slogx"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "shelf-test"
	testPassword = "Aa1!aaaa"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "shelf-http-*")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	// Flows below make more calls per route than production allows.
	httpx.StrictLimit = httpx.RateLimitConfig{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000}

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

type testServer struct {
	srv    *httptest.Server
	client *shelfsdk.SDKClient
	mail   *mail.Recorder
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWith(t, nil)
}

// newTestServerWith lets configure attach optional services before the
// routes are applied.
func newTestServerWith(t *testing.T, configure func(r *shelfhttp.Router, st *sqlite.Store)) *testServer {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	keys, err := jwtx.NewKeyManager(jwtx.KeyManagerOptions{Issuer: testIssuer, NumKeys: 2})
	require.NoError(t, err)

	rec := &mail.Recorder{}
	otp := &service.OTPService{Store: st, Mailer: rec}
	sessions := &service.SessionService{Store: st, Keys: keys, Issuer: testIssuer}
	mfa := &service.MFAService{Store: st}

	r := shelfhttp.NewRouter(keys, "test", st, slogx.Discard())
	r.AuthService = &service.AuthService{Store: st, OTP: otp, Sessions: sessions, MFA: mfa}
	r.SessionService = sessions
	r.MFAService = mfa
	r.BookService = &service.BookService{Store: st}
	r.ReadingService = &service.ReadingService{Store: st}
	r.ProfileService = &service.ProfileService{Store: st}
	if configure != nil {
		configure(r, st)
	}
	r.ApplyRoutes()

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &testServer{srv: srv, client: shelfsdk.NewSDKClient(srv.URL), mail: rec}
}

var codePattern = regexp.MustCompile(`\b(\d{6})\b`)

func (ts *testServer) lastCode(t *testing.T, email string) string {
	t.Helper()

	msg, ok := ts.mail.Last(email)
	require.True(t, ok, "no mail sent to %s", email)
	m := codePattern.FindStringSubmatch(msg.Body)
	require.Len(t, m, 2)
	return m[1]
}

// signUp registers and verifies an account.
func (ts *testServer) signUp(t *testing.T, email string) *shelfsdk.Session {
	t.Helper()
	ctx := context.Background()

	reg, err := ts.client.Register(ctx, shelfsdk.RegisterRequest{Name: "Reader", Email: email, Password: testPassword})
	require.NoError(t, err)

	session, err := ts.client.VerifyOTP(ctx, shelfsdk.VerifyOTPRequest{UserID: reg.UserID, OTP: ts.lastCode(t, email)})
	require.NoError(t, err)
	return session
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.True(t, shelfsdk.IsCode(err, code), "want %s, got %v", code, err)
}

func TestRegistrationFlow(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ctx := context.Background()

	reg, err := ts.client.Register(ctx, shelfsdk.RegisterRequest{
		Name:            "Jane",
		Email:           " Jane@X.com ",
		Password:        testPassword,
		ConfirmPassword: testPassword,
	})
	require.NoError(t, err)
	require.Equal(t, "jane@x.com", reg.Email)

	code := ts.lastCode(t, "jane@x.com")
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}

	_, err = ts.client.VerifyOTP(ctx, shelfsdk.VerifyOTPRequest{UserID: reg.UserID, OTP: wrong})
	requireCode(t, err, shelfsdk.ErrorCodeInvalidCode)

	session, err := ts.client.VerifyOTP(ctx, shelfsdk.VerifyOTPRequest{UserID: reg.UserID, OTP: code})
	require.NoError(t, err)
	require.True(t, session.User().Verified)

	// The consumed code cannot be replayed.
	_, err = ts.client.VerifyOTP(ctx, shelfsdk.VerifyOTPRequest{UserID: reg.UserID, OTP: code})
	requireCode(t, err, shelfsdk.ErrorCodeNotFound)

	me, err := session.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, "Jane", me.Name)

	_, err = ts.client.Register(ctx, shelfsdk.RegisterRequest{Name: "Jane", Email: "jane@x.com", Password: testPassword})
	requireCode(t, err, shelfsdk.ErrorCodeConflict)

	require.NoError(t, session.Logout(ctx))
	_, err = session.Me(ctx)
	requireCode(t, err, shelfsdk.ErrorCodeUnauthorized)
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  shelfsdk.RegisterRequest
	}{
		{"short name", shelfsdk.RegisterRequest{Name: "J", Email: "j@x.com", Password: testPassword}},
		{"bad email", shelfsdk.RegisterRequest{Name: "Jane", Email: "jane", Password: testPassword}},
		{"weak password", shelfsdk.RegisterRequest{Name: "Jane", Email: "j@x.com", Password: "password"}},
		{"mismatch", shelfsdk.RegisterRequest{Name: "Jane", Email: "j@x.com", Password: testPassword, ConfirmPassword: "Bb2@bbbb"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.client.Register(ctx, tt.req)
			requireCode(t, err, shelfsdk.ErrorCodeInvalidRequest)
		})
	}

	_, ok := ts.mail.Last("j@x.com")
	require.False(t, ok, "no code is sent for rejected input")
}

func TestResendSupersedes(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ctx := context.Background()

	reg, err := ts.client.Register(ctx, shelfsdk.RegisterRequest{Name: "Jane", Email: "jane@x.com", Password: testPassword})
	require.NoError(t, err)
	first := ts.lastCode(t, "jane@x.com")

	require.NoError(t, ts.client.ResendOTP(ctx, reg.UserID))
	second := ts.lastCode(t, "jane@x.com")

	if first != second {
		_, err = ts.client.VerifyOTP(ctx, shelfsdk.VerifyOTPRequest{UserID: reg.UserID, OTP: first})
		requireCode(t, err, shelfsdk.ErrorCodeInvalidCode)
	}

	_, err = ts.client.VerifyOTP(ctx, shelfsdk.VerifyOTPRequest{UserID: reg.UserID, OTP: second})
	require.NoError(t, err)

	// Nothing left to resend once verified.
	err = ts.client.ResendOTP(ctx, reg.UserID)
	requireCode(t, err, shelfsdk.ErrorCodeNotFound)
}

func TestLoginWithEmailMFA(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ctx := context.Background()

	session := ts.signUp(t, "jane@x.com")

	_, _, err := ts.client.Login(ctx, shelfsdk.LoginRequest{Email: "jane@x.com", Password: "Wrong1!pw"})
	requireCode(t, err, shelfsdk.ErrorCodeInvalidCredentials)
	_, _, err = ts.client.Login(ctx, shelfsdk.LoginRequest{Email: "nobody@x.com", Password: testPassword})
	requireCode(t, err, shelfsdk.ErrorCodeInvalidCredentials)

	resp, direct, err := ts.client.Login(ctx, shelfsdk.LoginRequest{Email: "jane@x.com", Password: testPassword})
	require.NoError(t, err)
	require.False(t, resp.MFA)
	require.NotNil(t, direct)

	user, err := session.SetEmailMFA(ctx, true, testPassword)
	require.NoError(t, err)
	require.True(t, user.MFAEnabled)

	resp, pending, err := ts.client.Login(ctx, shelfsdk.LoginRequest{Email: "jane@x.com", Password: testPassword})
	require.NoError(t, err)
	require.True(t, resp.MFA)
	require.Nil(t, pending)
	require.Nil(t, resp.User)
	require.Equal(t, "jane@x.com", resp.Email)

	second, err := ts.client.VerifyOTP(ctx, shelfsdk.VerifyOTPRequest{UserID: resp.UserID, OTP: ts.lastCode(t, "jane@x.com")})
	require.NoError(t, err)

	me, err := second.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, resp.UserID, me.ID)
}

func TestPasswordResetFlow(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ctx := context.Background()

	old := ts.signUp(t, "jane@x.com")

	// Unknown and known emails look the same.
	require.NoError(t, ts.client.ForgotPassword(ctx, "ghost@x.com"))
	require.NoError(t, ts.client.ForgotPassword(ctx, "jane@x.com"))
	_, sent := ts.mail.Last("ghost@x.com")
	require.False(t, sent)

	code := ts.lastCode(t, "jane@x.com")
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}

	_, err := ts.client.VerifyResetOTP(ctx, shelfsdk.VerifyResetRequest{Email: "jane@x.com", OTP: wrong})
	requireCode(t, err, shelfsdk.ErrorCodeInvalidCode)
	_, err = ts.client.VerifyResetOTP(ctx, shelfsdk.VerifyResetRequest{Email: "ghost@x.com", OTP: wrong})
	requireCode(t, err, shelfsdk.ErrorCodeInvalidCode)

	ticket, err := ts.client.VerifyResetOTP(ctx, shelfsdk.VerifyResetRequest{Email: "jane@x.com", OTP: code})
	require.NoError(t, err)
	require.True(t, ticket.OK)
	require.NotEmpty(t, ticket.ResetToken)

	_, err = ts.client.VerifyResetOTP(ctx, shelfsdk.VerifyResetRequest{Email: "jane@x.com", OTP: code})
	requireCode(t, err, shelfsdk.ErrorCodeNotFound)

	err = ts.client.ResetPassword(ctx, shelfsdk.ResetPasswordRequest{UserID: ticket.UserID, ResetToken: ticket.ResetToken, NewPassword: "Aaaaaaaa"})
	requireCode(t, err, shelfsdk.ErrorCodeInvalidRequest)

	err = ts.client.ResetPassword(ctx, shelfsdk.ResetPasswordRequest{UserID: ticket.UserID, ResetToken: "not-the-token", NewPassword: "Bb2@bbbb"})
	requireCode(t, err, shelfsdk.ErrorCodeInvalidCode)

	require.NoError(t, ts.client.ResetPassword(ctx, shelfsdk.ResetPasswordRequest{
		UserID:      ticket.UserID,
		ResetToken:  ticket.ResetToken,
		NewPassword: "Bb2@bbbb",
	}))

	_, err = old.Me(ctx)
	requireCode(t, err, shelfsdk.ErrorCodeUnauthorized)

	_, _, err = ts.client.Login(ctx, shelfsdk.LoginRequest{Email: "jane@x.com", Password: testPassword})
	requireCode(t, err, shelfsdk.ErrorCodeInvalidCredentials)
	_, fresh, err := ts.client.Login(ctx, shelfsdk.LoginRequest{Email: "jane@x.com", Password: "Bb2@bbbb"})
	require.NoError(t, err)
	require.NotNil(t, fresh)
}

func TestSessionCookie(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ctx := context.Background()

	ts.signUp(t, "jane@x.com")

	body := strings.NewReader(`{"email":"jane@x.com","password":"Aa1!aaaa"}`)
	resp, err := http.Post(ts.srv.URL+"/api/auth/login", "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "no-store", resp.Header.Get("Cache-Control"))

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == service.SessionCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	require.True(t, cookie.HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	require.Equal(t, "/", cookie.Path)
	require.False(t, cookie.Secure)

	// The cookie alone authenticates.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.srv.URL+"/api/auth/me", nil)
	require.NoError(t, err)
	req.AddCookie(cookie)
	me, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer me.Body.Close()
	require.Equal(t, http.StatusOK, me.StatusCode)

	var out shelfsdk.UserResponse
	require.NoError(t, json.NewDecoder(me.Body).Decode(&out))
	require.Equal(t, "jane@x.com", out.User.Email)

	// Logout clears it, with or without a session.
	out2, err := http.Post(ts.srv.URL+"/api/auth/logout", "application/json", nil)
	require.NoError(t, err)
	defer out2.Body.Close()
	require.Equal(t, http.StatusOK, out2.StatusCode)
	cleared := out2.Cookies()
	require.Len(t, cleared, 1)
	require.Equal(t, service.SessionCookieName, cleared[0].Name)
	require.Negative(t, cleared[0].MaxAge)
}

func TestMalformedBody(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	for _, body := range []string{``, `{`, `{"email":"a@b.c","password":"x","extra":1}`, `{} {}`} {
		resp, err := http.Post(ts.srv.URL+"/api/auth/login", "application/json", strings.NewReader(body))
		require.NoError(t, err)

		var out shelfsdk.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		_ = resp.Body.Close()

		require.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
		require.Equal(t, shelfsdk.ErrorCodeInvalidRequest, out.Error, body)
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodPut, "/api/auth/mfa"},
		{http.MethodPost, "/api/auth/mfa/totp/enroll"},
		{http.MethodGet, "/api/books/mine"},
		{http.MethodPost, "/api/books"},
		{http.MethodGet, "/api/userbooks"},
		{http.MethodGet, "/api/userbooks/summary"},
		{http.MethodPut, "/api/userbooks/x"},
		{http.MethodGet, "/api/profile"},
		{http.MethodPut, "/api/profile"},
	}
	for _, rt := range routes {
		req, err := http.NewRequest(rt.method, ts.srv.URL+rt.path, nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer not-a-token")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", rt.method, rt.path)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	ctx := context.Background()

	live, err := ts.client.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	ready, err := ts.client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.Equal(t, "ok", ready.Checks.Database)
	require.Equal(t, "ok", ready.Checks.Signer)
}
