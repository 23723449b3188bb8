package shelfsdk

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
)

// SessionCookieName is the cookie the server sets on sign-in.
const SessionCookieName = "shelf_session"

// SDKClient is a client for the Shelf service. It provides the public
// operations and creates authenticated Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new client for the service at baseURL.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewSessionFromToken creates a session from a token obtained earlier, e.g.
// one stored between runs.
func (c *SDKClient) NewSessionFromToken(token string) *Session {
	return &Session{client: c, token: token}
}

// Register starts a registration. A code is emailed to the address; finish
// with VerifyOTP.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var out RegisterResponse
	if _, err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", "", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyOTP submits an emailed (or authenticator app) code and returns the
// session it opens.
func (c *SDKClient) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (*Session, error) {
	var out UserResponse
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/auth/verify-otp", "", req, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return c.sessionFrom(resp, out.User)
}

// ResendOTP emails a fresh code for the user's pending step.
func (c *SDKClient) ResendOTP(ctx context.Context, userID string) error {
	var out OKResponse
	_, err := c.doJSON(ctx, http.MethodPost, "/api/auth/resend-otp", "", ResendOTPRequest{UserID: userID}, &out, http.StatusOK)
	return err
}

// Login signs in with a password. When a second step is required the
// response has MFA set and the session is nil.
func (c *SDKClient) Login(ctx context.Context, req LoginRequest) (*LoginResponse, *Session, error) {
	var out LoginResponse
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", "", req, &out, http.StatusOK)
	if err != nil {
		return nil, nil, err
	}
	if out.MFA {
		return &out, nil, nil
	}

	session, err := c.sessionFrom(resp, out.User)
	if err != nil {
		return nil, nil, err
	}
	return &out, session, nil
}

// ForgotPassword asks for a reset code. It succeeds whether or not the
// email belongs to an account.
func (c *SDKClient) ForgotPassword(ctx context.Context, email string) error {
	var out OKResponse
	_, err := c.doJSON(ctx, http.MethodPost, "/api/auth/forgot-password", "", ForgotPasswordRequest{Email: email}, &out, http.StatusOK)
	return err
}

// VerifyResetOTP exchanges a reset code for a single-use reset token.
func (c *SDKClient) VerifyResetOTP(ctx context.Context, req VerifyResetRequest) (*VerifyResetResponse, error) {
	var out VerifyResetResponse
	if _, err := c.doJSON(ctx, http.MethodPost, "/api/auth/verify-reset-otp", "", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetPassword sets a new password. Every session of the user is revoked.
func (c *SDKClient) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	var out OKResponse
	_, err := c.doJSON(ctx, http.MethodPost, "/api/auth/reset-password", "", req, &out, http.StatusOK)
	return err
}

// ListBooks returns the catalog, optionally narrowed to a genre.
func (c *SDKClient) ListBooks(ctx context.Context, genre string) ([]Book, error) {
	path := "/api/books"
	if genre != "" {
		path += "?genre=" + queryEscape(genre)
	}

	var out []Book
	if _, err := c.doJSON(ctx, http.MethodGet, path, "", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// GetBook returns one book from the catalog.
func (c *SDKClient) GetBook(ctx context.Context, id string) (*Book, error) {
	var out Book
	if _, err := c.doJSON(ctx, http.MethodGet, "/api/books/"+pathEscape(id), "", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// sessionFrom picks the session cookie off a sign-in response.
func (c *SDKClient) sessionFrom(resp *http.Response, user *User) (*Session, error) {
	for _, ck := range resp.Cookies() {
		if ck.Name == SessionCookieName && ck.Value != "" {
			return &Session{client: c, token: ck.Value, user: user}, nil
		}
	}
	return nil, errors.New("response carried no session cookie")
}
