package shelfsdk

import (
	"context"
	"net/http"
)

// Session makes requests on behalf of a signed-in user. The token is sent as
// a bearer Authorization header.
type Session struct {
	client *SDKClient
	token  string
	user   *User
}

// Token returns the session token, e.g. to store it for NewSessionFromToken.
func (s *Session) Token() string {
	return s.token
}

// User returns the user the session was opened for, if the sign-in response
// carried one.
func (s *Session) User() *User {
	return s.user
}

func (s *Session) do(ctx context.Context, method, path string, in, out any, expected int) error {
	_, err := s.client.doJSON(ctx, method, path, s.token, in, out, expected)
	return err
}

// Me returns the signed-in user.
func (s *Session) Me(ctx context.Context) (*User, error) {
	var out UserResponse
	if err := s.do(ctx, http.MethodGet, "/api/auth/me", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	s.user = out.User
	return out.User, nil
}

// Logout ends the session on the server. The Session is unusable afterwards.
func (s *Session) Logout(ctx context.Context) error {
	var out OKResponse
	return s.do(ctx, http.MethodPost, "/api/auth/logout", nil, &out, http.StatusOK)
}

// SetEmailMFA turns the emailed login code on or off.
func (s *Session) SetEmailMFA(ctx context.Context, enabled bool, password string) (*User, error) {
	var out UserResponse
	req := EmailMFARequest{Enabled: enabled, Password: password}
	if err := s.do(ctx, http.MethodPut, "/api/auth/mfa", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.User, nil
}

// EnrollTOTP starts authenticator app enrolment.
func (s *Session) EnrollTOTP(ctx context.Context) (*TOTPEnrollResponse, error) {
	var out TOTPEnrollResponse
	if err := s.do(ctx, http.MethodPost, "/api/auth/mfa/totp/enroll", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConfirmTOTP enables the enrolled authenticator app with a code from it.
func (s *Session) ConfirmTOTP(ctx context.Context, code string) error {
	var out OKResponse
	return s.do(ctx, http.MethodPost, "/api/auth/mfa/totp/verify", TOTPVerifyRequest{Code: code}, &out, http.StatusOK)
}

// DisableTOTP removes the authenticator app.
func (s *Session) DisableTOTP(ctx context.Context, password string) error {
	var out OKResponse
	return s.do(ctx, http.MethodDelete, "/api/auth/mfa/totp", TOTPDisableRequest{Password: password}, &out, http.StatusOK)
}
