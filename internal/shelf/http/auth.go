package http

import (
	"net/http"

	"github.com/aussiebroadwan/shelf/internal/shelf/service"
	"github.com/aussiebroadwan/shelf/pkg/httpx"
	"github.com/aussiebroadwan/shelf/pkg/shelfsdk"
	"github.com/aussiebroadwan/shelf/pkg/slogx"
)

// AuthHandler serves registration, login, the emailed code steps and
// password reset.
type AuthHandler struct {
	AuthService    *service.AuthService
	SessionService *service.SessionService

	// SecureCookies sets the Secure attribute on the session cookie.
	SecureCookies bool
}

// HandleRegister handles POST /api/auth/register
//
//	@Summary		Register an account
//	@Description	Creates an unverified account and emails a 6-digit code. Registering again with the email of an unverified account and the same password sends a fresh code.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		shelfsdk.RegisterRequest	true	"Account details"
//	@Success		201		{object}	shelfsdk.RegisterResponse	"Pending account"
//	@Failure		400		{object}	shelfsdk.ErrorResponse		"Validation failed"
//	@Failure		409		{object}	shelfsdk.ErrorResponse		"Email already registered"
//	@Failure		429		{object}	shelfsdk.ErrorResponse		"Too many codes requested"
//	@Failure		500		{object}	shelfsdk.ErrorResponse		"Internal server error"
//	@Router			/api/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req shelfsdk.RegisterRequest
	if !decode(w, r, &req) {
		return
	}

	user, err := h.AuthService.Register(r.Context(), service.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, shelfsdk.RegisterResponse{
		UserID: user.ID,
		Email:  user.Email,
	})
}

// HandleVerifyOTP handles POST /api/auth/verify-otp
//
//	@Summary		Verify an emailed code
//	@Description	Completes registration or the second step of a login and sets the session cookie.
//	@Description	With method "totp" a code from an enrolled authenticator app is accepted instead.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		shelfsdk.VerifyOTPRequest	true	"User and code"
//	@Success		200		{object}	shelfsdk.UserResponse		"Signed in"
//	@Failure		400		{object}	shelfsdk.ErrorResponse		"Invalid, expired or exhausted code"
//	@Failure		404		{object}	shelfsdk.ErrorResponse		"No pending code"
//	@Failure		500		{object}	shelfsdk.ErrorResponse		"Internal server error"
//	@Router			/api/auth/verify-otp [post].
func (h *AuthHandler) HandleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req shelfsdk.VerifyOTPRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := h.AuthService.VerifyOTP(r.Context(), service.VerifyOTPInput{
		UserID: req.UserID,
		Code:   req.OTP,
		Method: req.Method,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.setSessionCookie(w, res.Session)
	httpx.WriteJSON(w, http.StatusOK, shelfsdk.UserResponse{User: toUser(res.User)})
}

// HandleResendOTP handles POST /api/auth/resend-otp
//
//	@Summary		Resend the pending code
//	@Description	Emails a fresh code for the step the user is on. The previous code stops working.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		shelfsdk.ResendOTPRequest	true	"User"
//	@Success		200		{object}	shelfsdk.OKResponse
//	@Failure		404		{object}	shelfsdk.ErrorResponse	"No pending step"
//	@Failure		429		{object}	shelfsdk.ErrorResponse	"Too many codes requested"
//	@Failure		500		{object}	shelfsdk.ErrorResponse	"Internal server error"
//	@Router			/api/auth/resend-otp [post].
func (h *AuthHandler) HandleResendOTP(w http.ResponseWriter, r *http.Request) {
	var req shelfsdk.ResendOTPRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.AuthService.ResendOTP(r.Context(), req.UserID); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, shelfsdk.OKResponse{OK: true})
}

// HandleLogin handles POST /api/auth/login
//
//	@Summary		Sign in with a password
//	@Description	Returns the user and sets the session cookie, or {mfa: true, userId, email} when an emailed code must follow.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		shelfsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	shelfsdk.LoginResponse
//	@Failure		400		{object}	shelfsdk.ErrorResponse	"Validation failed"
//	@Failure		401		{object}	shelfsdk.ErrorResponse	"Invalid credentials"
//	@Failure		429		{object}	shelfsdk.ErrorResponse	"Too many requests"
//	@Failure		500		{object}	shelfsdk.ErrorResponse	"Internal server error"
//	@Router			/api/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req shelfsdk.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	res, err := h.AuthService.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	if res.Pending {
		httpx.WriteJSON(w, http.StatusOK, shelfsdk.LoginResponse{
			MFA:    true,
			UserID: res.User.ID,
			Email:  res.User.Email,
		})
		return
	}

	h.setSessionCookie(w, res.Session)
	httpx.WriteJSON(w, http.StatusOK, shelfsdk.LoginResponse{User: toUser(res.User)})
}

// HandleForgotPassword handles POST /api/auth/forgot-password
//
//	@Summary		Request a password reset code
//	@Description	Emails a reset code when the address belongs to a verified account. The response is the same either way.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		shelfsdk.ForgotPasswordRequest	true	"Email"
//	@Success		200		{object}	shelfsdk.OKResponse
//	@Failure		400		{object}	shelfsdk.ErrorResponse	"Malformed email"
//	@Failure		500		{object}	shelfsdk.ErrorResponse	"Internal server error"
//	@Router			/api/auth/forgot-password [post].
func (h *AuthHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req shelfsdk.ForgotPasswordRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.AuthService.ForgotPassword(r.Context(), req.Email); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, shelfsdk.OKResponse{OK: true})
}

// HandleVerifyResetOTP handles POST /api/auth/verify-reset-otp
//
//	@Summary		Verify a password reset code
//	@Description	Consumes the reset code and returns a single-use reset token.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		shelfsdk.VerifyResetRequest		true	"Email and code"
//	@Success		200		{object}	shelfsdk.VerifyResetResponse
//	@Failure		400		{object}	shelfsdk.ErrorResponse	"Invalid, expired or exhausted code"
//	@Failure		404		{object}	shelfsdk.ErrorResponse	"No pending code"
//	@Failure		500		{object}	shelfsdk.ErrorResponse	"Internal server error"
//	@Router			/api/auth/verify-reset-otp [post].
func (h *AuthHandler) HandleVerifyResetOTP(w http.ResponseWriter, r *http.Request) {
	var req shelfsdk.VerifyResetRequest
	if !decode(w, r, &req) {
		return
	}

	ticket, err := h.AuthService.VerifyResetCode(r.Context(), service.VerifyResetInput{
		Email: req.Email,
		Code:  req.OTP,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, shelfsdk.VerifyResetResponse{
		OK:         true,
		UserID:     ticket.UserID,
		ResetToken: ticket.ResetToken,
	})
}

// HandleResetPassword handles POST /api/auth/reset-password
//
//	@Summary		Set a new password
//	@Description	Redeems the reset token. Every session of the user is revoked.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		shelfsdk.ResetPasswordRequest	true	"Reset token and new password"
//	@Success		200		{object}	shelfsdk.OKResponse
//	@Failure		400		{object}	shelfsdk.ErrorResponse	"Weak password, expired or mismatched token"
//	@Failure		404		{object}	shelfsdk.ErrorResponse	"No reset in progress"
//	@Failure		500		{object}	shelfsdk.ErrorResponse	"Internal server error"
//	@Router			/api/auth/reset-password [post].
func (h *AuthHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req shelfsdk.ResetPasswordRequest
	if !decode(w, r, &req) {
		return
	}

	err := h.AuthService.ResetPassword(r.Context(), service.ResetPasswordInput{
		UserID:      req.UserID,
		ResetToken:  req.ResetToken,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, shelfsdk.OKResponse{OK: true})
}

// HandleMe handles GET /api/auth/me
//
//	@Summary		Current user
//	@Tags			Auth
//	@Security		SessionCookie
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	shelfsdk.UserResponse
//	@Failure		401	{object}	shelfsdk.ErrorResponse	"No valid session"
//	@Router			/api/auth/me [get].
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFrom(r.Context())

	user, err := h.AuthService.User(r.Context(), p.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, shelfsdk.UserResponse{User: toUser(user)})
}

// HandleLogout handles POST /api/auth/logout
//
//	@Summary		Sign out
//	@Description	Revokes the current session, if any, and clears the cookie.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	shelfsdk.OKResponse
//	@Failure		500	{object}	shelfsdk.ErrorResponse	"Internal server error"
//	@Router			/api/auth/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if p, ok := httpx.PrincipalFrom(r.Context()); ok {
		if err := h.SessionService.Logout(r.Context(), p.SessionID); err != nil {
			writeError(w, r, err)
			return
		}
		slogx.FromContext(r.Context()).Info("user logged out", "session_id", p.SessionID)
	}

	h.clearSessionCookie(w)
	httpx.WriteJSON(w, http.StatusOK, shelfsdk.OKResponse{OK: true})
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, s *service.IssuedSession) {
	setSessionCookie(w, s, h.SecureCookies)
}

func setSessionCookie(w http.ResponseWriter, s *service.IssuedSession, secure bool) {
	if s == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     service.SessionCookieName,
		Value:    s.Token,
		Path:     "/",
		MaxAge:   max(int(s.Session.ExpiresAt.Sub(s.Session.CreatedAt).Seconds()), 1),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     service.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
