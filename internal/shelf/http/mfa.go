package http

import (
	"net/http"

	"github.com/aussiebroadwan/shelf/internal/shelf/service"
	"github.com/aussiebroadwan/shelf/pkg/httpx"
	"github.com/aussiebroadwan/shelf/pkg/shelfsdk"
)

// MFAHandler handles the second factor settings of the signed-in user.
type MFAHandler struct {
	MFAService *service.MFAService
}

// HandleSetEmailMFA handles PUT /api/auth/mfa
//
//	@Summary		Toggle the emailed login code
//	@Tags			MFA
//	@Security		SessionCookie
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		shelfsdk.EmailMFARequest	true	"Setting and current password"
//	@Success		200		{object}	shelfsdk.UserResponse
//	@Failure		401		{object}	shelfsdk.ErrorResponse	"No valid session or wrong password"
//	@Router			/api/auth/mfa [put].
func (h *MFAHandler) HandleSetEmailMFA(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFrom(r.Context())

	var req shelfsdk.EmailMFARequest
	if !decode(w, r, &req) {
		return
	}

	user, err := h.MFAService.SetEmailMFA(r.Context(), p.UserID, req.Enabled, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, shelfsdk.UserResponse{User: toUser(user)})
}

// HandleEnroll handles POST /api/auth/mfa/totp/enroll
//
//	@Summary		Enroll an authenticator app
//	@Description	Generates a TOTP secret. It is not used until confirmed with a code.
//	@Tags			MFA
//	@Security		SessionCookie
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	shelfsdk.TOTPEnrollResponse
//	@Failure		401	{object}	shelfsdk.ErrorResponse	"No valid session"
//	@Failure		409	{object}	shelfsdk.ErrorResponse	"Already enabled"
//	@Router			/api/auth/mfa/totp/enroll [post].
func (h *MFAHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFrom(r.Context())

	enrollment, err := h.MFAService.EnrollTOTP(r.Context(), p.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, shelfsdk.TOTPEnrollResponse{
		Secret: enrollment.Secret,
		URI:    enrollment.URI,
	})
}

// HandleVerify handles POST /api/auth/mfa/totp/verify
//
//	@Summary		Confirm the authenticator app
//	@Tags			MFA
//	@Security		SessionCookie
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		shelfsdk.TOTPVerifyRequest	true	"Code from the app"
//	@Success		200		{object}	shelfsdk.OKResponse
//	@Failure		400		{object}	shelfsdk.ErrorResponse	"Invalid code"
//	@Failure		404		{object}	shelfsdk.ErrorResponse	"Not enrolled"
//	@Router			/api/auth/mfa/totp/verify [post].
func (h *MFAHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFrom(r.Context())

	var req shelfsdk.TOTPVerifyRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.MFAService.ConfirmTOTP(r.Context(), p.UserID, req.Code); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, shelfsdk.OKResponse{OK: true})
}

// HandleDisable handles DELETE /api/auth/mfa/totp
//
//	@Summary		Remove the authenticator app
//	@Tags			MFA
//	@Security		SessionCookie
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		shelfsdk.TOTPDisableRequest	true	"Current password"
//	@Success		200		{object}	shelfsdk.OKResponse
//	@Failure		401		{object}	shelfsdk.ErrorResponse	"No valid session or wrong password"
//	@Router			/api/auth/mfa/totp [delete].
func (h *MFAHandler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFrom(r.Context())

	var req shelfsdk.TOTPDisableRequest
	if !decode(w, r, &req) {
		return
	}

	if err := h.MFAService.DisableTOTP(r.Context(), p.UserID, req.Password); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, shelfsdk.OKResponse{OK: true})
}
