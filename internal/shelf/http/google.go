package http

import (
	"crypto/subtle"
	"net/http"

	"github.com/aussiebroadwan/shelf/internal/shelf/service"
	"github.com/aussiebroadwan/shelf/pkg/cryptox"
	"github.com/aussiebroadwan/shelf/pkg/httpx"
	"github.com/aussiebroadwan/shelf/pkg/shelfsdk"
	"github.com/aussiebroadwan/shelf/pkg/slogx"
)

// GoogleStateCookieName carries the OAuth state between the redirect to
// Google and the callback.
const GoogleStateCookieName = "shelf_google_state"

const googleStateMaxAge = 10 * 60

// GoogleHandler serves sign-in with a Google account.
type GoogleHandler struct {
	GoogleService *service.GoogleService

	// SecureCookies sets the Secure attribute on the state and session cookies.
	SecureCookies bool
}

// HandleStart handles GET /api/auth/google
//
//	@Summary		Sign in with Google
//	@Description	Redirects to Google's account chooser. Only mounted when Google sign-in is configured.
//	@Tags			Auth
//	@Success		302	"Redirect to Google"
//	@Failure		500	{object}	shelfsdk.ErrorResponse	"Internal server error"
//	@Router			/api/auth/google [get].
func (h *GoogleHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	state, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.setStateCookie(w, state, googleStateMaxAge)
	httpx.NoCache(w)
	http.Redirect(w, r, h.GoogleService.AuthCodeURL(state), http.StatusFound)
}

// HandleCallback handles GET /api/auth/google/callback
//
//	@Summary		Finish signing in with Google
//	@Description	Redeems the code Google returned. Answers like password login: the user with the session cookie set,
//	@Description	or {mfa: true, userId, email} when the account requires an emailed code.
//	@Tags			Auth
//	@Produce		json
//	@Param			code	query		string					true	"Authorization code"
//	@Param			state	query		string					true	"State echoed by Google"
//	@Success		200		{object}	shelfsdk.LoginResponse
//	@Failure		400		{object}	shelfsdk.ErrorResponse	"State mismatch or missing code"
//	@Failure		401		{object}	shelfsdk.ErrorResponse	"Google rejected the code"
//	@Failure		403		{object}	shelfsdk.ErrorResponse	"Google email not verified"
//	@Failure		500		{object}	shelfsdk.ErrorResponse	"Internal server error"
//	@Router			/api/auth/google/callback [get].
func (h *GoogleHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var expected string
	if c, err := r.Cookie(GoogleStateCookieName); err == nil {
		expected = c.Value
	}
	h.setStateCookie(w, "", -1)

	state := q.Get("state")
	if expected == "" || subtle.ConstantTimeCompare([]byte(state), []byte(expected)) != 1 {
		shelfsdk.ErrInvalidRequest.WithDescription("oauth state does not match").WriteError(w)
		return
	}

	if reason := q.Get("error"); reason != "" {
		slogx.FromContext(r.Context()).Debug("google sign-in declined", "reason", reason)
		shelfsdk.ErrUnauthorized.WithDescription("google sign-in was not completed").WriteError(w)
		return
	}

	res, err := h.GoogleService.Callback(r.Context(), q.Get("code"))
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

	setSessionCookie(w, res.Session, h.SecureCookies)
	httpx.WriteJSON(w, http.StatusOK, shelfsdk.LoginResponse{User: toUser(res.User)})
}

func (h *GoogleHandler) setStateCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     GoogleStateCookieName,
		Value:    value,
		Path:     "/api/auth/google",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
