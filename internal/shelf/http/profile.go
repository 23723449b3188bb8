package http

import (
	"net/http"

	"github.com/aussiebroadwan/shelf/internal/shelf/service"
	"github.com/aussiebroadwan/shelf/pkg/httpx"
	"github.com/aussiebroadwan/shelf/pkg/shelfsdk"
)

type ProfileHandler struct {
	ProfileService *service.ProfileService
}

// HandleGet handles GET /api/profile
//
//	@Summary		My profile
//	@Tags			Profile
//	@Security		SessionCookie
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	shelfsdk.Profile
//	@Failure		401	{object}	shelfsdk.ErrorResponse	"No valid session"
//	@Router			/api/profile [get].
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFrom(r.Context())

	view, err := h.ProfileService.Get(r.Context(), p.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProfile(view))
}

// HandleUpdate handles PUT /api/profile
//
//	@Summary		Update my profile
//	@Description	Fields left out of the body are unchanged.
//	@Tags			Profile
//	@Security		SessionCookie
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		shelfsdk.ProfileRequest	true	"Changed fields"
//	@Success		200		{object}	shelfsdk.Profile
//	@Failure		400		{object}	shelfsdk.ErrorResponse	"Validation failed"
//	@Router			/api/profile [put].
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFrom(r.Context())

	var req shelfsdk.ProfileRequest
	if !decode(w, r, &req) {
		return
	}

	view, err := h.ProfileService.Update(r.Context(), p.UserID, service.ProfileInput{
		Name:          req.Name,
		Bio:           req.Bio,
		Location:      req.Location,
		FavoriteGenre: req.FavoriteGenre,
		YearlyGoal:    req.YearlyGoal,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toProfile(view))
}
