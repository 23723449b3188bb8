package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/shelf/internal/shelf/service"
	"github.com/aussiebroadwan/shelf/pkg/httpx"
	"github.com/aussiebroadwan/shelf/pkg/shelfsdk"
)

// ReadingHandler serves the signed-in user's reading list.
type ReadingHandler struct {
	ReadingService *service.ReadingService
	Now            func() time.Time
}

func (h *ReadingHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// HandleList handles GET /api/userbooks
//
//	@Summary		My reading list
//	@Tags			Reading
//	@Security		SessionCookie
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		shelfsdk.Entry
//	@Failure		401	{object}	shelfsdk.ErrorResponse	"No valid session"
//	@Router			/api/userbooks [get].
func (h *ReadingHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFrom(r.Context())

	entries, err := h.ReadingService.List(r.Context(), p.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	now := h.now()
	out := make([]shelfsdk.Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntry(e, now))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleSummary handles GET /api/userbooks/summary
//
//	@Summary		Reading statistics
//	@Tags			Reading
//	@Security		SessionCookie
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	shelfsdk.Summary
//	@Failure		401	{object}	shelfsdk.ErrorResponse	"No valid session"
//	@Router			/api/userbooks/summary [get].
func (h *ReadingHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFrom(r.Context())

	sum, err := h.ReadingService.Summary(r.Context(), p.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toSummary(sum))
}

// HandleAdd handles POST /api/userbooks
//
//	@Summary		Add a book to my list
//	@Tags			Reading
//	@Security		SessionCookie
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		shelfsdk.AddEntryRequest	true	"Book and optional status"
//	@Success		201		{object}	shelfsdk.Entry
//	@Failure		404		{object}	shelfsdk.ErrorResponse	"Unknown book"
//	@Failure		409		{object}	shelfsdk.ErrorResponse	"Already on the list"
//	@Router			/api/userbooks [post].
func (h *ReadingHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFrom(r.Context())

	var req shelfsdk.AddEntryRequest
	if !decode(w, r, &req) {
		return
	}

	entry, err := h.ReadingService.Add(r.Context(), p.UserID, service.AddEntryInput{
		BookID: req.BookID,
		Status: req.Status,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toEntry(entry, h.now()))
}

// HandleUpdate handles PUT /api/userbooks/{id}
//
//	@Summary		Update status or progress
//	@Tags			Reading
//	@Security		SessionCookie
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Entry ID"
//	@Param			request	body		shelfsdk.UpdateEntryRequest	true	"Status and/or progress"
//	@Success		200		{object}	shelfsdk.Entry
//	@Failure		400		{object}	shelfsdk.ErrorResponse	"Validation failed"
//	@Failure		404		{object}	shelfsdk.ErrorResponse
//	@Router			/api/userbooks/{id} [put].
func (h *ReadingHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFrom(r.Context())

	var req shelfsdk.UpdateEntryRequest
	if !decode(w, r, &req) {
		return
	}

	entry, err := h.ReadingService.Update(r.Context(), p.UserID, r.PathValue("id"), service.UpdateEntryInput{
		Status:   req.Status,
		Progress: req.Progress,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toEntry(entry, h.now()))
}

// HandleDelete handles DELETE /api/userbooks/{id}
//
//	@Summary		Remove a book from my list
//	@Tags			Reading
//	@Security		SessionCookie
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Entry ID"
//	@Success		204
//	@Failure		404	{object}	shelfsdk.ErrorResponse
//	@Router			/api/userbooks/{id} [delete].
func (h *ReadingHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFrom(r.Context())

	if err := h.ReadingService.Delete(r.Context(), p.UserID, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
