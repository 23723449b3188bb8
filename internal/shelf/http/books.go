package http

import (
	"net/http"

	"github.com/aussiebroadwan/shelf/internal/shelf/service"
	"github.com/aussiebroadwan/shelf/pkg/httpx"
	"github.com/aussiebroadwan/shelf/pkg/shelfsdk"
)

// BookHandler serves the shared catalog.
type BookHandler struct {
	BookService *service.BookService
}

// HandleList handles GET /api/books
//
//	@Summary		List books
//	@Tags			Books
//	@Produce		json
//	@Param			genre	query		string	false	"Only books of this genre"
//	@Success		200		{array}		shelfsdk.Book
//	@Router			/api/books [get].
func (h *BookHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	books, err := h.BookService.List(r.Context(), r.URL.Query().Get("genre"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toBooks(books))
}

// HandleMine handles GET /api/books/mine
//
//	@Summary		Books I added
//	@Tags			Books
//	@Security		SessionCookie
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		shelfsdk.Book
//	@Failure		401	{object}	shelfsdk.ErrorResponse	"No valid session"
//	@Router			/api/books/mine [get].
func (h *BookHandler) HandleMine(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFrom(r.Context())

	books, err := h.BookService.ListMine(r.Context(), p.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toBooks(books))
}

// HandleGet handles GET /api/books/{id}
//
//	@Summary		Get a book
//	@Tags			Books
//	@Produce		json
//	@Param			id	path		string	true	"Book ID"
//	@Success		200	{object}	shelfsdk.Book
//	@Failure		404	{object}	shelfsdk.ErrorResponse
//	@Router			/api/books/{id} [get].
func (h *BookHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	book, err := h.BookService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toBook(book))
}

// HandleCreate handles POST /api/books
//
//	@Summary		Add a book
//	@Tags			Books
//	@Security		SessionCookie
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		shelfsdk.BookRequest	true	"Book"
//	@Success		201		{object}	shelfsdk.Book
//	@Failure		400		{object}	shelfsdk.ErrorResponse	"Validation failed"
//	@Failure		401		{object}	shelfsdk.ErrorResponse	"No valid session"
//	@Router			/api/books [post].
func (h *BookHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFrom(r.Context())

	var req shelfsdk.BookRequest
	if !decode(w, r, &req) {
		return
	}

	book, err := h.BookService.Create(r.Context(), p.UserID, fromBookRequest(req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toBook(book))
}

// HandleUpdate handles PUT /api/books/{id}
//
//	@Summary		Replace a book
//	@Tags			Books
//	@Security		SessionCookie
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Book ID"
//	@Param			request	body		shelfsdk.BookRequest	true	"Book"
//	@Success		200		{object}	shelfsdk.Book
//	@Failure		403		{object}	shelfsdk.ErrorResponse	"Not the creator"
//	@Failure		404		{object}	shelfsdk.ErrorResponse
//	@Router			/api/books/{id} [put].
func (h *BookHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFrom(r.Context())

	var req shelfsdk.BookRequest
	if !decode(w, r, &req) {
		return
	}

	book, err := h.BookService.Update(r.Context(), p.UserID, r.PathValue("id"), fromBookRequest(req))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toBook(book))
}

// HandleDelete handles DELETE /api/books/{id}
//
//	@Summary		Delete a book
//	@Description	Also removes the book from every reading list.
//	@Tags			Books
//	@Security		SessionCookie
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Book ID"
//	@Success		204
//	@Failure		403	{object}	shelfsdk.ErrorResponse	"Not the creator"
//	@Failure		404	{object}	shelfsdk.ErrorResponse
//	@Router			/api/books/{id} [delete].
func (h *BookHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	p, _ := httpx.PrincipalFrom(r.Context())

	if err := h.BookService.Delete(r.Context(), p.UserID, r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
