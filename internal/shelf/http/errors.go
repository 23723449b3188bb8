package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/shelf/internal/shelf/service"
	"github.com/aussiebroadwan/shelf/pkg/httpx"
	"github.com/aussiebroadwan/shelf/pkg/shelfsdk"
	"github.com/aussiebroadwan/shelf/pkg/slogx"
)

// errorTable maps service sentinels to their response. The first match wins.
var errorTable = []struct {
	err  error
	resp *shelfsdk.APIError
}{
	{service.ErrInvalidRequest, shelfsdk.ErrInvalidRequest},
	{service.ErrInvalidCredentials, shelfsdk.ErrInvalidCredentials},
	{service.ErrInvalidCode, shelfsdk.ErrInvalidCode},
	{service.ErrExpiredCode, shelfsdk.ErrExpiredCode},
	{service.ErrTooManyAttempts, shelfsdk.ErrTooManyAttempts},
	{service.ErrNotFound, shelfsdk.ErrNotFound},
	{service.ErrConflict, shelfsdk.ErrConflict},
	{service.ErrUnauthorized, shelfsdk.ErrUnauthorized},
	{service.ErrForbidden, shelfsdk.ErrForbidden},
	{service.ErrRateLimited, shelfsdk.ErrRateLimited},
}

// apiError translates a service error into its response. Anything not in
// the table, delivery failures included, is a server error.
func apiError(err error) *shelfsdk.APIError {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return shelfsdk.ErrInvalidRequest.WithDescription(verr.Error())
	}

	var rl *service.RateLimitError
	if errors.As(err, &rl) {
		resp := shelfsdk.ErrRateLimited.WithDescription(rl.Error())
		resp.RetryAfter = rl.RetryAfter
		return resp
	}

	for _, e := range errorTable {
		if errors.Is(err, e.err) {
			return e.resp.WithDescription(describe(err, e.err, e.resp.Description))
		}
	}
	return shelfsdk.ErrServerError
}

// describe extracts the detail a service attached to a sentinel, as in
// "conflict: email already registered" or "book not_found".
func describe(err, sentinel error, fallback string) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok {
		return rest
	}
	if what, ok := strings.CutSuffix(msg, " "+sentinel.Error()); ok {
		return what + " " + strings.ReplaceAll(sentinel.Error(), "_", " ")
	}
	return fallback
}

// writeError logs err at a level matching its response and writes it.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())
	resp := apiError(err)

	if resp.StatusCode >= http.StatusInternalServerError {
		log.Error("request failed", "err", err)
	} else {
		log.Debug("request rejected", "code", resp.Code, "err", err)
	}
	resp.WriteError(w)
}

// decode reads the JSON body into dst, answering 400 itself on failure.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(w, r, dst); err != nil {
		slogx.FromContext(r.Context()).Debug("bad request body", "err", err)
		shelfsdk.ErrInvalidRequest.WithDescription(err.Error()).WriteError(w)
		return false
	}
	return true
}
