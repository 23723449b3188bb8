package shelfsdk

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseErrorResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		header   http.Header
		body     string
		wantNil  bool
		wantCode string
		wantDesc string
		wantWait time.Duration
	}{
		{name: "success", status: http.StatusOK, body: `{}`, wantNil: true},
		{
			name: "typed error", status: http.StatusBadRequest,
			body:     `{"error":"invalid_code","error_description":"the code is incorrect"}`,
			wantCode: ErrorCodeInvalidCode, wantDesc: "the code is incorrect",
		},
		{
			name: "rate limited", status: http.StatusTooManyRequests,
			header:   http.Header{"Retry-After": {"42"}},
			body:     `{"error":"rate_limited"}`,
			wantCode: ErrorCodeRateLimited, wantWait: 42 * time.Second,
		},
		{
			name: "not json", status: http.StatusBadGateway, body: `<html>`,
			wantCode: ErrorCodeServerError, wantDesc: "HTTP 502: Bad Gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resp := &http.Response{StatusCode: tt.status, Header: tt.header}
			if resp.Header == nil {
				resp.Header = http.Header{}
			}

			err := parseErrorResponse(resp, []byte(tt.body))
			if tt.wantNil {
				require.NoError(t, err)
				return
			}

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			require.Equal(t, tt.status, apiErr.StatusCode)
			require.Equal(t, tt.wantCode, apiErr.Code)
			if tt.wantDesc != "" {
				require.Equal(t, tt.wantDesc, apiErr.Description)
			}
			require.Equal(t, tt.wantWait, apiErr.RetryAfter)
		})
	}
}

func TestAPIErrorWriteError(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	e := ErrRateLimited.WithDescription("slow down")
	e.RetryAfter = 1500 * time.Millisecond
	e.WriteError(rec)

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "1", rec.Header().Get("Retry-After"))
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.JSONEq(t, `{"error":"rate_limited","error_description":"slow down"}`, rec.Body.String())

	// The shared value is untouched.
	require.Equal(t, "too many requests, try again later", ErrRateLimited.Description)
	require.Zero(t, ErrRateLimited.RetryAfter)
}

func TestIsCode(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("login: %w", ErrInvalidCredentials)
	require.True(t, IsCode(wrapped, ErrorCodeInvalidCredentials))
	require.False(t, IsCode(wrapped, ErrorCodeNotFound))
	require.False(t, IsCode(errors.New("plain"), ErrorCodeNotFound))
}
