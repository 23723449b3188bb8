package shelfsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/aussiebroadwan/shelf/pkg/httpx"
)

// Error codes carried in the "error" field of every error response.
const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeInvalidCode        = "invalid_code"
	ErrorCodeExpiredCode        = "expired_code"
	ErrorCodeTooManyAttempts    = "too_many_attempts"
	ErrorCodeNotFound           = "not_found"
	ErrorCodeConflict           = "conflict"
	ErrorCodeUnauthorized       = "unauthorized"
	ErrorCodeForbidden          = "forbidden"
	ErrorCodeRateLimited        = "rate_limited"
	ErrorCodeServerError        = "server_error"
)

// APIError is the typed form of an error response.
type APIError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description,omitempty"`

	// RetryAfter is set for rate_limited responses that name a wait.
	RetryAfter time.Duration `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Description == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes the error as JSON with its status code.
func (e *APIError) WriteError(w http.ResponseWriter) {
	if e.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(max(int(e.RetryAfter.Seconds()), 1)))
	}
	httpx.WriteError(w, e.StatusCode, e.Code, e.Description)
}

// WithDescription returns a copy of e with a different description.
func (e *APIError) WithDescription(desc string) *APIError {
	c := *e
	c.Description = desc
	return &c
}

// NewAPIError creates an APIError with the given status code, error code and description.
func NewAPIError(statusCode int, code, description string) *APIError {
	return &APIError{StatusCode: statusCode, Code: code, Description: description}
}

var (
	ErrInvalidRequest     = NewAPIError(http.StatusBadRequest, ErrorCodeInvalidRequest, "the request is missing a required parameter or is malformed")
	ErrInvalidCredentials = NewAPIError(http.StatusUnauthorized, ErrorCodeInvalidCredentials, "email or password is incorrect")
	ErrInvalidCode        = NewAPIError(http.StatusBadRequest, ErrorCodeInvalidCode, "the code is incorrect")
	ErrExpiredCode        = NewAPIError(http.StatusBadRequest, ErrorCodeExpiredCode, "the code has expired, request a new one")
	ErrTooManyAttempts    = NewAPIError(http.StatusBadRequest, ErrorCodeTooManyAttempts, "too many incorrect codes, request a new one")
	ErrNotFound           = NewAPIError(http.StatusNotFound, ErrorCodeNotFound, "not found")
	ErrConflict           = NewAPIError(http.StatusConflict, ErrorCodeConflict, "the request conflicts with the current state")
	ErrUnauthorized       = NewAPIError(http.StatusUnauthorized, ErrorCodeUnauthorized, "a valid session is required")
	ErrForbidden          = NewAPIError(http.StatusForbidden, ErrorCodeForbidden, "you may not change this resource")
	ErrRateLimited        = NewAPIError(http.StatusTooManyRequests, ErrorCodeRateLimited, "too many requests, try again later")
	ErrServerError        = NewAPIError(http.StatusInternalServerError, ErrorCodeServerError, "internal server error")
)

// IsCode reports whether err is an *APIError with the given code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// parseErrorResponse turns a non-2xx response into an *APIError. Returns nil
// for 2xx responses.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}
	if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
		apiErr.RetryAfter = time.Duration(secs) * time.Second
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		apiErr.Code = errResp.Error
		apiErr.Description = errResp.ErrorDescription
		return apiErr
	}

	apiErr.Code = ErrorCodeServerError
	apiErr.Description = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	return apiErr
}
