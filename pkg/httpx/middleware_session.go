package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/shelf/pkg/slogx"
)

// ErrInvalidSession marks a token that resolved to no live session. Session
// resolvers wrap it for every rejection; any other error is a fault.
var ErrInvalidSession = errors.New("httpx: invalid session")

// SessionResolver turns a presented session token into the caller behind it.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (Principal, error)
}

// SessionToken returns the token carried by the request: a bearer
// Authorization header wins over the named cookie.
func SessionToken(r *http.Request, cookieName string) string {
	if authz := r.Header.Get("Authorization"); strings.HasPrefix(authz, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}

// OptionalSession resolves the caller when a token is present and lets
// guests through untouched. A rejected token is treated as absent; a
// resolver fault answers 500.
func OptionalSession(res SessionResolver, cookieName string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := SessionToken(r, cookieName)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			p, err := res.ResolveSession(r.Context(), raw)
			switch {
			case errors.Is(err, ErrInvalidSession):
				slogx.FromContext(r.Context()).Debug("session rejected", "err", err)
				next.ServeHTTP(w, r)
				return
			case err != nil:
				slogx.FromContext(r.Context()).Error("failed to resolve session", "err", err)
				WriteError(w, http.StatusInternalServerError, "server_error", "internal server error")
				return
			}

			ctx := slogx.With(WithPrincipal(r.Context(), p), "user_id", p.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession answers 401 unless OptionalSession, or an earlier
// RequireSession, resolved a caller.
func RequireSession(res SessionResolver, cookieName string) Middleware {
	return func(next http.Handler) http.Handler {
		gate := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := PrincipalFrom(r.Context()); !ok {
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				WriteError(w, http.StatusUnauthorized, "unauthorized", "a valid session is required")
				return
			}
			next.ServeHTTP(w, r)
		})
		return OptionalSession(res, cookieName)(gate)
	}
}
