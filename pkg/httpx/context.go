package httpx

import "context"

type ctxKey string

const (
	CtxKeyUserID    ctxKey = "user_id"
	CtxKeySessionID ctxKey = "session_id"
	CtxKeyAMR       ctxKey = "amr"
)

// Principal is the caller behind a resolved session.
type Principal struct {
	UserID    string
	SessionID string
	AMR       []string
}

// WithPrincipal stores p in ctx for downstream handlers.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, p.UserID)
	ctx = context.WithValue(ctx, CtxKeySessionID, p.SessionID)
	ctx = context.WithValue(ctx, CtxKeyAMR, p.AMR)
	return ctx
}

// PrincipalFrom returns the caller stored by the session middleware. The
// boolean is false for guests.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	userID, _ := ctx.Value(CtxKeyUserID).(string)
	if userID == "" {
		return Principal{}, false
	}
	sid, _ := ctx.Value(CtxKeySessionID).(string)
	amr, _ := ctx.Value(CtxKeyAMR).([]string)
	return Principal{UserID: userID, SessionID: sid, AMR: amr}, true
}
