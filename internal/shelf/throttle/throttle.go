// Package throttle caps how often one-time codes are issued per user.
package throttle

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/shelf/pkg/httpx"
)

// ErrUnavailable wraps backend failures. Callers decide whether to fail
// open or closed.
var ErrUnavailable = errors.New("throttle: backend unavailable")

// Throttle counts events per key within a window.
type Throttle interface {
	// Allow records one event for key. When the limit is exceeded it returns
	// false and how long until the window resets.
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

// Local keeps per-key token buckets in process memory. It is the fallback
// when no Redis is configured and only suits a single instance.
type Local struct {
	limiter *httpx.KeyedLimiter
}

// NewLocal allows limit events per window for each key.
func NewLocal(limit int, window time.Duration) *Local {
	return &Local{limiter: httpx.NewKeyedLimiter(limit, window, limit)}
}

func (l *Local) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	ok, retry := l.limiter.Allow(key)
	return ok, retry, nil
}

// Nop never throttles.
type Nop struct{}

func (Nop) Allow(context.Context, string) (bool, time.Duration, error) { return true, 0, nil }
