package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/shelf/pkg/httpx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

// hit sends one request from ip, optionally as user, and returns the recorder.
func hit(h http.Handler, ip, user string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = ip + ":40000"
	if user != "" {
		req = req.WithContext(httpx.WithPrincipal(req.Context(), httpx.Principal{UserID: user}))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIPKeyExtractor(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"remote address", nil, "10.0.0.7"},
		{"first forwarded hop", map[string]string{"X-Forwarded-For": " 198.51.100.4 , 10.0.0.7"}, "198.51.100.4"},
		{"real ip header", map[string]string{"X-Real-IP": "198.51.100.9"}, "198.51.100.9"},
		{
			"forwarded wins over real ip",
			map[string]string{"X-Forwarded-For": "198.51.100.4", "X-Real-IP": "198.51.100.9"},
			"198.51.100.4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "10.0.0.7:51515"
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, httpx.IPKeyExtractor(req))
		})
	}

	t.Run("remote address without port", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "pipe"
		assert.Equal(t, "pipe", httpx.IPKeyExtractor(req))
	})
}

func TestCompositeKeyExtractor(t *testing.T) {
	extract := httpx.CompositeKeyExtractor("|", httpx.UserIDKeyExtractor, httpx.IPKeyExtractor)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.7:51515"
	assert.Equal(t, "10.0.0.7", extract(req), "guests key on address alone")

	req = req.WithContext(httpx.WithPrincipal(req.Context(), httpx.Principal{UserID: "01JB0USER"}))
	assert.Equal(t, "01JB0USER|10.0.0.7", extract(req))
}

func TestKeyedLimiter(t *testing.T) {
	kl := httpx.NewKeyedLimiter(2, time.Hour, 2)

	for range 2 {
		ok, _ := kl.Allow("reader@example.com")
		require.True(t, ok)
	}

	ok, wait := kl.Allow("reader@example.com")
	assert.False(t, ok)
	assert.Greater(t, wait, time.Duration(0))

	ok, _ = kl.Allow("other@example.com")
	assert.True(t, ok, "keys have separate buckets")
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("burst then reject with headers", func(t *testing.T) {
		limited := httpx.RateLimitMiddleware(httpx.RateLimitConfig{
			RequestsPerWindow: 3,
			Window:            time.Minute,
			Burst:             3,
		}, httpx.IPKeyExtractor)(okHandler)

		for i := range 3 {
			require.Equal(t, http.StatusOK, hit(limited, "10.0.0.7", "").Code, "request %d", i+1)
		}

		rec := hit(limited, "10.0.0.7", "")
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))
		assert.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "1m0s", rec.Header().Get("X-RateLimit-Window"))
		assert.Contains(t, rec.Body.String(), `"rate_limited"`)

		assert.Equal(t, http.StatusOK, hit(limited, "10.0.0.8", "").Code, "another address is unaffected")
	})

	t.Run("empty key passes through", func(t *testing.T) {
		limited := httpx.RateLimitMiddleware(httpx.RateLimitConfig{
			RequestsPerWindow: 1,
			Window:            time.Minute,
			Burst:             1,
		}, func(*http.Request) string { return "" })(okHandler)

		for range 3 {
			assert.Equal(t, http.StatusOK, hit(limited, "10.0.0.7", "").Code)
		}
	})
}

func TestRateLimitByIP(t *testing.T) {
	limited := httpx.RateLimitByIP(httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1})(okHandler)

	assert.Equal(t, http.StatusOK, hit(limited, "10.0.0.7", "a").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(limited, "10.0.0.7", "b").Code, "users share an address bucket")
}

func TestRateLimitByUser(t *testing.T) {
	limited := httpx.RateLimitByUser(httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1})(okHandler)

	assert.Equal(t, http.StatusOK, hit(limited, "10.0.0.7", "alice").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(limited, "10.0.0.7", "alice").Code)
	assert.Equal(t, http.StatusOK, hit(limited, "10.0.0.7", "bob").Code, "same address, different user")
}

func TestRateLimitProfiles(t *testing.T) {
	ordered := []httpx.RateLimitConfig{httpx.StrictLimit, httpx.ModerateLimit, httpx.LenientLimit, httpx.PublicLimit}

	for i, cfg := range ordered {
		assert.Positive(t, cfg.RequestsPerWindow)
		assert.Positive(t, cfg.Window)
		assert.Positive(t, cfg.Burst)
		if i > 0 {
			assert.Less(t, ordered[i-1].RequestsPerWindow, cfg.RequestsPerWindow, "profiles loosen in order")
		}
	}
}

func TestParseRateLimitFromEnv(t *testing.T) {
	def := httpx.RateLimitConfig{RequestsPerWindow: 10, Window: time.Minute, Burst: 10}

	tests := []struct {
		name string
		env  map[string]string
		want httpx.RateLimitConfig
	}{
		{"unset keeps defaults", nil, def},
		{
			"partial override",
			map[string]string{"RATELIMIT_OTP_BURST": "4"},
			httpx.RateLimitConfig{RequestsPerWindow: 10, Window: time.Minute, Burst: 4},
		},
		{
			"full override",
			map[string]string{"RATELIMIT_OTP_REQUESTS": "20", "RATELIMIT_OTP_WINDOW_SEC": "90", "RATELIMIT_OTP_BURST": "5"},
			httpx.RateLimitConfig{RequestsPerWindow: 20, Window: 90 * time.Second, Burst: 5},
		},
		{
			"garbage and non-positive ignored",
			map[string]string{"RATELIMIT_OTP_REQUESTS": "lots", "RATELIMIT_OTP_WINDOW_SEC": "-1", "RATELIMIT_OTP_BURST": "0"},
			def,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			assert.Equal(t, tt.want, httpx.ParseRateLimitFromEnv("OTP", def))
		})
	}
}

func TestLoadRateLimitsFromEnv(t *testing.T) {
	saved := httpx.StrictLimit
	t.Cleanup(func() { httpx.StrictLimit = saved })

	t.Setenv("RATELIMIT_STRICT_REQUESTS", "3")
	httpx.LoadRateLimitsFromEnv()

	assert.Equal(t, 3, httpx.StrictLimit.RequestsPerWindow)
	assert.Equal(t, saved.Window, httpx.StrictLimit.Window)
}
