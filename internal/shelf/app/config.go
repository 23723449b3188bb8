package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/shelf/internal/shelf/service"
	"github.com/aussiebroadwan/shelf/pkg/httpx"
	"github.com/aussiebroadwan/shelf/pkg/jwtx"
	"github.com/joho/godotenv"
)

type Config struct {
	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)
	Port      int    // HTTP server port (default: 8080)

	DatabaseFile   string // Optional: path to SQLite database file (default: ./shelf.db)
	PepperFile     string // Optional: path to file containing pepper for password hashing (default: ./pepper)
	Issuer         string // Optional: iss claim of session tokens (default: shelf)
	NumKeys        int    // Optional: number of ephemeral signing keys (default: 3, min: 1, max: 10)
	SigningKeyFile string // Optional: PEM Ed25519 key that survives restarts; replaces ephemeral keys

	SessionTTL          time.Duration // Session lifetime (default: 7 days)
	SessionCookieSecure bool          // Set Secure on the session cookie (default: true outside dev)
	RequireMFA          bool          // Demand an emailed code on every login (default: false)

	OTPTTL         time.Duration // Code lifetime (default: 10m)
	OTPMaxAttempts int           // Wrong codes before a challenge is dropped (default: 5)
	OTPIssueLimit  int           // Codes issued per user and purpose per window (default: 5)
	OTPIssueWindow time.Duration // (default: 15m)
	ResetGrantTTL  time.Duration // Time to choose a new password after the reset code (default: 10m)

	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)

	RedisURL string // Optional: shares the issue throttle between instances

	SMTPHost string // Optional: codes are only logged when unset
	SMTPPort int    // (default: 587)
	SMTPUser string
	SMTPPass string
	SMTPFrom string // (default: Shelf <no-reply@shelf.local>)

	GoogleClientID     string // Optional: sign-in with Google is off unless all three are set
	GoogleClientSecret string
	GoogleRedirectURL  string // Public URL of /api/auth/google/callback
}

// LoadConfig reads the environment, after loading envFile into it when the
// file exists. Variables already set win over the file.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
		httpx.LoadRateLimitsFromEnv()
	}

	env := getEnvOrDefault("SHELF_ENV", "dev")
	cfg := Config{
		Env:       env,
		LogLevel:  getEnvOrDefault("SHELF_LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("SHELF_LOG_FORMAT", "json"),
		Port:      getEnvIntOrDefault("SHELF_PORT", 8080),

		DatabaseFile:   getEnvOrDefault("SHELF_DATABASE_FILE", "shelf.db"),
		PepperFile:     getEnvOrDefault("SHELF_PEPPER_FILE", "pepper"),
		Issuer:         getEnvOrDefault("SHELF_ISSUER", "shelf"),
		NumKeys:        getEnvIntOrDefault("SHELF_NUM_KEYS", 3),
		SigningKeyFile: os.Getenv("SHELF_SIGNING_KEY_FILE"),

		SessionTTL:          getEnvDurationOrDefault("SESSION_TTL", jwtx.DefaultSessionTTL),
		SessionCookieSecure: getEnvBoolOrDefault("SESSION_COOKIE_SECURE", env != "dev"),
		RequireMFA:          getEnvBoolOrDefault("REQUIRE_MFA", false),

		OTPTTL:         getEnvDurationOrDefault("OTP_TTL", service.DefaultOTPTTL),
		OTPMaxAttempts: getEnvIntOrDefault("OTP_MAX_ATTEMPTS", service.DefaultOTPMaxAttempts),
		OTPIssueLimit:  getEnvIntOrDefault("OTP_ISSUE_LIMIT", 5),
		OTPIssueWindow: getEnvDurationOrDefault("OTP_ISSUE_WINDOW", 15*time.Minute),
		ResetGrantTTL:  getEnvDurationOrDefault("RESET_GRANT_TTL", service.DefaultResetGrantTTL),

		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),

		RedisURL: os.Getenv("REDIS_URL"),

		SMTPHost: os.Getenv("SMTP_HOST"),
		SMTPPort: getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUser: os.Getenv("SMTP_USER"),
		SMTPPass: os.Getenv("SMTP_PASS"),
		SMTPFrom: getEnvOrDefault("SMTP_FROM", "Shelf <no-reply@shelf.local>"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
	}

	return cfg, cfg.Validate()
}

// Validate rejects settings the services cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("SHELF_PORT %d is out of range", c.Port))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.OTPTTL <= 0 {
		errs = append(errs, errors.New("OTP_TTL must be positive"))
	}
	if c.OTPMaxAttempts <= 0 {
		errs = append(errs, errors.New("OTP_MAX_ATTEMPTS must be positive"))
	}
	if c.OTPIssueLimit <= 0 || c.OTPIssueWindow <= 0 {
		errs = append(errs, errors.New("OTP_ISSUE_LIMIT and OTP_ISSUE_WINDOW must be positive"))
	}
	if c.ResetGrantTTL <= 0 {
		errs = append(errs, errors.New("RESET_GRANT_TTL must be positive"))
	}
	if !c.GoogleEnabled() && (c.GoogleClientID != "" || c.GoogleClientSecret != "" || c.GoogleRedirectURL != "") {
		errs = append(errs, errors.New("GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET and GOOGLE_REDIRECT_URL must be set together"))
	}
	return errors.Join(errs...)
}

// GoogleEnabled reports whether sign-in with Google is configured.
func (c Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURL != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
