package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	shelfhttp "github.com/aussiebroadwan/shelf/internal/shelf/http"
	"github.com/aussiebroadwan/shelf/internal/shelf/mail"
	"github.com/aussiebroadwan/shelf/internal/shelf/service"
	"github.com/aussiebroadwan/shelf/internal/shelf/store"
	"github.com/aussiebroadwan/shelf/internal/shelf/store/drivers/sqlite"
	"github.com/aussiebroadwan/shelf/internal/shelf/throttle"
	"github.com/aussiebroadwan/shelf/pkg/cryptox"
	"github.com/aussiebroadwan/shelf/pkg/jwtx"
	"github.com/aussiebroadwan/shelf/pkg/slogx"
	"github.com/redis/go-redis/v9"
)

// BuildVersion is overridden at build time via -ldflags.
var BuildVersion = "v0.1.0"

// Application encapsulates the shelf service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db         store.Store
	keyManager *jwtx.KeyManager
	mailer     mail.Mailer
	throttle   throttle.Throttle
	redis      *redis.Client // nil without REDIS_URL

	// Services
	otpService          *service.OTPService
	sessionService      *service.SessionService
	mfaService          *service.MFAService
	authService         *service.AuthService
	bookService         *service.BookService
	readingService      *service.ReadingService
	profileService      *service.ProfileService
	googleService       *service.GoogleService // nil unless configured
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *shelfhttp.Router
}

// New creates a new Application instance with all dependencies initialized
func New(ctx context.Context, cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "shelf",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	keyManager, err := InitSessionKeys(app.cfg, app.logger)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize session keys: %w", err)
	}
	app.keyManager = keyManager

	if err := app.initDelivery(ctx); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler exposes the fully wired router.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until ctx is cancelled, a shutdown
// signal arrives or the server fails.
func (app *Application) Run(ctx context.Context) error {
	app.housekeepingService.Start()

	app.logger.Info("shelf starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = app.Shutdown()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	case <-ctx.Done():
		app.logger.Info("context cancelled", "cause", context.Cause(ctx))
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down shelf...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("shelf stopped")
	return nil
}

// initDatabase opens the database and applies migrations
func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(sqlite.FileDSN(app.cfg.DatabaseFile))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "path", app.cfg.DatabaseFile)
	return nil
}

// initDelivery picks the mailer and the code issue throttle.
func (app *Application) initDelivery(ctx context.Context) error {
	if app.cfg.SMTPHost != "" {
		app.mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     app.cfg.SMTPHost,
			Port:     app.cfg.SMTPPort,
			Username: app.cfg.SMTPUser,
			Password: app.cfg.SMTPPass,
			From:     app.cfg.SMTPFrom,
		})
		app.logger.Info("smtp mailer enabled", "host", app.cfg.SMTPHost, "port", app.cfg.SMTPPort)
	} else {
		app.mailer = mail.NewLogMailer(app.logger)
		app.logger.Warn("SMTP_HOST not set, one-time codes will only be logged")
	}

	if app.cfg.RedisURL == "" {
		app.throttle = throttle.NewLocal(app.cfg.OTPIssueLimit, app.cfg.OTPIssueWindow)
		return nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client, err := throttle.NewRedisClient(pingCtx, app.cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	app.redis = client
	app.throttle = throttle.NewRedis(client, app.cfg.OTPIssueLimit, app.cfg.OTPIssueWindow)
	app.logger.Info("redis issue throttle enabled")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.otpService = &service.OTPService{
		Store:       app.db,
		Mailer:      app.mailer,
		Throttle:    app.throttle,
		TTL:         app.cfg.OTPTTL,
		MaxAttempts: app.cfg.OTPMaxAttempts,
	}
	app.sessionService = &service.SessionService{
		Store:  app.db,
		Keys:   app.keyManager,
		Issuer: app.cfg.Issuer,
		TTL:    app.cfg.SessionTTL,
	}
	app.mfaService = &service.MFAService{
		Store:  app.db,
		Issuer: "Shelf",
	}
	app.authService = &service.AuthService{
		Store:         app.db,
		OTP:           app.otpService,
		Sessions:      app.sessionService,
		MFA:           app.mfaService,
		RequireMFA:    app.cfg.RequireMFA,
		ResetGrantTTL: app.cfg.ResetGrantTTL,
	}
	app.bookService = &service.BookService{Store: app.db}
	app.readingService = &service.ReadingService{Store: app.db}
	app.profileService = &service.ProfileService{Store: app.db}

	if app.cfg.GoogleEnabled() {
		app.googleService = &service.GoogleService{
			Store:      app.db,
			Sessions:   app.sessionService,
			OTP:        app.otpService,
			RequireMFA: app.cfg.RequireMFA,
			OAuth: service.NewGoogleOAuthConfig(
				app.cfg.GoogleClientID,
				app.cfg.GoogleClientSecret,
				app.cfg.GoogleRedirectURL,
			),
		}
		app.logger.Info("google sign-in enabled", "redirect_url", app.cfg.GoogleRedirectURL)
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := shelfhttp.NewRouter(
		app.keyManager,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.SecureCookies = app.cfg.SessionCookieSecure
	router.AuthService = app.authService
	router.SessionService = app.sessionService
	router.MFAService = app.mfaService
	router.BookService = app.bookService
	router.ReadingService = app.readingService
	router.ProfileService = app.profileService
	router.GoogleService = app.googleService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
