package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/shelf/internal/shelf/service"
	"github.com/aussiebroadwan/shelf/internal/shelf/store"
	"github.com/aussiebroadwan/shelf/pkg/httpx"
	"github.com/aussiebroadwan/shelf/pkg/jwtx"
	"github.com/aussiebroadwan/shelf/pkg/slogx"

	_ "github.com/aussiebroadwan/shelf/api/shelf" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeyManager
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	// SecureCookies sets the Secure attribute on the session cookie.
	SecureCookies bool

	store          store.Store
	AuthService    *service.AuthService
	SessionService *service.SessionService
	MFAService     *service.MFAService
	BookService    *service.BookService
	ReadingService *service.ReadingService
	ProfileService *service.ProfileService

	// GoogleService enables sign-in with Google when set.
	GoogleService *service.GoogleService
}

func NewRouter(
	keys *jwtx.KeyManager,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerGoogle()
	r.registerMFA()
	r.registerBooks()
	r.registerReading()
	r.registerProfile()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Shelf API
//	@version		0.1.0
//	@description	Book tracking service: accounts with emailed one-time codes, a shared catalog, personal reading lists and profiles.
//	@description
//	@description				Sessions are EdDSA-signed tokens carried in the shelf_session cookie or an Authorization bearer header.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/shelf
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token. Format: "Bearer {token}".
//
//	@securityDefinitions.apikey	SessionCookie
//	@in							cookie
//	@name						shelf_session
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// authed requires a session and limits by user.
func (r *Router) authed(h http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.RequireSession(r.SessionService, service.SessionCookieName),
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		AuthService:    r.AuthService,
		SessionService: r.SessionService,
		SecureCookies:  r.SecureCookies,
	}

	// Credential and code endpoints - strict rate limit by IP
	for pattern, fn := range map[string]http.HandlerFunc{
		"POST /api/auth/register":         h.HandleRegister,
		"POST /api/auth/verify-otp":       h.HandleVerifyOTP,
		"POST /api/auth/resend-otp":       h.HandleResendOTP,
		"POST /api/auth/login":            h.HandleLogin,
		"POST /api/auth/forgot-password":  h.HandleForgotPassword,
		"POST /api/auth/verify-reset-otp": h.HandleVerifyResetOTP,
		"POST /api/auth/reset-password":   h.HandleResetPassword,
	} {
		r.Mux.Handle(pattern, httpx.Chain(fn, httpx.RateLimitByIP(httpx.StrictLimit)))
	}

	r.Mux.Handle("GET /api/auth/me", r.authed(h.HandleMe, httpx.LenientLimit))

	// Logout answers guests too
	r.Mux.Handle("POST /api/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.OptionalSession(r.SessionService, service.SessionCookieName),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerGoogle() {
	if r.GoogleService == nil {
		return
	}
	h := &GoogleHandler{GoogleService: r.GoogleService, SecureCookies: r.SecureCookies}

	strict := httpx.RateLimitByIP(httpx.StrictLimit)
	r.Mux.Handle("GET /api/auth/google", httpx.Chain(http.HandlerFunc(h.HandleStart), strict))
	r.Mux.Handle("GET /api/auth/google/callback", httpx.Chain(http.HandlerFunc(h.HandleCallback), strict))
}

func (r *Router) registerMFA() {
	h := &MFAHandler{MFAService: r.MFAService}

	r.Mux.Handle("PUT /api/auth/mfa", r.authed(h.HandleSetEmailMFA, httpx.ModerateLimit))
	r.Mux.Handle("POST /api/auth/mfa/totp/enroll", r.authed(h.HandleEnroll, httpx.ModerateLimit))
	r.Mux.Handle("POST /api/auth/mfa/totp/verify", r.authed(h.HandleVerify, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /api/auth/mfa/totp", r.authed(h.HandleDisable, httpx.ModerateLimit))
}

func (r *Router) registerBooks() {
	h := &BookHandler{BookService: r.BookService}

	// Public catalog reads - high limit by IP
	public := httpx.RateLimitByIP(httpx.PublicLimit)
	r.Mux.Handle("GET /api/books", httpx.Chain(http.HandlerFunc(h.HandleList), public))
	r.Mux.Handle("GET /api/books/{id}", httpx.Chain(http.HandlerFunc(h.HandleGet), public))

	r.Mux.Handle("GET /api/books/mine", r.authed(h.HandleMine, httpx.LenientLimit))
	r.Mux.Handle("POST /api/books", r.authed(h.HandleCreate, httpx.ModerateLimit))
	r.Mux.Handle("PUT /api/books/{id}", r.authed(h.HandleUpdate, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /api/books/{id}", r.authed(h.HandleDelete, httpx.ModerateLimit))
}

func (r *Router) registerReading() {
	h := &ReadingHandler{ReadingService: r.ReadingService, Now: r.ReadingService.Now}

	r.Mux.Handle("GET /api/userbooks", r.authed(h.HandleList, httpx.LenientLimit))
	r.Mux.Handle("GET /api/userbooks/summary", r.authed(h.HandleSummary, httpx.LenientLimit))
	r.Mux.Handle("POST /api/userbooks", r.authed(h.HandleAdd, httpx.ModerateLimit))
	r.Mux.Handle("PUT /api/userbooks/{id}", r.authed(h.HandleUpdate, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /api/userbooks/{id}", r.authed(h.HandleDelete, httpx.ModerateLimit))
}

func (r *Router) registerProfile() {
	h := &ProfileHandler{ProfileService: r.ProfileService}

	r.Mux.Handle("GET /api/profile", r.authed(h.HandleGet, httpx.LenientLimit))
	r.Mux.Handle("PUT /api/profile", r.authed(h.HandleUpdate, httpx.ModerateLimit))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys))
}
