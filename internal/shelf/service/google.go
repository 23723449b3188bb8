package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/shelf/internal/shelf/domain"
	"github.com/aussiebroadwan/shelf/internal/shelf/store"
	"github.com/aussiebroadwan/shelf/pkg/cryptox"
	"github.com/aussiebroadwan/shelf/pkg/idx"
	"github.com/aussiebroadwan/shelf/pkg/slogx"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleUserInfoURL is Google's OpenID Connect userinfo endpoint.
const GoogleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// NewGoogleOAuthConfig returns the authorization code flow settings for
// signing in with a Google account.
func NewGoogleOAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}
}

// GoogleService signs users in with a Google account. The account is
// matched to a user by its verified email; an unknown email gets a new,
// already verified user.
type GoogleService struct {
	Store    store.Store
	Sessions *SessionService
	OAuth    *oauth2.Config

	// OTP and RequireMFA hold back the session behind an emailed code for
	// users who asked for a second factor. Nil OTP skips the check.
	OTP        *OTPService
	RequireMFA bool

	UserInfoURL string // defaults to GoogleUserInfoURL
	Now         func() time.Time
}

type googleUserInfo struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// AuthCodeURL is where the browser is sent to pick a Google account. state
// comes back untouched on the callback.
func (s *GoogleService) AuthCodeURL(state string) string {
	return s.OAuth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Callback redeems the authorization code, reads the Google profile and
// signs the matching user in with amr ["oauth"].
func (s *GoogleService) Callback(ctx context.Context, code string) (LoginResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return LoginResult{}, invalid("code", "is required")
	}

	info, err := s.userInfo(ctx, code)
	if err != nil {
		return LoginResult{}, err
	}

	email := NormalizeEmail(info.Email)
	if email == "" || !info.EmailVerified {
		return LoginResult{}, fmt.Errorf("%w: google account email is not verified", ErrForbidden)
	}

	var user domain.User
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		user, err = s.findOrCreate(ctx, tx, email, displayName(info.Name, email))
		return err
	})
	if err != nil {
		return LoginResult{}, err
	}

	log := slogx.FromContext(ctx)
	if s.OTP != nil && user.RequiresMFA(s.RequireMFA) {
		if _, err := s.OTP.Issue(ctx, user, domain.PurposeLoginMFA); err != nil {
			return LoginResult{}, err
		}
		log.Info("google sign-in pending mfa", "user_id", user.ID)
		return LoginResult{User: user, Pending: true}, nil
	}

	issued, err := s.Sessions.Issue(ctx, user, []string{domain.AMROAuth})
	if err != nil {
		return LoginResult{}, err
	}

	log.Info("user signed in with google", "user_id", user.ID)
	return LoginResult{User: user, Session: &issued}, nil
}

// findOrCreate returns the verified user owning email. A pending
// registration is taken over: Google vouches for the mailbox, so the
// password chosen at registration is replaced and its codes dropped.
func (s *GoogleService) findOrCreate(ctx context.Context, tx store.Tx, email, name string) (domain.User, error) {
	user, err := tx.Users().GetUserByEmail(ctx, email)
	switch {
	case err == nil && user.Verified:
		return user, nil

	case err == nil:
		hash, err := unusablePasswordHash()
		if err != nil {
			return domain.User{}, err
		}
		if err := tx.Users().UpdatePasswordHash(ctx, user.ID, hash); err != nil {
			return domain.User{}, fmt.Errorf("failed to replace password: %w", err)
		}
		if err := tx.Users().MarkVerified(ctx, user.ID); err != nil {
			return domain.User{}, fmt.Errorf("failed to verify user: %w", err)
		}
		if err := tx.Challenges().DeleteUserChallenges(ctx, user.ID); err != nil {
			return domain.User{}, fmt.Errorf("failed to drop challenges: %w", err)
		}
		user.PasswordHash = hash
		user.Verified = true
		return user, nil

	case errors.Is(err, store.ErrNotFound):
		hash, err := unusablePasswordHash()
		if err != nil {
			return domain.User{}, err
		}
		now := clock(s.Now)
		user = domain.User{
			ID:           idx.NewAt(now).String(),
			Name:         name,
			Email:        email,
			PasswordHash: hash,
			Verified:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.Users().CreateUser(ctx, user); err != nil {
			return domain.User{}, fmt.Errorf("failed to create user: %w", err)
		}
		slogx.FromContext(ctx).Info("user registered with google", "user_id", user.ID)
		return user, nil

	default:
		return domain.User{}, fmt.Errorf("failed to look up email: %w", err)
	}
}

func (s *GoogleService) userInfo(ctx context.Context, code string) (googleUserInfo, error) {
	tok, err := s.OAuth.Exchange(ctx, code)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) {
			return googleUserInfo{}, fmt.Errorf("%w: google rejected the authorization code", ErrInvalidCredentials)
		}
		return googleUserInfo{}, fmt.Errorf("failed to exchange google code: %w", err)
	}

	endpoint := s.UserInfoURL
	if endpoint == "" {
		endpoint = GoogleUserInfoURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return googleUserInfo{}, fmt.Errorf("failed to build userinfo request: %w", err)
	}

	resp, err := s.OAuth.Client(ctx, tok).Do(req)
	if err != nil {
		return googleUserInfo{}, fmt.Errorf("failed to fetch google userinfo: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return googleUserInfo{}, fmt.Errorf("google userinfo returned %s", resp.Status)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return googleUserInfo{}, fmt.Errorf("failed to decode google userinfo: %w", err)
	}
	return info, nil
}

// unusablePasswordHash hashes a random secret nobody knows. The user can
// still set a password through the reset flow.
func unusablePasswordHash() (string, error) {
	secret, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", err
	}
	hash, err := cryptox.HashPassword(secret)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

// displayName keeps the Google profile name when it fits the name rules
// and falls back to the mailbox name.
func displayName(name, email string) string {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n >= 2 && n <= 100 {
		return name
	}

	local, _, _ := strings.Cut(email, "@")
	if utf8.RuneCountInString(local) > 100 {
		local = string([]rune(local)[:100])
	}
	return local
}
