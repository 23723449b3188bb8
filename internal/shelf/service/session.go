package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/shelf/internal/shelf/domain"
	"github.com/aussiebroadwan/shelf/internal/shelf/store"
	"github.com/aussiebroadwan/shelf/pkg/httpx"
	"github.com/aussiebroadwan/shelf/pkg/idx"
	"github.com/aussiebroadwan/shelf/pkg/jwtx"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "shelf_session"

// SessionService issues session tokens and resolves them back to users.
// A token is an EdDSA JWT whose sid claim names a sessions row; the row
// decides whether the token is still live.
type SessionService struct {
	Store  store.Store
	Keys   *jwtx.KeyManager
	Issuer string
	TTL    time.Duration
	Now    func() time.Time
}

// IssuedSession is a stored session and the token pointing at it.
type IssuedSession struct {
	Session domain.Session
	Token   string
}

// Issue starts a session for user in its own transaction.
func (s *SessionService) Issue(ctx context.Context, user domain.User, amr []string) (IssuedSession, error) {
	var issued IssuedSession
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		issued, err = s.IssueTx(ctx, tx, user, amr)
		return err
	})
	return issued, err
}

// IssueTx starts a session for user inside tx.
func (s *SessionService) IssueTx(ctx context.Context, tx store.Tx, user domain.User, amr []string) (IssuedSession, error) {
	now := clock(s.Now)
	sess := domain.Session{
		ID:        idx.NewAt(now).String(),
		UserID:    user.ID,
		AMR:       amr,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl()),
	}

	claims := jwtx.NewSessionClaims(user.ID, sess.ID, amr, s.ttl(), s.Issuer, now)
	token, err := s.Keys.Signer().Sign(claims)
	if err != nil {
		return IssuedSession{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	if err := tx.Sessions().CreateSession(ctx, sess); err != nil {
		return IssuedSession{}, fmt.Errorf("failed to store session: %w", err)
	}

	return IssuedSession{Session: sess, Token: token}, nil
}

// Logout revokes the session. Revoking an unknown or already revoked
// session succeeds.
func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	err := s.Store.Sessions().RevokeSession(ctx, sessionID, clock(s.Now))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// Current returns the verified user and the session behind token.
func (s *SessionService) Current(ctx context.Context, token string) (domain.User, domain.Session, error) {
	claims, err := s.Keys.Verifier().Verify(token)
	if err != nil {
		return domain.User{}, domain.Session{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	sess, err := s.Store.Sessions().GetSession(ctx, claims.SID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, domain.Session{}, fmt.Errorf("%w: unknown session", ErrUnauthorized)
	}
	if err != nil {
		return domain.User{}, domain.Session{}, fmt.Errorf("failed to load session: %w", err)
	}

	if !sess.Active(clock(s.Now)) {
		return domain.User{}, domain.Session{}, fmt.Errorf("%w: session ended", ErrUnauthorized)
	}
	if sess.UserID != claims.Subject {
		return domain.User{}, domain.Session{}, fmt.Errorf("%w: subject mismatch", ErrUnauthorized)
	}

	user, err := s.Store.Users().GetUserByID(ctx, sess.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, domain.Session{}, fmt.Errorf("%w: unknown user", ErrUnauthorized)
	}
	if err != nil {
		return domain.User{}, domain.Session{}, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.Verified {
		return domain.User{}, domain.Session{}, fmt.Errorf("%w: account not verified", ErrUnauthorized)
	}

	return user, sess, nil
}

// ResolveSession implements httpx.SessionResolver.
func (s *SessionService) ResolveSession(ctx context.Context, token string) (httpx.Principal, error) {
	user, sess, err := s.Current(ctx, token)
	if errors.Is(err, ErrUnauthorized) {
		return httpx.Principal{}, fmt.Errorf("%w: %w", httpx.ErrInvalidSession, err)
	}
	if err != nil {
		return httpx.Principal{}, err
	}
	return httpx.Principal{UserID: user.ID, SessionID: sess.ID, AMR: sess.AMR}, nil
}

func (s *SessionService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return jwtx.DefaultSessionTTL
}
