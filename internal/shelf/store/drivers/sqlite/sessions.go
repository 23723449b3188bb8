package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/aussiebroadwan/shelf/internal/shelf/domain"
)

type sessionsRepo struct {
	db dbtx
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, amr, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.UserID, strings.Join(s.AMR, " "), s.CreatedAt.UTC(), s.ExpiresAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *sessionsRepo) GetSession(ctx context.Context, id string) (domain.Session, error) {
	var (
		s       domain.Session
		amr     string
		revoked sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, amr, created_at, expires_at, revoked_at
		FROM sessions WHERE id = ?`, id,
	).Scan(&s.ID, &s.UserID, &amr, &s.CreatedAt, &s.ExpiresAt, &revoked)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}

	s.AMR = splitFields(amr)
	s.CreatedAt = s.CreatedAt.UTC()
	s.ExpiresAt = s.ExpiresAt.UTC()
	s.RevokedAt = mapNullTime(revoked)
	return s, nil
}

func (r *sessionsRepo) RevokeSession(ctx context.Context, id string, at time.Time) error {
	return requireRow(r.db.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = COALESCE(revoked_at, ?) WHERE id = ?`, at.UTC(), id))
}

func (r *sessionsRepo) RevokeUserSessions(ctx context.Context, userID string, at time.Time) (int64, error) {
	return rowsAffected(r.db.ExecContext(ctx,
		`UPDATE sessions SET revoked_at = ? WHERE user_id = ? AND revoked_at IS NULL`, at.UTC(), userID))
}

func (r *sessionsRepo) DeleteStaleSessions(ctx context.Context, now time.Time) (int64, error) {
	return rowsAffected(r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at <= ? OR revoked_at IS NOT NULL`, now.UTC()))
}
