package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/shelf/internal/shelf/domain"
)

type resetGrantsRepo struct {
	db dbtx
}

func (r *resetGrantsRepo) UpsertResetGrant(ctx context.Context, g domain.ResetGrant) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO password_reset_grants (user_id, token_hash, created_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			token_hash = excluded.token_hash,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at`,
		g.UserID, g.TokenHash, g.CreatedAt.UTC(), g.ExpiresAt.UTC(),
	)
	return err
}

func (r *resetGrantsRepo) GetResetGrant(ctx context.Context, userID string) (domain.ResetGrant, error) {
	var g domain.ResetGrant
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, token_hash, created_at, expires_at
		FROM password_reset_grants WHERE user_id = ?`, userID,
	).Scan(&g.UserID, &g.TokenHash, &g.CreatedAt, &g.ExpiresAt)
	if err != nil {
		return domain.ResetGrant{}, mapNotFound(err)
	}

	g.CreatedAt = g.CreatedAt.UTC()
	g.ExpiresAt = g.ExpiresAt.UTC()
	return g, nil
}

func (r *resetGrantsRepo) DeleteResetGrant(ctx context.Context, userID string) error {
	return requireRow(r.db.ExecContext(ctx, `DELETE FROM password_reset_grants WHERE user_id = ?`, userID))
}

func (r *resetGrantsRepo) DeleteExpiredResetGrants(ctx context.Context, now time.Time) (int64, error) {
	return rowsAffected(r.db.ExecContext(ctx, `DELETE FROM password_reset_grants WHERE expires_at <= ?`, now.UTC()))
}
