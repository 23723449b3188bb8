package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/shelf/internal/shelf/domain"
)

type challengesRepo struct {
	db dbtx
}

// UpsertChallenge relies on UNIQUE (user_id, purpose): the conflicting row
// is overwritten in place, so there is never a moment with two live codes.
func (r *challengesRepo) UpsertChallenge(ctx context.Context, c domain.Challenge) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO otp_challenges (id, user_id, email, purpose, code_hash, attempts, issued_at, expires_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?)
		ON CONFLICT (user_id, purpose) DO UPDATE SET
			id         = excluded.id,
			email      = excluded.email,
			code_hash  = excluded.code_hash,
			attempts   = 0,
			issued_at  = excluded.issued_at,
			expires_at = excluded.expires_at`,
		c.ID, c.UserID, c.Email, string(c.Purpose), c.CodeHash, c.IssuedAt.UTC(), c.ExpiresAt.UTC(),
	)
	return err
}

func (r *challengesRepo) GetChallenge(ctx context.Context, userID string, purpose domain.Purpose) (domain.Challenge, error) {
	var (
		c       domain.Challenge
		purpStr string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, email, purpose, code_hash, attempts, issued_at, expires_at
		FROM otp_challenges WHERE user_id = ? AND purpose = ?`, userID, string(purpose),
	).Scan(&c.ID, &c.UserID, &c.Email, &purpStr, &c.CodeHash, &c.Attempts, &c.IssuedAt, &c.ExpiresAt)
	if err != nil {
		return domain.Challenge{}, mapNotFound(err)
	}

	c.Purpose = domain.Purpose(purpStr)
	c.IssuedAt = c.IssuedAt.UTC()
	c.ExpiresAt = c.ExpiresAt.UTC()
	return c, nil
}

func (r *challengesRepo) IncrementAttempts(ctx context.Context, id string) (int, error) {
	var attempts int
	err := r.db.QueryRowContext(ctx,
		`UPDATE otp_challenges SET attempts = attempts + 1 WHERE id = ? RETURNING attempts`, id,
	).Scan(&attempts)
	if err != nil {
		return 0, mapNotFound(err)
	}
	return attempts, nil
}

func (r *challengesRepo) DeleteChallenge(ctx context.Context, id string) error {
	return requireRow(r.db.ExecContext(ctx, `DELETE FROM otp_challenges WHERE id = ?`, id))
}

func (r *challengesRepo) DeleteUserChallenges(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM otp_challenges WHERE user_id = ?`, userID)
	return err
}

func (r *challengesRepo) DeleteExpiredChallenges(ctx context.Context, now time.Time) (int64, error) {
	return rowsAffected(r.db.ExecContext(ctx, `DELETE FROM otp_challenges WHERE expires_at <= ?`, now.UTC()))
}
