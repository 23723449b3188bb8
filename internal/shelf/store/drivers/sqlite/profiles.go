package sqlite

import (
	"context"

	"github.com/aussiebroadwan/shelf/internal/shelf/domain"
)

type profilesRepo struct {
	db dbtx
}

func (r *profilesRepo) GetProfile(ctx context.Context, userID string) (domain.Profile, error) {
	var p domain.Profile
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, bio, location, favorite_genre, yearly_goal, updated_at
		FROM profiles WHERE user_id = ?`, userID,
	).Scan(&p.UserID, &p.Bio, &p.Location, &p.FavoriteGenre, &p.YearlyGoal, &p.UpdatedAt)
	if err != nil {
		return domain.Profile{}, mapNotFound(err)
	}
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

func (r *profilesRepo) UpsertProfile(ctx context.Context, p domain.Profile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, bio, location, favorite_genre, yearly_goal, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			bio            = excluded.bio,
			location       = excluded.location,
			favorite_genre = excluded.favorite_genre,
			yearly_goal    = excluded.yearly_goal,
			updated_at     = excluded.updated_at`,
		p.UserID, p.Bio, p.Location, p.FavoriteGenre, p.YearlyGoal, p.UpdatedAt.UTC(),
	)
	return err
}
