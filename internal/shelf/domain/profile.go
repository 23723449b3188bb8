package domain

import "time"

// Profile holds the optional extras shown on a user's profile page. The
// display name lives on User.
type Profile struct {
	UserID        string
	Bio           string
	Location      string
	FavoriteGenre string
	YearlyGoal    int
	UpdatedAt     time.Time
}
