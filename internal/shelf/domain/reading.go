package domain

import "time"

type ReadingStatus string

const (
	StatusWishlist ReadingStatus = "wishlist"
	StatusReading  ReadingStatus = "reading"
	StatusFinished ReadingStatus = "finished"
)

// Valid reports whether s is a known status.
func (s ReadingStatus) Valid() bool {
	switch s {
	case StatusWishlist, StatusReading, StatusFinished:
		return true
	}
	return false
}

// ReadingEntry is a book on a user's reading list. There is one per
// (UserID, BookID); the book itself is joined in, never copied.
type ReadingEntry struct {
	ID         string
	UserID     string
	BookID     string
	Status     ReadingStatus
	Progress   int // percent, 0..100
	StartedAt  *time.Time
	FinishedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Book Book // populated by list queries
}

// DaysReading counts calendar days from start to finish, or to now for a
// book still being read. Zero when never started.
func (e ReadingEntry) DaysReading(now time.Time) int {
	if e.StartedAt == nil {
		return 0
	}
	end := now
	if e.FinishedAt != nil {
		end = *e.FinishedAt
	}
	days := int(Day(end).Sub(Day(*e.StartedAt)).Hours()/24) + 1
	return max(days, 1)
}

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ReadingSummary aggregates a user's reading list.
type ReadingSummary struct {
	Wishlist         int
	Reading          int
	Finished         int
	Total            int
	AverageProgress  int // across entries being read
	FinishedThisYear int
	YearlyGoal       int
	GoalPercent      int // capped at 100
	CurrentStreak    int // consecutive activity days ending today or yesterday
	LongestStreak    int
}
