package http

import (
	"time"

	"github.com/aussiebroadwan/shelf/internal/shelf/domain"
	"github.com/aussiebroadwan/shelf/internal/shelf/service"
	"github.com/aussiebroadwan/shelf/pkg/shelfsdk"
)

func toUser(u domain.User) *shelfsdk.User {
	return &shelfsdk.User{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Verified:    u.Verified,
		MFAEnabled:  u.MFAEnabled,
		TOTPEnabled: u.TOTPEnabled(),
		CreatedAt:   u.CreatedAt,
	}
}

func toBook(b domain.Book) shelfsdk.Book {
	return shelfsdk.Book{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Description: b.Description,
		Genre:       b.Genre,
		CoverImage:  b.CoverImage,
		Pages:       b.Pages,
		CreatedBy:   b.CreatedBy,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func toBooks(bs []domain.Book) []shelfsdk.Book {
	out := make([]shelfsdk.Book, 0, len(bs))
	for _, b := range bs {
		out = append(out, toBook(b))
	}
	return out
}

func fromBookRequest(req shelfsdk.BookRequest) service.BookInput {
	return service.BookInput{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Genre:       req.Genre,
		CoverImage:  req.CoverImage,
		Pages:       req.Pages,
	}
}

func toEntry(e domain.ReadingEntry, now time.Time) shelfsdk.Entry {
	out := shelfsdk.Entry{
		ID:          e.ID,
		BookID:      e.BookID,
		Status:      string(e.Status),
		Progress:    e.Progress,
		StartedAt:   e.StartedAt,
		FinishedAt:  e.FinishedAt,
		DaysReading: e.DaysReading(now),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if e.Book.ID != "" {
		b := toBook(e.Book)
		out.Book = &b
	}
	return out
}

func toSummary(s domain.ReadingSummary) shelfsdk.Summary {
	return shelfsdk.Summary{
		Wishlist:         s.Wishlist,
		Reading:          s.Reading,
		Finished:         s.Finished,
		Total:            s.Total,
		AverageProgress:  s.AverageProgress,
		FinishedThisYear: s.FinishedThisYear,
		YearlyGoal:       s.YearlyGoal,
		GoalPercent:      s.GoalPercent,
		CurrentStreak:    s.CurrentStreak,
		LongestStreak:    s.LongestStreak,
	}
}

func toProfile(v service.ProfileView) shelfsdk.Profile {
	return shelfsdk.Profile{
		UserID:        v.User.ID,
		Name:          v.User.Name,
		Email:         v.User.Email,
		Bio:           v.Profile.Bio,
		Location:      v.Profile.Location,
		FavoriteGenre: v.Profile.FavoriteGenre,
		YearlyGoal:    v.Profile.YearlyGoal,
	}
}
