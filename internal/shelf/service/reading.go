package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/shelf/internal/shelf/domain"
	"github.com/aussiebroadwan/shelf/internal/shelf/store"
	"github.com/aussiebroadwan/shelf/pkg/idx"
)

// ReadingService keeps each user's reading list: one entry per book, its
// status and progress, and the days on which progress moved.
type ReadingService struct {
	Store store.Store
	Now   func() time.Time
}

type AddEntryInput struct {
	BookID string `validate:"required"`
	Status string `validate:"omitempty,oneof=wishlist reading finished"`
}

// UpdateEntryInput changes status, progress or both. Nil leaves a field as
// it is.
type UpdateEntryInput struct {
	Status   *string `validate:"omitempty,oneof=wishlist reading finished"`
	Progress *int
}

// Add puts a book on the user's list, on the wishlist unless a status is
// given.
func (s *ReadingService) Add(ctx context.Context, userID string, in AddEntryInput) (domain.ReadingEntry, error) {
	if err := check(in); err != nil {
		return domain.ReadingEntry{}, err
	}

	status := domain.StatusWishlist
	if in.Status != "" {
		status = domain.ReadingStatus(in.Status)
	}

	now := clock(s.Now)
	var entry domain.ReadingEntry
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		book, err := tx.Books().GetBook(ctx, in.BookID)
		if err != nil {
			return mapStoreErr(err, "book")
		}

		blank := domain.ReadingEntry{
			ID:        idx.NewAt(now).String(),
			UserID:    userID,
			BookID:    book.ID,
			Status:    domain.StatusWishlist,
			CreatedAt: now,
			UpdatedAt: now,
		}
		entry = Transition(blank, &status, nil, now)
		entry.Book = book

		if err := tx.ReadingList().CreateEntry(ctx, entry); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return fmt.Errorf("%w: book is already on your list", ErrConflict)
			}
			return fmt.Errorf("failed to add entry: %w", err)
		}
		return s.recordActivity(ctx, tx, blank, entry, now)
	})
	if err != nil {
		return domain.ReadingEntry{}, err
	}
	return entry, nil
}

// Update applies a status or progress change to one of the user's entries.
func (s *ReadingService) Update(ctx context.Context, userID, id string, in UpdateEntryInput) (domain.ReadingEntry, error) {
	if err := check(in); err != nil {
		return domain.ReadingEntry{}, err
	}
	if in.Status == nil && in.Progress == nil {
		return domain.ReadingEntry{}, invalid("", "status or progress is required")
	}

	var status *domain.ReadingStatus
	if in.Status != nil {
		st := domain.ReadingStatus(*in.Status)
		status = &st
	}

	now := clock(s.Now)
	var entry domain.ReadingEntry
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		current, err := ownedEntry(ctx, tx, userID, id)
		if err != nil {
			return err
		}

		entry = Transition(current, status, in.Progress, now)
		entry.UpdatedAt = now

		if err := tx.ReadingList().UpdateEntry(ctx, entry); err != nil {
			return mapStoreErr(err, "reading entry")
		}
		return s.recordActivity(ctx, tx, current, entry, now)
	})
	if err != nil {
		return domain.ReadingEntry{}, err
	}
	return entry, nil
}

func (s *ReadingService) Delete(ctx context.Context, userID, id string) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := ownedEntry(ctx, tx, userID, id); err != nil {
			return err
		}
		if err := tx.ReadingList().DeleteEntry(ctx, id); err != nil {
			return mapStoreErr(err, "reading entry")
		}
		return nil
	})
}

func (s *ReadingService) List(ctx context.Context, userID string) ([]domain.ReadingEntry, error) {
	return s.Store.ReadingList().ListEntries(ctx, userID)
}

// Summary aggregates the user's list against their yearly goal.
func (s *ReadingService) Summary(ctx context.Context, userID string) (domain.ReadingSummary, error) {
	now := clock(s.Now)

	entries, err := s.Store.ReadingList().ListEntries(ctx, userID)
	if err != nil {
		return domain.ReadingSummary{}, fmt.Errorf("failed to list entries: %w", err)
	}

	goal := 0
	profile, err := s.Store.Profiles().GetProfile(ctx, userID)
	switch {
	case err == nil:
		goal = profile.YearlyGoal
	case !errors.Is(err, store.ErrNotFound):
		return domain.ReadingSummary{}, fmt.Errorf("failed to load profile: %w", err)
	}

	days, err := s.Store.ReadingList().ActivityDays(ctx, userID)
	if err != nil {
		return domain.ReadingSummary{}, fmt.Errorf("failed to load activity: %w", err)
	}

	sum := Summarize(entries, goal, now)
	sum.CurrentStreak, sum.LongestStreak = Streaks(days, now)
	return sum, nil
}

// Transition applies a status and/or progress change to e:
//   - progress is clamped to 0..100
//   - wishlist has progress 0 and no dates
//   - reading has progress 1..99, a start date and no finish date
//   - finished has progress 100 and both dates
//
// Without an explicit status, progress 100 finishes the book and any other
// non-zero progress moves it to reading, as does lowering a finished book.
func Transition(e domain.ReadingEntry, status *domain.ReadingStatus, progress *int, now time.Time) domain.ReadingEntry {
	next := e
	if progress != nil {
		next.Progress = min(max(*progress, 0), 100)
	}

	target := e.Status
	switch {
	case status != nil:
		target = *status
	case progress != nil && next.Progress == 100:
		target = domain.StatusFinished
	case progress != nil && (next.Progress > 0 || e.Status == domain.StatusFinished):
		target = domain.StatusReading
	}
	if target == domain.StatusReading && progress != nil && next.Progress == 100 {
		target = domain.StatusFinished
	}

	switch target {
	case domain.StatusWishlist:
		next.Progress = 0
		next.StartedAt = nil
		next.FinishedAt = nil

	case domain.StatusReading:
		next.Progress = min(max(next.Progress, 1), 99)
		if next.StartedAt == nil {
			next.StartedAt = &now
		}
		next.FinishedAt = nil

	case domain.StatusFinished:
		next.Progress = 100
		if next.StartedAt == nil {
			next.StartedAt = &now
		}
		if e.Status != domain.StatusFinished || next.FinishedAt == nil {
			next.FinishedAt = &now
		}
	}

	next.Status = target
	return next
}

// Summarize counts entries and measures them against goal. Streaks are
// filled in separately.
func Summarize(entries []domain.ReadingEntry, goal int, now time.Time) domain.ReadingSummary {
	sum := domain.ReadingSummary{Total: len(entries), YearlyGoal: goal}

	progress := 0
	for _, e := range entries {
		switch e.Status {
		case domain.StatusWishlist:
			sum.Wishlist++
		case domain.StatusReading:
			sum.Reading++
			progress += e.Progress
		case domain.StatusFinished:
			sum.Finished++
			if e.FinishedAt != nil && e.FinishedAt.Year() == now.Year() {
				sum.FinishedThisYear++
			}
		}
	}

	if sum.Reading > 0 {
		sum.AverageProgress = (progress + sum.Reading/2) / sum.Reading
	}
	if goal > 0 {
		sum.GoalPercent = min(sum.FinishedThisYear*100/goal, 100)
	}
	return sum
}

// Streaks returns the run of consecutive days ending today or yesterday,
// and the longest run overall. days must be ascending UTC midnights.
func Streaks(days []time.Time, now time.Time) (current, longest int) {
	const day = 24 * time.Hour

	run := 0
	for i, d := range days {
		if i > 0 && d.Sub(days[i-1]) == day {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}

	if len(days) > 0 {
		gap := domain.Day(now).Sub(days[len(days)-1])
		if gap == 0 || gap == day {
			current = run
		}
	}
	return current, longest
}

func (s *ReadingService) recordActivity(ctx context.Context, tx store.Tx, before, after domain.ReadingEntry, now time.Time) error {
	if before.Progress == after.Progress {
		return nil
	}
	if err := tx.ReadingList().RecordActivity(ctx, after.UserID, domain.Day(now)); err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

// ownedEntry hides other users' entries behind ErrNotFound.
func ownedEntry(ctx context.Context, tx store.Tx, userID, id string) (domain.ReadingEntry, error) {
	e, err := tx.ReadingList().GetEntry(ctx, id)
	if err != nil {
		return domain.ReadingEntry{}, mapStoreErr(err, "reading entry")
	}
	if e.UserID != userID {
		return domain.ReadingEntry{}, fmt.Errorf("reading entry %w", ErrNotFound)
	}
	return e, nil
}
