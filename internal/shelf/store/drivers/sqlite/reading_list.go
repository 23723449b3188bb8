package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/shelf/internal/shelf/domain"
)

type readingListRepo struct {
	db dbtx
}

const dayLayout = "2006-01-02"

const entrySelect = `
	SELECT e.id, e.user_id, e.book_id, e.status, e.progress, e.started_at, e.finished_at,
		e.created_at, e.updated_at, ` + bookColumns + `
	FROM reading_entries e
	JOIN books b ON b.id = e.book_id`

func scanEntry(row interface{ Scan(...any) error }) (domain.ReadingEntry, error) {
	var (
		e                 domain.ReadingEntry
		status            string
		started, finished sql.NullTime
	)
	dest := append([]any{
		&e.ID, &e.UserID, &e.BookID, &status, &e.Progress, &started, &finished,
		&e.CreatedAt, &e.UpdatedAt,
	}, bookDest(&e.Book)...)

	if err := row.Scan(dest...); err != nil {
		return domain.ReadingEntry{}, mapNotFound(err)
	}

	e.Status = domain.ReadingStatus(status)
	e.StartedAt = mapNullTime(started)
	e.FinishedAt = mapNullTime(finished)
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = e.UpdatedAt.UTC()
	normaliseBook(&e.Book)
	return e, nil
}

func (r *readingListRepo) CreateEntry(ctx context.Context, e domain.ReadingEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reading_entries (id, user_id, book_id, status, progress, started_at, finished_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.BookID, string(e.Status), e.Progress,
		mapOptionalTime(e.StartedAt), mapOptionalTime(e.FinishedAt), e.CreatedAt.UTC(), e.UpdatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *readingListRepo) GetEntry(ctx context.Context, id string) (domain.ReadingEntry, error) {
	return scanEntry(r.db.QueryRowContext(ctx, entrySelect+` WHERE e.id = ?`, id))
}

func (r *readingListRepo) ListEntries(ctx context.Context, userID string) ([]domain.ReadingEntry, error) {
	rows, err := r.db.QueryContext(ctx, entrySelect+` WHERE e.user_id = ? ORDER BY e.updated_at DESC, e.id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []domain.ReadingEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *readingListRepo) UpdateEntry(ctx context.Context, e domain.ReadingEntry) error {
	return requireRow(r.db.ExecContext(ctx, `
		UPDATE reading_entries SET status = ?, progress = ?, started_at = ?, finished_at = ?, updated_at = ?
		WHERE id = ?`,
		string(e.Status), e.Progress, mapOptionalTime(e.StartedAt), mapOptionalTime(e.FinishedAt),
		e.UpdatedAt.UTC(), e.ID,
	))
}

func (r *readingListRepo) DeleteEntry(ctx context.Context, id string) error {
	return requireRow(r.db.ExecContext(ctx, `DELETE FROM reading_entries WHERE id = ?`, id))
}

func (r *readingListRepo) RecordActivity(ctx context.Context, userID string, day time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reading_activity (user_id, day) VALUES (?, ?) ON CONFLICT DO NOTHING`,
		userID, day.UTC().Format(dayLayout))
	return err
}

func (r *readingListRepo) ActivityDays(ctx context.Context, userID string) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT day FROM reading_activity WHERE user_id = ? ORDER BY day ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		d, err := time.Parse(dayLayout, s)
		if err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}
