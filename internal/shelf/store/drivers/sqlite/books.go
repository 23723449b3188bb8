package sqlite

import (
	"context"
	"strings"

	"github.com/aussiebroadwan/shelf/internal/shelf/domain"
	"github.com/aussiebroadwan/shelf/internal/shelf/store"
)

type booksRepo struct {
	db dbtx
}

const bookColumns = `b.id, b.title, b.author, b.description, b.genre, b.cover_image,
	b.pages, b.created_by, b.created_at, b.updated_at`

func bookDest(b *domain.Book) []any {
	return []any{
		&b.ID, &b.Title, &b.Author, &b.Description, &b.Genre, &b.CoverImage,
		&b.Pages, &b.CreatedBy, &b.CreatedAt, &b.UpdatedAt,
	}
}

func normaliseBook(b *domain.Book) {
	b.CreatedAt = b.CreatedAt.UTC()
	b.UpdatedAt = b.UpdatedAt.UTC()
}

func (r *booksRepo) CreateBook(ctx context.Context, b domain.Book) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO books (id, title, author, description, genre, cover_image, pages, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Title, b.Author, b.Description, b.Genre, b.CoverImage, b.Pages, b.CreatedBy,
		b.CreatedAt.UTC(), b.UpdatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *booksRepo) GetBook(ctx context.Context, id string) (domain.Book, error) {
	var b domain.Book
	err := r.db.QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books b WHERE b.id = ?`, id).Scan(bookDest(&b)...)
	if err != nil {
		return domain.Book{}, mapNotFound(err)
	}
	normaliseBook(&b)
	return b, nil
}

func (r *booksRepo) ListBooks(ctx context.Context, f store.BookFilter) ([]domain.Book, error) {
	var (
		where []string
		args  []any
	)
	if f.Genre != "" {
		where = append(where, "b.genre = ? COLLATE NOCASE")
		args = append(args, f.Genre)
	}
	if f.CreatedBy != "" {
		where = append(where, "b.created_by = ?")
		args = append(args, f.CreatedBy)
	}

	query := `SELECT ` + bookColumns + ` FROM books b`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY b.id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []domain.Book{}
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(bookDest(&b)...); err != nil {
			return nil, err
		}
		normaliseBook(&b)
		books = append(books, b)
	}
	return books, rows.Err()
}

func (r *booksRepo) UpdateBook(ctx context.Context, b domain.Book) error {
	return requireRow(r.db.ExecContext(ctx, `
		UPDATE books SET title = ?, author = ?, description = ?, genre = ?, cover_image = ?,
			pages = ?, updated_at = ?
		WHERE id = ?`,
		b.Title, b.Author, b.Description, b.Genre, b.CoverImage, b.Pages, b.UpdatedAt.UTC(), b.ID,
	))
}

func (r *booksRepo) DeleteBook(ctx context.Context, id string) error {
	return requireRow(r.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id))
}
