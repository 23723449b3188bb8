package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/shelf/internal/shelf/domain"
	"github.com/aussiebroadwan/shelf/internal/shelf/store"
	"github.com/aussiebroadwan/shelf/pkg/idx"
)

// BookService is the shared catalog. Anyone may read it; only a book's
// creator may change it.
type BookService struct {
	Store store.Store
	Now   func() time.Time
}

type BookInput struct {
	Title       string `validate:"required,max=200"`
	Author      string `validate:"required,max=200"`
	Description string `validate:"max=4000"`
	Genre       string `validate:"max=64"`
	CoverImage  string `validate:"omitempty,http_url,max=2048"`
	Pages       int    `validate:"gte=0,lte=100000"`
}

func (in *BookInput) normalise() {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.Description = strings.TrimSpace(in.Description)
	in.Genre = strings.TrimSpace(in.Genre)
	in.CoverImage = strings.TrimSpace(in.CoverImage)
}

func (s *BookService) Create(ctx context.Context, userID string, in BookInput) (domain.Book, error) {
	in.normalise()
	if err := check(in); err != nil {
		return domain.Book{}, err
	}

	now := clock(s.Now)
	b := domain.Book{
		ID:          idx.NewAt(now).String(),
		Title:       in.Title,
		Author:      in.Author,
		Description: in.Description,
		Genre:       in.Genre,
		CoverImage:  in.CoverImage,
		Pages:       in.Pages,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Store.Books().CreateBook(ctx, b); err != nil {
		return domain.Book{}, fmt.Errorf("failed to create book: %w", err)
	}
	return b, nil
}

func (s *BookService) Get(ctx context.Context, id string) (domain.Book, error) {
	b, err := s.Store.Books().GetBook(ctx, id)
	if err != nil {
		return domain.Book{}, mapStoreErr(err, "book")
	}
	return b, nil
}

// List returns the catalog newest first, optionally narrowed to a genre.
func (s *BookService) List(ctx context.Context, genre string) ([]domain.Book, error) {
	return s.Store.Books().ListBooks(ctx, store.BookFilter{Genre: strings.TrimSpace(genre)})
}

// ListMine returns the books userID added.
func (s *BookService) ListMine(ctx context.Context, userID string) ([]domain.Book, error) {
	return s.Store.Books().ListBooks(ctx, store.BookFilter{CreatedBy: userID})
}

func (s *BookService) Update(ctx context.Context, userID, id string, in BookInput) (domain.Book, error) {
	in.normalise()
	if err := check(in); err != nil {
		return domain.Book{}, err
	}

	b, err := s.owned(ctx, userID, id)
	if err != nil {
		return domain.Book{}, err
	}

	b.Title = in.Title
	b.Author = in.Author
	b.Description = in.Description
	b.Genre = in.Genre
	b.CoverImage = in.CoverImage
	b.Pages = in.Pages
	b.UpdatedAt = clock(s.Now)

	if err := s.Store.Books().UpdateBook(ctx, b); err != nil {
		return domain.Book{}, mapStoreErr(err, "book")
	}
	return b, nil
}

// Delete removes the book and, through the schema, every reading entry
// pointing at it.
func (s *BookService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := s.Store.Books().DeleteBook(ctx, id); err != nil {
		return mapStoreErr(err, "book")
	}
	return nil
}

func (s *BookService) owned(ctx context.Context, userID, id string) (domain.Book, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return domain.Book{}, err
	}
	if b.CreatedBy != userID {
		return domain.Book{}, fmt.Errorf("%w: only the creator may change this book", ErrForbidden)
	}
	return b, nil
}
