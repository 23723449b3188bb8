package shelfsdk

import (
	"context"
	"net/http"
)

// MyBooks returns the books the user added to the catalog.
func (s *Session) MyBooks(ctx context.Context) ([]Book, error) {
	var out []Book
	if err := s.do(ctx, http.MethodGet, "/api/books/mine", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Session) CreateBook(ctx context.Context, req BookRequest) (*Book, error) {
	var out Book
	if err := s.do(ctx, http.MethodPost, "/api/books", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateBook replaces a book the user created.
func (s *Session) UpdateBook(ctx context.Context, id string, req BookRequest) (*Book, error) {
	var out Book
	if err := s.do(ctx, http.MethodPut, "/api/books/"+pathEscape(id), req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteBook removes a book the user created, along with every reading
// entry for it.
func (s *Session) DeleteBook(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/api/books/"+pathEscape(id), nil, nil, http.StatusNoContent)
}

func (s *Session) ListEntries(ctx context.Context) ([]Entry, error) {
	var out []Entry
	if err := s.do(ctx, http.MethodGet, "/api/userbooks", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Session) Summary(ctx context.Context) (*Summary, error) {
	var out Summary
	if err := s.do(ctx, http.MethodGet, "/api/userbooks/summary", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddEntry puts a book on the reading list, on the wishlist unless a status
// is given.
func (s *Session) AddEntry(ctx context.Context, req AddEntryRequest) (*Entry, error) {
	var out Entry
	if err := s.do(ctx, http.MethodPost, "/api/userbooks", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) UpdateEntry(ctx context.Context, id string, req UpdateEntryRequest) (*Entry, error) {
	var out Entry
	if err := s.do(ctx, http.MethodPut, "/api/userbooks/"+pathEscape(id), req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) DeleteEntry(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/api/userbooks/"+pathEscape(id), nil, nil, http.StatusNoContent)
}

func (s *Session) GetProfile(ctx context.Context) (*Profile, error) {
	var out Profile
	if err := s.do(ctx, http.MethodGet, "/api/profile", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) UpdateProfile(ctx context.Context, req ProfileRequest) (*Profile, error) {
	var out Profile
	if err := s.do(ctx, http.MethodPut, "/api/profile", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
