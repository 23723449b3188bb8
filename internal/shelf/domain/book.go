package domain

import "time"

type Book struct {
	ID          string
	Title       string
	Author      string
	Description string
	Genre       string
	CoverImage  string
	Pages       int
	CreatedBy   string // user who added it; only they may edit or delete
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
