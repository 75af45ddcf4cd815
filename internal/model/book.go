package model

import "time"

// Book represents a catalog item with per-title copy counters.
// AvailableCopies is only ever mutated by the borrowing engine.
type Book struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	AuthorID        int64     `json:"author_id"`
	GenreID         int64     `json:"genre_id"`
	ISBN            string    `json:"isbn"`
	TotalCopies     int       `json:"total_copies"`
	AvailableCopies int       `json:"available_copies"`
	IsActive        bool      `json:"is_active"`
	CoverMime       string    `json:"cover_mime,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Joined fields (not always populated).
	AuthorName string `json:"author_name,omitempty"`
	GenreName  string `json:"genre_name,omitempty"`
}
