package catalog

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a book is not found.
var ErrNotFound = errors.New("book not found")

// ErrCopiesExhausted is returned when an availability decrement would go below zero.
var ErrCopiesExhausted = errors.New("no copies available")

// ErrCopiesOverflow is returned when an availability increment would exceed total copies.
var ErrCopiesOverflow = errors.New("available copies would exceed total copies")

// DefaultFinePerDay is the per-day overdue fine applied when a book's
// category has no specific rate.
const DefaultFinePerDay int64 = 100

// Book represents one title in the catalog. AvailableCopies only changes
// through lending transitions, never through the catalog surface directly.
type Book struct {
	ID              string    `json:"id"`
	ISBN            string    `json:"isbn"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Category        string    `json:"category,omitempty"`
	TotalCopies     int       `json:"total_copies"`
	AvailableCopies int       `json:"available_copies"`
	FinePerDay      int64     `json:"fine_per_day"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Query defines filters and pagination for listing books.
type Query struct {
	Category      string
	Q             string
	AvailableOnly bool
	Limit         int
	Offset        int
}
