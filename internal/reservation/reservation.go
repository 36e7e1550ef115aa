package reservation

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a reservation is not found.
var ErrNotFound = errors.New("reservation not found")

// ErrAlreadyAvailable is returned when reserving a book that still has
// copies on the shelf; reservations exist only for out-of-stock titles.
var ErrAlreadyAvailable = errors.New("book is available, borrow it instead")

// ErrCapExceeded is returned when a member already holds the maximum number
// of pending reservations.
var ErrCapExceeded = errors.New("reservation cap exceeded")

// Status of a reservation.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusFulfilled Status = "FULFILLED"
	StatusCancelled Status = "CANCELLED"
)

// Reservation is a queued claim on the next copy of a book to become
// available. Fulfillment is strict FIFO on CreatedAt per book.
type Reservation struct {
	ID        string    `json:"id"`
	BookID    string    `json:"book_id"`
	MemberID  string    `json:"member_id"`
	CreatedAt time.Time `json:"created_at"`
	Status    Status    `json:"status"`
}

// Config holds reservation policy. Cap bounds a member's pending
// reservations; PerBook scopes the cap to a single title instead of
// across all books.
type Config struct {
	Cap     int
	PerBook bool
}

// DefaultConfig reflects the observed policy: one pending reservation per
// member across all books.
func DefaultConfig() Config {
	return Config{Cap: 1, PerBook: false}
}
