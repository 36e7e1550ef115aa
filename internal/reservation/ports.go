package reservation

import (
	"context"

	"libraryapi/internal/catalog"
)

// Repository defines the contract for reservation storage. Status
// transitions happen only through the Manager.
type Repository interface {
	Get(ctx context.Context, id string) (Reservation, error)
	Create(ctx context.Context, res *Reservation) error
	// OldestPending returns the earliest-created pending reservation for a
	// book, or ErrNotFound when none is pending.
	OldestPending(ctx context.Context, bookID string) (Reservation, error)
	// SetStatus transitions a reservation out of PENDING. It reports whether
	// the transition was applied; a false return means the reservation was
	// no longer pending.
	SetStatus(ctx context.Context, id string, status Status) (bool, error)
	// CountPending counts a member's pending reservations; bookID narrows
	// the count to one title when non-empty.
	CountPending(ctx context.Context, memberID, bookID string) (int, error)
	ListByMember(ctx context.Context, memberID string) ([]Reservation, error)
	// HasPendingByOther reports whether a different member holds a pending
	// reservation for the book.
	HasPendingByOther(ctx context.Context, bookID, memberID string) (bool, error)
}

// CatalogReader is the slice of the catalog the manager needs.
type CatalogReader interface {
	Get(ctx context.Context, id string) (catalog.Book, error)
}
