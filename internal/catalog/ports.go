package catalog

import (
	"context"
)

// Repository defines the contract for catalog data storage.
type Repository interface {
	List(ctx context.Context, q Query) ([]Book, int, error)
	Get(ctx context.Context, id string) (Book, error)
	Create(ctx context.Context, book *Book) error
	// AdjustAvailable applies delta to available_copies, enforcing
	// 0 <= available_copies <= total_copies, and returns the new value.
	// Only the lending state machine may call it.
	AdjustAvailable(ctx context.Context, id string, delta int) (int, error)
}
