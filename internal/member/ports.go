package member

import (
	"context"
)

// Repository defines the contract for member data storage.
type Repository interface {
	Get(ctx context.Context, id string) (Member, error)
	List(ctx context.Context, limit, offset int) ([]Member, int, error)
	Create(ctx context.Context, m *Member) error
}
