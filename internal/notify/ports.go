package notify

import (
	"context"
)

// Repository defines the contract for notification storage.
type Repository interface {
	Insert(ctx context.Context, n *Notification) error
	ListByMember(ctx context.Context, memberID string) ([]Notification, error)
	MarkRead(ctx context.Context, id, memberID string) error
	MarkAllRead(ctx context.Context, memberID string) error
}
