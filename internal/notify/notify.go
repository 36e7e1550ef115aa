// Package notify delivers user-facing notifications for lending state
// transitions. Delivery is fire-and-forget: a failed notification never
// fails the operation that triggered it.
package notify

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a notification is not found.
var ErrNotFound = errors.New("notification not found")

// Kind classifies a notification.
type Kind string

const (
	KindDueSoon              Kind = "DUE_SOON"
	KindOverdue              Kind = "OVERDUE"
	KindReservationAvailable Kind = "RESERVATION_AVAILABLE"
	KindReturned             Kind = "RETURNED"
	KindReserved             Kind = "RESERVED"
)

// Notification is one stored message for a member.
type Notification struct {
	ID        string    `json:"id"`
	MemberID  string    `json:"member_id"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier is the trigger contract the lending core fires transitions into.
type Notifier interface {
	Notify(ctx context.Context, memberID string, kind Kind, message string)
}

// Nop discards every notification. Useful in tests.
type Nop struct{}

func (Nop) Notify(context.Context, string, Kind, string) {}
