package ledger

import (
	"context"
	"time"
)

// Reader is the read-only query surface used by reporting and reminders.
// It exposes no mutations, so state transitions cannot be bypassed.
type Reader interface {
	Get(ctx context.Context, id string) (LendingRecord, error)
	ListByMember(ctx context.Context, memberID string) ([]LendingRecord, error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]LendingRecord, error)
	ListDueBetween(ctx context.Context, from, to time.Time) ([]LendingRecord, error)
}

// Repository is the full ledger contract. Mutations are reserved for the
// lending state machine.
type Repository interface {
	Reader
	Insert(ctx context.Context, rec *LendingRecord) error
	// MarkReturned flips an open record to RETURNED. It fails with
	// ErrAlreadyReturned when the record is no longer open, which guards
	// against double-application of the return transition.
	MarkReturned(ctx context.Context, id string, returnedAt time.Time, fine int64) error
	// ExtendDue moves the due date of an open record and bumps its renewal count.
	ExtendDue(ctx context.Context, id string, newDue time.Time) error
	CountActiveByMember(ctx context.Context, memberID string) (int, error)
}
