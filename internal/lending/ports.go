package lending

import (
	"context"
	"time"

	"libraryapi/internal/catalog"
	"libraryapi/internal/ledger"
	"libraryapi/internal/reservation"
)

// CatalogStore is the slice of the catalog the state machine mutates.
// Satisfied by *catalog.PostgresRepo.
type CatalogStore interface {
	Get(ctx context.Context, id string) (catalog.Book, error)
	AdjustAvailable(ctx context.Context, id string, delta int) (int, error)
}

// LedgerStore is the mutation contract over lending records.
// Satisfied by *ledger.PostgresRepo.
type LedgerStore interface {
	Get(ctx context.Context, id string) (ledger.LendingRecord, error)
	Insert(ctx context.Context, rec *ledger.LendingRecord) error
	MarkReturned(ctx context.Context, id string, returnedAt time.Time, fine int64) error
	ExtendDue(ctx context.Context, id string, newDue time.Time) error
	CountActiveByMember(ctx context.Context, memberID string) (int, error)
}

// Reservations is the reservation surface the state machine drives.
// Satisfied by *reservation.Manager.
type Reservations interface {
	Reserve(ctx context.Context, bookID, memberID string) (reservation.Reservation, error)
	FulfillNext(ctx context.Context, bookID string) (*reservation.Reservation, error)
	HasPendingByOther(ctx context.Context, bookID, memberID string) (bool, error)
}
