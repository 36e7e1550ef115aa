package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"libraryapi/internal/notify"
)

// Manager owns reservation lifecycle: it enforces the caps on Reserve,
// fulfills in FIFO order when copies free up, and cancels idempotently.
type Manager struct {
	repo     Repository
	catalog  CatalogReader
	notifier notify.Notifier
	cfg      Config
	clock    func() time.Time
}

func NewManager(repo Repository, catalog CatalogReader, notifier notify.Notifier, cfg Config) *Manager {
	if cfg.Cap <= 0 {
		cfg.Cap = DefaultConfig().Cap
	}
	return &Manager{
		repo:     repo,
		catalog:  catalog,
		notifier: notifier,
		cfg:      cfg,
		clock:    time.Now,
	}
}

// Reserve queues a claim for the next free copy of an out-of-stock book.
// Callers must hold the per-book lock so the availability check cannot race
// a concurrent return.
func (m *Manager) Reserve(ctx context.Context, bookID, memberID string) (Reservation, error) {
	book, err := m.catalog.Get(ctx, bookID)
	if err != nil {
		return Reservation{}, err
	}
	if book.AvailableCopies > 0 {
		return Reservation{}, ErrAlreadyAvailable
	}

	capBook := ""
	if m.cfg.PerBook {
		capBook = bookID
	}
	pending, err := m.repo.CountPending(ctx, memberID, capBook)
	if err != nil {
		return Reservation{}, err
	}
	if pending >= m.cfg.Cap {
		return Reservation{}, ErrCapExceeded
	}

	res := Reservation{
		ID:        uuid.New().String(),
		BookID:    bookID,
		MemberID:  memberID,
		CreatedAt: m.clock(),
		Status:    StatusPending,
	}
	if err := m.repo.Create(ctx, &res); err != nil {
		return Reservation{}, err
	}

	m.notifier.Notify(ctx, memberID, notify.KindReserved,
		fmt.Sprintf("Your reservation for %q is confirmed", book.Title))
	return res, nil
}

// FulfillNext marks the oldest pending reservation for the book as fulfilled
// and tells the member a copy is waiting. It does not borrow on their behalf;
// borrowing needs the member's explicit confirmation. Returns nil when no
// reservation is pending.
func (m *Manager) FulfillNext(ctx context.Context, bookID string) (*Reservation, error) {
	res, err := m.repo.OldestPending(ctx, bookID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	applied, err := m.repo.SetStatus(ctx, res.ID, StatusFulfilled)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, nil
	}
	res.Status = StatusFulfilled

	m.notifier.Notify(ctx, res.MemberID, notify.KindReservationAvailable,
		"A copy you reserved is now available")
	return &res, nil
}

// Get returns a reservation by id.
func (m *Manager) Get(ctx context.Context, id string) (Reservation, error) {
	return m.repo.Get(ctx, id)
}

// Cancel sets a pending reservation to cancelled. Cancelling a fulfilled or
// already-cancelled reservation is a no-op.
func (m *Manager) Cancel(ctx context.Context, id string) error {
	res, err := m.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if res.Status != StatusPending {
		return nil
	}
	_, err = m.repo.SetStatus(ctx, id, StatusCancelled)
	return err
}

// ListByMember returns a member's reservations, newest first.
func (m *Manager) ListByMember(ctx context.Context, memberID string) ([]Reservation, error) {
	return m.repo.ListByMember(ctx, memberID)
}

// HasPendingByOther reports whether someone other than memberID is queued
// for the book. Used by the renew transition.
func (m *Manager) HasPendingByOther(ctx context.Context, bookID, memberID string) (bool, error) {
	return m.repo.HasPendingByOther(ctx, bookID, memberID)
}
