package lending

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"libraryapi/internal/catalog"
	"libraryapi/internal/ledger"
	"libraryapi/internal/notify"
	"libraryapi/internal/platform/keylock"
	"libraryapi/internal/reservation"
)

// Service is the lending state machine. Every mutation for a book runs with
// that book's lock held, so the read-modify-write of available copies plus
// the ledger write behave as one atomic unit. Operations on different books
// never contend.
type Service struct {
	locks        *keylock.Map
	catalog      CatalogStore
	ledger       LedgerStore
	reservations Reservations
	notifier     notify.Notifier
	cfg          Config
	clock        func() time.Time
}

func NewService(cat CatalogStore, led LedgerStore, res Reservations, notifier notify.Notifier, cfg Config) *Service {
	return &Service{
		locks:        keylock.New(),
		catalog:      cat,
		ledger:       led,
		reservations: res,
		notifier:     notifier,
		cfg:          cfg.withDefaults(),
		clock:        time.Now,
	}
}

func (s *Service) lockBook(ctx context.Context, bookID string) (func(), error) {
	release, err := s.locks.Acquire(ctx, bookID, s.cfg.LockWait)
	if err != nil {
		if errors.Is(err, keylock.ErrTimeout) {
			return nil, ErrBusy
		}
		return nil, err
	}
	return release, nil
}

// Borrow issues copies of a book to a member. On success the availability
// decrement and the ledger insert have both happened; on any error neither
// is visible.
func (s *Service) Borrow(ctx context.Context, req BorrowRequest) (BorrowResult, error) {
	copies := req.Copies
	if copies <= 0 {
		copies = 1
	}

	release, err := s.lockBook(ctx, req.BookID)
	if err != nil {
		return BorrowResult{}, err
	}
	defer release()

	book, err := s.catalog.Get(ctx, req.BookID)
	if err != nil {
		return BorrowResult{}, err
	}

	if s.cfg.MaxActiveLoans > 0 {
		active, err := s.ledger.CountActiveByMember(ctx, req.MemberID)
		if err != nil {
			return BorrowResult{}, err
		}
		if active >= s.cfg.MaxActiveLoans {
			return BorrowResult{}, ErrMemberLimitExceeded
		}
	}

	if book.AvailableCopies < copies {
		return BorrowResult{}, ErrOutOfStock
	}

	now := s.clock()
	rec := &ledger.LendingRecord{
		ID:         uuid.New().String(),
		BookID:     req.BookID,
		MemberID:   req.MemberID,
		IssuedDate: now,
		DueDate:    now.Add(s.cfg.LoanPeriod),
		CopiesLent: copies,
		FinePerDay: book.FinePerDay,
		Status:     ledger.StatusNotReturned,
	}

	if _, err := s.catalog.AdjustAvailable(ctx, req.BookID, -copies); err != nil {
		if errors.Is(err, catalog.ErrCopiesExhausted) {
			return BorrowResult{}, ErrOutOfStock
		}
		return BorrowResult{}, err
	}
	if err := s.ledger.Insert(ctx, rec); err != nil {
		// Undo the decrement while still holding the lock so no
		// intermediate state escapes.
		if _, compErr := s.catalog.AdjustAvailable(ctx, req.BookID, copies); compErr != nil {
			log.Printf("lending: borrow compensation failed book_id=%s err=%v", req.BookID, compErr)
		}
		return BorrowResult{}, err
	}

	return BorrowResult{RecordID: rec.ID, DueDate: rec.DueDate}, nil
}

// Return closes an open lending record, computes the fine from the due date,
// frees the copies and hands the book to the oldest pending reservation.
func (s *Service) Return(ctx context.Context, recordID string) (ReturnResult, error) {
	rec, err := s.ledger.Get(ctx, recordID)
	if err != nil {
		return ReturnResult{}, err
	}

	release, err := s.lockBook(ctx, rec.BookID)
	if err != nil {
		return ReturnResult{}, err
	}
	defer release()

	// Re-read under the lock; a concurrent return may have won.
	rec, err = s.ledger.Get(ctx, recordID)
	if err != nil {
		return ReturnResult{}, err
	}
	if rec.Status == ledger.StatusReturned {
		return ReturnResult{}, ledger.ErrAlreadyReturned
	}

	now := s.clock()
	fine := ledger.Fine(rec.DueDate, now, rec.FinePerDay)

	if _, err := s.catalog.AdjustAvailable(ctx, rec.BookID, rec.CopiesLent); err != nil {
		if errors.Is(err, catalog.ErrCopiesOverflow) {
			log.Printf("lending: return would exceed total copies record_id=%s book_id=%s", recordID, rec.BookID)
			return ReturnResult{}, ErrInvariantViolation
		}
		return ReturnResult{}, err
	}
	if err := s.ledger.MarkReturned(ctx, recordID, now, fine); err != nil {
		if _, compErr := s.catalog.AdjustAvailable(ctx, rec.BookID, -rec.CopiesLent); compErr != nil {
			log.Printf("lending: return compensation failed record_id=%s err=%v", recordID, compErr)
		}
		return ReturnResult{}, err
	}

	if _, err := s.reservations.FulfillNext(ctx, rec.BookID); err != nil {
		// The return has committed; fulfillment will be retried on the
		// next freed copy.
		log.Printf("lending: fulfill next failed book_id=%s err=%v", rec.BookID, err)
	}
	s.notifier.Notify(ctx, rec.MemberID, notify.KindReturned,
		fmt.Sprintf("Book returned on %s", now.Format("02/01/2006")))

	return ReturnResult{Fine: fine, ReturnDate: now}, nil
}

// Renew extends an open record's due date by one loan period, provided the
// record has a renewal left and nobody else is queued for the book.
func (s *Service) Renew(ctx context.Context, recordID string) (RenewResult, error) {
	rec, err := s.ledger.Get(ctx, recordID)
	if err != nil {
		return RenewResult{}, err
	}

	release, err := s.lockBook(ctx, rec.BookID)
	if err != nil {
		return RenewResult{}, err
	}
	defer release()

	rec, err = s.ledger.Get(ctx, recordID)
	if err != nil {
		return RenewResult{}, err
	}
	if rec.Status == ledger.StatusReturned {
		return RenewResult{}, ledger.ErrAlreadyReturned
	}
	if rec.Renewals >= s.cfg.RenewalLimit {
		return RenewResult{}, ErrRenewalLimit
	}

	reserved, err := s.reservations.HasPendingByOther(ctx, rec.BookID, rec.MemberID)
	if err != nil {
		return RenewResult{}, err
	}
	if reserved {
		return RenewResult{}, ErrReservedByOther
	}

	newDue := rec.DueDate.Add(s.cfg.LoanPeriod)
	if err := s.ledger.ExtendDue(ctx, recordID, newDue); err != nil {
		return RenewResult{}, err
	}

	return RenewResult{NewDueDate: newDue}, nil
}

// Reserve queues a reservation under the per-book lock so the availability
// check cannot race a concurrent return.
func (s *Service) Reserve(ctx context.Context, bookID, memberID string) (reservation.Reservation, error) {
	release, err := s.lockBook(ctx, bookID)
	if err != nil {
		return reservation.Reservation{}, err
	}
	defer release()

	return s.reservations.Reserve(ctx, bookID, memberID)
}
