// Package lending implements the lending state machine: it validates and
// applies borrow, return, renew and reserve operations against the catalog,
// the ledger and the reservation manager, serializing all mutations for a
// book behind a per-book lock.
package lending

import (
	"errors"
	"time"
)

// ErrOutOfStock is returned when a borrow asks for more copies than are available.
var ErrOutOfStock = errors.New("no copies available")

// ErrMemberLimitExceeded is returned when a member already holds the maximum
// number of open loans.
var ErrMemberLimitExceeded = errors.New("member loan limit exceeded")

// ErrRenewalLimit is returned when a record has used up its renewals.
var ErrRenewalLimit = errors.New("renewal limit reached")

// ErrReservedByOther is returned when renewing a book another member is
// queued for.
var ErrReservedByOther = errors.New("book is reserved by another member")

// ErrBusy is returned when the per-book lock cannot be acquired within the
// configured wait. The operation had no effect and is safe to retry.
var ErrBusy = errors.New("book is busy, retry")

// ErrInvariantViolation indicates a copy-count bound was broken. It aborts
// the operation without committing partial state and points at a bug.
var ErrInvariantViolation = errors.New("copy count invariant violated")

// Config holds lending policy knobs.
type Config struct {
	// LoanPeriod is added to the issue date to produce the due date.
	LoanPeriod time.Duration
	// RenewalLimit bounds renewals per record.
	RenewalLimit int
	// MaxActiveLoans bounds a member's concurrent open loans; 0 disables the cap.
	MaxActiveLoans int
	// LockWait bounds how long an operation waits for the per-book lock
	// before failing with ErrBusy.
	LockWait time.Duration
}

// DefaultConfig returns the observed policy: 14-day loans, one renewal,
// five concurrent loans per member.
func DefaultConfig() Config {
	return Config{
		LoanPeriod:     14 * 24 * time.Hour,
		RenewalLimit:   1,
		MaxActiveLoans: 5,
		LockWait:       3 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.LoanPeriod <= 0 {
		c.LoanPeriod = def.LoanPeriod
	}
	if c.RenewalLimit < 0 {
		c.RenewalLimit = def.RenewalLimit
	}
	if c.LockWait <= 0 {
		c.LockWait = def.LockWait
	}
	return c
}

// BorrowRequest asks to lend copies of a book to a member.
type BorrowRequest struct {
	BookID   string
	MemberID string
	Copies   int
}

// BorrowResult reports a successful borrow.
type BorrowResult struct {
	RecordID string    `json:"lending_record_id"`
	DueDate  time.Time `json:"due_date"`
}

// ReturnResult reports a successful return.
type ReturnResult struct {
	Fine       int64     `json:"fine"`
	ReturnDate time.Time `json:"return_date"`
}

// RenewResult reports a successful renewal.
type RenewResult struct {
	NewDueDate time.Time `json:"new_due_date"`
}
