// Package ledger is the system of record for lending transactions. Records
// are append-oriented: they are inserted on borrow and touched again only by
// the return and renew transitions, never deleted.
package ledger

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a lending record is not found.
var ErrNotFound = errors.New("lending record not found")

// ErrAlreadyReturned is returned when a return or renew targets a record
// that has already been returned.
var ErrAlreadyReturned = errors.New("lending record already returned")

// Status of a lending record.
type Status string

const (
	StatusNotReturned Status = "NOT_RETURNED"
	StatusReturned    Status = "RETURNED"
)

// LendingRecord is one borrow transaction from issue to return.
type LendingRecord struct {
	ID         string     `json:"id"`
	BookID     string     `json:"book_id"`
	MemberID   string     `json:"member_id"`
	IssuedDate time.Time  `json:"issued_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
	CopiesLent int        `json:"copies_lent"`
	FinePerDay int64      `json:"fine_per_day"`
	Fine       int64      `json:"fine"`
	Renewals   int        `json:"renewals"`
	Status     Status     `json:"status"`
}

// Overdue reports whether the record is open and past due as of the given time.
func (r LendingRecord) Overdue(asOf time.Time) bool {
	return r.Status == StatusNotReturned && r.DueDate.Before(asOf)
}

// Fine computes the overdue fine for a record returned at returnDate. It is a
// pure function of its inputs so a recomputation always yields the same value.
// Partial days do not count; returning on or before the due date costs nothing.
func Fine(dueDate, returnDate time.Time, finePerDay int64) int64 {
	if finePerDay <= 0 || !returnDate.After(dueDate) {
		return 0
	}
	daysLate := int64(returnDate.Sub(dueDate) / (24 * time.Hour))
	return daysLate * finePerDay
}

// OverdueItem is one open overdue loan inside a fines summary.
type OverdueItem struct {
	RecordID    string    `json:"record_id"`
	BookID      string    `json:"book_id"`
	DueDate     time.Time `json:"due_date"`
	DaysLate    int64     `json:"days_late"`
	FineAccrued int64     `json:"fine_accrued"`
}

// FinesSummary aggregates the fines a member has accrued on open loans.
type FinesSummary struct {
	MemberID  string        `json:"member_id"`
	AsOf      time.Time     `json:"as_of"`
	TotalFine int64         `json:"total_fine"`
	Overdue   []OverdueItem `json:"overdue"`
}
