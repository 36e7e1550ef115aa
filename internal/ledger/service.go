package ledger

import (
	"context"
	"time"
)

// Service is the reporting surface over the ledger. It only reads; every
// mutation goes through the lending state machine.
type Service struct {
	reader Reader
	clock  func() time.Time
}

func NewService(reader Reader) *Service {
	return &Service{reader: reader, clock: time.Now}
}

// ListByMember returns a member's lending history, most recent first.
func (s *Service) ListByMember(ctx context.Context, memberID string) ([]LendingRecord, error) {
	return s.reader.ListByMember(ctx, memberID)
}

// ListOverdue returns open records past due as of the given time.
func (s *Service) ListOverdue(ctx context.Context, asOf time.Time) ([]LendingRecord, error) {
	return s.reader.ListOverdue(ctx, asOf)
}

// FinesSummary recomputes accrued fines for a member's open overdue loans.
// Fines are always derived from (due date, as-of, rate), never read from a
// running counter.
func (s *Service) FinesSummary(ctx context.Context, memberID string) (FinesSummary, error) {
	records, err := s.reader.ListByMember(ctx, memberID)
	if err != nil {
		return FinesSummary{}, err
	}

	asOf := s.clock()
	summary := FinesSummary{MemberID: memberID, AsOf: asOf}
	for _, rec := range records {
		if !rec.Overdue(asOf) {
			continue
		}
		fine := Fine(rec.DueDate, asOf, rec.FinePerDay)
		summary.Overdue = append(summary.Overdue, OverdueItem{
			RecordID:    rec.ID,
			BookID:      rec.BookID,
			DueDate:     rec.DueDate,
			DaysLate:    int64(asOf.Sub(rec.DueDate) / (24 * time.Hour)),
			FineAccrued: fine,
		})
		summary.TotalFine += fine
	}
	return summary, nil
}
