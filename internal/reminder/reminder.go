// Package reminder periodically sweeps the lending ledger and notifies
// members about loans that are due soon or already overdue.
package reminder

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"libraryapi/internal/ledger"
	"libraryapi/internal/notify"
)

// LedgerReader is the slice of the ledger the scanner needs.
type LedgerReader interface {
	ListOverdue(ctx context.Context, asOf time.Time) ([]ledger.LendingRecord, error)
	ListDueBetween(ctx context.Context, from, to time.Time) ([]ledger.LendingRecord, error)
}

// Config controls the sweep cadence and the due-soon lookahead window.
type Config struct {
	// Schedule is a cron expression; empty means the default daily sweep.
	Schedule string
	// DueSoonWindow is how far ahead of the due date a reminder fires.
	DueSoonWindow time.Duration
}

func DefaultConfig() Config {
	return Config{
		Schedule:      "0 8 * * *",
		DueSoonWindow: 48 * time.Hour,
	}
}

// Scanner walks open loans and emits DUE_SOON and OVERDUE notifications.
// Each record gets at most one notification per kind per calendar day, so
// overlapping sweeps do not spam members.
type Scanner struct {
	ledger   LedgerReader
	notifier notify.Notifier
	cfg      Config
	clock    func() time.Time

	mu   sync.Mutex
	sent map[string]struct{}
}

func NewScanner(led LedgerReader, notifier notify.Notifier, cfg Config) *Scanner {
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultConfig().Schedule
	}
	if cfg.DueSoonWindow <= 0 {
		cfg.DueSoonWindow = DefaultConfig().DueSoonWindow
	}
	return &Scanner{
		ledger:   led,
		notifier: notifier,
		cfg:      cfg,
		clock:    time.Now,
		sent:     make(map[string]struct{}),
	}
}

// Run executes one sweep. It is safe to call concurrently; deduplication
// keeps repeated sweeps from re-notifying the same record the same day.
func (s *Scanner) Run(ctx context.Context) error {
	now := s.clock()

	dueSoon, err := s.ledger.ListDueBetween(ctx, now, now.Add(s.cfg.DueSoonWindow))
	if err != nil {
		return fmt.Errorf("list due soon: %w", err)
	}
	for _, rec := range dueSoon {
		if s.markSent(rec.ID, notify.KindDueSoon, now) {
			s.notifier.Notify(ctx, rec.MemberID, notify.KindDueSoon,
				fmt.Sprintf("Your loan is due on %s", rec.DueDate.Format("02/01/2006")))
		}
	}

	overdue, err := s.ledger.ListOverdue(ctx, now)
	if err != nil {
		return fmt.Errorf("list overdue: %w", err)
	}
	for _, rec := range overdue {
		if s.markSent(rec.ID, notify.KindOverdue, now) {
			fine := ledger.Fine(rec.DueDate, now, rec.FinePerDay)
			s.notifier.Notify(ctx, rec.MemberID, notify.KindOverdue,
				fmt.Sprintf("Your loan was due on %s; fine so far: %d", rec.DueDate.Format("02/01/2006"), fine))
		}
	}

	log.Printf("reminder: sweep done due_soon=%d overdue=%d", len(dueSoon), len(overdue))
	return nil
}

// Start registers the sweep on a cron scheduler and returns it running.
// The caller owns shutdown via the returned cron's Stop.
func (s *Scanner) Start(ctx context.Context) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(s.cfg.Schedule, func() {
		if err := s.Run(ctx); err != nil {
			log.Printf("reminder: sweep failed err=%v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("register reminder schedule %q: %w", s.cfg.Schedule, err)
	}
	c.Start()
	return c, nil
}

func (s *Scanner) markSent(recordID string, kind notify.Kind, now time.Time) bool {
	key := recordID + "|" + string(kind) + "|" + now.Format("2006-01-02")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sent[key]; ok {
		return false
	}
	s.sent[key] = struct{}{}
	return true
}
