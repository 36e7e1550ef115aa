package notify

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
)

// Service stores notifications for in-app display and logs each one.
// Storage errors are logged and swallowed; the triggering operation has
// already committed and must not be rolled back over a notification.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

func (s *Service) Notify(ctx context.Context, memberID string, kind Kind, message string) {
	n := Notification{
		ID:        uuid.New().String(),
		MemberID:  memberID,
		Kind:      kind,
		Message:   message,
		CreatedAt: s.clock(),
	}
	if err := s.repo.Insert(ctx, &n); err != nil {
		log.Printf("notify: store failed member_id=%s kind=%s err=%v", memberID, kind, err)
		return
	}
	log.Printf("notify: member_id=%s kind=%s", memberID, kind)
}

func (s *Service) ListByMember(ctx context.Context, memberID string) ([]Notification, error) {
	return s.repo.ListByMember(ctx, memberID)
}

func (s *Service) MarkRead(ctx context.Context, id, memberID string) error {
	return s.repo.MarkRead(ctx, id, memberID)
}

func (s *Service) MarkAllRead(ctx context.Context, memberID string) error {
	return s.repo.MarkAllRead(ctx, memberID)
}
