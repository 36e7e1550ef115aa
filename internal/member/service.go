package member

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service provides member account logic.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id string) (Member, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Member, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Create(ctx context.Context, m Member) (Member, error) {
	m.ID = uuid.New().String()
	if m.Role == "" {
		m.Role = "MEMBER"
	}
	m.CreatedAt = time.Now()
	if err := s.repo.Create(ctx, &m); err != nil {
		return Member{}, err
	}
	return m, nil
}
