package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service provides catalog business logic.
type Service struct {
	repo Repository
}

// NewService creates a new catalog service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns books matching the query.
func (s *Service) List(ctx context.Context, q Query) ([]Book, int, error) {
	return s.repo.List(ctx, q)
}

// Get returns a book by its id.
func (s *Service) Get(ctx context.Context, id string) (Book, error) {
	return s.repo.Get(ctx, id)
}

// Create adds a new title. New titles start with every copy available.
func (s *Service) Create(ctx context.Context, book Book) (Book, error) {
	book.ID = uuid.New().String()
	book.AvailableCopies = book.TotalCopies
	if book.FinePerDay <= 0 {
		book.FinePerDay = DefaultFinePerDay
	}
	now := time.Now()
	book.CreatedAt = now
	book.UpdatedAt = now
	if err := s.repo.Create(ctx, &book); err != nil {
		return Book{}, err
	}
	return book, nil
}
