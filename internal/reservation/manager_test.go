package reservation

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryapi/internal/catalog"
	"libraryapi/internal/notify"
)

type memRepo struct {
	mu           sync.Mutex
	reservations map[string]*Reservation
}

func newMemRepo() *memRepo {
	return &memRepo{reservations: make(map[string]*Reservation)}
}

func (r *memRepo) Get(ctx context.Context, id string) (Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.reservations[id]
	if !ok {
		return Reservation{}, ErrNotFound
	}
	return *res, nil
}

func (r *memRepo) Create(ctx context.Context, res *Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *res
	r.reservations[res.ID] = &cp
	return nil
}

func (r *memRepo) OldestPending(ctx context.Context, bookID string) (Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var pending []*Reservation
	for _, res := range r.reservations {
		if res.BookID == bookID && res.Status == StatusPending {
			pending = append(pending, res)
		}
	}
	if len(pending) == 0 {
		return Reservation{}, ErrNotFound
	}
	sort.Slice(pending, func(i, j int) bool {
		if !pending[i].CreatedAt.Equal(pending[j].CreatedAt) {
			return pending[i].CreatedAt.Before(pending[j].CreatedAt)
		}
		return pending[i].ID < pending[j].ID
	})
	return *pending[0], nil
}

func (r *memRepo) SetStatus(ctx context.Context, id string, status Status) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.reservations[id]
	if !ok || res.Status != StatusPending {
		return false, nil
	}
	res.Status = status
	return true, nil
}

func (r *memRepo) CountPending(ctx context.Context, memberID, bookID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, res := range r.reservations {
		if res.MemberID == memberID && res.Status == StatusPending && (bookID == "" || res.BookID == bookID) {
			n++
		}
	}
	return n, nil
}

func (r *memRepo) ListByMember(ctx context.Context, memberID string) ([]Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Reservation
	for _, res := range r.reservations {
		if res.MemberID == memberID {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (r *memRepo) HasPendingByOther(ctx context.Context, bookID, memberID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, res := range r.reservations {
		if res.BookID == bookID && res.MemberID != memberID && res.Status == StatusPending {
			return true, nil
		}
	}
	return false, nil
}

type stubCatalog struct {
	books map[string]catalog.Book
}

func (c *stubCatalog) Get(ctx context.Context, id string) (catalog.Book, error) {
	b, ok := c.books[id]
	if !ok {
		return catalog.Book{}, catalog.ErrNotFound
	}
	return b, nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	kinds []notify.Kind
	to    []string
}

func (n *recordingNotifier) Notify(ctx context.Context, memberID string, kind notify.Kind, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.kinds = append(n.kinds, kind)
	n.to = append(n.to, memberID)
}

func newTestManager(t *testing.T, available int, cfg Config) (*Manager, *memRepo, *recordingNotifier) {
	t.Helper()
	repo := newMemRepo()
	books := &stubCatalog{books: map[string]catalog.Book{
		"book-1": {ID: "book-1", Title: "Dune", TotalCopies: 2, AvailableCopies: available},
	}}
	notifier := &recordingNotifier{}
	return NewManager(repo, books, notifier, cfg), repo, notifier
}

func TestReserveRequiresOutOfStock(t *testing.T) {
	m, _, _ := newTestManager(t, 1, DefaultConfig())

	_, err := m.Reserve(context.Background(), "book-1", "member-a")
	assert.ErrorIs(t, err, ErrAlreadyAvailable)
}

func TestReserveUnknownBook(t *testing.T) {
	m, _, _ := newTestManager(t, 0, DefaultConfig())

	_, err := m.Reserve(context.Background(), "book-404", "member-a")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestReserveEnforcesCap(t *testing.T) {
	m, _, notifier := newTestManager(t, 0, DefaultConfig())

	res, err := m.Reserve(context.Background(), "book-1", "member-a")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, res.Status)
	assert.Equal(t, []notify.Kind{notify.KindReserved}, notifier.kinds)

	_, err = m.Reserve(context.Background(), "book-1", "member-a")
	assert.ErrorIs(t, err, ErrCapExceeded)
}

func TestFulfillNextIsFIFO(t *testing.T) {
	m, _, notifier := newTestManager(t, 0, Config{Cap: 5})
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	step := 0
	m.clock = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Minute)
	}

	first, err := m.Reserve(context.Background(), "book-1", "member-a")
	require.NoError(t, err)
	second, err := m.Reserve(context.Background(), "book-1", "member-b")
	require.NoError(t, err)

	fulfilled, err := m.FulfillNext(context.Background(), "book-1")
	require.NoError(t, err)
	require.NotNil(t, fulfilled)
	assert.Equal(t, first.ID, fulfilled.ID)
	assert.Equal(t, StatusFulfilled, fulfilled.Status)
	assert.Equal(t, notify.KindReservationAvailable, notifier.kinds[len(notifier.kinds)-1])
	assert.Equal(t, "member-a", notifier.to[len(notifier.to)-1])

	fulfilled, err = m.FulfillNext(context.Background(), "book-1")
	require.NoError(t, err)
	require.NotNil(t, fulfilled)
	assert.Equal(t, second.ID, fulfilled.ID)

	// Queue drained.
	fulfilled, err = m.FulfillNext(context.Background(), "book-1")
	require.NoError(t, err)
	assert.Nil(t, fulfilled)
}

func TestCancelIsIdempotent(t *testing.T) {
	m, repo, _ := newTestManager(t, 0, DefaultConfig())

	res, err := m.Reserve(context.Background(), "book-1", "member-a")
	require.NoError(t, err)

	require.NoError(t, m.Cancel(context.Background(), res.ID))
	got, err := repo.Get(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, got.Status)

	// Second cancel is a no-op.
	require.NoError(t, m.Cancel(context.Background(), res.ID))

	// A cancelled reservation does not come back through fulfillment.
	fulfilled, err := m.FulfillNext(context.Background(), "book-1")
	require.NoError(t, err)
	assert.Nil(t, fulfilled)
}

func TestCancelFulfilledIsNoOp(t *testing.T) {
	m, repo, _ := newTestManager(t, 0, DefaultConfig())

	res, err := m.Reserve(context.Background(), "book-1", "member-a")
	require.NoError(t, err)

	_, err = m.FulfillNext(context.Background(), "book-1")
	require.NoError(t, err)

	require.NoError(t, m.Cancel(context.Background(), res.ID))
	got, err := repo.Get(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFulfilled, got.Status)
}

func TestPerBookCapScope(t *testing.T) {
	repo := newMemRepo()
	books := &stubCatalog{books: map[string]catalog.Book{
		"book-1": {ID: "book-1", TotalCopies: 1, AvailableCopies: 0},
		"book-2": {ID: "book-2", TotalCopies: 1, AvailableCopies: 0},
	}}
	m := NewManager(repo, books, notify.Nop{}, Config{Cap: 1, PerBook: true})

	_, err := m.Reserve(context.Background(), "book-1", "member-a")
	require.NoError(t, err)

	// Per-book scope: a second title is still reservable.
	_, err = m.Reserve(context.Background(), "book-2", "member-a")
	require.NoError(t, err)

	_, err = m.Reserve(context.Background(), "book-1", "member-a")
	assert.ErrorIs(t, err, ErrCapExceeded)
}
