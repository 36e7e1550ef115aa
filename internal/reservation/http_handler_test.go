package reservation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryapi/internal/httpx"
)

func cancelRequest(id, memberID, role string) *http.Request {
	r := httptest.NewRequest(http.MethodDelete, "/api/reservations/"+id, nil)
	r.SetPathValue("id", id)
	return r.WithContext(httpx.ContextWithMember(context.Background(), memberID, role))
}

func TestHandlerCancel(t *testing.T) {
	m, repo, _ := newTestManager(t, 0, DefaultConfig())
	handler := NewHTTPHandler(m)

	res, err := m.Reserve(context.Background(), "book-1", "member-a")
	require.NoError(t, err)

	t.Run("owner cancels", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Cancel(w, cancelRequest(res.ID, "member-a", "MEMBER"))
		assert.Equal(t, http.StatusNoContent, w.Code)

		got, err := repo.Get(context.Background(), res.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, got.Status)
	})

	t.Run("cancel is idempotent", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Cancel(w, cancelRequest(res.ID, "member-a", "MEMBER"))
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("unknown reservation", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Cancel(w, cancelRequest("missing", "member-a", "MEMBER"))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandlerCancelForbiddenForOtherMember(t *testing.T) {
	m, repo, _ := newTestManager(t, 0, DefaultConfig())
	handler := NewHTTPHandler(m)

	res, err := m.Reserve(context.Background(), "book-1", "member-a")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	handler.Cancel(w, cancelRequest(res.ID, "member-b", "MEMBER"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	got, err := repo.Get(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)

	// Admin override.
	w = httptest.NewRecorder()
	handler.Cancel(w, cancelRequest(res.ID, "admin-1", "ADMIN"))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestHandlerListByMember(t *testing.T) {
	m, _, _ := newTestManager(t, 0, DefaultConfig())
	handler := NewHTTPHandler(m)

	_, err := m.Reserve(context.Background(), "book-1", "member-a")
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/api/members/member-a/reservations", nil)
	r.SetPathValue("id", "member-a")
	r = r.WithContext(httpx.ContextWithMember(context.Background(), "member-a", "MEMBER"))
	w := httptest.NewRecorder()
	handler.ListByMember(w, r)
	assert.Equal(t, http.StatusOK, w.Code)

	r = httptest.NewRequest(http.MethodGet, "/api/members/member-a/reservations", nil)
	r.SetPathValue("id", "member-a")
	r = r.WithContext(httpx.ContextWithMember(context.Background(), "member-b", "MEMBER"))
	w = httptest.NewRecorder()
	handler.ListByMember(w, r)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
