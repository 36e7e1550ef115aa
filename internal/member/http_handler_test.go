package member

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"libraryapi/internal/httpx"
)

func authed(r *http.Request, memberID, role string) *http.Request {
	return r.WithContext(httpx.ContextWithMember(context.Background(), memberID, role))
}

func TestHTTPHandler_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)
	handler := NewHTTPHandler(service)

	testMember := Member{
		ID:    "member-1",
		Name:  "Test Member",
		Email: "member@example.com",
		Role:  "MEMBER",
	}

	t.Run("own record", func(t *testing.T) {
		mockRepo.EXPECT().Get(gomock.Any(), "member-1").Return(testMember, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/members/member-1", nil)
		r.SetPathValue("id", "member-1")

		handler.Get(w, authed(r, "member-1", "MEMBER"))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("another member's record is forbidden", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/members/member-1", nil)
		r.SetPathValue("id", "member-1")

		handler.Get(w, authed(r, "member-2", "MEMBER"))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin reads anyone", func(t *testing.T) {
		mockRepo.EXPECT().Get(gomock.Any(), "member-1").Return(testMember, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/members/member-1", nil)
		r.SetPathValue("id", "member-1")

		handler.Get(w, authed(r, "admin-1", "ADMIN"))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().Get(gomock.Any(), "member-404").Return(Member{}, ErrNotFound)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/members/member-404", nil)
		r.SetPathValue("id", "member-404")

		handler.Get(w, authed(r, "admin-1", "ADMIN"))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHTTPHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)
	handler := NewHTTPHandler(service)

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().List(gomock.Any(), 20, 0).Return([]Member{{ID: "member-1"}}, 1, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/members", nil)

		handler.List(w, authed(r, "admin-1", "ADMIN"))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("pagination", func(t *testing.T) {
		mockRepo.EXPECT().List(gomock.Any(), 10, 10).Return(nil, 0, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/members?page=2&page_size=10", nil)

		handler.List(w, authed(r, "admin-1", "ADMIN"))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("error", func(t *testing.T) {
		mockRepo.EXPECT().List(gomock.Any(), 20, 0).Return(nil, 0, context.DeadlineExceeded)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/members", nil)

		handler.List(w, authed(r, "admin-1", "ADMIN"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHTTPHandler_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)
	handler := NewHTTPHandler(service)

	t.Run("success defaults role", func(t *testing.T) {
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, m *Member) error {
				assert.NotEmpty(t, m.ID)
				assert.Equal(t, "MEMBER", m.Role)
				return nil
			})

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/members",
			strings.NewReader(`{"name":"New Member","email":"new@example.com"}`))

		handler.Create(w, authed(r, "admin-1", "ADMIN"))

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("invalid email", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/members",
			strings.NewReader(`{"name":"New Member","email":"not-an-email"}`))

		handler.Create(w, authed(r, "admin-1", "ADMIN"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad role", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/members",
			strings.NewReader(`{"name":"New Member","email":"new@example.com","role":"ROOT"}`))

		handler.Create(w, authed(r, "admin-1", "ADMIN"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
