package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func TestHTTPHandler_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)
	handler := NewHTTPHandler(service)

	testBook := Book{
		ID:              "1",
		ISBN:            "9780123456789",
		Title:           "Test",
		TotalCopies:     2,
		AvailableCopies: 2,
	}

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().List(gomock.Any(), gomock.Any()).Return([]Book{testBook}, 1, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/books", nil)

		handler.List(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("error", func(t *testing.T) {
		mockRepo.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, 0, context.DeadlineExceeded)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/books", nil)

		handler.List(w, r)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHTTPHandler_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)
	handler := NewHTTPHandler(service)

	testBook := Book{
		ID:    "1",
		ISBN:  "9780123456789",
		Title: "Test",
	}

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().Get(gomock.Any(), "1").Return(testBook, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/books/1", nil)
		r.SetPathValue("id", "1")

		handler.Get(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().Get(gomock.Any(), "1").Return(Book{}, ErrNotFound)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/api/books/1", nil)
		r.SetPathValue("id", "1")

		handler.Get(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHTTPHandler_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)
	handler := NewHTTPHandler(service)

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		body := `{"isbn":"9780123456789","title":"Test","author":"A. Writer","category":"Fiction","total_copies":3}`
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/books", strings.NewReader(body))

		handler.Create(w, r)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("invalid isbn", func(t *testing.T) {
		body := `{"isbn":"nope","title":"Test","author":"A. Writer","total_copies":3}`
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/books", strings.NewReader(body))

		handler.Create(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("missing copies", func(t *testing.T) {
		body := `{"isbn":"9780123456789","title":"Test","author":"A. Writer"}`
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/books", strings.NewReader(body))

		handler.Create(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
