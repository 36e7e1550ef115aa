package notify

import (
	"errors"
	"net/http"

	"libraryapi/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// List handles GET /api/notifications for the authenticated member.
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	memberID := httpx.MemberIDFrom(r)

	notifications, err := h.service.ListByMember(r.Context(), memberID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, notifications, nil)
}

// MarkRead handles POST /api/notifications/{id}/read.
func (h *HTTPHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	memberID := httpx.MemberIDFrom(r)
	id := r.PathValue("id")

	if err := h.service.MarkRead(r.Context(), id, memberID); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Notification not found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

// MarkAllRead handles POST /api/notifications/read-all.
func (h *HTTPHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	memberID := httpx.MemberIDFrom(r)

	if err := h.service.MarkAllRead(r.Context(), memberID); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccessNoContent(w)
}
