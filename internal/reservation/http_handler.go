package reservation

import (
	"errors"
	"net/http"

	"libraryapi/internal/httpx"
)

// HTTPHandler serves the reservation read/cancel surface. Creating a
// reservation goes through the lending handler so it runs under the
// per-book lock.
type HTTPHandler struct {
	manager *Manager
}

func NewHTTPHandler(manager *Manager) *HTTPHandler {
	return &HTTPHandler{manager: manager}
}

// Cancel handles DELETE /api/reservations/{id}. Idempotent: cancelling a
// fulfilled or cancelled reservation succeeds without effect.
func (h *HTTPHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	res, err := h.manager.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Reservation not found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	if res.MemberID != httpx.MemberIDFrom(r) && !httpx.IsAdmin(r) {
		httpx.JSONError(w, http.StatusForbidden, "FORBIDDEN", "Cannot cancel another member's reservation", nil)
		return
	}

	if err := h.manager.Cancel(r.Context(), id); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

// ListByMember handles GET /api/members/{id}/reservations.
func (h *HTTPHandler) ListByMember(w http.ResponseWriter, r *http.Request) {
	memberID := r.PathValue("id")
	if memberID != httpx.MemberIDFrom(r) && !httpx.IsAdmin(r) {
		httpx.JSONError(w, http.StatusForbidden, "FORBIDDEN", "Cannot read another member's reservations", nil)
		return
	}

	reservations, err := h.manager.ListByMember(r.Context(), memberID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, reservations, nil)
}
