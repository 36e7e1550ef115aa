package ledger

import (
	"net/http"
	"time"

	"libraryapi/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// ListByMember handles GET /api/members/{id}/lendings. Members may read
// their own history; admins may read anyone's.
func (h *HTTPHandler) ListByMember(w http.ResponseWriter, r *http.Request) {
	memberID := r.PathValue("id")
	if memberID != httpx.MemberIDFrom(r) && !httpx.IsAdmin(r) {
		httpx.JSONError(w, http.StatusForbidden, "FORBIDDEN", "Cannot read another member's lendings", nil)
		return
	}

	records, err := h.service.ListByMember(r.Context(), memberID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, records, nil)
}

// ListOverdue handles GET /api/lendings/overdue?as_of=RFC3339 (admin only).
func (h *HTTPHandler) ListOverdue(w http.ResponseWriter, r *http.Request) {
	if !httpx.IsAdmin(r) {
		httpx.JSONError(w, http.StatusForbidden, "FORBIDDEN", "Admin role required", nil)
		return
	}

	asOf := time.Now()
	if raw := r.URL.Query().Get("as_of"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "as_of must be RFC3339", nil)
			return
		}
		asOf = parsed
	}

	records, err := h.service.ListOverdue(r.Context(), asOf)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, records, map[string]any{"as_of": asOf.Format(time.RFC3339)})
}

// FinesSummary handles GET /api/members/{id}/fines.
func (h *HTTPHandler) FinesSummary(w http.ResponseWriter, r *http.Request) {
	memberID := r.PathValue("id")
	if memberID != httpx.MemberIDFrom(r) && !httpx.IsAdmin(r) {
		httpx.JSONError(w, http.StatusForbidden, "FORBIDDEN", "Cannot read another member's fines", nil)
		return
	}

	summary, err := h.service.FinesSummary(r.Context(), memberID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, summary, nil)
}
