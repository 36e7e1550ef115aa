package lending

import (
	"encoding/json"
	"errors"
	"net/http"

	"libraryapi/internal/catalog"
	"libraryapi/internal/httpx"
	"libraryapi/internal/ledger"
	"libraryapi/internal/reservation"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type borrowRequest struct {
	BookID   string `json:"book_id" validate:"required"`
	MemberID string `json:"member_id" validate:"required"`
	Copies   int    `json:"copies" validate:"gte=0,lte=10"`
}

// Borrow handles POST /api/lendings/borrow.
func (h *HTTPHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	var req borrowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Malformed request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", details)
		return
	}
	if !allowedFor(r, req.MemberID) {
		httpx.JSONError(w, http.StatusForbidden, "FORBIDDEN", "Cannot borrow for another member", nil)
		return
	}

	result, err := h.service.Borrow(r.Context(), BorrowRequest{
		BookID:   req.BookID,
		MemberID: req.MemberID,
		Copies:   req.Copies,
	})
	if err != nil {
		writeLendingError(w, err)
		return
	}
	httpx.JSONSuccessCreated(w, result)
}

type returnRequest struct {
	LendingRecordID string `json:"lending_record_id" validate:"required"`
}

// Return handles POST /api/lendings/return. Any authenticated member may
// close a record: books come back over the circulation desk regardless of
// who hands them in.
func (h *HTTPHandler) Return(w http.ResponseWriter, r *http.Request) {
	var req returnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Malformed request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", details)
		return
	}

	result, err := h.service.Return(r.Context(), req.LendingRecordID)
	if err != nil {
		writeLendingError(w, err)
		return
	}
	httpx.JSONSuccess(w, result, nil)
}

type renewRequest struct {
	LendingRecordID string `json:"lending_record_id" validate:"required"`
}

// Renew handles POST /api/lendings/renew. Like Return, this is a desk
// operation: the record id, not the caller's identity, selects the loan.
func (h *HTTPHandler) Renew(w http.ResponseWriter, r *http.Request) {
	var req renewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Malformed request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", details)
		return
	}

	result, err := h.service.Renew(r.Context(), req.LendingRecordID)
	if err != nil {
		writeLendingError(w, err)
		return
	}
	httpx.JSONSuccess(w, result, nil)
}

type reserveRequest struct {
	BookID   string `json:"book_id" validate:"required"`
	MemberID string `json:"member_id" validate:"required"`
}

// Reserve handles POST /api/reservations.
func (h *HTTPHandler) Reserve(w http.ResponseWriter, r *http.Request) {
	var req reserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Malformed request body", nil)
		return
	}
	if details := httpx.ValidateStruct(req); details != nil {
		httpx.JSONError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", details)
		return
	}
	if !allowedFor(r, req.MemberID) {
		httpx.JSONError(w, http.StatusForbidden, "FORBIDDEN", "Cannot reserve for another member", nil)
		return
	}

	res, err := h.service.Reserve(r.Context(), req.BookID, req.MemberID)
	if err != nil {
		writeLendingError(w, err)
		return
	}
	httpx.JSONSuccessCreated(w, map[string]any{"reservation_id": res.ID})
}

func allowedFor(r *http.Request, memberID string) bool {
	return memberID == httpx.MemberIDFrom(r) || httpx.IsAdmin(r)
}

// writeLendingError maps every domain error to a distinct, actionable
// response instead of a generic failure.
func writeLendingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrOutOfStock):
		httpx.JSONError(w, http.StatusConflict, "OUT_OF_STOCK", "No copies available", nil)
	case errors.Is(err, ErrMemberLimitExceeded):
		httpx.JSONError(w, http.StatusConflict, "MEMBER_LIMIT_EXCEEDED", "Member loan limit exceeded", nil)
	case errors.Is(err, ledger.ErrAlreadyReturned):
		httpx.JSONError(w, http.StatusConflict, "ALREADY_RETURNED", "Record already returned", nil)
	case errors.Is(err, ledger.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Lending record not found", nil)
	case errors.Is(err, catalog.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
	case errors.Is(err, reservation.ErrAlreadyAvailable):
		httpx.JSONError(w, http.StatusConflict, "ALREADY_AVAILABLE", "Book is available, borrow it instead", nil)
	case errors.Is(err, reservation.ErrCapExceeded):
		httpx.JSONError(w, http.StatusConflict, "RESERVATION_CAP_EXCEEDED", "Reservation cap exceeded", nil)
	case errors.Is(err, ErrReservedByOther):
		httpx.JSONError(w, http.StatusConflict, "RESERVED_BY_OTHER", "Book is reserved by another member", nil)
	case errors.Is(err, ErrRenewalLimit):
		httpx.JSONError(w, http.StatusConflict, "RENEWAL_LIMIT", "Renewal limit reached", nil)
	case errors.Is(err, ErrBusy):
		w.Header().Set("Retry-After", "1")
		httpx.JSONError(w, http.StatusServiceUnavailable, "BUSY", "Book is busy, retry shortly", nil)
	case errors.Is(err, ErrInvariantViolation):
		httpx.JSONError(w, http.StatusInternalServerError, "INVARIANT_VIOLATION", "Internal inconsistency detected", nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
