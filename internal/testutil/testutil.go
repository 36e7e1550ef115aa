package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"libraryapi/internal/catalog"
	"libraryapi/internal/member"
	"libraryapi/internal/platform/crypto"
)

// TestMember is a mock member for testing
var TestMember = member.Member{
	ID:        "test-member-id-123",
	Name:      "Test Member",
	Email:     "member@example.com",
	Role:      "MEMBER",
	CreatedAt: time.Now(),
}

// TestAdminMember is a mock admin member for testing
var TestAdminMember = member.Member{
	ID:        "test-admin-id-456",
	Name:      "Admin Member",
	Email:     "admin@example.com",
	Role:      "ADMIN",
	CreatedAt: time.Now(),
}

// TestBook is a mock book for testing
var TestBook = catalog.Book{
	ID:              "test-book-id-789",
	ISBN:            "978-0-123456-78-9",
	Title:           "Test Book Title",
	Author:          "Test Author",
	Category:        "Fiction",
	TotalCopies:     3,
	AvailableCopies: 3,
	FinePerDay:      5,
	CreatedAt:       time.Now(),
	UpdatedAt:       time.Now(),
}

// GenerateTestToken generates a JWT token for testing
func GenerateTestToken(secret, memberID, role string) string {
	token, _, _ := crypto.GenerateToken(secret, memberID, role, time.Hour)
	return token
}

// GenerateExpiredToken generates an expired JWT token for testing
func GenerateExpiredToken(secret, memberID, role string) string {
	c := crypto.Claims{
		Sub:  memberID,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	token, _ := t.SignedString([]byte(secret))
	return token
}

// NewRequest creates a new HTTP request for testing
func NewRequest(method, path string, body interface{}) *http.Request {
	var bodyBytes []byte
	if body != nil {
		bodyBytes, _ = json.Marshal(body)
	}
	var r *http.Request
	if bodyBytes != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(bodyBytes))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r
}

// NewRequestWithAuth creates a new HTTP request with JWT auth for testing
func NewRequestWithAuth(method, path string, body interface{}, token string) *http.Request {
	r := NewRequest(method, path, body)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

// RecordResponse records the HTTP response for testing
type RecordResponse struct {
	Code   int
	Header http.Header
	Body   map[string]interface{}
}

// RecordHTTPResponse records the HTTP response
func RecordHTTPResponse(w *httptest.ResponseRecorder) RecordResponse {
	result := w.Result()
	defer result.Body.Close()

	bodyBytes, _ := io.ReadAll(result.Body)

	var bodyMap map[string]interface{}
	if len(bodyBytes) > 0 {
		json.NewDecoder(bytes.NewReader(bodyBytes)).Decode(&bodyMap)
	}

	return RecordResponse{
		Code:   result.StatusCode,
		Header: result.Header,
		Body:   bodyMap,
	}
}
