package httpx

import (
	"context"
	"net/http"
)

type contextKey string

const (
	memberIDKey  contextKey = "memberID"
	roleKey      contextKey = "role"
	requestIDKey contextKey = "requestID"
)

// MemberIDFrom retrieves the authenticated member ID from the request context.
func MemberIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(memberIDKey).(string); ok {
		return v
	}
	return ""
}

// RoleFrom retrieves the member role from the request context.
func RoleFrom(r *http.Request) string {
	if v, ok := r.Context().Value(roleKey).(string); ok {
		return v
	}
	return ""
}

// IsAdmin reports whether the request carries the ADMIN role.
func IsAdmin(r *http.Request) bool {
	return RoleFrom(r) == "ADMIN"
}

// ContextWithMember returns a new context with the member ID and role.
func ContextWithMember(ctx context.Context, memberID, role string) context.Context {
	ctx = context.WithValue(ctx, memberIDKey, memberID)
	return context.WithValue(ctx, roleKey, role)
}

// RequestIDFrom retrieves the request ID from the request context.
func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// ContextWithRequestID returns a new context carrying the request ID.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
