package request

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type contextKey string

const principalContextKey contextKey = "principal"

// PrincipalContextKey returns the context key used for the authenticated
// principal. Exposed for tests that inject non-principal values.
func PrincipalContextKey() contextKey { return principalContextKey }

// ClientIP extracts the client IP from the request, respecting X-Forwarded-For and X-Real-IP.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	return r.RemoteAddr
}

// WithPrincipal returns a context carrying the verified subject of the
// request's access token. The gate attaches it; handlers read it. No full
// user record is looked up at this layer.
func WithPrincipal(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, principalContextKey, userID)
}

// Principal returns the authenticated user ID from the request context.
// ok is false on unauthenticated requests or wrong-typed values.
func Principal(r *http.Request) (uuid.UUID, bool) {
	id, ok := r.Context().Value(principalContextKey).(uuid.UUID)
	return id, ok
}
