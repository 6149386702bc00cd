package middleware

import (
	"context"
	"net/http"

	"github.com/fkhayef/groupescrow/internal/escrow"
	"github.com/fkhayef/groupescrow/pkg/response"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// CallerIDKey is the context key for the calling identity
	CallerIDKey ContextKey = "caller_id"

	// CallerHeader carries the caller identity set by the upstream gateway
	CallerHeader = "X-Caller-ID"
)

// CallerMiddleware requires a valid caller identity on every request.
// Signature checks happen upstream; this only validates the identifier.
func CallerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(CallerHeader)
		if raw == "" {
			response.Unauthorized(w, CallerHeader+" header required")
			return
		}

		caller, err := escrow.ParseKey(raw)
		if err != nil {
			response.BadRequest(w, "Invalid "+CallerHeader+" header")
			return
		}

		ctx := context.WithValue(r.Context(), CallerIDKey, caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetCallerID extracts the caller identity from the request context
func GetCallerID(ctx context.Context) (escrow.Key, bool) {
	caller, ok := ctx.Value(CallerIDKey).(escrow.Key)
	return caller, ok
}
