package transport

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/rpggio/recontrack/internal/domain/activity"
)

// BatchHeader groups the timeline entries of several requests, for example a
// bulk action from the dashboard.
const BatchHeader = "X-Batch-Id"

// BearerAuth requires the static API token on requests that change state.
// Reads stay open so the lot display can poll without credentials. An empty
// token disables the check.
func BearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			auth := r.Header.Get("Authorization")
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) || subtle.ConstantTimeCompare([]byte(strings.TrimSpace(auth[len(prefix):])), []byte(token)) != 1 {
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid or missing bearer token", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BatchMiddleware attaches the X-Batch-Id header to the request context so
// timeline entries written by the request share it. Malformed ids are
// replaced with a fresh one.
func BatchMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		batchID := strings.TrimSpace(r.Header.Get(BatchHeader))
		if batchID == "" {
			next.ServeHTTP(w, r)
			return
		}
		if _, err := uuid.Parse(batchID); err != nil {
			batchID = uuid.NewString()
		}
		w.Header().Set(BatchHeader, batchID)
		next.ServeHTTP(w, r.WithContext(activity.WithBatch(r.Context(), batchID)))
	})
}
