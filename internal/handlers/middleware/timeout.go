package middleware

import (
	"context"
	"net/http"
	"time"
)

// TimeoutMiddleware caps how long a request may spend in the handlers.
// Store calls inherit the deadline through the request context, so a slow
// backing store fails fast instead of holding the connection.
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
