package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/nkiryanov/taskboard/internal/handlers/render"
	"github.com/nkiryanov/taskboard/internal/handlers/userctx"
	"github.com/nkiryanov/taskboard/internal/models"
)

const authScheme = "Bearer"

type authService interface {
	UserFromToken(ctx context.Context, access string) (models.User, error)
}

// AuthMiddleware resolves the bearer access token into a user and puts it
// into the request context. Requests without a valid token get 401 and
// never reach the wrapped handler.
func AuthMiddleware(as authService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				render.Error(w, "Authentication credentials were not provided", http.StatusUnauthorized)
				return
			}

			user, err := as.UserFromToken(r.Context(), token)
			if err != nil {
				render.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := userctx.New(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, authScheme) || token == "" {
		return "", false
	}

	return token, true
}
