package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/taskboard/internal/handlers/userctx"
	"github.com/nkiryanov/taskboard/internal/models"
)

// Allow to use a function as auth service
type authFunc func(ctx context.Context, access string) (models.User, error)

func (f authFunc) UserFromToken(ctx context.Context, access string) (models.User, error) {
	return f(ctx, access)
}

func TestAuthMiddleware(t *testing.T) {
	// Simple handler that tries to get user from context
	// If ok writes the username to response
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Must always be true cause middleware has to set user or reject the request
		user, ok := userctx.FromContext(r.Context())
		require.True(t, ok)

		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(user.Username))
		require.NoError(t, err, "should write username to response")
	})

	get := func(t *testing.T, url string, authHeader string) (*http.Response, string) {
		t.Helper()

		req, err := http.NewRequest(http.MethodGet, url+"/test", nil)
		require.NoError(t, err)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err, "should make request to test server")
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err, "should read response body")
		defer resp.Body.Close() // nolint:errcheck

		return resp, string(body)
	}

	t.Run("auth ok", func(t *testing.T) {
		middleware := AuthMiddleware(authFunc(func(ctx context.Context, access string) (models.User, error) {
			require.Equal(t, "valid-token", access, "middleware should strip the scheme prefix")
			return models.User{Username: "test-user"}, nil
		}))

		srv := httptest.NewServer(middleware(handler))
		defer srv.Close()

		resp, body := get(t, srv.URL, "Bearer valid-token")

		require.Equalf(t, http.StatusOK, resp.StatusCode, "should return status OK. Resp: %s", body)
		require.Equal(t, "test-user", body, "should return username in response")
	})

	t.Run("missing header rejected", func(t *testing.T) {
		middleware := AuthMiddleware(authFunc(func(ctx context.Context, access string) (models.User, error) {
			t.Fatal("service must not be called without a token")
			return models.User{}, nil
		}))

		srv := httptest.NewServer(middleware(handler))
		defer srv.Close()

		resp, body := get(t, srv.URL, "")

		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.JSONEq(t, `{"detail": "Authentication credentials were not provided"}`, body)
	})

	t.Run("wrong scheme rejected", func(t *testing.T) {
		middleware := AuthMiddleware(authFunc(func(ctx context.Context, access string) (models.User, error) {
			t.Fatal("service must not be called with a wrong scheme")
			return models.User{}, nil
		}))

		srv := httptest.NewServer(middleware(handler))
		defer srv.Close()

		resp, _ := get(t, srv.URL, "Basic dXNlcjpwd2Q=")

		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("invalid token rejected", func(t *testing.T) {
		middleware := AuthMiddleware(authFunc(func(ctx context.Context, access string) (models.User, error) {
			return models.User{}, errors.New("nope")
		}))

		srv := httptest.NewServer(middleware(handler))
		defer srv.Close()

		resp, body := get(t, srv.URL, "Bearer bad-token")

		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		require.JSONEq(t, `{"detail": "Invalid or expired token"}`, body)
	})
}
