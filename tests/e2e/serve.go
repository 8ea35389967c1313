package e2e

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/taskboard/internal/blacklist"
	"github.com/nkiryanov/taskboard/internal/handlers"
	"github.com/nkiryanov/taskboard/internal/logger"
	"github.com/nkiryanov/taskboard/internal/repository/postgres"
	"github.com/nkiryanov/taskboard/internal/service/auth"
	"github.com/nkiryanov/taskboard/internal/service/auth/tokenmanager"
	"github.com/nkiryanov/taskboard/internal/service/task"
	"github.com/nkiryanov/taskboard/internal/service/todo"
	"github.com/nkiryanov/taskboard/internal/service/user"
	"github.com/nkiryanov/taskboard/internal/testutil"
)

type Services struct {
	AuthService *auth.AuthService
	TodoService *todo.TodoService
	TaskService *task.TaskService
}

// Create db transaction and run server with that connection (one connection cause one transaction)
// The created transaction passed to inner function: so, you can safely use testutil.WithTx with it
func ServeWithTx(dbpool *pgxpool.Pool, t *testing.T, fn func(tx pgx.Tx, srvURL string, services Services)) {
	testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
		// Initialize repositories
		storage := postgres.NewStorage(tx)

		// Initialize services
		// In-memory blacklist so revocation is observable in scenarios
		tokenManager, err := tokenmanager.New(tokenmanager.Config{
			SecretKey:              "test-secret",
			BlacklistAfterRotation: true,
		}, blacklist.NewMemoryStore())
		require.NoError(t, err, "token manager should be created without errors")

		us := user.NewService(user.DefaultHasher, user.DefaultPolicy{}, storage.User())

		as, err := auth.NewService(us, tokenManager, logger.NewNoOp())
		require.NoError(t, err, "auth service starting error")

		tds := todo.NewService(storage.Todo())
		tks := task.NewService(storage.Task())

		// Complete all together as router
		router := handlers.NewRouter(as, tds, tks, logger.NewNoOp(), 10*time.Second)

		// Run http server with the router in transaction
		srv := httptest.NewServer(router)
		defer srv.Close()

		fn(tx, srv.URL, Services{
			AuthService: as,
			TodoService: tds,
			TaskService: tks,
		})
	})
}
