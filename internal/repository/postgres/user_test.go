package postgres

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/taskboard/internal/apperrors"
	"github.com/nkiryanov/taskboard/internal/testutil"
)

func Test_UserRepo(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Helper to run tests with its own UserRepo in transaction
	// When test end rollback
	withTx := func(t *testing.T, testFunc func(r *UserRepo)) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			testFunc(&UserRepo{DB: tx})
		})
	}

	t.Run("create user ok", func(t *testing.T) {
		withTx(t, func(r *UserRepo) {
			user, err := r.CreateUser(t.Context(), "testuser", "test@x.com", "hashedpassword123")

			require.NoError(t, err)
			assert.Greater(t, user.ID, int64(0), "ID should be generated")
			assert.Equal(t, "testuser", user.Username)
			assert.Equal(t, "test@x.com", user.Email)
			assert.Equal(t, "hashedpassword123", user.PasswordHash)
			assert.WithinDuration(t, time.Now(), user.CreatedAt, time.Second, "CreatedAt should be recent")
		})
	})

	t.Run("create user duplicate username fails", func(t *testing.T) {
		withTx(t, func(r *UserRepo) {
			_, err := r.CreateUser(t.Context(), "duplicateuser", "", "hashedpassword123")
			require.NoError(t, err)

			// Try to create second user with same username
			_, err = r.CreateUser(t.Context(), "duplicateuser", "", "anotherhashedpassword")
			assert.ErrorIs(t, err, apperrors.ErrUserAlreadyExists, "if user exists must return well defined error")
		})
	})

	t.Run("get user by id ok", func(t *testing.T) {
		withTx(t, func(r *UserRepo) {
			created, err := r.CreateUser(t.Context(), "findbyid", "", "hashedpassword123")
			require.NoError(t, err)

			got, err := r.GetUserByID(t.Context(), created.ID)

			require.NoError(t, err)
			assert.Equal(t, created.ID, got.ID)
			assert.Equal(t, created.Username, got.Username)
			assert.Equal(t, created.PasswordHash, got.PasswordHash)
			assert.Equal(t, created.CreatedAt, got.CreatedAt)
		})
	})

	t.Run("get user by id not found", func(t *testing.T) {
		withTx(t, func(r *UserRepo) {
			_, err := r.GetUserByID(t.Context(), 999999)

			assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		})
	})

	t.Run("get user by username ok", func(t *testing.T) {
		withTx(t, func(r *UserRepo) {
			created, err := r.CreateUser(t.Context(), "findbyname", "", "hashedpassword123")
			require.NoError(t, err)

			got, err := r.GetUserByUsername(t.Context(), "findbyname")

			require.NoError(t, err)
			assert.Equal(t, created.ID, got.ID)
		})
	})

	t.Run("get user by username not found", func(t *testing.T) {
		withTx(t, func(r *UserRepo) {
			_, err := r.GetUserByUsername(t.Context(), "nosuchuser")

			assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		})
	})
}
