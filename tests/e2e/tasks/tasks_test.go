package tasks

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/taskboard/internal/testutil"
	"github.com/nkiryanov/taskboard/tests/e2e"
)

const TasksURL = "/tasks"

type taskBody struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func do(t *testing.T, method string, url string, data string) (int, string) {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(data))
	require.NoError(t, err)
	if data != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(body)
}

func createTask(t *testing.T, srvURL string, data string) taskBody {
	t.Helper()

	code, body := do(t, http.MethodPost, srvURL+TasksURL, data)
	require.Equalf(t, http.StatusCreated, code, "task not created. Body: %s", body)

	var created taskBody
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	return created
}

func Test_Tasks(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	e2e.ServeWithTx(pg.Pool, t, func(tx pgx.Tx, srvURL string, s e2e.Services) {
		t.Run("tasks need no authentication", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				created := createTask(t, srvURL, `{"title": "publish release notes"}`)
				require.NotZero(t, created.ID)
				require.Equal(t, "publish release notes", created.Title)
				require.Nil(t, created.Description)
				require.Nil(t, created.DueDate)
				require.False(t, created.Completed)

				code, body := do(t, http.MethodGet, srvURL+TasksURL, "")
				require.Equal(t, http.StatusOK, code)

				var list []taskBody
				require.NoError(t, json.Unmarshal([]byte(body), &list))
				require.Len(t, list, 1)
				require.Equal(t, created.ID, list[0].ID)
			})
		})

		t.Run("create with optional fields", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				created := createTask(t, srvURL, `{"title": "pay rent", "description": "before the 5th", "due_date": "2026-10-05T00:00:00Z"}`)

				require.NotNil(t, created.Description)
				require.Equal(t, "before the 5th", *created.Description)
				require.NotNil(t, created.DueDate)
				require.Equal(t, time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC), created.DueDate.UTC())
			})
		})

		t.Run("toggle flips completed back and forth", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				created := createTask(t, srvURL, `{"title": "water plants"}`)
				url := srvURL + TasksURL + "/" + strconv.FormatInt(created.ID, 10) + "/toggle-complete"

				code, body := do(t, http.MethodPost, url, "")
				require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", body)

				var toggled taskBody
				require.NoError(t, json.Unmarshal([]byte(body), &toggled))
				require.True(t, toggled.Completed)

				code, body = do(t, http.MethodPost, url, "")
				require.Equal(t, http.StatusOK, code)
				require.NoError(t, json.Unmarshal([]byte(body), &toggled))
				require.False(t, toggled.Completed)
			})
		})

		t.Run("patch keeps missing fields", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				created := createTask(t, srvURL, `{"title": "pay rent", "description": "before the 5th"}`)
				url := srvURL + TasksURL + "/" + strconv.FormatInt(created.ID, 10)

				code, body := do(t, http.MethodPatch, url, `{"completed": true}`)
				require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", body)

				var patched taskBody
				require.NoError(t, json.Unmarshal([]byte(body), &patched))
				require.True(t, patched.Completed)
				require.Equal(t, "pay rent", patched.Title)
				require.NotNil(t, patched.Description)
				require.Equal(t, "before the 5th", *patched.Description)
			})
		})

		t.Run("explicit null clears optional fields", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				created := createTask(t, srvURL, `{"title": "pay rent", "description": "before the 5th", "due_date": "2026-10-05T00:00:00Z"}`)
				url := srvURL + TasksURL + "/" + strconv.FormatInt(created.ID, 10)

				code, body := do(t, http.MethodPatch, url, `{"description": null, "due_date": null}`)
				require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", body)

				var patched taskBody
				require.NoError(t, json.Unmarshal([]byte(body), &patched))
				require.Nil(t, patched.Description)
				require.Nil(t, patched.DueDate)
				require.Equal(t, "pay rent", patched.Title)
			})
		})

		t.Run("put replaces the record", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				created := createTask(t, srvURL, `{"title": "water plants"}`)
				url := srvURL + TasksURL + "/" + strconv.FormatInt(created.ID, 10)

				code, body := do(t, http.MethodPut, url, `{"title": "water all plants", "completed": true}`)
				require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", body)

				var updated taskBody
				require.NoError(t, json.Unmarshal([]byte(body), &updated))
				require.Equal(t, "water all plants", updated.Title)
				require.True(t, updated.Completed)
			})
		})

		t.Run("delete removes the record", func(t *testing.T) {
			testutil.WithTx(tx, t, func(_ pgx.Tx) {
				created := createTask(t, srvURL, `{"title": "water plants"}`)
				url := srvURL + TasksURL + "/" + strconv.FormatInt(created.ID, 10)

				code, body := do(t, http.MethodDelete, url, "")
				require.Equalf(t, http.StatusNoContent, code, "not expected code. Body: %s", body)

				code, body = do(t, http.MethodGet, url, "")
				require.Equal(t, http.StatusNotFound, code)
				require.JSONEq(t, `{"detail": "Not found"}`, body)
			})
		})

		t.Run("missing title rejected", func(t *testing.T) {
			code, body := do(t, http.MethodPost, srvURL+TasksURL, `{"description": "no title"}`)
			require.Equal(t, http.StatusBadRequest, code)
			require.JSONEq(t, `
				{
					"detail": "Request validation failed",
					"fields": {"title": "This field is required"}
				}`, body)
		})
	})
}
