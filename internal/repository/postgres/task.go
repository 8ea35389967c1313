package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/nkiryanov/taskboard/internal/apperrors"
	"github.com/nkiryanov/taskboard/internal/models"
	"github.com/nkiryanov/taskboard/internal/repository"
)

type TaskRepo struct {
	DB DBTX
}

const createTask = `-- name: CreateTask
INSERT INTO tasks (title, description, completed, due_date)
VALUES ($1, $2, $3, $4)
RETURNING id, title, description, completed, due_date, created_at, updated_at
`

func (r *TaskRepo) CreateTask(ctx context.Context, params repository.CreateTaskParams) (models.Task, error) {
	rows, _ := r.DB.Query(ctx, createTask, params.Title, params.Description, params.Completed, params.DueDate)
	task, err := pgx.CollectOneRow(rows, rowToTask)
	if err != nil {
		return task, dbError(err)
	}

	return task, nil
}

const listTasks = `-- name: ListTasks
SELECT id, title, description, completed, due_date, created_at, updated_at
FROM tasks
ORDER BY created_at DESC, id DESC
`

func (r *TaskRepo) ListTasks(ctx context.Context) ([]models.Task, error) {
	rows, _ := r.DB.Query(ctx, listTasks)
	tasks, err := pgx.CollectRows(rows, rowToTask)
	if err != nil {
		return nil, dbError(err)
	}

	return tasks, nil
}

const getTask = `-- name: GetTask
SELECT id, title, description, completed, due_date, created_at, updated_at
FROM tasks
WHERE id = $1
`

func (r *TaskRepo) GetTask(ctx context.Context, id int64) (models.Task, error) {
	rows, _ := r.DB.Query(ctx, getTask, id)
	task, err := pgx.CollectOneRow(rows, rowToTask)

	switch {
	case err == nil:
		return task, nil
	case errors.Is(err, pgx.ErrNoRows):
		return task, apperrors.ErrTaskNotFound
	default:
		return task, dbError(err)
	}
}

const updateTask = `-- name: UpdateTask
UPDATE tasks
SET title       = COALESCE($2, title),
    description = CASE WHEN $3 THEN NULL ELSE COALESCE($4, description) END,
    completed   = COALESCE($5, completed),
    due_date    = CASE WHEN $6 THEN NULL ELSE COALESCE($7, due_date) END,
    updated_at  = clock_timestamp()
WHERE id = $1
RETURNING id, title, description, completed, due_date, created_at, updated_at
`

// Update task fields, nil params keep current values and the Clear flags
// reset the nullable fields
func (r *TaskRepo) UpdateTask(ctx context.Context, id int64, params repository.UpdateTaskParams) (models.Task, error) {
	rows, _ := r.DB.Query(ctx, updateTask, id,
		params.Title,
		params.ClearDescription, params.Description,
		params.Completed,
		params.ClearDueDate, params.DueDate,
	)
	task, err := pgx.CollectOneRow(rows, rowToTask)

	switch {
	case err == nil:
		return task, nil
	case errors.Is(err, pgx.ErrNoRows):
		return task, apperrors.ErrTaskNotFound
	default:
		return task, dbError(err)
	}
}

const deleteTask = `-- name: DeleteTask
DELETE FROM tasks
WHERE id = $1
`

func (r *TaskRepo) DeleteTask(ctx context.Context, id int64) error {
	tag, err := r.DB.Exec(ctx, deleteTask, id)
	if err != nil {
		return dbError(err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrTaskNotFound
	}

	return nil
}

const toggleComplete = `-- name: ToggleComplete
UPDATE tasks
SET completed  = NOT completed,
    updated_at = clock_timestamp()
WHERE id = $1
RETURNING id, title, description, completed, due_date, created_at, updated_at
`

func (r *TaskRepo) ToggleComplete(ctx context.Context, id int64) (models.Task, error) {
	rows, _ := r.DB.Query(ctx, toggleComplete, id)
	task, err := pgx.CollectOneRow(rows, rowToTask)

	switch {
	case err == nil:
		return task, nil
	case errors.Is(err, pgx.ErrNoRows):
		return task, apperrors.ErrTaskNotFound
	default:
		return task, dbError(err)
	}
}

func rowToTask(row pgx.CollectableRow) (models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Completed, &t.DueDate, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}
