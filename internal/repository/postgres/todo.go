package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/nkiryanov/taskboard/internal/apperrors"
	"github.com/nkiryanov/taskboard/internal/models"
	"github.com/nkiryanov/taskboard/internal/repository"
)

type TodoRepo struct {
	DB DBTX
}

const createTodo = `-- name: CreateTodo
INSERT INTO todos (user_id, title, description, completed)
VALUES ($1, $2, $3, $4)
RETURNING id, user_id, title, description, completed, created_at, updated_at
`

func (r *TodoRepo) CreateTodo(ctx context.Context, params repository.CreateTodoParams) (models.Todo, error) {
	rows, _ := r.DB.Query(ctx, createTodo, params.UserID, params.Title, params.Description, params.Completed)
	todo, err := pgx.CollectOneRow(rows, rowToTodo)
	if err != nil {
		return todo, dbError(err)
	}

	return todo, nil
}

const listTodos = `-- name: ListTodos
SELECT id, user_id, title, description, completed, created_at, updated_at
FROM todos
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
`

func (r *TodoRepo) ListTodos(ctx context.Context, userID int64) ([]models.Todo, error) {
	rows, _ := r.DB.Query(ctx, listTodos, userID)
	todos, err := pgx.CollectRows(rows, rowToTodo)
	if err != nil {
		return nil, dbError(err)
	}

	return todos, nil
}

const getTodo = `-- name: GetTodo
SELECT id, user_id, title, description, completed, created_at, updated_at
FROM todos
WHERE id = $1
`

// Get todo by id no matter who owns it
// The ownership comparison belongs to the service layer
func (r *TodoRepo) GetTodo(ctx context.Context, id int64) (models.Todo, error) {
	rows, _ := r.DB.Query(ctx, getTodo, id)
	todo, err := pgx.CollectOneRow(rows, rowToTodo)

	switch {
	case err == nil:
		return todo, nil
	case errors.Is(err, pgx.ErrNoRows):
		return todo, apperrors.ErrTodoNotFound
	default:
		return todo, dbError(err)
	}
}

const updateTodo = `-- name: UpdateTodo
UPDATE todos
SET title       = COALESCE($3, title),
    description = COALESCE($4, description),
    completed   = COALESCE($5, completed),
    updated_at  = clock_timestamp()
WHERE id = $1 AND user_id = $2
RETURNING id, user_id, title, description, completed, created_at, updated_at
`

// Update todo fields, nil params keep current values
// The owner filter in WHERE backs up the service level ownership check
func (r *TodoRepo) UpdateTodo(ctx context.Context, id int64, userID int64, params repository.UpdateTodoParams) (models.Todo, error) {
	rows, _ := r.DB.Query(ctx, updateTodo, id, userID, params.Title, params.Description, params.Completed)
	todo, err := pgx.CollectOneRow(rows, rowToTodo)

	switch {
	case err == nil:
		return todo, nil
	case errors.Is(err, pgx.ErrNoRows):
		return todo, apperrors.ErrTodoNotFound
	default:
		return todo, dbError(err)
	}
}

const deleteTodo = `-- name: DeleteTodo
DELETE FROM todos
WHERE id = $1 AND user_id = $2
`

func (r *TodoRepo) DeleteTodo(ctx context.Context, id int64, userID int64) error {
	tag, err := r.DB.Exec(ctx, deleteTodo, id, userID)
	if err != nil {
		return dbError(err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrTodoNotFound
	}

	return nil
}

func rowToTodo(row pgx.CollectableRow) (models.Todo, error) {
	var t models.Todo
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}
