package repository

import (
	"context"
	"time"

	"github.com/nkiryanov/taskboard/internal/models"
)

// User repository interface
type UserRepo interface {
	// Create user
	// If user with the username exists already has to return apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, username string, email string, passwordHash string) (models.User, error)

	// Get user by it's id or username
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, id int64) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
}

type CreateTodoParams struct {
	UserID      int64
	Title       string
	Description string
	Completed   bool
}

// Fields to change on update. Nil pointer means "leave unchanged".
type UpdateTodoParams struct {
	Title       *string
	Description *string
	Completed   *bool
}

// Todo repository interface
// List and the keyed mutations filter by owner at the query level.
// GetTodo intentionally does not: the service compares owners itself to
// distinguish "not found" from "owned by someone else".
type TodoRepo interface {
	CreateTodo(ctx context.Context, params CreateTodoParams) (models.Todo, error)

	// List user todos ordered by creation time, newest first
	ListTodos(ctx context.Context, userID int64) ([]models.Todo, error)

	// Get todo by id regardless of the owner
	// If todo not found must return apperrors.ErrTodoNotFound
	GetTodo(ctx context.Context, id int64) (models.Todo, error)

	// Update todo owned by userID, refreshing updated_at
	// If no row matches both id and owner must return apperrors.ErrTodoNotFound
	UpdateTodo(ctx context.Context, id int64, userID int64, params UpdateTodoParams) (models.Todo, error)

	// Delete todo owned by userID
	// If no row matches both id and owner must return apperrors.ErrTodoNotFound
	DeleteTodo(ctx context.Context, id int64, userID int64) error
}

type CreateTaskParams struct {
	Title       string
	Description *string
	Completed   bool
	DueDate     *time.Time
}

// Nil pointer means "leave unchanged". The Clear flags set the nullable
// fields back to NULL, which a nil pointer alone can not express.
type UpdateTaskParams struct {
	Title            *string
	Description      *string
	ClearDescription bool
	Completed        *bool
	DueDate          *time.Time
	ClearDueDate     bool
}

// Task repository interface. Tasks have no owner, so no filtering applies.
// Not-found conditions must return apperrors.ErrTaskNotFound.
type TaskRepo interface {
	CreateTask(ctx context.Context, params CreateTaskParams) (models.Task, error)
	ListTasks(ctx context.Context) ([]models.Task, error)
	GetTask(ctx context.Context, id int64) (models.Task, error)
	UpdateTask(ctx context.Context, id int64, params UpdateTaskParams) (models.Task, error)
	DeleteTask(ctx context.Context, id int64) error
	ToggleComplete(ctx context.Context, id int64) (models.Task, error)
}

// Storage bundles all repositories backed by the same connection source
type Storage interface {
	User() UserRepo
	Todo() TodoRepo
	Task() TaskRepo
}
