package todo

import (
	"context"

	"github.com/nkiryanov/taskboard/internal/apperrors"
	"github.com/nkiryanov/taskboard/internal/models"
	"github.com/nkiryanov/taskboard/internal/repository"
)

// TodoService scopes every operation to the authenticated user.
//
// Ownership is checked twice on purpose: the repo queries filter by
// user_id, and the service compares owners on the fetched record as well.
// Either check alone would be enough today, the duplication protects
// against a future query change quietly dropping the filter.
type TodoService struct {
	todoRepo repository.TodoRepo
}

type CreateParams struct {
	Title       string
	Description string
	Completed   bool
}

func NewService(todoRepo repository.TodoRepo) *TodoService {
	return &TodoService{todoRepo: todoRepo}
}

// List returns the user's todos, newest first
func (s *TodoService) List(ctx context.Context, user models.User) ([]models.Todo, error) {
	return s.todoRepo.ListTodos(ctx, user.ID)
}

// Create makes a new todo owned by the user. The owner comes from the
// authenticated identity only, never from the payload.
func (s *TodoService) Create(ctx context.Context, user models.User, params CreateParams) (models.Todo, error) {
	return s.todoRepo.CreateTodo(ctx, repository.CreateTodoParams{
		UserID:      user.ID,
		Title:       params.Title,
		Description: params.Description,
		Completed:   params.Completed,
	})
}

// Get returns the todo if the user owns it.
// Missing record and foreign record fail differently: ids are opaque,
// so telling "not yours" from "not there" leaks nothing useful.
func (s *TodoService) Get(ctx context.Context, user models.User, id int64) (models.Todo, error) {
	return s.getOwned(ctx, user, id)
}

// Update changes the fields set in params, refreshing updated_at.
// Owner and created_at are not reachable through this path.
func (s *TodoService) Update(ctx context.Context, user models.User, id int64, params repository.UpdateTodoParams) (models.Todo, error) {
	if _, err := s.getOwned(ctx, user, id); err != nil {
		return models.Todo{}, err
	}

	return s.todoRepo.UpdateTodo(ctx, id, user.ID, params)
}

// Delete removes the todo if the user owns it
func (s *TodoService) Delete(ctx context.Context, user models.User, id int64) error {
	if _, err := s.getOwned(ctx, user, id); err != nil {
		return err
	}

	return s.todoRepo.DeleteTodo(ctx, id, user.ID)
}

func (s *TodoService) getOwned(ctx context.Context, user models.User, id int64) (models.Todo, error) {
	t, err := s.todoRepo.GetTodo(ctx, id)
	if err != nil {
		return models.Todo{}, err
	}

	if t.UserID != user.ID {
		return models.Todo{}, apperrors.ErrForbidden
	}

	return t, nil
}
