package task

import (
	"context"

	"github.com/nkiryanov/taskboard/internal/models"
	"github.com/nkiryanov/taskboard/internal/repository"
)

// TaskService manages the public task collection. There is no identity
// involved: every caller sees and mutates the same records.
type TaskService struct {
	taskRepo repository.TaskRepo
}

func NewService(taskRepo repository.TaskRepo) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// List returns all tasks, newest first
func (s *TaskService) List(ctx context.Context) ([]models.Task, error) {
	return s.taskRepo.ListTasks(ctx)
}

func (s *TaskService) Create(ctx context.Context, params repository.CreateTaskParams) (models.Task, error) {
	return s.taskRepo.CreateTask(ctx, params)
}

func (s *TaskService) Get(ctx context.Context, id int64) (models.Task, error) {
	return s.taskRepo.GetTask(ctx, id)
}

func (s *TaskService) Update(ctx context.Context, id int64, params repository.UpdateTaskParams) (models.Task, error) {
	return s.taskRepo.UpdateTask(ctx, id, params)
}

func (s *TaskService) Delete(ctx context.Context, id int64) error {
	return s.taskRepo.DeleteTask(ctx, id)
}

// ToggleComplete flips the completed flag and refreshes updated_at
func (s *TaskService) ToggleComplete(ctx context.Context, id int64) (models.Task, error) {
	return s.taskRepo.ToggleComplete(ctx, id)
}
