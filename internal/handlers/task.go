package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/nkiryanov/taskboard/internal/apperrors"
	"github.com/nkiryanov/taskboard/internal/handlers/render"
	"github.com/nkiryanov/taskboard/internal/logger"
	"github.com/nkiryanov/taskboard/internal/models"
	"github.com/nkiryanov/taskboard/internal/repository"
)

type TaskResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func taskResponse(t models.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

var jsonNull = []byte("null")

// rawString reads a nullable string field, telling apart an absent field,
// an explicit null and a value
func rawString(raw json.RawMessage) (value *string, clear bool, err error) {
	if raw == nil {
		return nil, false, nil
	}
	if bytes.Equal(raw, jsonNull) {
		return nil, true, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false, err
	}
	return &s, false, nil
}

// rawTime is rawString for nullable timestamp fields
func rawTime(raw json.RawMessage) (value *time.Time, clear bool, err error) {
	if raw == nil {
		return nil, false, nil
	}
	if bytes.Equal(raw, jsonNull) {
		return nil, true, nil
	}

	var ts time.Time
	if err := json.Unmarshal(raw, &ts); err != nil {
		return nil, false, err
	}
	return &ts, false, nil
}

func renderTaskError(w http.ResponseWriter, l logger.Logger, err error) {
	if errors.Is(err, apperrors.ErrTaskNotFound) {
		render.Error(w, "Not found", http.StatusNotFound)
		return
	}
	l.Error("task operation failed", "error", err.Error())
	render.InternalError(w, err)
}

func handleTaskList(ts taskService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tasks, err := ts.List(r.Context())
		if err != nil {
			renderTaskError(w, l, err)
			return
		}

		res := make([]TaskResponse, 0, len(tasks))
		for _, t := range tasks {
			res = append(res, taskResponse(t))
		}

		render.JSON(w, res)
	})
}

func handleTaskCreate(ts taskService, l logger.Logger) http.Handler {
	type request struct {
		Title       string     `json:"title" validate:"required,max=255"`
		Description *string    `json:"description"`
		Completed   bool       `json:"completed"`
		DueDate     *time.Time `json:"due_date"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		title := strings.TrimSpace(data.Title)
		if title == "" {
			render.FieldError(w, "title", "This field may not be blank")
			return
		}

		created, err := ts.Create(r.Context(), repository.CreateTaskParams{
			Title:       title,
			Description: data.Description,
			Completed:   data.Completed,
			DueDate:     data.DueDate,
		})
		if err != nil {
			renderTaskError(w, l, err)
			return
		}

		render.JSONWithStatus(w, taskResponse(created), http.StatusCreated)
	})
}

func handleTaskGet(ts taskService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			render.Error(w, "Not found", http.StatusNotFound)
			return
		}

		t, err := ts.Get(r.Context(), id)
		if err != nil {
			renderTaskError(w, l, err)
			return
		}

		render.JSON(w, taskResponse(t))
	})
}

func handleTaskUpdate(ts taskService, l logger.Logger) http.Handler {
	type request struct {
		Title       string          `json:"title" validate:"required,max=255"`
		Description json.RawMessage `json:"description"`
		Completed   *bool           `json:"completed"`
		DueDate     json.RawMessage `json:"due_date"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			render.Error(w, "Not found", http.StatusNotFound)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		title := strings.TrimSpace(data.Title)
		if title == "" {
			render.FieldError(w, "title", "This field may not be blank")
			return
		}

		description, clearDescription, err := rawString(data.Description)
		if err != nil {
			render.FieldError(w, "description", "Invalid value")
			return
		}
		dueDate, clearDueDate, err := rawTime(data.DueDate)
		if err != nil {
			render.FieldError(w, "due_date", "Invalid value")
			return
		}

		updated, err := ts.Update(r.Context(), id, repository.UpdateTaskParams{
			Title:            &title,
			Description:      description,
			ClearDescription: clearDescription,
			Completed:        data.Completed,
			DueDate:          dueDate,
			ClearDueDate:     clearDueDate,
		})
		if err != nil {
			renderTaskError(w, l, err)
			return
		}

		render.JSON(w, taskResponse(updated))
	})
}

func handleTaskPatch(ts taskService, l logger.Logger) http.Handler {
	type request struct {
		Title       *string         `json:"title" validate:"omitempty,max=255"`
		Description json.RawMessage `json:"description"`
		Completed   *bool           `json:"completed"`
		DueDate     json.RawMessage `json:"due_date"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			render.Error(w, "Not found", http.StatusNotFound)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		description, clearDescription, err := rawString(data.Description)
		if err != nil {
			render.FieldError(w, "description", "Invalid value")
			return
		}
		dueDate, clearDueDate, err := rawTime(data.DueDate)
		if err != nil {
			render.FieldError(w, "due_date", "Invalid value")
			return
		}

		params := repository.UpdateTaskParams{
			Description:      description,
			ClearDescription: clearDescription,
			Completed:        data.Completed,
			DueDate:          dueDate,
			ClearDueDate:     clearDueDate,
		}
		if data.Title != nil {
			title := strings.TrimSpace(*data.Title)
			if title == "" {
				render.FieldError(w, "title", "This field may not be blank")
				return
			}
			params.Title = &title
		}

		updated, err := ts.Update(r.Context(), id, params)
		if err != nil {
			renderTaskError(w, l, err)
			return
		}

		render.JSON(w, taskResponse(updated))
	})
}

func handleTaskDelete(ts taskService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			render.Error(w, "Not found", http.StatusNotFound)
			return
		}

		if err := ts.Delete(r.Context(), id); err != nil {
			renderTaskError(w, l, err)
			return
		}

		render.NoContent(w)
	})
}

func handleTaskToggle(ts taskService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			render.Error(w, "Not found", http.StatusNotFound)
			return
		}

		t, err := ts.ToggleComplete(r.Context(), id)
		if err != nil {
			renderTaskError(w, l, err)
			return
		}

		render.JSON(w, taskResponse(t))
	})
}
