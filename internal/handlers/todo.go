package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/nkiryanov/taskboard/internal/apperrors"
	"github.com/nkiryanov/taskboard/internal/handlers/render"
	"github.com/nkiryanov/taskboard/internal/handlers/userctx"
	"github.com/nkiryanov/taskboard/internal/logger"
	"github.com/nkiryanov/taskboard/internal/models"
	"github.com/nkiryanov/taskboard/internal/repository"
	"github.com/nkiryanov/taskboard/internal/service/todo"
)

// Todo on the wire. Owner stays server-side only.
type TodoResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func todoResponse(t models.Todo) TodoResponse {
	return TodoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func renderTodoError(w http.ResponseWriter, l logger.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrTodoNotFound):
		render.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, apperrors.ErrForbidden):
		render.Error(w, "You do not have permission to perform this action", http.StatusForbidden)
	default:
		l.Error("todo operation failed", "error", err.Error())
		render.InternalError(w, err)
	}
}

func handleTodoList(ts todoService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		todos, err := ts.List(r.Context(), user)
		if err != nil {
			renderTodoError(w, l, err)
			return
		}

		res := make([]TodoResponse, 0, len(todos))
		for _, t := range todos {
			res = append(res, todoResponse(t))
		}

		render.JSON(w, res)
	})
}

func handleTodoCreate(ts todoService, l logger.Logger) http.Handler {
	type request struct {
		Title       string `json:"title" validate:"required,max=255"`
		Description string `json:"description"`
		Completed   bool   `json:"completed"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		// Presentation level trim: the service never sees padded titles
		title := strings.TrimSpace(data.Title)
		if title == "" {
			render.FieldError(w, "title", "This field may not be blank")
			return
		}

		created, err := ts.Create(r.Context(), user, todo.CreateParams{
			Title:       title,
			Description: data.Description,
			Completed:   data.Completed,
		})
		if err != nil {
			renderTodoError(w, l, err)
			return
		}

		render.JSONWithStatus(w, todoResponse(created), http.StatusCreated)
	})
}

func handleTodoGet(ts todoService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		id, err := pathID(r)
		if err != nil {
			render.Error(w, "Not found", http.StatusNotFound)
			return
		}

		t, err := ts.Get(r.Context(), user, id)
		if err != nil {
			renderTodoError(w, l, err)
			return
		}

		render.JSON(w, todoResponse(t))
	})
}

// Full update: title is mandatory, missing optional fields stay unchanged
func handleTodoUpdate(ts todoService, l logger.Logger) http.Handler {
	type request struct {
		Title       string  `json:"title" validate:"required,max=255"`
		Description *string `json:"description"`
		Completed   *bool   `json:"completed"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

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

		updated, err := ts.Update(r.Context(), user, id, repository.UpdateTodoParams{
			Title:       &title,
			Description: data.Description,
			Completed:   data.Completed,
		})
		if err != nil {
			renderTodoError(w, l, err)
			return
		}

		render.JSON(w, todoResponse(updated))
	})
}

// Partial update: absent fields stay unchanged
func handleTodoPatch(ts todoService, l logger.Logger) http.Handler {
	type request struct {
		Title       *string `json:"title" validate:"omitempty,max=255"`
		Description *string `json:"description"`
		Completed   *bool   `json:"completed"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		id, err := pathID(r)
		if err != nil {
			render.Error(w, "Not found", http.StatusNotFound)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		params := repository.UpdateTodoParams{
			Description: data.Description,
			Completed:   data.Completed,
		}
		if data.Title != nil {
			title := strings.TrimSpace(*data.Title)
			if title == "" {
				render.FieldError(w, "title", "This field may not be blank")
				return
			}
			params.Title = &title
		}

		updated, err := ts.Update(r.Context(), user, id, params)
		if err != nil {
			renderTodoError(w, l, err)
			return
		}

		render.JSON(w, todoResponse(updated))
	})
}

func handleTodoDelete(ts todoService, l logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		id, err := pathID(r)
		if err != nil {
			render.Error(w, "Not found", http.StatusNotFound)
			return
		}

		if err := ts.Delete(r.Context(), user, id); err != nil {
			renderTodoError(w, l, err)
			return
		}

		render.NoContent(w)
	})
}
