package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/nkiryanov/taskboard/internal/handlers/middleware"
	"github.com/nkiryanov/taskboard/internal/logger"
	"github.com/nkiryanov/taskboard/internal/models"
	"github.com/nkiryanov/taskboard/internal/repository"
	"github.com/nkiryanov/taskboard/internal/service/todo"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

// pathID parses the {id} path segment. Non-numeric values mean the
// resource can not exist, callers answer 404 rather than 400.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func NewRouter(
	authService authService,
	todoService todoService,
	taskService taskService,
	logger logger.Logger,
	requestTimeout time.Duration,
) http.Handler {
	authMiddleware := middleware.AuthMiddleware(authService)
	withAuth := func(h http.Handler) http.Handler {
		return authMiddleware(h)
	}

	root := http.NewServeMux()

	root.Handle("GET /health", handleHealth())

	root.Handle("POST /auth/register", handleRegister(authService, logger))
	root.Handle("POST /auth/login", handleLogin(authService, logger))
	root.Handle("POST /auth/refresh", handleTokenRefresh(authService, logger))
	root.Handle("POST /auth/logout", withAuth(handleLogout(authService)))
	root.Handle("GET /auth/me", withAuth(handleUserMe()))

	root.Handle("GET /api/todos", withAuth(handleTodoList(todoService, logger)))
	root.Handle("POST /api/todos", withAuth(handleTodoCreate(todoService, logger)))
	root.Handle("GET /api/todos/{id}", withAuth(handleTodoGet(todoService, logger)))
	root.Handle("PUT /api/todos/{id}", withAuth(handleTodoUpdate(todoService, logger)))
	root.Handle("PATCH /api/todos/{id}", withAuth(handleTodoPatch(todoService, logger)))
	root.Handle("DELETE /api/todos/{id}", withAuth(handleTodoDelete(todoService, logger)))

	root.Handle("GET /tasks", handleTaskList(taskService, logger))
	root.Handle("POST /tasks", handleTaskCreate(taskService, logger))
	root.Handle("GET /tasks/{id}", handleTaskGet(taskService, logger))
	root.Handle("PUT /tasks/{id}", handleTaskUpdate(taskService, logger))
	root.Handle("PATCH /tasks/{id}", handleTaskPatch(taskService, logger))
	root.Handle("DELETE /tasks/{id}", handleTaskDelete(taskService, logger))
	root.Handle("POST /tasks/{id}/toggle-complete", handleTaskToggle(taskService, logger))

	handler := chain(root,
		middleware.LoggerMiddleware(logger),
		middleware.TimeoutMiddleware(requestTimeout),
	)

	return handler
}

type authService interface {
	// Register user
	// Has to return apperrors.ErrPasswordMismatch if confirmation differs,
	// apperrors.PasswordPolicyError if the password fails the policy and
	// apperrors.ErrUserAlreadyExists if the username is taken
	Register(ctx context.Context, username string, email string, password string, passwordConfirm string) (models.User, error)

	// Login user with username and password
	// Has to return apperrors.ErrInvalidCredentials on any failure
	Login(ctx context.Context, username string, password string) (models.TokenPair, error)

	// Mint a new access token from a refresh token
	// Has to return apperrors.ErrTokenExpired or apperrors.ErrTokenInvalid
	Refresh(ctx context.Context, refresh string) (models.IssuedToken, error)

	// Revoke the refresh token, best effort
	Logout(ctx context.Context, refresh string)

	// Resolve an access token into the user it was issued for
	UserFromToken(ctx context.Context, access string) (models.User, error)
}

type todoService interface {
	List(ctx context.Context, user models.User) ([]models.Todo, error)
	Create(ctx context.Context, user models.User, params todo.CreateParams) (models.Todo, error)
	Get(ctx context.Context, user models.User, id int64) (models.Todo, error)
	Update(ctx context.Context, user models.User, id int64, params repository.UpdateTodoParams) (models.Todo, error)
	Delete(ctx context.Context, user models.User, id int64) error
}

type taskService interface {
	List(ctx context.Context) ([]models.Task, error)
	Create(ctx context.Context, params repository.CreateTaskParams) (models.Task, error)
	Get(ctx context.Context, id int64) (models.Task, error)
	Update(ctx context.Context, id int64, params repository.UpdateTaskParams) (models.Task, error)
	Delete(ctx context.Context, id int64) error
	ToggleComplete(ctx context.Context, id int64) (models.Task, error)
}
