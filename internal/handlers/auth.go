package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/nkiryanov/taskboard/internal/apperrors"
	"github.com/nkiryanov/taskboard/internal/handlers/render"
	"github.com/nkiryanov/taskboard/internal/handlers/userctx"
	"github.com/nkiryanov/taskboard/internal/logger"
	"github.com/nkiryanov/taskboard/internal/models"
)

// Minimal user profile returned by register and me
type UserProfileResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func userProfile(u models.User) UserProfileResponse {
	return UserProfileResponse{ID: u.ID, Username: u.Username, Email: u.Email}
}

func handleRegister(as authService, l logger.Logger) http.Handler {
	type request struct {
		Username        string `json:"username" validate:"required,min=1,max=150"`
		Email           string `json:"email" validate:"omitempty,email"`
		Password        string `json:"password" validate:"required"`
		PasswordConfirm string `json:"password_confirm" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		user, err := as.Register(r.Context(), data.Username, data.Email, data.Password, data.PasswordConfirm)
		if err != nil {
			var policyErr *apperrors.PasswordPolicyError
			switch {
			case errors.Is(err, apperrors.ErrPasswordMismatch):
				render.FieldError(w, "password", "Passwords do not match")
			case errors.As(err, &policyErr):
				render.FieldError(w, "password", policyErr.Reason)
			case errors.Is(err, apperrors.ErrUserAlreadyExists):
				render.FieldError(w, "username", "A user with that username already exists")
			default:
				l.Error("user registration failed", "error", err.Error())
				render.InternalError(w, err)
			}
			return
		}

		render.JSONWithStatus(w, userProfile(user), http.StatusCreated)
	})
}

func handleLogin(as authService, l logger.Logger) http.Handler {
	type request struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	type response struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		pair, err := as.Login(r.Context(), data.Username, data.Password)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrInvalidCredentials):
				render.Error(w, "Invalid username or password", http.StatusUnauthorized)
			default:
				l.Error("login failed", "error", err.Error())
				render.InternalError(w, err)
			}
			return
		}

		render.JSON(w, response{Access: pair.Access.Value, Refresh: pair.Refresh.Value})
	})
}

func handleTokenRefresh(as authService, l logger.Logger) http.Handler {
	type request struct {
		Refresh string `json:"refresh" validate:"required"`
	}
	type response struct {
		Access string `json:"access"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		access, err := as.Refresh(r.Context(), data.Refresh)
		if err != nil {
			switch {
			case errors.Is(err, apperrors.ErrTokenExpired):
				render.Error(w, "Token is expired", http.StatusUnauthorized)
			case errors.Is(err, apperrors.ErrTokenInvalid), errors.Is(err, apperrors.ErrTokenRevoked):
				render.Error(w, "Token is invalid", http.StatusUnauthorized)
			default:
				l.Error("token refresh failed", "error", err.Error())
				render.InternalError(w, err)
			}
			return
		}

		render.JSON(w, response{Access: access.Value})
	})
}

func handleLogout(as authService) http.Handler {
	type request struct {
		Refresh string `json:"refresh"`
	}
	type response struct {
		Detail string `json:"detail"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The refresh token is optional and so is the whole body.
		// Whatever happens here, the caller gets a success: logout must
		// not reveal whether revocation is enforced.
		var data request
		if err := json.NewDecoder(r.Body).Decode(&data); err != nil && err != io.EOF {
			data.Refresh = ""
		}

		as.Logout(r.Context(), data.Refresh)

		render.JSON(w, response{Detail: "Logged out"})
	})
}

func handleUserMe() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, userProfile(user))
	})
}
