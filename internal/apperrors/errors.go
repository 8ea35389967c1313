package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPasswordMismatch   = errors.New("passwords do not match")

	ErrTokenExpired = errors.New("token is expired")
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenRevoked = errors.New("token is revoked")

	ErrTodoNotFound = errors.New("todo not found")
	ErrTaskNotFound = errors.New("task not found")

	// Record exists but belongs to a different user
	ErrForbidden = errors.New("permission denied")

	// Backing store unreachable or request deadline exceeded
	ErrUnavailable = errors.New("storage unavailable")
)

// PasswordPolicyError carries a user facing reason why a password was rejected
type PasswordPolicyError struct {
	Reason string
}

func (e *PasswordPolicyError) Error() string {
	return fmt.Sprintf("password rejected: %s", e.Reason)
}
