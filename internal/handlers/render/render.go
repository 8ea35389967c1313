package render

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nkiryanov/taskboard/internal/apperrors"
)

var validate = validator.New()

func init() {
	// Report on json tag name instead of struct field name
	// Look at documentation of 'RegisterTagNameFunc' for more details
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		// skip if tag key says it should be ignored
		if name == "-" {
			return ""
		}
		return name
	})
}

type Struct any

// Every error body carries at least 'detail'
type ErrorResponse struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, data any) {
	JSONWithStatus(w, data, http.StatusOK)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error renders an error body with the given status code
func Error(w http.ResponseWriter, detail string, code int) {
	JSONWithStatus(w, ErrorResponse{Detail: detail}, code)
}

// InternalError maps an unexpected error to 500, or to 503 when the
// backing store timed out or is unreachable
func InternalError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		Error(w, "Service temporarily unavailable", http.StatusServiceUnavailable)
	default:
		Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// FieldError renders a single per-field validation message.
// Used for checks that only the service layer can perform, like
// uniqueness or password policy.
func FieldError(w http.ResponseWriter, field string, message string) {
	JSONWithStatus(w, ErrorResponse{
		Detail: "Request validation failed",
		Fields: map[string]string{field: message},
	}, http.StatusBadRequest)
}

// DecodeError renders a json decoding failure
func DecodeError(w http.ResponseWriter, err error) {
	detail := "Invalid request"

	// Try to provide a more specific message based on error type
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		detail = fmt.Sprintf("Invalid data type for field '%s'", typeErr.Field)
	}

	JSONWithStatus(w, ErrorResponse{Detail: detail}, http.StatusBadRequest)
}

// ValidationErrors renders per-field validation messages
func ValidationErrors(w http.ResponseWriter, errs validator.ValidationErrors) {
	response := ErrorResponse{
		Detail: "Request validation failed",
		Fields: make(map[string]string, len(errs)),
	}

	// Create user friendly messages based on the validation tag
	for _, fieldError := range errs {
		var message string
		switch fieldError.Tag() {
		case "required":
			message = "This field is required"
		case "min":
			message = fmt.Sprintf("Value is too short (minimum %s)", fieldError.Param())
		case "max":
			message = fmt.Sprintf("Value is too long (maximum %s)", fieldError.Param())
		case "email":
			message = "Not a valid email address"
		default:
			message = "Invalid value"
		}

		response.Fields[fieldError.Field()] = message
	}

	JSONWithStatus(w, response, http.StatusBadRequest)
}

// BindAndValidate decodes JSON request body into type T and validates it using struct tags.
// Returns the decoded value and writes appropriate error responses for decoding or validation failures.
func BindAndValidate[T Struct](w http.ResponseWriter, r *http.Request) (T, error) {
	var value T

	err := json.NewDecoder(r.Body).Decode(&value)
	if err != nil {
		DecodeError(w, err)
		return value, err
	}

	err = validate.Struct(value)
	if err != nil {
		// pretty sure cast will be ok cause expecting T is valid struct
		errs := err.(validator.ValidationErrors)
		ValidationErrors(w, errs)
		return value, err
	}

	return value, nil
}

// JSONWithStatus sends data as json and enforces status code
func JSONWithStatus(w http.ResponseWriter, data any, code int) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)

	if err := enc.Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}
