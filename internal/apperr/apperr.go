package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidation      Code = "VALIDATION_FAILED"
	CodeConflict        Code = "CONFLICT"
	CodeUnavailable     Code = "UNAVAILABLE"
	CodeInternal        Code = "INTERNAL"
)

// AppError is a typed application error carrying a stable code the HTTP
// layer maps to a status. Cause is kept for logs, never serialized.
type AppError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

func New(code Code, message string) error {
	return &AppError{Code: code, Message: message}
}

func Wrap(code Code, message string, cause error) error {
	return &AppError{Code: code, Message: message, Cause: cause}
}

func Unauthenticated(msg string) error { return New(CodeUnauthenticated, msg) }
func Forbidden(msg string) error       { return New(CodeForbidden, msg) }
func NotFound(msg string) error        { return New(CodeNotFound, msg) }
func Validation(msg string) error      { return New(CodeValidation, msg) }
func Conflict(msg string) error        { return New(CodeConflict, msg) }
func Unavailable(msg string) error     { return New(CodeUnavailable, msg) }
func Internal(msg string) error        { return New(CodeInternal, msg) }

// Status maps an error to an HTTP status code. Errors that are not
// AppErrors count as internal.
func Status(err error) int {
	var app *AppError
	if !errors.As(err, &app) {
		return http.StatusInternalServerError
	}
	switch app.Code {
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation:
		return http.StatusBadRequest
	case CodeConflict:
		return http.StatusConflict
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Write sends the error as a JSON body with the mapped status. Unknown
// errors are masked with a generic message so store internals never
// reach clients.
func Write(w http.ResponseWriter, err error) {
	var app *AppError
	if !errors.As(err, &app) {
		app = &AppError{Code: CodeInternal, Message: "internal error"}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(Status(err))
	json.NewEncoder(w).Encode(map[string]string{
		"error": app.Message,
		"code":  string(app.Code),
	})
}
