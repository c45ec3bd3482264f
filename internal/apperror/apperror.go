// Package apperror defines the application error type shared by services and handlers.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType categorises an application error.
type ErrorType int

const (
	InternalError ErrorType = iota
	ValidationError
	BadRequestError
	AuthError
	ForbiddenError
	NotFoundError
	ConflictError
	ExternalServiceError
	UnavailableError
)

// AppError carries a user-facing message and the underlying cause.
type AppError struct {
	Type    ErrorType
	Message string
	Details any
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status for the error type.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case ValidationError, BadRequestError:
		return http.StatusBadRequest
	case AuthError:
		return http.StatusUnauthorized
	case ForbiddenError:
		return http.StatusForbidden
	case NotFoundError:
		return http.StatusNotFound
	case ConflictError:
		return http.StatusConflict
	case ExternalServiceError:
		return http.StatusBadGateway
	case UnavailableError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// ToResponse drops the underlying cause; only Message reaches the client.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message, Details: e.Details}
}

func New(t ErrorType, message string, err error) *AppError {
	return &AppError{Type: t, Message: message, Err: err}
}

func NewValidation(message string, details any) *AppError {
	return &AppError{Type: ValidationError, Message: message, Details: details}
}

func NewBadRequest(message string) *AppError {
	return New(BadRequestError, message, nil)
}

func NewAuth(message string) *AppError {
	return New(AuthError, message, nil)
}

func NewForbidden(message string) *AppError {
	return New(ForbiddenError, message, nil)
}

func NewNotFound(message string) *AppError {
	return New(NotFoundError, message, nil)
}

func NewConflict(message string) *AppError {
	return New(ConflictError, message, nil)
}

func NewExternal(message string, err error) *AppError {
	return New(ExternalServiceError, message, err)
}

func NewUnavailable(message string) *AppError {
	return New(UnavailableError, message, nil)
}

func NewInternal(message string, err error) *AppError {
	return New(InternalError, message, err)
}

// From returns the *AppError in err's chain, or wraps err as an internal error.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternal("Internal server error", err)
}

// Is reports whether err is an *AppError of type t.
func Is(err error, t ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == t
}
