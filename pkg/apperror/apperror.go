package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	ErrValidation         = errors.New("validation_error")
	ErrDuplicateUser      = errors.New("duplicate_user")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrNoChange           = errors.New("no_change")
	ErrUserNotFound       = errors.New("user_not_found")
	ErrStore              = errors.New("store_error")
	ErrUnavailable        = errors.New("service_unavailable")
)

// AppError is the error shape every use case returns. Message is safe to
// show to a client; Details and Err are for logs only.
type AppError struct {
	BaseError error
	Message   string
	Details   string
	Err       error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (Details: %s, Cause: %v)", e.BaseError.Error(), e.Message, e.Details, e.Err)
	}
	return fmt.Sprintf("%s: %s (Details: %s)", e.BaseError.Error(), e.Message, e.Details)
}

func (e *AppError) Unwrap() error {
	return e.BaseError
}

func NewAppError(base error, msg, details string, err error) *AppError {
	return &AppError{BaseError: base, Message: msg, Details: details, Err: err}
}

func NewValidation(msg, details string) *AppError {
	return NewAppError(ErrValidation, msg, details, nil)
}

func NewDuplicateUser(email string) *AppError {
	return NewAppError(ErrDuplicateUser, "User already exists", fmt.Sprintf("user with email '%s' already exists", email), nil)
}

func NewInvalidCredentials(details string) *AppError {
	return NewAppError(ErrInvalidCredentials, "Invalid credentials", details, nil)
}

func NewNoChange(details string) *AppError {
	return NewAppError(ErrNoChange, "No changes made", details, nil)
}

func NewUserNotFound(email string) *AppError {
	return NewAppError(ErrUserNotFound, "User not found", fmt.Sprintf("user with email '%s' was not found", email), nil)
}

// NewStore wraps a failure of the document store. msg is the client-facing
// summary, e.g. "Error adding course".
func NewStore(msg, details string, err error) *AppError {
	return NewAppError(ErrStore, msg, details, err)
}

func NewUnavailable(details string, err error) *AppError {
	return NewAppError(ErrUnavailable, "Service unavailable", details, err)
}

func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrDuplicateUser),
		errors.Is(err, ErrNoChange),
		errors.Is(err, ErrUserNotFound):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// ToJSON renders the client view: the message and an opaque error code.
// Details and causes never leave the process.
func (e *AppError) ToJSON() gin.H {
	return gin.H{
		"error":   e.BaseError.Error(),
		"message": e.Message,
	}
}
