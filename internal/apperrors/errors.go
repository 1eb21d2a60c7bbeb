package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrInvalidAmount indicates a non-positive or malformed monetary amount.
var ErrInvalidAmount = fmt.Errorf("%w: invalid amount", ErrValidation)

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the resource is not in the state the operation expected
// (for example a transaction that has already been decided).
var ErrConflict = errors.New("resource state conflict")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller is known but not allowed to perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrInsufficientFunds indicates a withdrawal larger than the current balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrStorage indicates an I/O or transaction failure in the storage layer. Callers may retry.
var ErrStorage = errors.New("storage failure")

// AppError carries an HTTP-ish status code alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewStorageError wraps a storage-layer failure so that errors.Is(err, ErrStorage) holds.
func NewStorageError(message string, err error) error {
	return NewAppError(http.StatusServiceUnavailable, message, errors.Join(ErrStorage, err))
}
