package common

import "errors"

var (
	// ErrNotFound indicates the referenced product, employee or vehicle does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned when user supplied values fail validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict indicates the write collides with an existing row or occupied slot.
	ErrConflict = errors.New("conflict")
)

// Kind is the coarse classification of an error shown to the terminal user.
type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindInvalidInput Kind = "invalid_input"
	KindConflict     Kind = "conflict"
	KindInternal     Kind = "internal"
)

// AppError represents an error with an attached code and user-facing message.
type AppError struct {
	Code    string
	Message string
	Kind    Kind
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap allows errors.Is/As to inspect the underlying error.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewAppError constructs an AppError.
func NewAppError(code, message string, kind Kind, err error) *AppError {
	return &AppError{Code: code, Message: message, Kind: kind, Err: err}
}

// KindOf classifies err against the sentinel errors.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Kind != "" {
		return appErr.Kind
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrConflict):
		return KindConflict
	default:
		return KindInternal
	}
}

// Describe renders err as a single line message for the interactive user.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	switch KindOf(err) {
	case KindNotFound:
		return "Error: " + err.Error()
	case KindInvalidInput:
		return "Error: " + err.Error()
	case KindConflict:
		return "Warning: " + err.Error()
	default:
		return "Unexpected error: " + err.Error()
	}
}
