package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage describes a missing key in Redis.
	RedisNotFoundMessage = "redis key not found"
	// CatalogErrorMessage describes beer catalog failures.
	CatalogErrorMessage = "beer catalog operation failed"
)

// Kind classifies recoverable dialogue failures. Every kind resolves to a
// renderable action within the turn; none of them abort the conversation.
type Kind string

const (
	KindNone                    Kind = ""
	KindExtractionEmpty         Kind = "extraction_empty"
	KindSlotInvalid             Kind = "slot_invalid"
	KindSlotMissing             Kind = "slot_missing"
	KindGoalConflict            Kind = "goal_conflict"
	KindCollaboratorUnavailable Kind = "collaborator_unavailable"
	KindUnresolvedReference     Kind = "unresolved_reference"
)

// AppError wraps an underlying error with an HTTP status, safe message and
// an optional dialogue failure kind.
type AppError struct {
	Err     error
	Status  int
	Message string
	Kind    Kind
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with the provided information.
func New(err error, status int, message string) *AppError {
	return &AppError{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// NewKind creates an AppError tagged with a dialogue failure kind.
func NewKind(kind Kind, message string) *AppError {
	return &AppError{
		Status:  http.StatusUnprocessableEntity,
		Message: message,
		Kind:    kind,
	}
}

// KindOf extracts the dialogue failure kind from an error chain.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindNone
}

// Is reports whether the target matches the underlying error or the AppError itself.
func (e *AppError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// As allows casting to AppError or the wrapped error in a chain.
func (e *AppError) As(target any) bool {
	if errors.As(e.Err, target) {
		return true
	}
	if t, ok := target.(**AppError); ok {
		*t = e
		return true
	}
	return false
}
