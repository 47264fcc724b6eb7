package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies service failures so the HTTP layer can map them to
// status codes without string matching.
type ErrorKind string

const (
	KindValidation      ErrorKind = "validation"
	KindUnauthenticated ErrorKind = "unauthenticated"
	KindForbidden       ErrorKind = "forbidden"
	KindNotFound        ErrorKind = "not_found"
	KindConflict        ErrorKind = "conflict"
	KindInternal        ErrorKind = "internal"
)

type ServiceError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Is lets sentinel comparison work through errors.Is even when a sentinel
// was wrapped with extra context.
func (e *ServiceError) Is(target error) bool {
	t, ok := target.(*ServiceError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// ===== SENTINEL ERRORS =====

var (
	ErrPostNotFound         = &ServiceError{Kind: KindNotFound, Message: "post not found"}
	ErrUserNotFound         = &ServiceError{Kind: KindNotFound, Message: "user not found"}
	ErrNotificationNotFound = &ServiceError{Kind: KindNotFound, Message: "notification not found"}

	ErrUsernameTaken      = &ServiceError{Kind: KindConflict, Message: "username is already taken"}
	ErrLastAdmin          = &ServiceError{Kind: KindConflict, Message: "cannot remove the last admin account"}
	ErrInvalidCredentials = &ServiceError{Kind: KindUnauthenticated, Message: "invalid username or password"}
	ErrMediaNotConfigured = &ServiceError{Kind: KindConflict, Message: "media storage is not configured"}
)

// ===== CONSTRUCTORS =====

func NewValidationError(err error) *ServiceError {
	return &ServiceError{Kind: KindValidation, Message: "validation failed", Err: err}
}

func NewPermissionError(userID uint, resource string, resourceID uint, action, reason string) *ServiceError {
	return &ServiceError{
		Kind:    KindForbidden,
		Message: fmt.Sprintf("user %d cannot %s %s %d: %s", userID, action, resource, resourceID, reason),
	}
}

func NewNotFoundError(resource string) *ServiceError {
	return &ServiceError{Kind: KindNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func NewConflictError(message string) *ServiceError {
	return &ServiceError{Kind: KindConflict, Message: message}
}

func NewInternalError(message string, err error) *ServiceError {
	return &ServiceError{Kind: KindInternal, Message: message, Err: err}
}

// KindOf extracts the error kind, defaulting to internal for plain errors.
func KindOf(err error) ErrorKind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}
