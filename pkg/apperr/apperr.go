// Package apperr defines the error taxonomy shared by the season service.
// The orchestrator routes on these categories: validation and not-found
// errors abort a call, conflicts are idempotent no-ops, transient errors are
// retried, fatal errors halt the season's progression.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed input, rejected before any state mutation
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks an unknown season, challenge or day
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a duplicate of an already-applied operation
	ErrConflict = errors.New("conflict")
	// ErrTransient marks a storage or network failure worth retrying
	ErrTransient = errors.New("transient error")
	// ErrFatal marks a logic failure that must halt progression, not be masked
	ErrFatal = errors.New("fatal logic error")
)

// Validationf wraps ErrValidation with a formatted message
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFoundf wraps ErrNotFound with a formatted message
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Conflictf wraps ErrConflict with a formatted message
func Conflictf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// Transientf wraps ErrTransient with a formatted message
func Transientf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrTransient, fmt.Sprintf(format, args...))
}

// Transient marks an underlying error as retryable while preserving it for
// errors.Is/As inspection.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrTransient, err)
}

// Fatalf wraps ErrFatal with a formatted message
func Fatalf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrFatal, fmt.Sprintf(format, args...))
}

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsNotFound reports whether err is a not-found error
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConflict reports whether err is an idempotent-conflict error
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

// IsTransient reports whether err is retryable
func IsTransient(err error) bool { return errors.Is(err, ErrTransient) }

// IsFatal reports whether err must halt progression
func IsFatal(err error) bool { return errors.Is(err, ErrFatal) }
