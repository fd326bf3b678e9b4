package workspace

import (
	"errors"
	"fmt"
)

var (
	// ErrPolicyUpdating is returned by Submit while a previous update is in flight.
	ErrPolicyUpdating = errors.New("workspace update already in progress")
	// ErrAvatarUploading is returned by UploadAvatar while an upload is in flight.
	ErrAvatarUploading = errors.New("avatar upload already in progress")
	// ErrNotAllowed is returned when the user's betas do not include the free plan.
	ErrNotAllowed = errors.New("workspace settings are not available for this account")
)

// ValidationError describes one invalid form field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
