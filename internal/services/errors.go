package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/school-directory/internal/validator"
)

var (
	// ErrStoreUnavailable is returned when the store could not serve a read or write.
	// The underlying cause is logged, never shown to callers.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrRequestTimeout is returned when the request deadline passed or the caller went away.
	ErrRequestTimeout = errors.New("request timed out")

	ErrMissingField  = validator.ErrMissingField
	ErrInvalidFormat = validator.ErrInvalidFormat
)

// OperationError records which operation failed and why
type OperationError struct {
	Operation string
	Kind      error
	Cause     error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Operation, e.Kind, e.Cause)
}

func (e *OperationError) Unwrap() []error {
	return []error{e.Kind, e.Cause}
}

// IsValidationError reports whether err was produced by the validation policy
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMissingField) || errors.Is(err, ErrInvalidFormat)
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	return ctx.Err() != nil
}
