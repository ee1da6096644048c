package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Map classifies an external error into the kaiwa taxonomy. Errors that
// already carry a sentinel pass through unchanged.
func Map(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timeout: %w", ErrTransient)
	}

	for _, sentinel := range []error{
		ErrConfig, ErrAuth, ErrTransient, ErrPermissionDenied,
		ErrInvalidInput, ErrNotFound, ErrConflict, ErrDesync, ErrInternal,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}

	errStr := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errStr, "api key"), strings.Contains(errStr, "unauthorized"), strings.Contains(errStr, "invalid authentication"), strings.Contains(errStr, "forbidden"):
		return fmt.Errorf("%v: %w", err, ErrAuth)

	case strings.Contains(errStr, "rate limit"), strings.Contains(errStr, "quota"), strings.Contains(errStr, "too many requests"):
		return fmt.Errorf("%v: %w", err, ErrTransient)

	case strings.Contains(errStr, "timeout"), strings.Contains(errStr, "deadline exceeded"):
		return fmt.Errorf("%v: %w", err, ErrTransient)

	case strings.Contains(errStr, "connection"), strings.Contains(errStr, "network"), strings.Contains(errStr, "unreachable"), strings.Contains(errStr, "no such host"):
		return fmt.Errorf("%v: %w", err, ErrTransient)

	case strings.Contains(errStr, "not found"), strings.Contains(errStr, "does not exist"):
		return fmt.Errorf("%v: %w", err, ErrNotFound)

	case strings.Contains(errStr, "invalid input"), strings.Contains(errStr, "bad request"), strings.Contains(errStr, "invalid request"):
		return fmt.Errorf("%v: %w", err, ErrInvalidInput)

	default:
		return fmt.Errorf("%v: %w", err, ErrInternal)
	}
}

// IsRetryable reports whether the turn loop may retry the failed API
// call within its bounded retry budget.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	return errors.Is(err, ErrTransient)
}

// IsFatal reports whether the process should exit instead of returning
// control to the user.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrConfig) ||
		errors.Is(err, ErrAuth) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrDesync)
}

// Category returns the taxonomy name for an error, for log fields.
func Category(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfig):
		return "ErrConfig"
	case errors.Is(err, ErrAuth):
		return "ErrAuth"
	case errors.Is(err, ErrTransient):
		return "ErrTransient"
	case errors.Is(err, ErrPermissionDenied):
		return "ErrPermissionDenied"
	case errors.Is(err, ErrInvalidInput):
		return "ErrInvalidInput"
	case errors.Is(err, ErrNotFound):
		return "ErrNotFound"
	case errors.Is(err, ErrConflict):
		return "ErrConflict"
	case errors.Is(err, ErrDesync):
		return "ErrDesync"
	default:
		return "ErrInternal"
	}
}
