package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMap(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"auth by message", errors.New("Incorrect API key provided"), ErrAuth},
		{"rate limit", errors.New("429: rate limit exceeded"), ErrTransient},
		{"connection refused", errors.New("dial tcp: connection refused"), ErrTransient},
		{"timeout", errors.New("request timeout while waiting"), ErrTransient},
		{"unknown", errors.New("something odd"), ErrInternal},
		{"already classified", fmt.Errorf("wrapped: %w", ErrDesync), ErrDesync},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Map(tt.in)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("Map() = %v, want nil", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("Map(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMapPropagatesContextCancellation(t *testing.T) {
	got := Map(context.Canceled)
	if !errors.Is(got, context.Canceled) {
		t.Errorf("Map(context.Canceled) = %v", got)
	}
	if IsRetryable(got) {
		t.Error("cancelled context must not be retryable")
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(fmt.Errorf("x: %w", ErrTransient)) {
		t.Error("transient errors are retryable")
	}
	if IsRetryable(fmt.Errorf("x: %w", ErrAuth)) {
		t.Error("auth errors are not retryable")
	}
}

func TestIsFatal(t *testing.T) {
	for _, sentinel := range []error{ErrConfig, ErrAuth, ErrConflict, ErrDesync} {
		if !IsFatal(fmt.Errorf("x: %w", sentinel)) {
			t.Errorf("%v should be fatal", sentinel)
		}
	}
	for _, sentinel := range []error{ErrTransient, ErrPermissionDenied, ErrInvalidInput, ErrNotFound} {
		if IsFatal(fmt.Errorf("x: %w", sentinel)) {
			t.Errorf("%v should not be fatal", sentinel)
		}
	}
}

func TestCategory(t *testing.T) {
	if got := Category(fmt.Errorf("x: %w", ErrPermissionDenied)); got != "ErrPermissionDenied" {
		t.Errorf("Category() = %q", got)
	}
	if got := Category(errors.New("mystery")); got != "ErrInternal" {
		t.Errorf("Category() = %q", got)
	}
}
