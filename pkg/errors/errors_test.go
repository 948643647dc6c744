package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodePolicyViolation, "slot duration mismatch", http.StatusUnprocessableEntity)

	if err.Code != CodePolicyViolation {
		t.Errorf("expected code %s, got %s", CodePolicyViolation, err.Code)
	}
	if err.Message != "slot duration mismatch" {
		t.Errorf("expected message 'slot duration mismatch', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "resource not found",
			},
			expected: "NOT_FOUND: resource not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("connection refused"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: connection refused)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appErr.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	appErr := Internal("wrapped", originalErr)

	unwrapped := errors.Unwrap(appErr)
	if unwrapped != originalErr {
		t.Errorf("Unwrap() should return original error")
	}
}

func TestPolicyViolation(t *testing.T) {
	err := PolicyViolation("slot_duration", "reservation must span exactly one slot")

	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
	if err.Details["rule"] != "slot_duration" {
		t.Errorf("expected rule detail 'slot_duration', got %v", err.Details["rule"])
	}
}

func TestCancellationClosed_DistinctFromConflict(t *testing.T) {
	closed := CancellationClosed("past the cancellation cutoff")
	conflict := Conflict("slot already booked")

	if closed.Code == conflict.Code {
		t.Error("cancellation-window rejection must carry its own code")
	}
	if closed.HTTPStatus == http.StatusConflict {
		t.Error("cancellation-window rejection is not retryable and must not look like a conflict")
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFoundWithID("Reservation", "abc123")
	if got := AsAppError(appErr); got != appErr {
		t.Error("AsAppError should return the same AppError instance")
	}

	plain := errors.New("boom")
	wrapped := AsAppError(plain)
	if wrapped.Code != CodeInternal {
		t.Errorf("expected code %s for plain error, got %s", CodeInternal, wrapped.Code)
	}
	if !errors.Is(wrapped, plain) {
		t.Error("wrapped error should unwrap to the original")
	}
}
