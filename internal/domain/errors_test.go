// Copyright The Zoom Learning Platform Contributors.
// SPDX-License-Identifier: MIT

package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      *DomainError
		expected string
	}{
		{
			name:     "message only",
			err:      NewValidationError("missing event field"),
			expected: "missing event field",
		},
		{
			name:     "message with wrapped error",
			err:      NewInternalError("failed to store record", errors.New("connection refused")),
			expected: "failed to store record: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Error() != tt.expected {
				t.Errorf("expected error message %q, got %q", tt.expected, tt.err.Error())
			}
		})
	}
}

func TestGetErrorType(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorType
	}{
		{name: "validation", err: NewValidationError("bad input"), expected: ErrorTypeValidation},
		{name: "unauthorized", err: NewUnauthorizedError("bad signature"), expected: ErrorTypeUnauthorized},
		{name: "not found", err: NewNotFoundError("missing"), expected: ErrorTypeNotFound},
		{name: "conflict", err: NewConflictError("revision mismatch"), expected: ErrorTypeConflict},
		{name: "internal", err: NewInternalError("boom"), expected: ErrorTypeInternal},
		{name: "unavailable", err: NewUnavailableError("store down"), expected: ErrorTypeUnavailable},
		{name: "wrapped domain error", err: fmt.Errorf("outer: %w", NewUnauthorizedError("bad signature")), expected: ErrorTypeUnauthorized},
		{name: "plain error defaults to internal", err: errors.New("plain"), expected: ErrorTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetErrorType(tt.err); got != tt.expected {
				t.Errorf("expected error type %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestDomainErrorUnwrap(t *testing.T) {
	inner := errors.New("inner")
	err := NewInternalError("outer", inner)
	if !errors.Is(err, inner) {
		t.Error("expected wrapped error to be reachable via errors.Is")
	}
}
