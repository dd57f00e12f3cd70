package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "test message: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}

	if err.Message != "test message: value" {
		t.Errorf("Message = %v, want %v", err.Message, "test message: value")
	}

	expected := "INVALID_INPUT: test message: value"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeSource, cause, "failed to read")

	if err.Code != ErrCodeSource {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeSource)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestSource(t *testing.T) {
	cause := errors.New("no such sheet")
	err := Source(cause, "read %s", "book.xlsx")

	if !Is(err, ErrCodeSource) {
		t.Errorf("Is(err, ErrCodeSource) = false, want true")
	}
	if got := err.Error(); got != "SOURCE_ERROR: read book.xlsx: no such sheet" {
		t.Errorf("Error() = %q", got)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeInvalidInput,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeSource,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeSource, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeSource,
			expected: true,
		},
		{
			name:     "schema error",
			err:      &SchemaError{Missing: "BTYP"},
			code:     ErrCodeSchema,
			expected: true,
		},
		{
			name:     "schema error behind fmt wrap",
			err:      fmt.Errorf("load: %w", &SchemaError{Missing: "M_NR"}),
			code:     ErrCodeSchema,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeNotFound, "test"),
			expected: ErrCodeNotFound,
		},
		{
			name:     "SchemaError type",
			err:      &SchemaError{Missing: "Z_MNR"},
			expected: ErrCodeSchema,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "Error with cause",
			err:      Wrap(ErrCodeSource, errors.New("permission denied"), "open data.xlsx"),
			expected: "open data.xlsx: permission denied",
		},
		{
			name:     "schema error",
			err:      &SchemaError{Missing: "BTYP", Available: []string{"A", "B"}},
			expected: `column "BTYP" not found; available columns: [A, B]`,
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSchemaError(t *testing.T) {
	err := &SchemaError{Missing: "M_NR", Available: []string{"BTYP", "Z_MNR"}}

	msg := err.Error()
	if !strings.HasPrefix(msg, "SCHEMA_ERROR: ") {
		t.Errorf("Error() = %q, want SCHEMA_ERROR prefix", msg)
	}
	for _, want := range []string{"M_NR", "BTYP", "Z_MNR"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, should mention %q", msg, want)
		}
	}
	if err.Code() != ErrCodeSchema {
		t.Errorf("Code() = %v, want %v", err.Code(), ErrCodeSchema)
	}

	var target *SchemaError
	if !errors.As(fmt.Errorf("wrapped: %w", err), &target) || target.Missing != "M_NR" {
		t.Error("errors.As should recover the SchemaError")
	}
}
