package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThemaError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ThemaError
		expected string
	}{
		{
			name: "message only",
			err: &ThemaError{
				Type:    ErrorTypeValidation,
				Message: "user cannot be nil",
			},
			expected: "user cannot be nil",
		},
		{
			name: "code and message",
			err: &ThemaError{
				Type:    ErrorTypeConflict,
				Code:    "duplicate_login_provider",
				Message: "provider already linked",
			},
			expected: "[duplicate_login_provider] provider already linked",
		},
		{
			name: "component and cause",
			err: &ThemaError{
				Type:      ErrorTypeStorage,
				Code:      "commit_failed",
				Component: "session",
				Message:   "commit failed",
				Cause:     errors.New("disk full"),
			},
			expected: "[commit_failed] component:session commit failed: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestThemaError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewStorageError("commit_failed", "commit failed", cause)

	assert.Equal(t, cause, errors.Unwrap(err))
	assert.True(t, errors.Is(err, cause))
}

func TestThemaError_Is(t *testing.T) {
	a := NewConflictError("role_missing", "role does not exist")
	b := NewConflictError("role_missing", "different text, same identity")
	c := NewConflictError("duplicate_login_provider", "provider already linked")

	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, c))
}

func TestClassificationHelpers(t *testing.T) {
	validation := NewValidationError("nil_user", "user cannot be nil")
	notFound := NewNotFoundError("user_missing", "no such user")
	conflict := NewConflictError("role_missing", "role does not exist")
	storage := NewStorageError("commit_failed", "commit failed", errors.New("io"))

	assert.True(t, IsValidation(validation))
	assert.False(t, IsValidation(conflict))

	assert.True(t, IsNotFound(notFound))
	assert.True(t, IsConflict(conflict))
	assert.True(t, IsStorage(storage))

	// Wrapped errors keep their classification visible through the chain.
	wrapped := fmt.Errorf("outer: %w", conflict)
	assert.True(t, IsConflict(wrapped))
	assert.False(t, IsConflict(errors.New("plain")))
}

func TestWrap(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		assert.Nil(t, Wrap(nil, ErrorTypeStorage, "x", "y"))
	})

	t.Run("plain error becomes ThemaError", func(t *testing.T) {
		cause := errors.New("boom")
		wrapped := Wrap(cause, ErrorTypeStorage, "commit_failed", "commit failed")

		assert.Equal(t, ErrorTypeStorage, wrapped.Type)
		assert.Equal(t, cause, wrapped.Cause)
		assert.False(t, wrapped.Recoverable)
	})

	t.Run("existing ThemaError preserved as cause", func(t *testing.T) {
		inner := NewConflictError("role_missing", "role does not exist").WithComponent("users")
		wrapped := Wrap(inner, ErrorTypeInternal, "op_failed", "operation failed")

		assert.Equal(t, ErrorTypeInternal, wrapped.Type)
		assert.Equal(t, "users", wrapped.Component)
		assert.True(t, errors.Is(wrapped, inner))
	})
}

func TestWithContext(t *testing.T) {
	err := NewConflictError("role_missing", "role does not exist").
		WithContext("role", "editors").
		WithContext("user", "alice")

	assert.Equal(t, "editors", err.Context["role"])
	assert.Equal(t, "alice", err.Context["user"])
}
