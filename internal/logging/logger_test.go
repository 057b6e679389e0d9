package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{
		Level:  LevelWarn,
		Format: "text",
		Output: &buf,
	})

	ctx := context.Background()

	logger.Debug(ctx, "debug message")
	logger.Info(ctx, "info message")
	assert.Empty(t, buf.String())

	logger.Warn(ctx, nil, "warn message")
	assert.Contains(t, buf.String(), "warn message")
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{
		Level:  LevelInfo,
		Format: "json",
		Output: &buf,
	})

	logger.With("user_id", 42).Info(context.Background(), "created user", "username", "alice")

	out := buf.String()
	assert.Contains(t, out, `"user_id":42`)
	assert.Contains(t, out, `"username":"alice"`)
	assert.Contains(t, out, "created user")
}

func TestLoggerComponentAndError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{
		Level:  LevelInfo,
		Format: "json",
		Output: &buf,
	})

	logger.WithComponent("users").Error(context.Background(), errors.New("boom"), "operation failed")

	out := buf.String()
	assert.Contains(t, out, `"component":"users"`)
	assert.Contains(t, out, `"error":"boom"`)
}

func TestNopLogger(t *testing.T) {
	var logger Logger = NopLogger{}

	// Must be safe to call with any arguments and chain freely.
	logger.With("k", "v").WithComponent("x").Info(context.Background(), "ignored")
	logger.Error(context.Background(), errors.New("ignored"), "ignored")
}
