package common

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "INFO", want: slog.LevelInfo},
		{input: "", want: slog.LevelInfo},
		{input: "warn", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewLogger_Formats(t *testing.T) {
	var buf bytes.Buffer

	logger, err := NewLogger(&buf, slog.LevelInfo, "json")
	require.NoError(t, err)
	logger.Info("hello", "month", "2025-03")
	assert.Contains(t, buf.String(), `"month":"2025-03"`)

	buf.Reset()
	logger, err = NewLogger(&buf, slog.LevelWarn, "console")
	require.NoError(t, err)
	logger.Info("dropped")
	assert.Empty(t, buf.String())

	_, err = NewLogger(&buf, slog.LevelInfo, "xml")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestUserError(t *testing.T) {
	inner := fmt.Errorf("statement day 40: %w", ErrInvalidDay)
	err := NewUserError("could not add card", inner)

	assert.Equal(t, "could not add card: statement day 40: day of month must be between 1 and 31", err.Error())
	assert.True(t, errors.Is(err, ErrInvalidDay))
	assert.True(t, IsUserError(err))
	assert.False(t, IsUserError(inner))

	bare := &UserError{UserMessage: "nothing to show"}
	assert.Equal(t, "nothing to show", bare.Error())
}

func TestLogHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, slog.LevelDebug, "json")
	require.NoError(t, err)

	prev := slog.Default()
	slog.SetDefault(logger)
	t.Cleanup(func() { slog.SetDefault(prev) })

	LogError(errors.New("disk full"), "Failed to import OFX file", Fields{"file": "march.qfx"})
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
	assert.Contains(t, buf.String(), `"error":"disk full"`)
	assert.Contains(t, buf.String(), `"file":"march.qfx"`)

	buf.Reset()
	LogInfo("Created automatic backup", Fields{"id": "auto-import-1"})
	assert.Contains(t, buf.String(), `"level":"INFO"`)
	assert.Contains(t, buf.String(), `"id":"auto-import-1"`)

	buf.Reset()
	LogDebug("Saved expenses", Fields{"inserted": 2})
	assert.Contains(t, buf.String(), `"level":"DEBUG"`)
	assert.Contains(t, buf.String(), `"inserted":2`)
}
