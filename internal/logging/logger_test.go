package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/belphemur/opening-hours/internal/openinghours"
)

func TestSetLogLevel(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	tests := []struct {
		level    string
		expected zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{" warn ", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, SetLogLevel(tt.level))
			assert.Equal(t, tt.expected, zerolog.GlobalLevel())
		})
	}
}

func TestParseLevel_Invalid(t *testing.T) {
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestGetLogger_Component(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var buf bytes.Buffer
	InitializeWithWriter(false, &buf)

	logger := GetLogger("parser")
	logger.Info().Str("selector", "Mo-Fr").Msg("parsed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "parser", entry["component"])
	assert.Equal(t, "Mo-Fr", entry["selector"])
	assert.Equal(t, "parsed", entry["message"])
}

func TestStack_WrappedWeekDayError(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var buf bytes.Buffer
	InitializeWithWriter(false, &buf)

	_, err := openinghours.ParseWeekDay("mo")
	require.Error(t, err)
	wrapped := fmt.Errorf("range 0 of rule %q: %w", "shop", err)

	logger := GetLogger("main")
	logger.Error().Stack().Err(wrapped).Msg("Failed to save rule")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	stack, ok := entry[zerolog.ErrorStackFieldName].([]any)
	require.True(t, ok, "stack field missing: %s", buf.String())
	assert.NotEmpty(t, stack)
	assert.Contains(t, entry[zerolog.ErrorFieldName], `"mo" is not a valid week day`)
}
