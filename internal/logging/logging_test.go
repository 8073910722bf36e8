package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFinalizeDefaultsAndEnv(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Finalize(nil))
	assert.Equal(t, LevelInfo, cfg.Level)
	assert.Equal(t, FormatText, cfg.Format)

	t.Setenv("TEST_LOG_LEVEL", "debug")
	t.Setenv("TEST_LOG_FORMAT", "json")
	cfg = &Config{Level: LevelWarn}
	require.NoError(t, cfg.Finalize(&Env{Level: "TEST_LOG_LEVEL", Format: "TEST_LOG_FORMAT"}))
	assert.Equal(t, LevelDebug, cfg.Level)
	assert.Equal(t, FormatJSON, cfg.Format)
}

func TestFinalizeRejectsInvalidValues(t *testing.T) {
	assert.Error(t, (&Config{Level: "verbose"}).Finalize(nil))
	assert.Error(t, (&Config{Format: "xml"}).Finalize(nil))
}

func TestFinalizeNormalizes(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		level  Level
		format Format
	}{
		{"upper case", Config{Level: "DEBUG", Format: "JSON"}, LevelDebug, FormatJSON},
		{"warning alias", Config{Level: "Warning"}, LevelWarn, FormatText},
		{"padded", Config{Level: " error ", Format: " text"}, LevelError, FormatText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			require.NoError(t, cfg.Finalize(nil))
			assert.Equal(t, tt.level, cfg.Level)
			assert.Equal(t, tt.format, cfg.Format)
		})
	}
}

func TestFinalizeSourceFromEnv(t *testing.T) {
	env := &Env{Source: "TEST_LOG_SOURCE"}

	t.Setenv("TEST_LOG_SOURCE", "true")
	cfg := &Config{}
	require.NoError(t, cfg.Finalize(env))
	assert.True(t, cfg.Source)

	t.Setenv("TEST_LOG_SOURCE", "nonsense")
	cfg = &Config{}
	require.NoError(t, cfg.Finalize(env))
	assert.False(t, cfg.Source)
}

func TestNewWithWriterSource(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(&Config{Level: LevelInfo, Format: FormatJSON, Source: true}, &buf).Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Contains(t, entry, slog.SourceKey)
}

func TestMerge(t *testing.T) {
	base := &Config{Level: LevelInfo, Format: FormatJSON}
	base.Merge(&Config{Level: LevelDebug, Source: true})
	assert.Equal(t, LevelDebug, base.Level)
	assert.Equal(t, FormatJSON, base.Format)
	assert.True(t, base.Source)

	base.Merge(&Config{})
	assert.True(t, base.Source)
}

func TestToSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LevelDebug.ToSlogLevel())
	assert.Equal(t, slog.LevelWarn, LevelWarn.ToSlogLevel())
	assert.Equal(t, slog.LevelError, LevelError.ToSlogLevel())
	assert.Equal(t, slog.LevelInfo, Level("unknown").ToSlogLevel())
}

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&Config{Level: LevelWarn, Format: FormatJSON}, &buf)

	logger.Info("dropped")
	logger.Warn("kept", "file", "app.js")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "app.js", entry["file"])
}
