package logging

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunLogger_QuietWithoutFileIsNull(t *testing.T) {
	logger := NewRunLogger(false, "")
	assert.IsType(t, NullLogger{}, logger)
}

func TestNewRunLogger_VerboseWrapsConsole(t *testing.T) {
	logger := NewRunLogger(true, "")

	tl, ok := logger.(*TruncatingLogger)
	require.True(t, ok)
	assert.IsType(t, &ConsoleLogger{}, tl.inner)
	assert.NoError(t, logger.Close())
}

func TestNewRunLogger_FileOnlyWritesJSONLines(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "run.log")

	logger := NewRunLogger(false, logPath)
	logger.Info(
		"suite_finished",
		StringField("suite", "calc.fact"),
		IntField("verified", 3),
	)
	require.NoError(t, logger.Close())

	entries := readEntries(t, logPath)
	require.Len(t, entries, 1)
	assert.Equal(t, "suite_finished", entries[0].Message)
	assert.Equal(t, "calc.fact", entries[0].Fields["suite"])
}

func TestNewRunLogger_FileIsInfoLevelWhenQuiet(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "run.log")

	logger := NewRunLogger(false, logPath)
	logger.Debug("suite_started")
	logger.Info("monitor server started")
	require.NoError(t, logger.Close())

	entries := readEntries(t, logPath)
	require.Len(t, entries, 1)
	assert.Equal(t, "monitor server started", entries[0].Message)
}

func TestNewRunLogger_VerboseAndFileFanOut(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "run.log")

	logger := NewRunLogger(true, logPath)

	tl, ok := logger.(*TruncatingLogger)
	require.True(t, ok)
	assert.IsType(t, &MultiLogger{}, tl.inner)

	logger.Debug("suite_started", StringField("suite", "calc.fact"))
	require.NoError(t, logger.Close())

	entries := readEntries(t, logPath)
	require.Len(t, entries, 1)
	assert.Equal(t, "DEBUG", entries[0].Level)
}

func TestNewRunLogger_UnopenableFileFallsBack(t *testing.T) {
	// A directory at the log path makes the open fail.
	logPath := t.TempDir()

	quiet := NewRunLogger(false, logPath)
	assert.IsType(t, NullLogger{}, quiet)

	verbose := NewRunLogger(true, logPath)
	tl, ok := verbose.(*TruncatingLogger)
	require.True(t, ok)
	assert.IsType(t, &ConsoleLogger{}, tl.inner)
}

func TestNewRunLogger_TruncatesUnboundedValues(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "run.log")

	logger := NewRunLogger(false, logPath)

	long := make([]byte, DefaultTruncateLimit+100)
	for i := range long {
		long[i] = 'x'
	}
	logger.Info("fact_errored", StringField("cause", string(long)))
	require.NoError(t, logger.Close())

	entries := readEntries(t, logPath)
	require.Len(t, entries, 1)
	cause, ok := entries[0].Fields["cause"].(string)
	require.True(t, ok)
	assert.Contains(t, cause, "... (100 more)")
}
