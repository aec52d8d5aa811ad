package logging

import "fmt"

// DefaultTruncateLimit is the field value cap applied by
// NewRunLogger. Captured panic causes and stack traces can run
// to many kilobytes; diagnostics only need their head.
const DefaultTruncateLimit = 2048

// TruncatingLogger is a decorator that caps the rendered length
// of string field values before passing them to the inner
// logger. Messages are left untouched, they are short fixed
// strings throughout the engine.
type TruncatingLogger struct {
	inner Logger
	limit int
}

// NewTruncatingLogger creates a logger that truncates string
// field values longer than limit runes. A non-positive limit
// selects DefaultTruncateLimit.
func NewTruncatingLogger(
	inner Logger,
	limit int,
) *TruncatingLogger {
	if limit <= 0 {
		limit = DefaultTruncateLimit
	}
	return &TruncatingLogger{inner: inner, limit: limit}
}

func (t *TruncatingLogger) truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= t.limit {
		return s
	}
	return string(runes[:t.limit]) + fmt.Sprintf(
		"... (%d more)", len(runes)-t.limit,
	)
}

func (t *TruncatingLogger) truncateFields(
	fields []Field,
) []Field {
	result := make([]Field, len(fields))
	for i, f := range fields {
		if str, ok := f.Value.(string); ok {
			result[i] = Field{
				Key:   f.Key,
				Value: t.truncate(str),
			}
		} else {
			result[i] = f
		}
	}
	return result
}

// Info logs an informational message with capped field values.
func (t *TruncatingLogger) Info(
	msg string, fields ...Field,
) {
	t.inner.Info(msg, t.truncateFields(fields)...)
}

// Warn logs a warning message with capped field values.
func (t *TruncatingLogger) Warn(
	msg string, fields ...Field,
) {
	t.inner.Warn(msg, t.truncateFields(fields)...)
}

// Error logs an error message with capped field values.
func (t *TruncatingLogger) Error(
	msg string, fields ...Field,
) {
	t.inner.Error(msg, t.truncateFields(fields)...)
}

// Debug logs a debug message with capped field values.
func (t *TruncatingLogger) Debug(
	msg string, fields ...Field,
) {
	t.inner.Debug(msg, t.truncateFields(fields)...)
}

// WithFields returns a TruncatingLogger wrapping a new inner
// logger with the given fields applied, capped like any others.
func (t *TruncatingLogger) WithFields(
	fields ...Field,
) Logger {
	return &TruncatingLogger{
		inner: t.inner.WithFields(
			t.truncateFields(fields)...,
		),
		limit: t.limit,
	}
}

// Close closes the inner logger.
func (t *TruncatingLogger) Close() error {
	return t.inner.Close()
}
