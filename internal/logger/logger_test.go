package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriterLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, slog.LevelInfo)

	l.Debug("hidden")
	l.Info("visible", "key", "value")

	output := buf.String()
	assert.NotContains(t, output, "hidden")
	assert.Contains(t, output, "visible")
	assert.Contains(t, output, "key=value")
}

func TestWriterLoggerPrintfVariants(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, slog.LevelDebug)

	l.Debugf("listing %d accesses", 3)
	l.Warnf("plain message")

	output := buf.String()
	assert.Contains(t, output, "listing 3 accesses")
	assert.Contains(t, output, "plain message")
}

func TestNoopLoggerDiscards(t *testing.T) {
	// Must not panic with any argument shape.
	l := NoopLogger{}
	l.Debug("x")
	l.Errorf("y %d", 1)
}
