package logging

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var (
	_ Logger = (*GuideLogger)(nil)
	_ Logger = NoOpLogger{}
	_ Logger = (*SlogAdapter)(nil)
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LogLevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LogLevelWarn, ParseLevel("warning"))
	assert.Equal(t, LogLevelError, ParseLevel(" error "))
	assert.Equal(t, LogLevelInfo, ParseLevel("verbose"))
}

func TestGuideLogger_ScopedAttributes(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelDebug, Format: "json", Output: &buf})

	scoped := l.WithComponent("supervisor").WithSession("session_1")
	scoped.Info("supervisor.dispatch.start", "chars", 5)

	out := buf.String()
	assert.Contains(t, out, `"component":"supervisor"`)
	assert.Contains(t, out, `"session_id":"session_1"`)
	assert.Contains(t, out, `"chars":5`)

	// the parent logger is not modified by With*
	buf.Reset()
	l.Info("plain")
	assert.NotContains(t, buf.String(), "session_id")
}

func TestGuideLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelWarn, Format: "text", Output: &buf})
	l.Info("hidden")
	l.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestGuideLogger_LogToolCall(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: &buf})

	l.LogToolCall("get_weather_info", 10*time.Millisecond, nil)
	assert.Contains(t, buf.String(), "tool.call.completed")

	buf.Reset()
	l.LogToolCall("get_weather_info", time.Millisecond, errors.New("boom"))
	assert.Contains(t, buf.String(), "tool.call.failed")
	assert.Contains(t, buf.String(), "boom")
}

func TestOrNoOp(t *testing.T) {
	assert.Equal(t, NoOpLogger{}, OrNoOp(nil))
	l := NewSlogLogger(LogLevelInfo, "text", false)
	assert.Equal(t, Logger(l), OrNoOp(l))
}
