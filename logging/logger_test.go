package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(buf *bytes.Buffer, level LogLevel) *BusLogger {
	return NewLogger(&LoggerConfig{Level: level, Format: "json", Output: buf})
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestBusLogger_ContextualAttributes(t *testing.T) {
	var buf bytes.Buffer
	base := newTestLogger(&buf, LogLevelDebug)

	base.WithComponent("ocean").WithUboot("foo").WithChannel("x").WithContext("region", "eu").Info("hello", "n", 1)
	base.Info("plain")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)

	assert.Equal(t, "hello", entries[0]["msg"])
	assert.Equal(t, "ocean", entries[0]["component"])
	assert.Equal(t, "foo", entries[0]["uboot_id"])
	assert.Equal(t, "x", entries[0]["channel_id"])
	assert.Equal(t, "eu", entries[0]["region"])
	assert.InDelta(t, 1, entries[0]["n"], 0)

	assert.NotContains(t, entries[1], "component", "With* helpers do not modify the receiver")
	assert.NotContains(t, entries[1], "region")
}

func TestBusLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, LogLevelWarn)

	l.Debug("debug")
	l.Info("info")
	l.Warn("warn")
	l.Error("error")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "WARN", entries[0]["level"])
	assert.Equal(t, "ERROR", entries[1]["level"])
}

func TestBusLogger_LogDelivery(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, LogLevelDebug)

	l.LogDelivery("x", "foo", 2, 0, time.Millisecond)
	l.LogDelivery("x", "foo", 1, 1, time.Millisecond)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)

	assert.Equal(t, "Delivery completed", entries[0]["msg"])
	assert.Equal(t, "DEBUG", entries[0]["level"])
	assert.Equal(t, "Delivery completed with failures", entries[1]["msg"])
	assert.Equal(t, "WARN", entries[1]["level"])
	assert.InDelta(t, 1, entries[1]["failed"], 0)
}

func TestBusLogger_LogHandler(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, LogLevelDebug)

	l.LogHandler("receiver", "foo", time.Millisecond, nil)
	l.LogHandler("mutator", "foo", time.Millisecond, errors.New("boom"))

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)

	assert.Equal(t, "Handler completed", entries[0]["msg"])
	assert.Equal(t, true, entries[0]["success"])
	assert.Equal(t, "Handler failed", entries[1]["msg"])
	assert.Equal(t, "boom", entries[1]["error"])
	assert.Equal(t, "mutator", entries[1]["kind"])
}

func TestBusLogger_ErrorWithStack(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, LogLevelInfo)

	l.ErrorWithStack(errors.New("boom"), "failed")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "boom", entries[0]["error"])
	assert.Equal(t, "*errors.errorString", entries[0]["error_type"])
	assert.NotEmpty(t, entries[0]["stack_trace"])
}

func TestLogLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", LogLevelDebug.String())
	assert.Equal(t, "ERROR", LogLevelError.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestNoOpLogger(t *testing.T) {
	var l Logger = NoOpLogger{}
	assert.NotPanics(t, func() {
		l.Debug("a")
		l.Info("b", "k", "v")
		l.Warn("c")
		l.Error("d")
	})
}
