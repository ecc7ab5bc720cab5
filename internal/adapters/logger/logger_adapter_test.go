package logger_adapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"korx-catalog/internal/core/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSlogAdapter_JSONWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogAdapter(SlogConfig{Writer: &buf, Level: slog.LevelDebug, IsJSON: true})

	log.WithFields(port.Fields{"use_case": "GetListing"}).Info("Use case started", port.Fields{"property_id": 7})

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "Use case started", line["msg"])
	assert.Equal(t, "GetListing", line["use_case"])
	assert.EqualValues(t, 7, line["property_id"])
}

func TestSlogAdapter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogAdapter(SlogConfig{Writer: &buf, Level: slog.LevelWarn})
	log.Info("hidden", nil)
	log.Debug("hidden", nil)
	assert.Zero(t, buf.Len())

	log.Error("shown", errors.New("boom"), nil)
	assert.Contains(t, buf.String(), "boom")
}

type fakePoster struct {
	tags     []string
	messages []map[string]interface{}
	closed   bool
}

func (f *fakePoster) Post(tag string, message interface{}) error {
	f.tags = append(f.tags, tag)
	f.messages = append(f.messages, message.(map[string]interface{}))
	return nil
}

func (f *fakePoster) Close() error {
	f.closed = true
	return nil
}

func TestFluentLoggerAdapter(t *testing.T) {
	poster := &fakePoster{}
	log := newFluentLoggerAdapter(poster, "korx-catalog", slog.LevelInfo)

	log.Debug("dropped", nil)
	scoped := log.WithFields(port.Fields{"draft_id": "d1"})
	scoped.Error("Failed to save draft", errors.New("tx aborted"), port.Fields{"step": "review"})

	require.Len(t, poster.messages, 1)
	assert.Equal(t, "korx-catalog.error", poster.tags[0])
	msg := poster.messages[0]
	assert.Equal(t, "Failed to save draft", msg["message"])
	assert.Equal(t, "tx aborted", msg["error"])
	assert.Equal(t, "d1", msg["draft_id"])
	assert.Equal(t, "review", msg["step"])

	assert.Empty(t, log.fields, "WithFields must not leak into the parent")
	require.NoError(t, log.Close())
	assert.True(t, poster.closed)
}

func TestMultiLoggerAdapter_FansOut(t *testing.T) {
	_, err := NewMultiLoggerAdapter()
	require.Error(t, err)

	core, logs := observer.New(zapcore.DebugLevel)
	first := NewZapAdapterFromLogger(zap.New(core))
	second := &fakePoster{}

	multi, err := NewMultiLoggerAdapter(first, newFluentLoggerAdapter(second, "", slog.LevelDebug))
	require.NoError(t, err)

	multi.WithFields(port.Fields{"component": "test"}).Warn("careful", nil)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "careful", entry.Message)
	assert.Equal(t, "test", entry.ContextMap()["component"])
	require.Len(t, second.messages, 1)
	assert.Equal(t, "warn", second.tags[0])
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLogLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("verbose"))
	assert.Equal(t, zapcore.WarnLevel, zapLevel("warn"))
}
