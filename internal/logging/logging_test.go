package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("info", "json", &buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("user created", RunID("r1"), Command("user add"), Username("alice"), Status(StatusSuccess))
	require.NoError(t, logger.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "user created", entry["msg"])
	assert.Equal(t, "r1", entry[KeyRunID])
	assert.Equal(t, "user add", entry[KeyCommand])
	assert.Equal(t, "alice", entry[KeyUsername])
	assert.Equal(t, StatusSuccess, entry[KeyStatus])
	assert.NotEmpty(t, entry["ts"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New("warn", "console", &buf)
	require.NoError(t, err)

	logger.Info("quiet")
	logger.Warn("loud", zap.Error(errors.New("boom")))

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "WARN")
	assert.Contains(t, buf.String(), "boom")
}

func TestNew_Invalid(t *testing.T) {
	_, err := New("loud", "json", &bytes.Buffer{})
	assert.Error(t, err)

	_, err = New("info", "xml", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestFields(t *testing.T) {
	assert.Equal(t, KeyCollection, Collection("/alice/calendar/").Key)
	assert.Equal(t, KeyComponent, Component("database").Key)
	assert.Equal(t, KeyDuration, Duration(time.Second).Key)
}

func TestSanitizePassword(t *testing.T) {
	assert.Equal(t, "<empty>", SanitizePassword(""))
	assert.Equal(t, "[redacted]", SanitizePassword("hunter2"))
	assert.NotContains(t, SanitizePassword("hunter2"), "hunter2")
}
