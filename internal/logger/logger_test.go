package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/talentscout/internal/logger"
)

func fixedClock() time.Time {
	return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
}

func TestTextFormat_PrefixAndSortedFields(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithColors(false),
		logger.WithClock(fixedClock),
	).WithPrefix("profile_repo").WithFields(map[string]any{"user_id": "u1", "attempt": 2})

	log.Info("upserted %s", "youth_athletes")

	line := buf.String()
	assert.True(t, strings.HasPrefix(line, "2024-05-01 12:30:00.000 INFO "))
	assert.Contains(t, line, "[profile_repo]")
	assert.Contains(t, line, "upserted youth_athletes attempt=2 user_id=u1")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithLevel(logger.WARN), logger.WithColors(false))

	log.Debug("hidden")
	log.Info("hidden")
	log.Warn("shown")

	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
	assert.False(t, log.Enabled(logger.INFO))
	assert.True(t, log.Enabled(logger.ERROR))
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithFormat(logger.FormatJSON),
		logger.WithClock(fixedClock),
	).WithPrefix("handlers").WithField("user_id", "u1")

	log.Error("write failed: %s", "23505")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "write failed: 23505", entry["msg"])
	assert.Equal(t, "handlers", entry["component"])
	assert.Equal(t, "u1", entry["user_id"])
	assert.Equal(t, "2024-05-01T12:30:00Z", entry["ts"])
}

func TestDerivedLoggersDoNotShareFields(t *testing.T) {
	var buf bytes.Buffer
	base := logger.New(logger.WithOutput(&buf), logger.WithColors(false))
	a := base.WithField("a", 1)
	_ = a.WithField("b", 2)

	a.Info("x")
	assert.NotContains(t, buf.String(), "b=2")
}

func TestParseLevelAndFormat(t *testing.T) {
	assert.Equal(t, logger.DEBUG, logger.ParseLevel("debug"))
	assert.Equal(t, logger.WARN, logger.ParseLevel("warning"))
	assert.Equal(t, logger.INFO, logger.ParseLevel("nonsense"))
	assert.Equal(t, logger.FormatJSON, logger.ParseFormat(" JSON "))
	assert.Equal(t, logger.FormatText, logger.ParseFormat("logfmt"))
}

func TestContextRoundTrip(t *testing.T) {
	l := logger.New(logger.WithPrefix("req"))
	ctx := logger.NewContext(context.Background(), l)

	assert.Same(t, l, logger.FromContext(ctx))
	assert.Same(t, logger.Default(), logger.FromContext(context.Background()))
}
