package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dispatch/core/logger"
)

type ridKey struct{}

func TestNewJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithProduction("svc"),
		logger.WithOutput(&buf),
		logger.WithContextValue("request_id", ridKey{}),
	)

	ctx := context.WithValue(context.Background(), ridKey{}, "r-1")
	log.InfoContext(ctx, "hello", logger.Method("GET"), logger.Error(nil))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "svc", rec["service"])
	assert.Equal(t, "GET", rec["method"])
	assert.Equal(t, "r-1", rec["request_id"])
	assert.NotContains(t, rec, "error")
}

func TestNewLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelWarn))
	log.Info("dropped")
	assert.Empty(t, buf.String())
	log.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNewDevelopment(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(logger.WithDevelopment("svc"), logger.WithOutput(&buf))
	log.Debug("debug line", logger.Component("router"))
	assert.Contains(t, buf.String(), "debug line")
	assert.Contains(t, buf.String(), "router")
}

func TestAttrHelpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Attr{}, logger.Error(nil))
	assert.Equal(t, slog.Attr{}, logger.RequestID(""))
	assert.Equal(t, slog.Attr{}, logger.Route(""))
	assert.Equal(t, slog.Attr{}, logger.Stack(nil))
	assert.Equal(t, slog.Attr{}, logger.Panic(nil))

	assert.Equal(t, "error", logger.Error(errors.New("x")).Key)
	assert.Equal(t, "route", logger.Route("/a").Key)
	assert.Equal(t, int64(404), logger.StatusCode(404).Value.Int64())
	assert.Equal(t, time.Second, logger.Duration(time.Second).Value.Duration())
	assert.Equal(t, "g", logger.Group("g", logger.Method("GET")).Key)
}

func TestNop(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() { logger.Nop().Error("ignored") })
}
