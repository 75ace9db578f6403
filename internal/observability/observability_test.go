package observability

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lifeline/donor-registry/internal/config"
	apperrors "github.com/lifeline/donor-registry/pkg/util"
)

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "loud"}, config.AppConfig{Name: "svc"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = NewLogger(config.LoggerConfig{Level: "DEBUG"}, config.AppConfig{Name: "svc"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/auth/login", "POST", 200, 2*time.Millisecond)
	m.RecordRequest("/auth/login", "POST", 200, 4*time.Millisecond)
	m.RecordRequest("/auth/login", "POST", 403, time.Millisecond)
	m.RecordError("/auth/login", "POST", apperrors.CodePendingApproval)

	snap := m.Snapshot()
	assert.Equal(t, int64(3), snap.TotalRequests)
	assert.InDelta(t, 7.0/3.0, snap.AvgLatencyMilli, 0.01)
	require.Len(t, snap.Requests, 2)
	assert.Equal(t, "POST /auth/login|200", snap.Requests[0].Key)
	assert.Equal(t, int64(2), snap.Requests[0].Count)
	require.Len(t, snap.Errors, 1)
	assert.Equal(t, "POST /auth/login|PENDING_APPROVAL", snap.Errors[0].Key)

	var nilMetrics *Metrics
	nilMetrics.RecordRequest("/", "GET", 200, 0)
	assert.Equal(t, Snapshot{}, nilMetrics.Snapshot())
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	metrics := NewMetrics()

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(StatusFromError(err))
		},
	})
	app.Use(RequestLogger(zap.New(core), metrics))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/users/:id", func(c *fiber.Ctx) error { return apperrors.NewNotFound("user", nil) })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("boom") })

	for _, path := range []string{"/ok", "/users/42", "/boom"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		resp.Body.Close()
	}

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, int64(404), entries[1].ContextMap()["status"])
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)

	snap := metrics.Snapshot()
	keys := make([]string, 0, len(snap.Requests))
	for _, c := range snap.Requests {
		keys = append(keys, c.Key)
	}
	assert.Contains(t, keys, "GET /users/:id|404")
}

func TestStatusFromError(t *testing.T) {
	assert.Equal(t, 404, StatusFromError(fiber.ErrNotFound))
	assert.Equal(t, 429, StatusFromError(apperrors.NewTooManyAttempts(10)))
	assert.Equal(t, 500, StatusFromError(errors.New("x")))
}
