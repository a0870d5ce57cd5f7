// FILE: logdot/src/internal/service/service_test.go
package service

import (
	"context"
	"log/slog"
	"testing"

	"logdot/src/internal/config"
	"logdot/src/internal/filter"
	"logdot/src/internal/transport"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func newTestLogger() *log.Logger {
	return log.NewLogger()
}

func dryRunConfig() *config.Config {
	cfg := config.Default()
	cfg.Client.DryRun = true
	cfg.Client.Hostname = "svc-host"
	cfg.Metrics.EntityName = "svc-host"
	cfg.Metrics.EntityDescription = "Go app: svc-host"
	return cfg
}

func TestNewService_DryRun(t *testing.T) {
	s, err := NewService(dryRunConfig(), newTestLogger())
	require.NoError(t, err)
	defer s.Shutdown()

	require.NotNil(t, s.DryRun())
	assert.Nil(t, s.Handler())

	assert.True(t, s.Logs().Info("hello", nil))
	require.Equal(t, 1, s.DryRun().Count(transport.LogSingle))
	assert.Equal(t, "svc-host", gjson.Get(s.DryRun().Body(0), "hostname").String())

	stats := s.GetStats()
	assert.Equal(t, true, stats["dry_run"])
	assert.Contains(t, stats, "transport")
}

func TestNewService_HTTPTransport(t *testing.T) {
	cfg := config.Default()
	cfg.Client.APIKey = "key"
	cfg.Client.Hostname = "h"

	s, err := NewService(cfg, newTestLogger())
	require.NoError(t, err)
	defer s.Shutdown()

	assert.Nil(t, s.DryRun())
	ts := s.GetStats()["transport"].(map[string]any)
	assert.Equal(t, "http", ts["type"])
}

func TestNewService_NilConfig(t *testing.T) {
	_, err := NewService(nil, newTestLogger())
	assert.Error(t, err)
}

func TestService_CaptureLogging(t *testing.T) {
	cfg := dryRunConfig()
	cfg.Capture.Logging = true
	cfg.Capture.Level = "info"
	cfg.Capture.Name = "app"

	prev := slog.Default()
	s, err := NewService(cfg, newTestLogger())
	require.NoError(t, err)
	require.NotNil(t, s.Handler())

	slog.Debug("below level")
	slog.Info("captured", "user", "ann")

	s.Shutdown()
	assert.Same(t, prev, slog.Default())
	slog.Info("after shutdown")

	mem := s.DryRun()
	require.Equal(t, 1, mem.Count(transport.LogSingle))
	body := mem.Body(0)
	assert.Equal(t, "captured", gjson.Get(body, "message").String())
	assert.Equal(t, "app", gjson.Get(body, "tags.logger_name").String())
	assert.Equal(t, "ann", gjson.Get(body, "tags.user").String())
}

func TestService_CaptureFilters(t *testing.T) {
	cfg := dryRunConfig()
	cfg.Capture.Logging = true
	cfg.Capture.Filters = []filter.Config{
		{Type: filter.TypeExclude, Patterns: []string{"heartbeat"}},
	}

	s, err := NewService(cfg, newTestLogger())
	require.NoError(t, err)

	slog.Info("heartbeat ok")
	slog.Info("order placed")
	s.Shutdown()

	mem := s.DryRun()
	require.Equal(t, 1, mem.Count(transport.LogSingle))
	assert.Equal(t, "order placed", gjson.Get(mem.Body(0), "message").String())
	assert.Contains(t, s.GetStats(), "capture_filters")
}

func TestService_InvalidCaptureFilter(t *testing.T) {
	cfg := dryRunConfig()
	cfg.Capture.Logging = true
	cfg.Capture.Filters = []filter.Config{{Patterns: []string{"("}}}

	prev := slog.Default()
	_, err := NewService(cfg, newTestLogger())
	assert.Error(t, err)
	assert.Same(t, prev, slog.Default())
}

func TestService_InvalidCaptureLevel(t *testing.T) {
	cfg := dryRunConfig()
	cfg.Capture.Logging = true
	cfg.Capture.Level = "loud"

	prev := slog.Default()
	_, err := NewService(cfg, newTestLogger())
	assert.Error(t, err)
	assert.Same(t, prev, slog.Default())
}

func TestService_Entity(t *testing.T) {
	s, err := NewService(dryRunConfig(), newTestLogger())
	require.NoError(t, err)
	defer s.Shutdown()

	ec, err := s.Entity(context.Background())
	require.NoError(t, err)
	again, err := s.Entity(context.Background())
	require.NoError(t, err)
	assert.Same(t, ec, again)
	assert.Equal(t, 1, s.DryRun().Count(transport.EntityCreate))

	assert.True(t, ec.Send("jobs", 3, "count", nil))
	assert.NotNil(t, s.Middleware())
}

func TestService_ShutdownTwice(t *testing.T) {
	s, err := NewService(dryRunConfig(), newTestLogger())
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		s.Shutdown()
		s.Shutdown()
	})
}
