// FILE: logdot/src/internal/service/service.go
package service

import (
	"context"
	"fmt"
	"io"
	"sync"

	"logdot/src/internal/capture"
	"logdot/src/internal/config"
	"logdot/src/internal/filter"
	"logdot/src/internal/logging"
	"logdot/src/internal/metrics"
	"logdot/src/internal/middleware"
	"logdot/src/internal/transport"

	"github.com/lixenwraith/log"
)

// Service wires configuration into a transport, the logging and metrics
// clients and the optional capture layer.
type Service struct {
	config *config.Config
	logger *log.Logger

	transport transport.Transport
	dryRun    *transport.Memory

	logs    *logging.Client
	metrics *metrics.Client
	cache   metrics.EntityCache
	handler *capture.Handler
	filters *filter.Chain

	restoreSlog  func()
	printCapture bool

	entityMu sync.Mutex
	entity   *metrics.EntityClient

	mu     sync.Mutex
	closed bool
}

// NewService builds a service from a validated configuration.
func NewService(cfg *config.Config, logger *log.Logger) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	s := &Service{
		config: cfg,
		logger: logger,
	}

	if cfg.Client.DryRun {
		s.dryRun = transport.NewMemory()
		s.transport = s.dryRun
		logger.Info("msg", "Dry run enabled, requests are recorded and not sent",
			"component", "service")
	} else {
		h, err := transport.NewHTTP(&cfg.Client, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create transport: %w", err)
		}
		s.transport = h
	}

	cache, err := metrics.NewCache(cfg.Metrics.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to create entity cache: %w", err)
	}
	s.cache = cache

	s.logs = logging.NewClient(s.transport, cfg.Client.Hostname, cfg.Logger, logger)
	s.metrics = metrics.NewClient(s.transport, cache, logger)

	if err := s.startCapture(); err != nil {
		s.Shutdown()
		return nil, err
	}

	logger.Debug("msg", "Service initialized",
		"component", "service",
		"hostname", cfg.Client.Hostname,
		"capture_logging", cfg.Capture.Logging,
		"capture_print", cfg.Capture.Print)
	return s, nil
}

func (s *Service) startCapture() error {
	capCfg := s.config.Capture
	if !capCfg.Logging && !capCfg.Print {
		return nil
	}

	chain, err := filter.NewChain(capCfg.Filters, s.logger)
	if err != nil {
		return fmt.Errorf("invalid capture filters: %w", err)
	}
	s.filters = chain
	sink := capture.Filtered(s.logs, chain)

	if capCfg.Logging {
		level, err := capture.LevelFor(capCfg.Level)
		if err != nil {
			return fmt.Errorf("invalid capture level: %w", err)
		}
		s.handler = capture.NewHandler(sink, &capture.HandlerOptions{
			Level: level,
			Name:  capCfg.Name,
		})
		s.restoreSlog = capture.InstallDefault(s.handler)
	}

	if capCfg.Print {
		err := capture.EnablePrintCapture(sink, capture.PrintOptions{
			Rate:  capCfg.RateLimit.Rate,
			Burst: capCfg.RateLimit.Burst,
		})
		if err != nil {
			return fmt.Errorf("failed to enable print capture: %w", err)
		}
		s.printCapture = true
	}
	return nil
}

// Logs returns the root logging client.
func (s *Service) Logs() *logging.Client {
	return s.logs
}

// Metrics returns the metrics client.
func (s *Service) Metrics() *metrics.Client {
	return s.metrics
}

// Handler returns the installed slog handler, nil when logging capture is off.
func (s *Service) Handler() *capture.Handler {
	return s.handler
}

// DryRun returns the recording transport, nil unless dry run is enabled.
func (s *Service) DryRun() *transport.Memory {
	return s.dryRun
}

// Middleware builds the HTTP request middleware from configuration.
func (s *Service) Middleware() *middleware.RequestLogger {
	return middleware.NewRequestLogger(s.config.Middleware, s.config.Metrics, s.logs, s.metrics, s.logger)
}

// Entity resolves the configured metrics entity once and returns its client.
// Failures are not remembered.
func (s *Service) Entity(ctx context.Context) (*metrics.EntityClient, error) {
	s.entityMu.Lock()
	defer s.entityMu.Unlock()

	if s.entity != nil {
		return s.entity, nil
	}

	e, err := s.metrics.GetOrCreateEntity(ctx, s.config.Metrics.EntityName, s.config.Metrics.EntityDescription, nil)
	if err != nil {
		return nil, err
	}
	s.entity = s.metrics.ForEntity(e.ID)
	return s.entity, nil
}

// Shutdown removes the capture layer and releases the entity cache. Pending
// batches are not flushed. Safe to call more than once.
func (s *Service) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true

	if s.printCapture {
		capture.DisablePrintCapture()
		s.printCapture = false
	}
	if s.restoreSlog != nil {
		s.restoreSlog()
		s.restoreSlog = nil
	}
	if closer, ok := s.cache.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			s.logger.Warn("msg", "Failed to close entity cache",
				"component", "service",
				"error", err)
		}
	}

	s.logger.Debug("msg", "Service shutdown complete", "component", "service")
}

// GetStats returns transport and capture statistics.
func (s *Service) GetStats() map[string]any {
	stats := map[string]any{
		"hostname":        s.config.Client.Hostname,
		"dry_run":         s.dryRun != nil,
		"capture_logging": s.handler != nil,
	}
	if sp, ok := s.transport.(interface{ GetStats() map[string]any }); ok {
		stats["transport"] = sp.GetStats()
	}
	if pc := capture.PrintCaptureStats(); pc != nil {
		stats["print_capture"] = pc
	}
	if !s.filters.Empty() {
		stats["capture_filters"] = s.filters.GetStats()
	}
	return stats
}
