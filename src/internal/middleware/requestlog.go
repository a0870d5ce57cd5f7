// FILE: logdot/src/internal/middleware/requestlog.go
package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"runtime/debug"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"logdot/src/internal/config"
	"logdot/src/internal/core"
	"logdot/src/internal/logging"
	"logdot/src/internal/metrics"
	"logdot/src/internal/truncate"

	"github.com/lixenwraith/log"
)

// DurationMetric is the metric name used for request latency.
const DurationMetric = "http.request.duration"

const (
	tagMethod     = "http_method"
	tagPath       = "http_path"
	tagStatus     = "http_status"
	tagDurationMS = "duration_ms"
)

// RequestLogger logs every HTTP request and reports its duration as a metric.
// Telemetry failures never affect the response.
type RequestLogger struct {
	logs    *logging.Client
	metrics *metrics.Client
	logger  *log.Logger

	logRequests bool
	logMetrics  bool
	ignore      map[string]struct{}

	entityName        string
	entityDescription string

	// Resolved lazily; stays nil until a resolution succeeds
	entity   atomic.Pointer[metrics.EntityClient]
	entityMu sync.Mutex
}

// NewRequestLogger creates the middleware. A nil metrics client disables the
// duration metric.
func NewRequestLogger(cfg config.MiddlewareConfig, mcfg config.MetricsConfig, logs *logging.Client, mc *metrics.Client, logger *log.Logger) *RequestLogger {
	rl := &RequestLogger{
		logs:              logs,
		metrics:           mc,
		logger:            logger,
		logRequests:       cfg.LogRequests && logs != nil,
		logMetrics:        cfg.LogMetrics && mc != nil,
		ignore:            make(map[string]struct{}, len(cfg.IgnorePaths)),
		entityName:        mcfg.EntityName,
		entityDescription: mcfg.EntityDescription,
	}
	for _, p := range cfg.IgnorePaths {
		rl.ignore[p] = struct{}{}
	}
	return rl
}

// Middleware returns an HTTP middleware function
func (rl *RequestLogger) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, skip := rl.ignore[r.URL.Path]; skip {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w}

		defer func() {
			if rec := recover(); rec != nil {
				if rec != http.ErrAbortHandler {
					rl.logPanic(r, rec, debug.Stack())
				}
				panic(rec)
			}
		}()

		next.ServeHTTP(sw, r)

		status := sw.Status()
		durationMS := float64(time.Since(start).Microseconds()) / 1000
		if rl.logRequests {
			rl.logRequest(r, status, durationMS)
		}
		if rl.logMetrics {
			rl.sendDuration(r, status, durationMS)
		}
	})
}

func (rl *RequestLogger) logRequest(r *http.Request, status int, durationMS float64) {
	msg := fmt.Sprintf("%s %s %d (%.0fms)", r.Method, r.URL.Path, status, durationMS)
	tags := core.Tags{
		tagMethod:      r.Method,
		tagPath:        truncate.Prefix(r.URL.Path, core.MaxPathBytes),
		tagStatus:      status,
		tagDurationMS:  round2(durationMS),
		core.TagSource: core.SourceMiddleware,
	}

	severity := core.SeverityInfo
	switch {
	case status >= 500:
		severity = core.SeverityError
	case status >= 400:
		severity = core.SeverityWarn
	}
	rl.logs.Log(r.Context(), severity, msg, tags)
}

func (rl *RequestLogger) sendDuration(r *http.Request, status int, durationMS float64) {
	ec := rl.entityClient(r.Context())
	if ec == nil {
		return
	}
	ec.SendContext(r.Context(), DurationMetric, round2(durationMS), "ms", core.Tags{
		"method": r.Method,
		"path":   truncate.Prefix(r.URL.Path, core.MaxPathBytes),
		"status": strconv.Itoa(status),
	})
}

// entityClient resolves the metrics entity on first use. A failed resolution
// is retried on the next request.
func (rl *RequestLogger) entityClient(ctx context.Context) *metrics.EntityClient {
	if ec := rl.entity.Load(); ec != nil {
		return ec
	}

	rl.entityMu.Lock()
	defer rl.entityMu.Unlock()
	if ec := rl.entity.Load(); ec != nil {
		return ec
	}

	entity, err := rl.metrics.GetOrCreateEntity(ctx, rl.entityName, rl.entityDescription, nil)
	if err != nil {
		rl.logger.Warn("msg", "Metrics entity not resolved, will retry on next request",
			"component", "middleware",
			"entity", rl.entityName,
			"error", err)
		return nil
	}

	ec := rl.metrics.ForEntity(entity.ID)
	rl.entity.Store(ec)
	return ec
}

func (rl *RequestLogger) logPanic(r *http.Request, rec any, stack []byte) {
	defer func() {
		_ = recover()
	}()

	excType := fmt.Sprintf("%T", rec)
	excMsg := fmt.Sprint(rec)

	rl.logs.Log(r.Context(), core.SeverityError, fmt.Sprintf("Unhandled %s: %s", excType, excMsg), core.Tags{
		core.TagExceptionType:    excType,
		core.TagExceptionMessage: truncate.Prefix(excMsg, core.MaxExceptionMessageBytes),
		core.TagStack:            truncate.Prefix(string(stack), core.MaxStackBytes),
		tagMethod:                r.Method,
		tagPath:                  truncate.Prefix(r.URL.Path, core.MaxPathBytes),
		core.TagSource:           core.SourceMiddleware,
	})
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// statusWriter records the status code written by the wrapped handler.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// Status returns the written status, 200 if the handler wrote nothing.
func (w *statusWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
