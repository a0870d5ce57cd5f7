// FILE: logdot/src/internal/transport/http.go
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"logdot/src/internal/config"
	"logdot/src/internal/version"

	"github.com/klauspost/compress/gzip"
	"github.com/lixenwraith/log"
	"github.com/valyala/fasthttp"
)

// HTTP delivers requests to the ingestion API over fasthttp with retries.
type HTTP struct {
	// Configuration
	config    *config.ClientConfig
	userAgent string

	// Network
	client     *fasthttp.Client
	tlsManager *TLSManager

	// Application
	logger *log.Logger

	// Statistics
	totalRequests   atomic.Uint64
	failedRequests  atomic.Uint64
	retriedRequests atomic.Uint64
	lastRequest     atomic.Value // time.Time
}

// NewHTTP creates an HTTP transport from client configuration.
func NewHTTP(cfg *config.ClientConfig, logger *log.Logger) (*HTTP, error) {
	if cfg == nil {
		return nil, fmt.Errorf("client config cannot be nil")
	}
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("max_retries must be >= 0, got %d", cfg.MaxRetries)
	}

	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	h := &HTTP{
		config:    cfg,
		userAgent: version.UserAgent(),
		logger:    logger,
		client: &fasthttp.Client{
			MaxConnsPerHost:               10,
			MaxIdleConnDuration:           10 * time.Second,
			ReadTimeout:                   timeout,
			WriteTimeout:                  timeout,
			DisableHeaderNamesNormalizing: true,
		},
	}
	h.lastRequest.Store(time.Time{})

	tlsManager, err := NewTLSManager(cfg.TLS, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create TLS manager: %w", err)
	}
	if tlsManager != nil {
		h.tlsManager = tlsManager
		h.client.TLSConfig = tlsManager.GetConfig()
	}

	return h, nil
}

// Deliver sends req, retrying transport errors and 5xx/429 responses with
// exponential backoff. Other 4xx responses are final.
func (h *HTTP) Deliver(ctx context.Context, req Request) (*Response, error) {
	method, uri, err := h.route(req)
	if err != nil {
		return nil, err
	}

	body, gzipped, err := h.encode(req)
	if err != nil {
		h.failedRequests.Add(1)
		return nil, fmt.Errorf("failed to encode %s payload: %w", req.Endpoint, err)
	}

	h.totalRequests.Add(1)
	h.lastRequest.Store(time.Now())

	timeout := time.Duration(h.config.TimeoutMS) * time.Millisecond
	retryDelay := time.Duration(h.config.RetryDelayMS) * time.Millisecond
	var lastErr error

	for attempt := int64(0); attempt <= h.config.MaxRetries; attempt++ {
		if attempt > 0 {
			h.retriedRequests.Add(1)
			if err := sleepContext(ctx, retryDelay); err != nil {
				h.failedRequests.Add(1)
				return nil, fmt.Errorf("delivery canceled after %d attempts (last error: %v): %w", attempt, lastErr, err)
			}

			// Cap at timeout; also catches overflow
			newDelay := time.Duration(float64(retryDelay) * h.config.RetryBackoff)
			if newDelay > timeout || newDelay < retryDelay {
				retryDelay = timeout
			} else {
				retryDelay = newDelay
			}
		}

		if err := ctx.Err(); err != nil {
			h.failedRequests.Add(1)
			return nil, err
		}

		statusCode, respBody, err := h.do(ctx, method, uri, body, gzipped, timeout)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			h.logger.Warn("msg", "HTTP request failed",
				"component", "transport",
				"endpoint", req.Endpoint.String(),
				"attempt", attempt+1,
				"max_retries", h.config.MaxRetries,
				"error", err)
			continue
		}

		if statusCode >= 200 && statusCode < 300 {
			h.logger.Debug("msg", "Request delivered",
				"component", "transport",
				"endpoint", req.Endpoint.String(),
				"status_code", statusCode,
				"attempt", attempt+1)
			return &Response{StatusCode: statusCode, Body: respBody}, nil
		}

		lastErr = &StatusError{Code: statusCode, Body: respBody}

		// Client errors are final, except rate limiting
		if statusCode >= 400 && statusCode < 500 && statusCode != 429 {
			h.failedRequests.Add(1)
			h.logger.Debug("msg", "Request rejected by server",
				"component", "transport",
				"endpoint", req.Endpoint.String(),
				"status_code", statusCode,
				"response", string(respBody))
			return nil, lastErr
		}

		h.logger.Warn("msg", "Server returned error status",
			"component", "transport",
			"endpoint", req.Endpoint.String(),
			"attempt", attempt+1,
			"status_code", statusCode,
			"response", string(respBody))
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no delivery attempt made (max_retries %d)", h.config.MaxRetries)
	}
	h.failedRequests.Add(1)
	h.logger.Error("msg", "Failed to deliver after all retries",
		"component", "transport",
		"endpoint", req.Endpoint.String(),
		"retries", h.config.MaxRetries,
		"last_error", lastErr)
	return nil, lastErr
}

// do performs a single attempt and copies the response out of fasthttp's pooled buffers.
func (h *HTTP) do(ctx context.Context, method, uri string, body []byte, gzipped bool, timeout time.Duration) (int, []byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(uri)
	req.Header.SetMethod(method)
	req.Header.Set("Authorization", "Bearer "+h.config.APIKey)
	req.Header.Set("User-Agent", h.userAgent)
	if body != nil {
		req.Header.SetContentType("application/json")
		if gzipped {
			req.Header.Set("Content-Encoding", "gzip")
		}
		req.SetBody(body)
	}

	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := h.client.DoDeadline(req, resp, deadline); err != nil {
		return 0, nil, err
	}

	var respBody []byte
	if len(resp.Body()) > 0 {
		respBody = make([]byte, len(resp.Body()))
		copy(respBody, resp.Body())
	}
	return resp.StatusCode(), respBody, nil
}

// route maps an endpoint onto an HTTP method and URL.
func (h *HTTP) route(req Request) (string, string, error) {
	switch req.Endpoint {
	case LogSingle:
		return fasthttp.MethodPost, joinURL(h.config.LogsURL, "logs"), nil
	case LogBatch:
		return fasthttp.MethodPost, joinURL(h.config.LogsURL, "logs/batch"), nil
	case MetricSingle:
		return fasthttp.MethodPost, joinURL(h.config.MetricsURL, "metrics"), nil
	case MetricBatch:
		return fasthttp.MethodPost, joinURL(h.config.MetricsURL, "metrics/batch"), nil
	case EntityCreate:
		return fasthttp.MethodPost, joinURL(h.config.MetricsURL, "entities"), nil
	case EntityLookup:
		if req.Name == "" {
			return "", "", fmt.Errorf("entity lookup requires a name")
		}
		return fasthttp.MethodGet, joinURL(h.config.MetricsURL, "entities/by-name/"+url.PathEscape(req.Name)), nil
	default:
		return "", "", fmt.Errorf("unknown endpoint: %d", req.Endpoint)
	}
}

// encode marshals the body to JSON, gzipping it when compression is on.
func (h *HTTP) encode(req Request) ([]byte, bool, error) {
	if req.Endpoint == EntityLookup || req.Body == nil {
		return nil, false, nil
	}

	data, err := json.Marshal(req.Body)
	if err != nil {
		return nil, false, err
	}
	if !h.config.Compress {
		return data, false, nil
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, false, err
	}
	if err := zw.Close(); err != nil {
		return nil, false, err
	}
	return buf.Bytes(), true, nil
}

// GetStats returns delivery statistics.
func (h *HTTP) GetStats() map[string]any {
	lastReq, _ := h.lastRequest.Load().(time.Time)
	return map[string]any{
		"type":             "http",
		"logs_url":         h.config.LogsURL,
		"metrics_url":      h.config.MetricsURL,
		"total_requests":   h.totalRequests.Load(),
		"failed_requests":  h.failedRequests.Load(),
		"retried_requests": h.retriedRequests.Load(),
		"last_request":     lastReq,
		"compress":         h.config.Compress,
		"tls":              h.tlsManager.GetStats(),
	}
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + path
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
