// FILE: logdot/src/internal/logging/client.go
package logging

import (
	"context"
	"sync"
	"time"

	"logdot/src/internal/batch"
	"logdot/src/internal/config"
	"logdot/src/internal/core"
	"logdot/src/internal/transport"
	"logdot/src/internal/truncate"

	"github.com/lixenwraith/log"
)

// Client sends log entries to the ingestion API, immediately or in batches.
//
// A Client carries an immutable context whose tags are merged under every
// entry it produces. WithContext derives a new Client; the parent is never
// affected. Batch state belongs to one Client and is not locked: callers that
// share a Client across goroutines must serialize batch operations.
type Client struct {
	transport transport.Transport
	logger    *log.Logger
	hostname  string
	maxBytes  int

	// Read-only after construction
	context core.Tags

	batch batch.Accumulator[core.LogEntry]

	errMu   sync.Mutex
	lastErr error
}

// NewClient creates a root logging client with an empty context.
func NewClient(tr transport.Transport, hostname string, cfg config.LoggerConfig, logger *log.Logger) *Client {
	maxBytes := int(cfg.MaxMessageBytes)
	if maxBytes <= 0 {
		maxBytes = core.DefaultMaxMessageBytes
	}
	return &Client{
		transport: tr,
		logger:    logger,
		hostname:  hostname,
		maxBytes:  maxBytes,
		context:   core.Tags{},
	}
}

// WithContext returns a new Client whose context is this client's context
// overridden by extra. The child starts with batch mode off.
func (c *Client) WithContext(extra core.Tags) *Client {
	return &Client{
		transport: c.transport,
		logger:    c.logger,
		hostname:  c.hostname,
		maxBytes:  c.maxBytes,
		context:   c.context.Merge(extra),
	}
}

// Context returns a copy of the client's context tags.
func (c *Client) Context() core.Tags {
	return c.context.Clone()
}

// Hostname returns the hostname stamped on every payload.
func (c *Client) Hostname() string {
	return c.hostname
}

func (c *Client) Debug(msg string, tags core.Tags) bool {
	return c.Log(context.Background(), core.SeverityDebug, msg, tags)
}

func (c *Client) Info(msg string, tags core.Tags) bool {
	return c.Log(context.Background(), core.SeverityInfo, msg, tags)
}

func (c *Client) Warn(msg string, tags core.Tags) bool {
	return c.Log(context.Background(), core.SeverityWarn, msg, tags)
}

func (c *Client) Error(msg string, tags core.Tags) bool {
	return c.Log(context.Background(), core.SeverityError, msg, tags)
}

// Log builds an entry and either queues it (batch mode) or delivers it.
// It reports whether the entry was queued or accepted by the API.
func (c *Client) Log(ctx context.Context, severity core.Severity, msg string, tags core.Tags) bool {
	entry := core.LogEntry{
		Severity: severity,
		Message:  truncate.Message(msg, c.maxBytes),
		Tags:     c.context.Merge(tags),
		Time:     time.Now(),
	}

	if c.batch.Active() {
		if err := c.batch.Add(batch.KindLog, entry); err != nil {
			c.setLastError(err)
			return false
		}
		return true
	}

	_, err := c.transport.Deliver(ctx, transport.Request{
		Endpoint: transport.LogSingle,
		Body: map[string]any{
			"severity": entry.Severity,
			"message":  entry.Message,
			"hostname": c.hostname,
			"tags":     entry.Tags,
		},
	})
	if err != nil {
		c.logger.Debug("msg", "Failed to send log entry",
			"component", "logging",
			"severity", severity.String(),
			"error", err)
		c.setLastError(err)
		return false
	}
	c.setLastError(nil)
	return true
}

// BeginBatch turns batch mode on. Entries are queued until SendBatch.
func (c *Client) BeginBatch() {
	c.batch.Begin(batch.KindLog)
}

// EndBatch turns batch mode off, discarding anything not yet sent.
func (c *Client) EndBatch() {
	if dropped := c.batch.End(); dropped > 0 {
		c.logger.Warn("msg", "Batch ended with unsent log entries",
			"component", "logging",
			"discarded", dropped)
	}
}

// BatchSize returns the number of queued entries.
func (c *Client) BatchSize() int {
	return c.batch.Len()
}

// ClearBatch drops queued entries and keeps batch mode on.
func (c *Client) ClearBatch() {
	c.batch.Clear()
}

// InBatch reports whether batch mode is on.
func (c *Client) InBatch() bool {
	return c.batch.Active()
}

// SendBatch delivers all queued entries as one payload.
func (c *Client) SendBatch() bool {
	return c.SendBatchContext(context.Background())
}

// SendBatchContext delivers all queued entries as one payload. The queue is
// cleared on success and kept on failure.
func (c *Client) SendBatchContext(ctx context.Context) bool {
	err := c.batch.Flush(func(entries []core.LogEntry) error {
		_, err := c.transport.Deliver(ctx, transport.Request{
			Endpoint: transport.LogBatch,
			Body: map[string]any{
				"hostname": c.hostname,
				"logs":     entries,
			},
		})
		return err
	})
	if err != nil {
		c.logger.Debug("msg", "Failed to send log batch",
			"component", "logging",
			"pending", c.batch.Len(),
			"error", err)
		c.setLastError(err)
		return false
	}
	c.setLastError(nil)
	return true
}

// LastError returns the error of the most recent operation, nil if it succeeded.
func (c *Client) LastError() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.lastErr
}

func (c *Client) setLastError(err error) {
	c.errMu.Lock()
	c.lastErr = err
	c.errMu.Unlock()
}
