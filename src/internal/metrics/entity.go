// FILE: logdot/src/internal/metrics/entity.go
package metrics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"logdot/src/internal/batch"
	"logdot/src/internal/core"
	"logdot/src/internal/transport"
)

// EntityClient sends metrics stamped with one entity id.
//
// A batch is either homogeneous (BeginBatch: fixed name and unit, Add supplies
// values) or heterogeneous (BeginMultiBatch: AddMetric supplies full samples).
// Adding with the wrong call for the active kind, or outside batch mode, is
// rejected: the call returns false and LastError reports why. Batch state is
// not locked; serialize batch operations when sharing a client.
type EntityClient struct {
	parent   *Client
	entityID string

	batch     batch.Accumulator[core.MetricSample]
	batchName string
	batchUnit string

	errMu   sync.Mutex
	lastErr error
}

// EntityID returns the bound entity id.
func (e *EntityClient) EntityID() string {
	return e.entityID
}

// Send delivers one sample immediately.
func (e *EntityClient) Send(name string, value float64, unit string, tags core.Tags) bool {
	return e.SendContext(context.Background(), name, value, unit, tags)
}

func (e *EntityClient) SendContext(ctx context.Context, name string, value float64, unit string, tags core.Tags) bool {
	_, err := e.parent.transport.Deliver(ctx, transport.Request{
		Endpoint: transport.MetricSingle,
		Body: map[string]any{
			"entity_id": e.entityID,
			"name":      name,
			"value":     value,
			"unit":      unit,
			"tags":      tags.Clone(),
		},
	})
	return e.finish(err, "Failed to send metric", name)
}

// BeginBatch starts a homogeneous batch for name and unit. Samples queued for
// a different name, unit or batch kind are dropped.
func (e *EntityClient) BeginBatch(name, unit string) {
	dropped := 0
	if e.batch.Kind() == batch.KindMetric && (e.batchName != name || e.batchUnit != unit) {
		dropped = e.batch.Len()
		e.batch.Clear()
	}
	dropped += e.batch.Begin(batch.KindMetric)
	e.batchName = name
	e.batchUnit = unit
	e.warnDropped(dropped, "Metric batch restarted with unsent samples")
}

// Add queues a value for the homogeneous batch.
func (e *EntityClient) Add(value float64, tags core.Tags) bool {
	err := e.batch.Add(batch.KindMetric, core.MetricSample{
		Name:  e.batchName,
		Value: value,
		Unit:  e.batchUnit,
		Tags:  tags.Clone(),
		Time:  time.Now(),
	})
	if err != nil {
		e.setLastError(fmt.Errorf("add: %w", err))
		return false
	}
	return true
}

// BeginMultiBatch starts a heterogeneous batch.
func (e *EntityClient) BeginMultiBatch() {
	dropped := e.batch.Begin(batch.KindMultiMetric)
	e.batchName, e.batchUnit = "", ""
	e.warnDropped(dropped, "Metric batch restarted with unsent samples")
}

// AddMetric queues a fully specified sample for the heterogeneous batch.
func (e *EntityClient) AddMetric(name string, value float64, unit string, tags core.Tags) bool {
	err := e.batch.Add(batch.KindMultiMetric, core.MetricSample{
		Name:  name,
		Value: value,
		Unit:  unit,
		Tags:  tags.Clone(),
		Time:  time.Now(),
	})
	if err != nil {
		e.setLastError(fmt.Errorf("add metric: %w", err))
		return false
	}
	return true
}

func (e *EntityClient) BatchSize() int {
	return e.batch.Len()
}

func (e *EntityClient) ClearBatch() {
	e.batch.Clear()
}

// EndBatch turns batch mode off, discarding anything not yet sent.
func (e *EntityClient) EndBatch() {
	e.warnDropped(e.batch.End(), "Metric batch ended with unsent samples")
	e.batchName, e.batchUnit = "", ""
}

// SendBatch delivers the queued samples as one payload.
func (e *EntityClient) SendBatch() bool {
	return e.SendBatchContext(context.Background())
}

// SendBatchContext delivers the queued samples as one payload. The queue is
// cleared on success and kept on failure.
func (e *EntityClient) SendBatchContext(ctx context.Context) bool {
	kind := e.batch.Kind()
	err := e.batch.Flush(func(samples []core.MetricSample) error {
		_, err := e.parent.transport.Deliver(ctx, transport.Request{
			Endpoint: transport.MetricBatch,
			Body:     e.batchBody(samples),
		})
		return err
	})
	return e.finish(err, "Failed to send metric batch", kind.String())
}

// batchBody builds the metric_batch payload. Both batch kinds send full
// records; Add already stamped the fixed name and unit on each sample.
func (e *EntityClient) batchBody(samples []core.MetricSample) map[string]any {
	return map[string]any{
		"entity_id": e.entityID,
		"metrics":   samples,
	}
}

// LastError returns the error of the most recent operation, nil if it succeeded.
func (e *EntityClient) LastError() error {
	e.errMu.Lock()
	defer e.errMu.Unlock()
	return e.lastErr
}

func (e *EntityClient) finish(err error, msg, what string) bool {
	if err != nil {
		e.parent.logger.Debug("msg", msg,
			"component", "metrics",
			"entity_id", e.entityID,
			"metric", what,
			"error", err)
		e.setLastError(err)
		return false
	}
	e.setLastError(nil)
	return true
}

func (e *EntityClient) warnDropped(n int, msg string) {
	if n > 0 {
		e.parent.logger.Warn("msg", msg,
			"component", "metrics",
			"entity_id", e.entityID,
			"discarded", n)
	}
}

func (e *EntityClient) setLastError(err error) {
	e.errMu.Lock()
	e.lastErr = err
	e.errMu.Unlock()
}
