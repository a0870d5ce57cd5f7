// FILE: logdot/src/internal/transport/transport.go
package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Endpoint identifies an ingestion API operation.
type Endpoint int

const (
	LogSingle Endpoint = iota
	LogBatch
	MetricSingle
	MetricBatch
	EntityCreate
	EntityLookup
)

func (e Endpoint) String() string {
	switch e {
	case LogSingle:
		return "log_single"
	case LogBatch:
		return "log_batch"
	case MetricSingle:
		return "metric_single"
	case MetricBatch:
		return "metric_batch"
	case EntityCreate:
		return "entity_create"
	case EntityLookup:
		return "entity_lookup"
	default:
		return "unknown"
	}
}

// Request is one delivery to the ingestion API.
type Request struct {
	Endpoint Endpoint
	// Name is the path parameter for EntityLookup
	Name string
	// Body is JSON encoded; ignored for EntityLookup
	Body any
}

// Response carries the status and a copy of the body of a 2xx reply.
type Response struct {
	StatusCode int
	Body       []byte
}

// Transport delivers requests to the ingestion API. Implementations own their
// timeout and retry policy. Any diagnostics they emit through slog must use
// the ctx they were given so capture handlers can recognize them.
type Transport interface {
	Deliver(ctx context.Context, req Request) (*Response, error)
}

// StatusError is returned for a non-2xx response.
type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("server returned status %d", e.Code)
	}
	return fmt.Sprintf("server returned status %d: %s", e.Code, e.Body)
}

// StatusCode extracts the HTTP status from err, 0 if err is not a StatusError.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

// IsConflict reports whether err means the resource already exists.
func IsConflict(err error) bool {
	return StatusCode(err) == http.StatusConflict
}

// IsNotFound reports whether err means the resource does not exist.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}
