// FILE: logdot/src/internal/transport/memory.go
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/tidwall/gjson"
)

// Memory records requests instead of sending them. It simulates the entity
// store so create/lookup behave like the API: creating an existing name
// returns 409 and lookups of unknown names return 404. Used for dry runs and
// tests.
type Memory struct {
	mu       sync.Mutex
	requests []Request
	bodies   []string

	failNext int
	failErr  error

	entities map[string]string // name -> JSON entity
	nextID   int

	onDeliver func(ctx context.Context, req Request)
}

// NewMemory creates an empty in-memory transport.
func NewMemory() *Memory {
	return &Memory{
		entities: make(map[string]string),
	}
}

// Deliver records req and returns a canned response.
func (m *Memory) Deliver(ctx context.Context, req Request) (*Response, error) {
	encoded, err := json.Marshal(req.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", req.Endpoint, err)
	}

	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.bodies = append(m.bodies, string(encoded))
	hook := m.onDeliver

	if m.failNext > 0 {
		m.failNext--
		failErr := m.failErr
		m.mu.Unlock()
		if hook != nil {
			hook(ctx, req)
		}
		return nil, failErr
	}

	resp, respErr := m.respond(req, encoded)
	m.mu.Unlock()

	// Outside the lock; the hook may deliver again
	if hook != nil {
		hook(ctx, req)
	}
	return resp, respErr
}

// respond must be called with mu held.
func (m *Memory) respond(req Request, encoded []byte) (*Response, error) {
	switch req.Endpoint {
	case EntityCreate:
		name := gjson.GetBytes(encoded, "name").String()
		if name == "" {
			return nil, &StatusError{Code: http.StatusBadRequest, Body: []byte(`{"error":"name is required"}`)}
		}
		if _, exists := m.entities[name]; exists {
			return nil, &StatusError{Code: http.StatusConflict, Body: []byte(`{"error":"entity already exists"}`)}
		}
		m.nextID++
		entity, _ := json.Marshal(map[string]any{
			"id":          fmt.Sprintf("ent-%d", m.nextID),
			"name":        name,
			"description": gjson.GetBytes(encoded, "description").String(),
		})
		m.entities[name] = string(entity)
		return &Response{StatusCode: http.StatusCreated, Body: []byte(`{"data":` + string(entity) + `}`)}, nil

	case EntityLookup:
		entity, exists := m.entities[req.Name]
		if !exists {
			return nil, &StatusError{Code: http.StatusNotFound, Body: []byte(`{"error":"entity not found"}`)}
		}
		return &Response{StatusCode: http.StatusOK, Body: []byte(`{"data":` + entity + `}`)}, nil

	default:
		return &Response{StatusCode: http.StatusOK, Body: []byte(`{"success":true}`)}, nil
	}
}

// FailNext makes the next n deliveries return err.
func (m *Memory) FailNext(n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = n
	m.failErr = err
}

// OnDeliver registers a callback run after every delivery with the caller's ctx.
func (m *Memory) OnDeliver(fn func(ctx context.Context, req Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onDeliver = fn
}

// Requests returns the recorded requests in order.
func (m *Memory) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Body returns the JSON body of the i-th recorded request.
func (m *Memory) Body(i int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.bodies) {
		return ""
	}
	return m.bodies[i]
}

// Count returns how many requests were recorded for endpoint.
func (m *Memory) Count(endpoint Endpoint) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.requests {
		if r.Endpoint == endpoint {
			n++
		}
	}
	return n
}

// Reset forgets recorded requests and scripted failures. Entities are kept.
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
	m.bodies = nil
	m.failNext = 0
	m.failErr = nil
}

// GetStats returns recording statistics.
func (m *Memory) GetStats() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return map[string]any{
		"type":           "memory",
		"total_requests": uint64(len(m.requests)),
		"entities":       len(m.entities),
	}
}
