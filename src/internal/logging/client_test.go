// FILE: logdot/src/internal/logging/client_test.go
package logging

import (
	"errors"
	"strings"
	"testing"

	"logdot/src/internal/batch"
	"logdot/src/internal/config"
	"logdot/src/internal/core"
	"logdot/src/internal/transport"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func newTestLogger() *log.Logger {
	return log.NewLogger()
}

func newTestClient(t *testing.T, maxBytes int64) (*Client, *transport.Memory) {
	t.Helper()
	mem := transport.NewMemory()
	c := NewClient(mem, "test-host", config.LoggerConfig{MaxMessageBytes: maxBytes}, newTestLogger())
	return c, mem
}

func TestClient_SeverityMethods(t *testing.T) {
	testCases := []struct {
		name     string
		send     func(c *Client) bool
		severity string
	}{
		{"Debug", func(c *Client) bool { return c.Debug("m", nil) }, "debug"},
		{"Info", func(c *Client) bool { return c.Info("m", nil) }, "info"},
		{"Warn", func(c *Client) bool { return c.Warn("m", nil) }, "warn"},
		{"Error", func(c *Client) bool { return c.Error("m", nil) }, "error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, mem := newTestClient(t, 0)
			require.True(t, tc.send(c))
			require.Equal(t, 1, mem.Count(transport.LogSingle))

			body := mem.Body(0)
			assert.Equal(t, tc.severity, gjson.Get(body, "severity").String())
			assert.Equal(t, "m", gjson.Get(body, "message").String())
			assert.Equal(t, "test-host", gjson.Get(body, "hostname").String())
		})
	}
}

func TestClient_DeliveryFailure(t *testing.T) {
	c, mem := newTestClient(t, 0)
	boom := errors.New("connection refused")
	mem.FailNext(1, boom)

	assert.False(t, c.Info("lost", nil))
	assert.ErrorIs(t, c.LastError(), boom)

	assert.True(t, c.Info("delivered", nil))
	assert.NoError(t, c.LastError())
}

func TestClient_Truncation(t *testing.T) {
	c, mem := newTestClient(t, 10)
	require.True(t, c.Info(strings.Repeat("x", 50), nil))

	msg := gjson.Get(mem.Body(0), "message").String()
	assert.Equal(t, strings.Repeat("x", 10)+core.TruncationMarker, msg)
}

func TestClient_CallTagsOverrideContext(t *testing.T) {
	c, mem := newTestClient(t, 0)
	child := c.WithContext(core.Tags{"service": "api", "env": "prod"})

	require.True(t, child.Info("m", core.Tags{"env": "staging", "request_id": "r1"}))

	tags := gjson.Get(mem.Body(0), "tags")
	assert.Equal(t, "api", tags.Get("service").String())
	assert.Equal(t, "staging", tags.Get("env").String())
	assert.Equal(t, "r1", tags.Get("request_id").String())
}

func TestClient_WithContext(t *testing.T) {
	c, _ := newTestClient(t, 0)

	parent := c.WithContext(core.Tags{"a": 1, "b": 2})
	child := parent.WithContext(core.Tags{"b": 3, "c": 4})
	grandchild := child.WithContext(core.Tags{"c": 5})

	assert.Equal(t, core.Tags{}, c.Context())
	assert.Equal(t, core.Tags{"a": 1, "b": 2}, parent.Context())
	assert.Equal(t, core.Tags{"a": 1, "b": 3, "c": 4}, child.Context())
	assert.Equal(t, core.Tags{"a": 1, "b": 3, "c": 5}, grandchild.Context())

	t.Run("ReturnedContextIsCopy", func(t *testing.T) {
		ctx := parent.Context()
		ctx["a"] = "mutated"
		assert.Equal(t, 1, parent.Context()["a"])
	})

	t.Run("ExtraMapNotAliased", func(t *testing.T) {
		extra := core.Tags{"k": "v"}
		derived := c.WithContext(extra)
		extra["k"] = "changed"
		assert.Equal(t, "v", derived.Context()["k"])
	})

	t.Run("ChildHasOwnBatch", func(t *testing.T) {
		parent.BeginBatch()
		defer parent.EndBatch()
		fresh := parent.WithContext(nil)
		assert.False(t, fresh.InBatch())
	})
}

func TestClient_BatchScenario(t *testing.T) {
	c, mem := newTestClient(t, 0)

	c.BeginBatch()
	assert.True(t, c.Debug("d", nil))
	assert.True(t, c.Info("i", core.Tags{"k": "v"}))
	assert.Equal(t, 2, c.BatchSize())
	assert.Empty(t, mem.Requests(), "nothing sent while batching")

	require.True(t, c.SendBatch())
	assert.Equal(t, 0, c.BatchSize())
	require.Len(t, mem.Requests(), 1)
	assert.Equal(t, transport.LogBatch, mem.Requests()[0].Endpoint)

	body := mem.Body(0)
	assert.Equal(t, "test-host", gjson.Get(body, "hostname").String())
	logs := gjson.Get(body, "logs").Array()
	require.Len(t, logs, 2)
	assert.Equal(t, "debug", logs[0].Get("severity").String())
	assert.Equal(t, "d", logs[0].Get("message").String())
	assert.Equal(t, "info", logs[1].Get("severity").String())
	assert.Equal(t, "v", logs[1].Get("tags.k").String())
}

func TestClient_BatchFailureKeepsQueue(t *testing.T) {
	c, mem := newTestClient(t, 0)
	c.BeginBatch()
	c.Info("one", nil)
	c.Info("two", nil)

	mem.FailNext(1, errors.New("timeout"))
	assert.False(t, c.SendBatch())
	assert.Equal(t, 2, c.BatchSize())
	assert.Error(t, c.LastError())

	assert.True(t, c.SendBatch())
	assert.Equal(t, 0, c.BatchSize())
	assert.Equal(t, 2, mem.Count(transport.LogBatch))
}

func TestClient_BatchLifecycle(t *testing.T) {
	c, mem := newTestClient(t, 0)

	t.Run("ClearKeepsMode", func(t *testing.T) {
		c.BeginBatch()
		c.Info("x", nil)
		c.Info("y", nil)
		c.ClearBatch()
		assert.Equal(t, 0, c.BatchSize())
		assert.True(t, c.InBatch())
		c.EndBatch()
	})

	t.Run("EmptySendRejected", func(t *testing.T) {
		c.BeginBatch()
		defer c.EndBatch()
		assert.False(t, c.SendBatch())
		assert.ErrorIs(t, c.LastError(), batch.ErrEmpty)
	})

	t.Run("SendOutsideBatchRejected", func(t *testing.T) {
		assert.False(t, c.SendBatch())
		assert.ErrorIs(t, c.LastError(), batch.ErrInactive)
	})

	t.Run("EndDiscards", func(t *testing.T) {
		c.BeginBatch()
		c.Info("unsent", nil)
		c.EndBatch()
		assert.False(t, c.InBatch())
		assert.Equal(t, 0, c.BatchSize())

		require.True(t, c.Info("immediate", nil))
		assert.Equal(t, 1, mem.Count(transport.LogSingle))
	})

	assert.Equal(t, 0, mem.Count(transport.LogBatch))
}
