// FILE: logdot/src/internal/capture/sink_test.go
package capture

import (
	"context"
	"log/slog"
	"testing"

	"logdot/src/internal/core"
	"logdot/src/internal/filter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiltered_EmptyChainReturnsNext(t *testing.T) {
	next := &recordingSink{}
	chain, err := filter.NewChain(nil, newTestLogger())
	require.NoError(t, err)

	assert.Same(t, next, Filtered(next, chain))
	assert.Same(t, next, Filtered(next, nil))
}

func TestFiltered_DropsExcluded(t *testing.T) {
	next := &recordingSink{}
	chain, err := filter.NewChain([]filter.Config{
		{Type: filter.TypeExclude, Patterns: []string{"healthz"}},
	}, newTestLogger())
	require.NoError(t, err)

	sink := Filtered(next, chain)
	assert.True(t, sink.Log(context.Background(), core.SeverityInfo, "GET /healthz", nil))
	assert.True(t, sink.Log(context.Background(), core.SeverityInfo, "GET /orders", core.Tags{"k": "v"}))

	records := next.all()
	require.Len(t, records, 1)
	assert.Equal(t, "GET /orders", records[0].msg)
	assert.Equal(t, "v", records[0].tags["k"])
}

func TestFiltered_WithHandler(t *testing.T) {
	next := &recordingSink{}
	chain, err := filter.NewChain([]filter.Config{
		{Type: filter.TypeInclude, Patterns: []string{"^(warn|error) "}},
	}, newTestLogger())
	require.NoError(t, err)

	logger := slog.New(NewHandler(Filtered(next, chain), nil))
	logger.Info("routine")
	logger.Warn("slow query")
	logger.Error("failed")

	records := next.all()
	require.Len(t, records, 2)
	assert.Equal(t, "slow query", records[0].msg)
	assert.Equal(t, "failed", records[1].msg)
}
