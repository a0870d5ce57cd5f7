// FILE: logdot/src/internal/filter/chain_test.go
package filter

import (
	"testing"

	"logdot/src/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChain(t *testing.T) {
	logger := newTestLogger()

	t.Run("Success", func(t *testing.T) {
		chain, err := NewChain([]Config{
			{Type: TypeInclude, Patterns: []string{"apple"}},
			{Type: TypeExclude, Patterns: []string{"banana"}},
		}, logger)
		require.NoError(t, err)
		assert.Len(t, chain.filters, 2)
		assert.False(t, chain.Empty())
	})

	t.Run("ErrorInvalidRegexInChain", func(t *testing.T) {
		chain, err := NewChain([]Config{
			{Patterns: []string{"apple"}},
			{Patterns: []string{"["}},
		}, logger)
		assert.Error(t, err)
		assert.Nil(t, chain)
		assert.Contains(t, err.Error(), "filter[1]")
	})
}

func TestChain_Apply(t *testing.T) {
	logger := newTestLogger()
	entry := core.LogEntry{Message: "an apple a day"}

	t.Run("NilChain", func(t *testing.T) {
		var chain *Chain
		assert.True(t, chain.Empty())
		assert.True(t, chain.Apply(entry))
	})

	t.Run("EmptyChain", func(t *testing.T) {
		chain, err := NewChain(nil, logger)
		require.NoError(t, err)
		assert.True(t, chain.Empty())
		assert.True(t, chain.Apply(entry))
	})

	t.Run("AllFiltersPass", func(t *testing.T) {
		chain, err := NewChain([]Config{
			{Type: TypeInclude, Patterns: []string{"apple"}},
			{Type: TypeInclude, Patterns: []string{"day"}},
			{Type: TypeExclude, Patterns: []string{"banana"}},
		}, logger)
		require.NoError(t, err)
		assert.True(t, chain.Apply(entry))
	})

	t.Run("OneFilterFails", func(t *testing.T) {
		chain, err := NewChain([]Config{
			{Type: TypeInclude, Patterns: []string{"apple"}},
			{Type: TypeExclude, Patterns: []string{"day"}},
			{Type: TypeInclude, Patterns: []string{"a"}},
		}, logger)
		require.NoError(t, err)
		assert.False(t, chain.Apply(entry))

		stats := chain.GetStats()
		assert.Equal(t, uint64(1), stats["total_processed"])
		assert.Equal(t, uint64(0), stats["total_passed"])
	})
}
