// FILE: logdot/src/internal/filter/filter_test.go
package filter

import (
	"testing"

	"logdot/src/internal/core"

	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *log.Logger {
	return log.NewLogger()
}

func TestNewFilter(t *testing.T) {
	logger := newTestLogger()

	t.Run("SuccessWithDefaults", func(t *testing.T) {
		f, err := NewFilter(Config{Patterns: []string{"test"}}, logger)
		require.NoError(t, err)
		assert.Equal(t, TypeInclude, f.config.Type)
		assert.Equal(t, LogicOr, f.config.Logic)
	})

	t.Run("SuccessWithCustomConfig", func(t *testing.T) {
		f, err := NewFilter(Config{
			Type:     TypeExclude,
			Logic:    LogicAnd,
			Patterns: []string{"test", "pattern"},
		}, logger)
		require.NoError(t, err)
		assert.Equal(t, TypeExclude, f.config.Type)
		assert.Equal(t, LogicAnd, f.config.Logic)
		assert.Len(t, f.patterns, 2)
	})

	t.Run("ErrorInvalidRegex", func(t *testing.T) {
		f, err := NewFilter(Config{Patterns: []string{"["}}, logger)
		assert.Error(t, err)
		assert.Nil(t, f)
		assert.Contains(t, err.Error(), "invalid regex pattern")
	})

	t.Run("ErrorInvalidType", func(t *testing.T) {
		_, err := NewFilter(Config{Type: "drop"}, logger)
		assert.ErrorContains(t, err, "invalid filter type")
	})

	t.Run("ErrorInvalidLogic", func(t *testing.T) {
		_, err := NewFilter(Config{Logic: "xor"}, logger)
		assert.ErrorContains(t, err, "invalid filter logic")
	})
}

func TestFilter_Apply(t *testing.T) {
	logger := newTestLogger()

	testCases := []struct {
		name     string
		cfg      Config
		entry    core.LogEntry
		expected bool
	}{
		{
			name:     "IncludeOR_MatchOne",
			cfg:      Config{Type: TypeInclude, Logic: LogicOr, Patterns: []string{"apple", "banana"}},
			entry:    core.LogEntry{Message: "this is an apple"},
			expected: true,
		},
		{
			name:     "IncludeOR_NoMatch",
			cfg:      Config{Type: TypeInclude, Logic: LogicOr, Patterns: []string{"apple", "banana"}},
			entry:    core.LogEntry{Message: "this is a pear"},
			expected: false,
		},
		{
			name:     "IncludeAND_MatchAll",
			cfg:      Config{Type: TypeInclude, Logic: LogicAnd, Patterns: []string{"apple", "doctor"}},
			entry:    core.LogEntry{Message: "an apple keeps the doctor away"},
			expected: true,
		},
		{
			name:     "IncludeAND_MatchOne",
			cfg:      Config{Type: TypeInclude, Logic: LogicAnd, Patterns: []string{"apple", "doctor"}},
			entry:    core.LogEntry{Message: "this is an apple"},
			expected: false,
		},
		{
			name:     "ExcludeOR_MatchOne",
			cfg:      Config{Type: TypeExclude, Logic: LogicOr, Patterns: []string{"healthz", "readyz"}},
			entry:    core.LogEntry{Message: "GET /healthz 200"},
			expected: false,
		},
		{
			name:     "ExcludeOR_NoMatch",
			cfg:      Config{Type: TypeExclude, Logic: LogicOr, Patterns: []string{"healthz", "readyz"}},
			entry:    core.LogEntry{Message: "GET /orders 200"},
			expected: true,
		},
		{
			name:     "ExcludeAND_MatchAll",
			cfg:      Config{Type: TypeExclude, Logic: LogicAnd, Patterns: []string{"critical", "database"}},
			entry:    core.LogEntry{Message: "critical error in database"},
			expected: false,
		},
		{
			name:     "ExcludeAND_MatchOne",
			cfg:      Config{Type: TypeExclude, Logic: LogicAnd, Patterns: []string{"critical", "database"}},
			entry:    core.LogEntry{Message: "critical error in app"},
			expected: true,
		},
		{
			name:     "NoPatterns",
			cfg:      Config{Type: TypeInclude},
			entry:    core.LogEntry{Message: "any message"},
			expected: true,
		},
		{
			name:     "MatchOnSeverity",
			cfg:      Config{Type: TypeInclude, Patterns: []string{"^error "}},
			entry:    core.LogEntry{Severity: core.SeverityError, Message: "disk failed"},
			expected: true,
		},
		{
			name:     "SeverityPrefixOnly",
			cfg:      Config{Type: TypeInclude, Patterns: []string{"^error "}},
			entry:    core.LogEntry{Severity: core.SeverityInfo, Message: "error budget fine"},
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := NewFilter(tc.cfg, logger)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, f.Apply(tc.entry))
		})
	}
}

func TestFilter_Stats(t *testing.T) {
	f, err := NewFilter(Config{Type: TypeExclude, Patterns: []string{"noise"}}, newTestLogger())
	require.NoError(t, err)

	f.Apply(core.LogEntry{Message: "noise"})
	f.Apply(core.LogEntry{Message: "signal"})

	stats := f.GetStats()
	assert.Equal(t, uint64(2), stats["total_processed"])
	assert.Equal(t, uint64(1), stats["total_matched"])
	assert.Equal(t, uint64(1), stats["total_dropped"])
}
