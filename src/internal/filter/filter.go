// FILE: logdot/src/internal/filter/filter.go
package filter

import (
	"fmt"
	"regexp"
	"sync/atomic"

	"logdot/src/internal/core"

	"github.com/lixenwraith/log"
)

const (
	TypeInclude = "include"
	TypeExclude = "exclude"

	LogicOr  = "or"
	LogicAnd = "and"
)

// Config describes one regex filter over forwarded entries.
type Config struct {
	// "include" passes matching entries, "exclude" drops them
	Type string `toml:"type"`
	// "or" matches any pattern, "and" requires all
	Logic    string   `toml:"logic"`
	Patterns []string `toml:"patterns"`
}

// Filter applies regex-based filtering to log entries
type Filter struct {
	config   Config
	patterns []*regexp.Regexp
	logger   *log.Logger

	// Statistics
	totalProcessed atomic.Uint64
	totalMatched   atomic.Uint64
	totalDropped   atomic.Uint64
}

// NewFilter creates a filter from configuration
func NewFilter(cfg Config, logger *log.Logger) (*Filter, error) {
	if cfg.Type == "" {
		cfg.Type = TypeInclude
	}
	if cfg.Logic == "" {
		cfg.Logic = LogicOr
	}

	switch cfg.Type {
	case TypeInclude, TypeExclude:
	default:
		return nil, fmt.Errorf("invalid filter type '%s' (must be 'include' or 'exclude')", cfg.Type)
	}
	switch cfg.Logic {
	case LogicOr, LogicAnd:
	default:
		return nil, fmt.Errorf("invalid filter logic '%s' (must be 'or' or 'and')", cfg.Logic)
	}

	f := &Filter{
		config:   cfg,
		patterns: make([]*regexp.Regexp, 0, len(cfg.Patterns)),
		logger:   logger,
	}

	for i, pattern := range cfg.Patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern[%d] '%s': %w", i, pattern, err)
		}
		f.patterns = append(f.patterns, re)
	}

	logger.Debug("msg", "Filter created",
		"component", "filter",
		"type", cfg.Type,
		"logic", cfg.Logic,
		"pattern_count", len(cfg.Patterns))

	return f, nil
}

// Apply reports whether entry should be forwarded. Patterns see the
// severity name and message joined by a space, e.g. "warn disk full".
func (f *Filter) Apply(entry core.LogEntry) bool {
	f.totalProcessed.Add(1)

	if len(f.patterns) == 0 {
		return true
	}

	matched := f.matches(entry.Severity.String() + " " + entry.Message)
	if matched {
		f.totalMatched.Add(1)
	}

	shouldPass := matched
	if f.config.Type == TypeExclude {
		shouldPass = !matched
	}

	if !shouldPass {
		f.totalDropped.Add(1)
	}
	return shouldPass
}

func (f *Filter) matches(text string) bool {
	if f.config.Logic == LogicAnd {
		for _, re := range f.patterns {
			if !re.MatchString(text) {
				return false
			}
		}
		return true
	}

	for _, re := range f.patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// GetStats returns filter statistics
func (f *Filter) GetStats() map[string]any {
	return map[string]any{
		"type":            f.config.Type,
		"logic":           f.config.Logic,
		"pattern_count":   len(f.patterns),
		"total_processed": f.totalProcessed.Load(),
		"total_matched":   f.totalMatched.Load(),
		"total_dropped":   f.totalDropped.Load(),
	}
}
