// FILE: logdot/src/internal/config/filter.go
package config

import (
	"fmt"
	"regexp"

	"logdot/src/internal/filter"
)

func validateFilter(filterIndex int, cfg *filter.Config) error {
	switch cfg.Type {
	case filter.TypeInclude, filter.TypeExclude, "":
	default:
		return fmt.Errorf("capture filter[%d]: invalid type '%s' (must be 'include' or 'exclude')",
			filterIndex, cfg.Type)
	}

	switch cfg.Logic {
	case filter.LogicOr, filter.LogicAnd, "":
	default:
		return fmt.Errorf("capture filter[%d]: invalid logic '%s' (must be 'or' or 'and')",
			filterIndex, cfg.Logic)
	}

	// Empty patterns is valid - passes everything
	for i, pattern := range cfg.Patterns {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("capture filter[%d] pattern[%d] '%s': invalid regex: %w",
				filterIndex, i, pattern, err)
		}
	}

	return nil
}
