// FILE: logdot/src/cmd/logdot/commands/tags.go
package commands

import (
	"fmt"
	"strconv"
	"strings"

	"logdot/src/internal/core"
)

// parseTags turns key=value arguments into tags. Values that parse as
// integers, floats or booleans keep that type.
func parseTags(args []string) (core.Tags, error) {
	tags := core.Tags{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid tag '%s': expected key=value", arg)
		}
		tags[key] = parseTagValue(value)
	}
	return tags, nil
}

func parseTagValue(value string) any {
	if i, err := strconv.ParseInt(value, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	switch value {
	case "true":
		return true
	case "false":
		return false
	}
	return value
}
