// FILE: logdot/src/internal/core/types.go
package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Severity is the level attached to every log entry sent to the ingestion API.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
)

var severityNames = [...]string{
	SeverityDebug: "debug",
	SeverityInfo:  "info",
	SeverityWarn:  "warn",
	SeverityError: "error",
}

// String returns the wire name of the severity.
func (s Severity) String() string {
	if s < SeverityDebug || s > SeverityError {
		return "info"
	}
	return severityNames[s]
}

// MarshalJSON encodes the severity as its wire name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// ParseSeverity converts a name such as "warn" or "warning" into a Severity.
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return SeverityDebug, nil
	case "info", "":
		return SeverityInfo, nil
	case "warn", "warning":
		return SeverityWarn, nil
	case "error", "critical", "fatal":
		return SeverityError, nil
	default:
		return SeverityInfo, fmt.Errorf("unknown severity: %s", name)
	}
}

// Tags holds structured key/value data attached to logs and metrics.
type Tags map[string]any

// Clone returns a shallow copy that shares no map storage with t.
func (t Tags) Clone() Tags {
	out := make(Tags, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Merge returns a new map with the keys of t overridden by the keys of over.
// Neither input is modified.
func (t Tags) Merge(over Tags) Tags {
	out := make(Tags, len(t)+len(over))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}

// LogEntry is a single log record, immutable once built.
type LogEntry struct {
	Severity Severity  `json:"severity"`
	Message  string    `json:"message"`
	Tags     Tags      `json:"tags,omitempty"`
	Time     time.Time `json:"-"`
}

// MetricSample is a single numeric observation for an entity.
type MetricSample struct {
	Name  string    `json:"name"`
	Value float64   `json:"value"`
	Unit  string    `json:"unit"`
	Tags  Tags      `json:"tags,omitempty"`
	Time  time.Time `json:"-"`
}

// Entity is a named metrics source resolved on the remote side.
type Entity struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Metadata    Tags   `json:"metadata,omitempty"`
}
