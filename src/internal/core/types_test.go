// FILE: logdot/src/internal/core/types_test.go
package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeverity(t *testing.T) {
	testCases := []struct {
		input   string
		want    Severity
		wantErr bool
	}{
		{"debug", SeverityDebug, false},
		{"info", SeverityInfo, false},
		{"", SeverityInfo, false},
		{"WARN", SeverityWarn, false},
		{"warning", SeverityWarn, false},
		{" error ", SeverityError, false},
		{"critical", SeverityError, false},
		{"fatal", SeverityError, false},
		{"verbose", SeverityInfo, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseSeverity(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "debug", SeverityDebug.String())
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "info", Severity(42).String())
}

func TestSeverity_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(LogEntry{Severity: SeverityWarn, Message: "m"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"severity":"warn","message":"m"}`, string(data))
}

func TestTags_Merge(t *testing.T) {
	base := Tags{"env": "prod", "region": "eu"}
	over := Tags{"env": "dev", "request": 7}

	merged := base.Merge(over)
	assert.Equal(t, Tags{"env": "dev", "region": "eu", "request": 7}, merged)

	// Inputs untouched
	assert.Equal(t, Tags{"env": "prod", "region": "eu"}, base)
	assert.Equal(t, Tags{"env": "dev", "request": 7}, over)

	merged["extra"] = true
	assert.NotContains(t, base, "extra")
}

func TestTags_MergeNil(t *testing.T) {
	var base Tags
	merged := base.Merge(nil)
	require.NotNil(t, merged)
	assert.Empty(t, merged)
}

func TestTags_Clone(t *testing.T) {
	orig := Tags{"a": 1}
	clone := orig.Clone()
	clone["b"] = 2
	assert.Equal(t, Tags{"a": 1}, orig)
	assert.Equal(t, Tags{"a": 1, "b": 2}, clone)
}
