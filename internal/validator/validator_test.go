package validator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		s    Severity
		want string
	}{
		{SeverityError, "error"},
		{SeverityWarning, "warning"},
		{SeverityInfo, "info"},
		{Severity(99), "unknown"},
		{Severity(-1), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.s.String())
	}
}

func TestSeverity_JSON(t *testing.T) {
	data, err := json.Marshal(Issue{Severity: SeverityWarning, Message: "m"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"severity":"warning","message":"m"}`, string(data))

	var i Issue
	require.NoError(t, json.Unmarshal(data, &i))
	assert.Equal(t, SeverityWarning, i.Severity)

	require.NoError(t, json.Unmarshal([]byte(`{"severity":"info"}`), &i))
	assert.Equal(t, SeverityInfo, i.Severity)

	assert.Error(t, json.Unmarshal([]byte(`{"severity":"fatal"}`), &i))
}

func TestIssue_Error(t *testing.T) {
	tests := []struct {
		name string
		i    Issue
		want string
	}{
		{
			name: "server and field with value",
			i:    Issue{Severity: SeverityError, Server: "github", Field: "args", Message: "must be an array of strings", Value: "x"},
			want: `error: server "github": field "args": must be an array of strings (got x)`,
		},
		{
			name: "document-level warning",
			i:    Issue{Severity: SeverityWarning, Message: "servers section missing"},
			want: "warning: servers section missing",
		},
		{
			name: "field only",
			i:    Issue{Severity: SeverityInfo, Field: "inputs", Message: "ignored"},
			want: `info: field "inputs": ignored`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.i.Error())
		})
	}
}

func TestResult(t *testing.T) {
	var nilResult *Result
	assert.False(t, nilResult.HasErrors())
	assert.False(t, nilResult.HasWarnings())

	r := &Result{}
	r.AddWarning("", "servers", "section missing", nil)
	assert.False(t, r.HasErrors())
	assert.True(t, r.HasWarnings())

	r.AddError("fs", "command", "is required", nil)
	r.Add(Issue{Severity: SeverityInfo, Message: "note"})
	assert.Len(t, r.Errors(), 1)
	assert.Len(t, r.Warnings(), 1)
	assert.Len(t, r.Issues, 3)
}
