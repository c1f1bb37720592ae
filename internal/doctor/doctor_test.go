package doctor

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCheck struct {
	name   string
	status Severity
	fix    bool
	fixed  int
}

func (c *fakeCheck) Name() string     { return c.name }
func (c *fakeCheck) Category() string { return "test" }

func (c *fakeCheck) Run(context.Context) *CheckResult {
	return &CheckResult{Name: c.name, Category: "test", Status: c.status, Fixable: c.fix}
}

func (c *fakeCheck) Fix(context.Context) []FixResult {
	c.fixed++
	return []FixResult{{Path: c.name, Fixed: true}}
}

func TestRunner_Run(t *testing.T) {
	r := NewRunner(
		&fakeCheck{name: "a", status: SeverityPass},
		&fakeCheck{name: "b", status: SeverityInfo},
	)
	r.AddCheck(&fakeCheck{name: "c", status: SeverityWarning})
	r.AddCheck(&fakeCheck{name: "d", status: SeverityError})
	r.AddCheck(&fakeCheck{name: "e", status: SeverityError})
	r.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	report := r.Run(t.Context())

	names := make([]string, 0, len(report.Results))
	for _, res := range report.Results {
		names = append(names, res.Name)
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, names)
	assert.Equal(t, Summary{Passed: 1, Info: 1, Warnings: 1, Errors: 2}, report.Summary)
	assert.True(t, report.HasErrors())
	assert.True(t, report.HasWarnings())
	assert.Equal(t, "2026-01-02T03:04:05Z", report.Timestamp.Format(time.RFC3339))
}

func TestRunner_EmptyReport(t *testing.T) {
	report := NewRunner().Run(t.Context())
	assert.Empty(t, report.Results)
	assert.False(t, report.HasErrors())
	assert.False(t, report.HasWarnings())
}

func TestRunner_FixOnlyFixableResults(t *testing.T) {
	fixable := &fakeCheck{name: "fixable", status: SeverityWarning, fix: true}
	clean := &fakeCheck{name: "clean", status: SeverityPass}
	r := NewRunner(fixable, clean)

	report := r.Run(t.Context())
	fixes := r.Fix(t.Context(), report)

	require.Len(t, fixes, 1)
	assert.Equal(t, "fixable", fixes[0].Path)
	assert.Equal(t, 1, fixable.fixed)
	assert.Equal(t, 0, clean.fixed)
}

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		s    Severity
		want string
	}{
		{SeverityPass, "pass"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{Severity(42), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.s.String())
	}
}

func TestReport_JSONUsesSeverityNames(t *testing.T) {
	report := &Report{Results: []*CheckResult{{
		Name:     "x",
		Status:   SeverityWarning,
		Findings: []Finding{{Severity: SeverityError, Message: "bad"}},
	}}}
	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":"warning"`)
	assert.Contains(t, string(data), `"severity":"error"`)
}

func TestResultFromFindings(t *testing.T) {
	r := resultFromFindings(&CheckResult{}, []Finding{
		{Severity: SeverityInfo},
		{Severity: SeverityError},
		{Severity: SeverityWarning},
	})
	assert.Equal(t, SeverityError, r.Status)

	r = resultFromFindings(&CheckResult{}, nil)
	assert.Equal(t, SeverityPass, r.Status)
}
