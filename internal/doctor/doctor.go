package doctor

import (
	"context"
	"time"

	"github.com/thoreinstein/mcpconf/internal/jsondoc"
	"github.com/thoreinstein/mcpconf/internal/ownership"
	"github.com/thoreinstein/mcpconf/internal/validator"
)

// Check is the interface that diagnostic checks must implement.
type Check interface {
	// Name returns the unique identifier for this check.
	Name() string

	// Category returns the grouping for this check (e.g., "filesystem", "config").
	Category() string

	// Run executes the diagnostic check and returns its result.
	Run(ctx context.Context) *CheckResult
}

// Fixer is implemented by checks that can remediate what they found.
// Fix must be called after Run.
type Fixer interface {
	Fix(ctx context.Context) []FixResult
}

// FixResult describes the outcome of an attempted fix.
type FixResult struct {
	Path        string `json:"path"`
	Fixed       bool   `json:"fixed"`
	Description string `json:"description"`
	Err         error  `json:"-"`
}

// Target is a client config examined by the checks. client.ConfigHandler
// satisfies it.
type Target interface {
	Name() string
	DisplayName() string
	ConfigPath() string
	LoadConfig() (*jsondoc.Document, error)
	ValidateConfig() ([]validator.Issue, error)
	Tracker() ownership.Tracker
}

// Runner executes diagnostic checks and aggregates their results.
type Runner struct {
	checks []Check
	now    func() time.Time
}

// NewRunner creates a runner for checks.
func NewRunner(checks ...Check) *Runner {
	return &Runner{
		checks: checks,
		now:    time.Now,
	}
}

// AddCheck registers a diagnostic check with the runner.
func (r *Runner) AddCheck(c Check) {
	r.checks = append(r.checks, c)
}

// Run executes all registered checks in order and returns a report.
func (r *Runner) Run(ctx context.Context) *Report {
	report := &Report{
		Timestamp: r.now().UTC(),
		Results:   make([]*CheckResult, 0, len(r.checks)),
	}

	for _, check := range r.checks {
		result := check.Run(ctx)
		report.Results = append(report.Results, result)

		switch result.Status {
		case SeverityPass:
			report.Summary.Passed++
		case SeverityInfo:
			report.Summary.Info++
		case SeverityWarning:
			report.Summary.Warnings++
		case SeverityError:
			report.Summary.Errors++
		}
	}

	return report
}

// Fix runs Fix on every check that implements Fixer and reported a
// fixable result in report.
func (r *Runner) Fix(ctx context.Context, report *Report) []FixResult {
	var fixes []FixResult
	for i, check := range r.checks {
		fixer, ok := check.(Fixer)
		if !ok || i >= len(report.Results) || !report.Results[i].Fixable {
			continue
		}
		fixes = append(fixes, fixer.Fix(ctx)...)
	}
	return fixes
}

// Report aggregates all check results with a summary.
type Report struct {
	Timestamp time.Time      `json:"timestamp"`
	Results   []*CheckResult `json:"results"`
	Summary   Summary        `json:"summary"`
	Fixes     []FixResult    `json:"fixes,omitempty"`
}

// HasErrors returns true if any check has SeverityError.
func (r *Report) HasErrors() bool {
	return r.Summary.Errors > 0
}

// HasWarnings returns true if any check has SeverityWarning.
func (r *Report) HasWarnings() bool {
	return r.Summary.Warnings > 0
}
