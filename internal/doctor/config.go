package doctor

import (
	"context"
	"fmt"

	"github.com/thoreinstein/mcpconf/internal/validator"
)

// SyntaxCheck parses each target's config and ownership sidecar.
type SyntaxCheck struct {
	targets []Target
}

var _ Check = (*SyntaxCheck)(nil)

// NewSyntaxCheck creates a syntax check for targets.
func NewSyntaxCheck(targets ...Target) *SyntaxCheck {
	return &SyntaxCheck{targets: targets}
}

func (c *SyntaxCheck) Name() string     { return "config-syntax" }
func (c *SyntaxCheck) Category() string { return "config" }

// Run loads every target. A missing config is informational.
func (c *SyntaxCheck) Run(context.Context) *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	var findings []Finding
	parsed := 0
	for _, t := range c.targets {
		doc, err := t.LoadConfig()
		switch {
		case err != nil:
			findings = append(findings, Finding{
				Severity: SeverityError,
				Client:   t.Name(),
				Path:     t.ConfigPath(),
				Message:  err.Error(),
			})
		case !doc.Exists():
			findings = append(findings, Finding{
				Severity: SeverityInfo,
				Client:   t.Name(),
				Path:     t.ConfigPath(),
				Message:  "config file does not exist (not configured)",
			})
		default:
			parsed++
		}
	}

	resultFromFindings(result, findings)
	switch result.Status {
	case SeverityError:
		result.Message = fmt.Sprintf("%d config file(s) could not be loaded", countSeverity(findings, SeverityError))
		result.FixHint = "fix the syntax in each file or restore one with 'mcpconf backup restore'"
	case SeverityInfo:
		if parsed == 0 {
			result.Message = "no config files found to validate"
		} else {
			result.Message = fmt.Sprintf("%d config file(s) parsed, %d not created yet", parsed, len(findings))
		}
	default:
		result.Message = fmt.Sprintf("%d config file(s) parsed successfully", parsed)
	}
	return result
}

// EntryCheck validates the server entries of each target and the
// consistency of their ownership records.
type EntryCheck struct {
	targets []Target
}

var _ Check = (*EntryCheck)(nil)

// NewEntryCheck creates an entry check for targets.
func NewEntryCheck(targets ...Target) *EntryCheck {
	return &EntryCheck{targets: targets}
}

func (c *EntryCheck) Name() string     { return "server-entries" }
func (c *EntryCheck) Category() string { return "config" }

// Run reports validation issues. Targets that fail to load are left to
// SyntaxCheck.
func (c *EntryCheck) Run(context.Context) *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	var findings []Finding
	checked := 0
	for _, t := range c.targets {
		issues, err := t.ValidateConfig()
		if err != nil {
			continue
		}
		checked++
		for _, issue := range issues {
			if issue.Severity == validator.SeverityInfo {
				continue
			}
			findings = append(findings, Finding{
				Severity: fromIssue(issue.Severity),
				Client:   t.Name(),
				Path:     t.ConfigPath(),
				Message:  issue.Error(),
			})
		}
	}

	resultFromFindings(result, findings)
	switch result.Status {
	case SeverityPass:
		result.Message = fmt.Sprintf("server entries in %d config(s) are valid", checked)
	default:
		result.Message = fmt.Sprintf("found %d error(s) and %d warning(s) in server entries",
			countSeverity(findings, SeverityError), countSeverity(findings, SeverityWarning))
		result.FixHint = "run 'mcpconf validate' for details; re-run setup to rewrite managed entries"
	}
	return result
}

func fromIssue(s validator.Severity) Severity {
	switch s {
	case validator.SeverityError:
		return SeverityError
	case validator.SeverityWarning:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

func countSeverity(findings []Finding, s Severity) int {
	n := 0
	for _, f := range findings {
		if f.Severity == s {
			n++
		}
	}
	return n
}
