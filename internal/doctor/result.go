// Package doctor runs diagnostic checks against the client config files
// mcpconf manages and the environment it writes entries for.
package doctor

// Severity indicates the importance level of a check result.
type Severity int

const (
	// SeverityPass indicates the check passed without issues.
	SeverityPass Severity = iota

	// SeverityInfo indicates informational output, not a problem.
	SeverityInfo

	// SeverityWarning indicates a potential issue that doesn't prevent operation.
	SeverityWarning

	// SeverityError indicates a problem that prevents proper operation.
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityPass:
		return "pass"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CheckResult represents the outcome of a single diagnostic check.
type CheckResult struct {
	// Name is the identifier for this check.
	Name string `json:"name"`

	// Category groups related checks (e.g., "filesystem", "config").
	Category string `json:"category"`

	Status  Severity `json:"status"`
	Message string   `json:"message"`

	// Findings lists the individual problems behind Status, worst first.
	Findings []Finding `json:"findings,omitempty"`

	// Fixable indicates whether mcpconf can fix this with --fix.
	Fixable bool   `json:"fixable,omitempty"`
	FixHint string `json:"fix_hint,omitempty"`
}

// Finding is one problem found by a check.
type Finding struct {
	Severity Severity `json:"severity"`
	// Client is the client variant the finding belongs to, if any.
	Client  string `json:"client,omitempty"`
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

// Summary aggregates counts of check results by severity.
type Summary struct {
	Passed   int `json:"passed"`
	Info     int `json:"info"`
	Warnings int `json:"warnings"`
	Errors   int `json:"errors"`
}

// resultFromFindings sets the status of r to the worst finding severity.
func resultFromFindings(r *CheckResult, findings []Finding) *CheckResult {
	r.Findings = findings
	r.Status = SeverityPass
	for _, f := range findings {
		r.Status = max(r.Status, f.Severity)
	}
	return r
}
