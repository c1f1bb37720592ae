// Package validator holds the issue types produced when checking host
// config files, plus a reporter for printing them.
package validator

import (
	"fmt"
	"strings"

	"github.com/thoreinstein/mcpconf/internal/errors"
)

// Severity ranks an Issue. Errors make the host reject the file or the
// entry; warnings and infos do not.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

var severityNames = [...]string{SeverityError: "error", SeverityWarning: "warning", SeverityInfo: "info"}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return "unknown"
	}
	return severityNames[s]
}

// MarshalText renders the severity by name in JSON reports.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	for i, name := range severityNames {
		if name == string(text) {
			*s = Severity(i)
			return nil
		}
	}
	return errors.Newf("unknown severity %q", text)
}

// Issue represents a single validation problem.
type Issue struct {
	Severity Severity `json:"severity"`
	// Server is the instance name the issue belongs to; empty for
	// document-level problems.
	Server string `json:"server,omitempty"`
	// Field is the JSON path inside the entry or document, e.g. "args/1".
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	// Value is the offending value, when it helps.
	Value   any               `json:"value,omitempty"`
	Context map[string]string `json:"context,omitempty"`
}

// Error renders the issue on one line, as in
// `error: server "fs": field "args": must be an array (got x)`.
func (i Issue) Error() string {
	parts := []string{i.Severity.String()}
	if i.Server != "" {
		parts = append(parts, fmt.Sprintf("server %q", i.Server))
	}
	if i.Field != "" {
		parts = append(parts, fmt.Sprintf("field %q", i.Field))
	}
	msg := strings.Join(append(parts, i.Message), ": ")
	if i.Value != nil {
		msg += fmt.Sprintf(" (got %v)", i.Value)
	}
	return msg
}

// Result aggregates validation issues.
type Result struct {
	// Path is the config file that was checked.
	Path   string  `json:"path,omitempty"`
	Issues []Issue `json:"issues"`
}

func (r *Result) HasErrors() bool   { return len(r.Errors()) > 0 }
func (r *Result) HasWarnings() bool { return len(r.Warnings()) > 0 }

func (r *Result) Add(issues ...Issue) {
	r.Issues = append(r.Issues, issues...)
}

// AddError adds an error issue to the result.
func (r *Result) AddError(server, field, message string, value any) {
	r.Add(Issue{Severity: SeverityError, Server: server, Field: field, Message: message, Value: value})
}

// AddWarning adds a warning issue to the result.
func (r *Result) AddWarning(server, field, message string, value any) {
	r.Add(Issue{Severity: SeverityWarning, Server: server, Field: field, Message: message, Value: value})
}

func (r *Result) Errors() []Issue   { return r.filter(SeverityError) }
func (r *Result) Warnings() []Issue { return r.filter(SeverityWarning) }

func (r *Result) filter(s Severity) []Issue {
	if r == nil {
		return nil
	}
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == s {
			out = append(out, issue)
		}
	}
	return out
}
