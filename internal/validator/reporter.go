package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/fatih/color"

	"github.com/thoreinstein/mcpconf/internal/errors"
)

// Format selects how a Reporter renders a Result.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat converts a --format value into a Format. The empty string
// means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON:
		return f, nil
	}
	return "", errors.Mark(errors.Newf("unknown report format %q (want text or json)", s), errors.ErrInvalidArgument)
}

// maxValueWidth bounds how much of an offending value is echoed.
const maxValueWidth = 50

var (
	faintColor = color.New(color.FgHiBlack)
	errorColor = color.New(color.FgRed)
	warnColor  = color.New(color.FgYellow)
)

// Reporter writes validation results for humans or machines.
type Reporter struct {
	out    io.Writer
	format Format
}

func NewReporter(out io.Writer, format Format) *Reporter {
	return &Reporter{out: out, format: format}
}

// Report renders result. A nil result writes nothing.
func (r *Reporter) Report(result *Result) error {
	if result == nil {
		return nil
	}
	if r.format == FormatJSON {
		return r.writeJSON(*result)
	}
	r.writeText(result)
	return nil
}

func (r *Reporter) writeJSON(result Result) error {
	// consumers expect an array even when the config is clean
	if result.Issues == nil {
		result.Issues = []Issue{}
	}
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(result), "encoding JSON report")
}

func (r *Reporter) writeText(result *Result) {
	var where string
	if result.Path != "" {
		where = " " + faintColor.Sprint(result.Path)
	}

	errs, warnings := result.Errors(), result.Warnings()
	if len(errs)+len(warnings) == 0 {
		fmt.Fprintf(r.out, "%s%s\n", color.GreenString("✓ Validation passed"), where)
		return
	}

	var counts []string
	if n := len(errs); n > 0 {
		counts = append(counts, errorColor.Sprintf("%d error(s)", n))
	}
	if n := len(warnings); n > 0 {
		counts = append(counts, warnColor.Sprintf("%d warning(s)", n))
	}
	fmt.Fprintf(r.out, "Validation failed: %s%s\n", strings.Join(counts, ", "), where)

	r.writeGroup("Errors", errs, errorColor)
	r.writeGroup("Warnings", warnings, warnColor)
}

func (r *Reporter) writeGroup(title string, issues []Issue, c *color.Color) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintf(r.out, "\n%s:\n", title)
	for _, issue := range issues {
		fmt.Fprintln(r.out, "  • "+formatIssue(issue, c))
	}
}

// formatIssue renders "server.field: message (k=v) [value]".
func formatIssue(i Issue, c *color.Color) string {
	var b strings.Builder
	if label := issueLabel(i); label != "" {
		b.WriteString(c.Sprint(label) + ": ")
	}
	b.WriteString(i.Message)

	if len(i.Context) > 0 {
		pairs := make([]string, 0, len(i.Context))
		for _, k := range slices.Sorted(maps.Keys(i.Context)) {
			pairs = append(pairs, k+"="+i.Context[k])
		}
		b.WriteString(" " + faintColor.Sprintf("(%s)", strings.Join(pairs, ", ")))
	}

	if i.Value != nil {
		v := fmt.Sprint(i.Value)
		if len(v) > maxValueWidth {
			v = v[:maxValueWidth-3] + "..."
		}
		b.WriteString(" " + faintColor.Sprintf("[%s]", v))
	}
	return b.String()
}

func issueLabel(i Issue) string {
	switch {
	case i.Server == "":
		return i.Field
	case i.Field == "":
		return i.Server
	default:
		return i.Server + "." + i.Field
	}
}
