package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpconf/internal/client"
	"github.com/thoreinstein/mcpconf/internal/doctor"
	"github.com/thoreinstein/mcpconf/internal/engine"
	"github.com/thoreinstein/mcpconf/internal/errors"
	"github.com/thoreinstein/mcpconf/internal/logging"
)

var (
	doctorJSON bool
	doctorAll  bool
	doctorFix  bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "Output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorAll, "all", false, "Show passed and informational checks too")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Fix permission problems that can be fixed safely")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose client configs and the mcpconf setup",
	Long: `Run diagnostic checks on the client config files and on mcpconf's own
configuration.

The checks load the server types from the plugin directories, look up the
python interpreter, parse each client config and its ownership records,
validate every server entry and inspect file permissions.

Without --client and without default_client in config.yaml every
supported client is checked.

Exit codes:
  0 - No errors (warnings may be present)
  1 - At least one check failed`,
	Example: `  # Check every client
  mcpconf doctor

  # Check one client and fix permissions
  mcpconf doctor -c claude-desktop --fix`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	targets, err := doctorTargets(cmd)
	if err != nil {
		return err
	}

	runner := doctor.NewRunner(
		doctor.NewPluginCheck(newRegistry),
		doctor.NewInterpreterCheck(engine.StaticInterpreter(currentConfig().Python)),
		doctor.NewSyntaxCheck(targets...),
		doctor.NewEntryCheck(targets...),
		doctor.NewPermissionCheck(targets...),
	)

	report := runner.Run(cmd.Context())
	if doctorFix {
		fixes := runner.Fix(cmd.Context(), report)
		if len(fixes) > 0 {
			report = runner.Run(cmd.Context())
			report.Fixes = fixes
		}
	}
	logging.FromContext(cmd.Context()).Debug("doctor finished",
		"errors", report.Summary.Errors, "warnings", report.Summary.Warnings)

	w := cmd.OutOrStdout()
	switch {
	case doctorJSON:
		if err := writeJSON(w, report); err != nil {
			return err
		}
	case !quiet:
		printDoctorReport(w, report)
	}

	if report.HasErrors() {
		return errors.NewUserError(
			errors.Newf("doctor found %d failing check(s)", report.Summary.Errors),
			"Run 'mcpconf doctor --all' for details")
	}
	return nil
}

// doctorTargets returns the handler for the selected client, or one per
// supported client when none is selected.
func doctorTargets(cmd *cobra.Command) ([]doctor.Target, error) {
	names := client.Variants()
	if name, err := clientName(); err == nil {
		names = []string{name}
	}

	targets := make([]doctor.Target, 0, len(names))
	for _, name := range names {
		h, err := client.New(name, projectDir, client.WithLogger(logging.FromContext(cmd.Context())))
		if err != nil {
			return nil, err
		}
		targets = append(targets, h)
	}
	return targets, nil
}

func printDoctorReport(w io.Writer, report *doctor.Report) {
	for _, result := range report.Results {
		problem := result.Status == doctor.SeverityError || result.Status == doctor.SeverityWarning
		if !doctorAll && !problem {
			continue
		}

		fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(result.Status), result.Category, result.Name, result.Message)
		for _, f := range result.Findings {
			if !doctorAll && f.Severity < doctor.SeverityWarning {
				continue
			}
			fmt.Fprintf(w, "    %s %s\n", statusIcon(f.Severity), describeFinding(f))
		}
		if result.FixHint != "" && problem {
			fmt.Fprintf(w, "  %s %s\n", faint("hint:"), result.FixHint)
		}
	}

	for _, fix := range report.Fixes {
		if fix.Fixed {
			fmt.Fprintf(w, "%s fixed %s: %s\n", green("✓"), fix.Path, fix.Description)
		} else {
			fmt.Fprintf(w, "%s could not fix %s: %s\n", yellow("!"), fix.Path, fix.Description)
		}
	}

	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
}

func describeFinding(f doctor.Finding) string {
	msg := f.Message
	if f.Path != "" && !strings.Contains(msg, f.Path) {
		msg = f.Path + ": " + msg
	}
	if f.Client != "" {
		msg = "(" + f.Client + ") " + msg
	}
	return msg
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return green("✓")
	case doctor.SeverityInfo:
		return cyan("ℹ")
	case doctor.SeverityWarning:
		return yellow("⚠")
	case doctor.SeverityError:
		return bold("✗")
	default:
		return "?"
	}
}
