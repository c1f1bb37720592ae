package commands

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpconf/internal/errors"
	"github.com/thoreinstein/mcpconf/internal/validator"
)

var validateFormat string

func init() {
	validateCmd.Flags().StringVar(&validateFormat, "format", "text", "Report format: text, json")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate [instance-name]",
	Short: "Check a client config for structural problems",
	Long: `Check the selected client's config file.

The servers section must be an object and every entry must define a
command or a url, with args given as a list of strings and env as an
object of strings. Entries that mcpconf did not create are checked too.

With an instance name only that entry is checked. The command exits with
status 1 when errors are found; warnings alone do not fail it.`,
	Example: `  # Validate the whole VS Code workspace config
  mcpconf validate -c vscode

  # Validate one entry and print JSON
  mcpconf validate docs --format json -c claude-desktop`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	format, err := validator.ParseFormat(validateFormat)
	if err != nil {
		return errors.NewUserError(err, "")
	}
	h, err := newHandler(cmd)
	if err != nil {
		return err
	}

	var issues []validator.Issue
	if len(args) == 1 {
		issues, err = h.ValidateServer(args[0])
	} else {
		issues, err = h.ValidateConfig()
	}
	if err != nil {
		return err
	}

	result := &validator.Result{Path: h.ConfigPath()}
	result.Add(issues...)
	if err := validator.NewReporter(cmd.OutOrStdout(), format).Report(result); err != nil {
		return err
	}

	if result.HasErrors() {
		return errors.NewUserError(
			errors.Newf("%s has %d validation error(s)", h.ConfigPath(), len(result.Errors())), "")
	}
	return nil
}
