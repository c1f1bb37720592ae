package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpconf/internal/editor"
	"github.com/thoreinstein/mcpconf/internal/errors"
	"github.com/thoreinstein/mcpconf/internal/paths"
	"github.com/thoreinstein/mcpconf/internal/validator"
)

func init() {
	rootCmd.AddCommand(editCmd)
}

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the client config in your editor",
	Long: `Open the selected client's config file in $EDITOR (or $VISUAL).

The config is backed up first, the same way setup and remove do. After
the editor exits the file is validated; when it has errors the backup
can be restored with 'mcpconf backup restore'.`,
	Example: `  # Edit the VS Code workspace config
  EDITOR="code --wait" mcpconf edit -c vscode`,
	Args: cobra.NoArgs,
	RunE: runEdit,
}

func runEdit(cmd *cobra.Command, _ []string) error {
	h, err := newHandler(cmd)
	if err != nil {
		return err
	}

	var saved string
	if currentConfig().Backup {
		if saved, err = h.BackupConfig(); err != nil {
			return err
		}
	}
	if err := paths.EnsureDir(filepath.Dir(h.ConfigPath()), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", h.ConfigPath())
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Location: %s\n", h.ConfigPath())
	streams := editor.Streams{In: cmd.InOrStdin(), Out: w, Err: cmd.ErrOrStderr()}
	if err := editor.Open(cmd.Context(), h.ConfigPath(), streams); err != nil {
		return errors.NewSystemError(err, "Set $EDITOR to the editor you want to use")
	}

	issues, err := h.ValidateConfig()
	if err != nil {
		return errors.NewUserError(err, restoreHint(saved))
	}
	result := &validator.Result{Path: h.ConfigPath()}
	result.Add(issues...)
	if result.HasErrors() || result.HasWarnings() {
		if err := validator.NewReporter(w, validator.FormatText).Report(result); err != nil {
			return err
		}
	}
	if result.HasErrors() {
		return errors.NewUserError(
			errors.Newf("%s has %d validation error(s)", h.ConfigPath(), len(result.Errors())), restoreHint(saved))
	}
	return nil
}

func restoreHint(backupPath string) string {
	if backupPath == "" {
		return ""
	}
	return "Run 'mcpconf backup restore " + filepath.Base(backupPath) + "' to undo the edit"
}
