package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var removeJSON bool

func init() {
	removeCmd.Flags().BoolVar(&removeJSON, "json", false, "Output the result as JSON")
	rootCmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:     "remove <instance-name>",
	Aliases: []string{"rm"},
	Short:   "Remove an MCP server entry created by mcpconf",
	Long: `Remove a server entry from the selected client's config.

Only entries created by mcpconf can be removed. For Claude Code the name is
matched as given and then in its normalized form. The config is backed up
first unless backups are disabled.`,
	Example: `  # Remove a server from the VS Code workspace config
  mcpconf remove docs -c vscode

  See Also:
    mcpconf list - Show configured servers`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func runRemove(cmd *cobra.Command, args []string) error {
	eng, err := newEngine(cmd)
	if err != nil {
		return err
	}
	h, err := newHandler(cmd)
	if err != nil {
		return err
	}

	report, err := eng.RemoveServer(cmd.Context(), h, args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if removeJSON {
		return writeJSON(w, report)
	}
	if quiet {
		return nil
	}
	fmt.Fprintf(w, "%s Removed server %q from %s\n", green("✓"), report.Name, h.DisplayName())
	fmt.Fprintf(w, "  config: %s\n", report.ConfigPath)
	if report.BackupPath != "" {
		fmt.Fprintf(w, "  backup: %s\n", report.BackupPath)
	}
	return nil
}
