package commands

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpconf/internal/backup"
	"github.com/thoreinstein/mcpconf/internal/errors"
)

var backupListJSON bool

func init() {
	backupListCmd.Flags().BoolVar(&backupListJSON, "json", false, "Output in JSON format")
	backupCmd.AddCommand(backupCreateCmd, backupListCmd, backupRestoreCmd)
	rootCmd.AddCommand(backupCmd)
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Back up, list or restore a client config",
	Long: `Back up the selected client's config file.

Backups are also taken automatically before setup and remove change a
config. They are written next to the config with a timestamp in the name
and are never deleted by mcpconf.

Without a subcommand a new backup is created.`,
	Example: `  # Back up the Claude Desktop config
  mcpconf backup -c claude-desktop

  # List backups, newest first
  mcpconf backup list -c claude-desktop

  # Restore the most recent backup
  mcpconf backup restore -c claude-desktop`,
	Args: cobra.NoArgs,
	RunE: runBackupCreate,
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a backup of the config",
	Args:  cobra.NoArgs,
	RunE:  runBackupCreate,
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backups of the config, newest first",
	Args:  cobra.NoArgs,
	RunE:  runBackupList,
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore [backup]",
	Short: "Restore the config from a backup",
	Long: `Replace the config with one of its backups.

The backup is given as a path or as a file name in the config's
directory. Without one, the most recent backup that differs from the
current config is used. The current config is backed up before it is
replaced.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBackupRestore,
}

func runBackupCreate(cmd *cobra.Command, _ []string) error {
	h, err := newHandler(cmd)
	if err != nil {
		return err
	}
	path, err := h.BackupConfig()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if path == "" {
		fmt.Fprintf(w, "%s %s has no config at %s, nothing to back up\n", yellow("!"), h.DisplayName(), h.ConfigPath())
		return nil
	}
	if !quiet {
		fmt.Fprintf(w, "%s Backed up %s\n  backup: %s\n", green("✓"), h.ConfigPath(), path)
	}
	return nil
}

func runBackupList(cmd *cobra.Command, _ []string) error {
	h, err := newHandler(cmd)
	if err != nil {
		return err
	}
	backups, err := h.Backups()
	if err != nil && !errors.Is(err, backup.ErrNoBackupsFound) {
		return err
	}

	w := cmd.OutOrStdout()
	if backupListJSON {
		if backups == nil {
			backups = []backup.Backup{}
		}
		return writeJSON(w, backups)
	}

	fmt.Fprintf(w, "%s %s\n", cyan(h.DisplayName()), faint(h.ConfigPath()))
	if len(backups) == 0 {
		fmt.Fprintf(w, "  %s\n", faint("(no backups)"))
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  CREATED\tSIZE\tFILE\t")
	for _, b := range backups {
		mark := ""
		if b.Current {
			mark = "(same as current)"
		}
		fmt.Fprintf(tw, "  %s\t%d\t%s\t%s\n",
			b.CreatedAt.Local().Format(time.DateTime), b.Size, filepath.Base(b.Path), mark)
	}
	return tw.Flush()
}

func runBackupRestore(cmd *cobra.Command, args []string) error {
	h, err := newHandler(cmd)
	if err != nil {
		return err
	}

	var source string
	if len(args) == 1 {
		source = args[0]
		if !strings.ContainsRune(source, filepath.Separator) {
			source = filepath.Join(filepath.Dir(h.ConfigPath()), source)
		}
	} else {
		source, err = latestBackup(h.Backups)
		if err != nil {
			return err
		}
	}

	prev, err := h.RestoreBackup(source)
	if err != nil {
		if errors.Is(err, backup.ErrNotBackup) {
			return errors.NewUserError(errors.Mark(err, errors.ErrInvalidArgument),
				"Run 'mcpconf backup list' to see backups of this config")
		}
		return err
	}

	if quiet {
		return nil
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s Restored %s\n  from:   %s\n", green("✓"), h.ConfigPath(), source)
	if prev != "" {
		fmt.Fprintf(w, "  backup: %s\n", prev)
	}
	return nil
}

// latestBackup picks the newest backup that differs from the current
// config.
func latestBackup(list func() ([]backup.Backup, error)) (string, error) {
	backups, err := list()
	if err != nil {
		if errors.Is(err, backup.ErrNoBackupsFound) {
			return "", errors.NewUserError(errors.Mark(err, errors.ErrNotFound), "Run 'mcpconf backup' first")
		}
		return "", err
	}
	for _, b := range backups {
		if !b.Current {
			return b.Path, nil
		}
	}
	err = errors.Mark(errors.New("every backup matches the current config"), errors.ErrNotFound)
	return "", errors.NewUserError(err, "")
}
