package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpconf/cmd"
	"github.com/thoreinstein/mcpconf/internal/client"
)

var versionJSON bool

func init() {
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Print the version, commit, build date and supported clients of mcpconf.`,
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		info := cmd.Info()
		w := c.OutOrStdout()
		if versionJSON {
			return writeJSON(w, struct {
				cmd.Build
				Clients []string `json:"clients"`
			}{info, client.Variants()})
		}
		fmt.Fprintf(w, "mcpconf version %s\n", info.Version)
		fmt.Fprintf(w, "  commit:  %s\n", info.Commit)
		fmt.Fprintf(w, "  built:   %s\n", info.Date)
		fmt.Fprintf(w, "  go:      %s\n", info.GoVersion)
		fmt.Fprintf(w, "  clients: %s\n", strings.Join(client.Variants(), ", "))
		return nil
	},
}
