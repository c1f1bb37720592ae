package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpconf/internal/server"
)

var (
	serversDetailed bool
	serversJSON     bool
)

func init() {
	serversCmd.Flags().BoolVarP(&serversDetailed, "detailed", "d", false, "Show the parameters of each server type")
	serversCmd.Flags().BoolVar(&serversJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(serversCmd)
}

var serversCmd = &cobra.Command{
	Use:   "servers",
	Short: "List available server types",
	Long: `List the server types that setup can configure.

Built-in types are always available. Additional types are read from YAML
or TOML descriptor files in the plugin directories set in config.yaml.`,
	Example: `  # List server types
  mcpconf servers

  # Show every parameter
  mcpconf servers --detailed`,
	Args: cobra.NoArgs,
	RunE: runServers,
}

func runServers(cmd *cobra.Command, _ []string) error {
	reg, err := newRegistry()
	if err != nil {
		return err
	}
	descs := reg.All()

	w := cmd.OutOrStdout()
	if serversJSON {
		return writeJSON(w, descs)
	}
	if serversDetailed {
		for i, d := range descs {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprint(w, describeServerType(d))
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TYPE\tNAME\tDESCRIPTION")
	for _, d := range descs {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", d.TypeName, d.Title(), truncate(d.Description, 60))
	}
	return tw.Flush()
}

// describeServerType renders a descriptor with its parameters.
func describeServerType(d *server.Descriptor) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s)\n", bold(d.TypeName), d.Title())
	if d.Description != "" {
		fmt.Fprintf(&sb, "  %s\n", d.Description)
	}
	fmt.Fprintf(&sb, "  module: %s\n", d.LaunchModule)
	if len(d.Params) == 0 {
		return sb.String()
	}

	sb.WriteString("  parameters:\n")
	writeParams(&sb, d.Params)
	return sb.String()
}

func writeParams(w io.Writer, params []server.Param) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, p := range params {
		fmt.Fprintf(tw, "    --%s\t%s\t%s\n", p.Name, p.Type, paramUsage(p))
	}
	_ = tw.Flush()
}
