package commands

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpconf/internal/client"
	"github.com/thoreinstein/mcpconf/internal/redact"
)

var (
	listDetailed    bool
	listManaged     bool
	listJSON        bool
	listShowSecrets bool
)

func init() {
	listCmd.Flags().BoolVarP(&listDetailed, "detailed", "d", false, "Show args, env and timestamps for each server")
	listCmd.Flags().BoolVar(&listManaged, "managed", false, "Only show servers created by mcpconf")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().BoolVar(&listShowSecrets, "show-secrets", false, "Reveal masked secrets in args and env values")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List configured MCP servers",
	Long: `List the MCP servers in the selected client's config.

Entries created by mcpconf are marked as managed; everything else was added
by hand or by another tool and is left alone by setup and remove.

Values of secret-looking environment variables and flags (TOKEN, KEY,
SECRET, PASSWORD, ...) are masked. Use --show-secrets to reveal them.`,
	Example: `  # List all servers in the Claude Desktop config
  mcpconf list -c claude-desktop

  # Only servers managed by mcpconf, with details
  mcpconf list --managed --detailed -c vscode

  # Output as JSON
  mcpconf list --json -c claude-code`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// listOutput is the JSON shape of list.
type listOutput struct {
	Client     string              `json:"client"`
	ConfigPath string              `json:"config_path"`
	Servers    []client.ServerInfo `json:"servers"`
}

func runList(cmd *cobra.Command, _ []string) error {
	h, err := newHandler(cmd)
	if err != nil {
		return err
	}

	var servers []client.ServerInfo
	if listManaged {
		servers, err = h.ListManagedServers()
	} else {
		servers, err = h.ListAllServers()
	}
	if err != nil {
		return err
	}
	if !listShowSecrets {
		for i := range servers {
			maskServer(&servers[i])
		}
	}

	w := cmd.OutOrStdout()
	if listJSON {
		if servers == nil {
			servers = []client.ServerInfo{}
		}
		return writeJSON(w, listOutput{Client: h.Name(), ConfigPath: h.ConfigPath(), Servers: servers})
	}

	fmt.Fprintf(w, "%s %s\n", cyan(h.DisplayName()), faint(h.ConfigPath()))
	if len(servers) == 0 {
		fmt.Fprintf(w, "  %s\n", faint("(no MCP servers configured)"))
		return nil
	}
	if listDetailed {
		printServersDetailed(w, servers)
		return nil
	}
	printServersTable(w, servers)
	return nil
}

func maskServer(s *client.ServerInfo) {
	s.Args = redact.Args(s.Args)
	s.Env = redact.Map(s.Env)
	if s.URL != "" {
		s.URL = redact.MaskURL(s.URL)
	}
	if entry, ok := s.Entry.(map[string]any); ok {
		masked := maskEntry(entry)
		if u, ok := masked["url"].(string); ok {
			masked["url"] = redact.MaskURL(u)
		}
		s.Entry = masked
	}
}

func printServersTable(w io.Writer, servers []client.ServerInfo) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  NAME\tMANAGED\tTYPE\tCOMMAND/URL")
	for _, s := range servers {
		managed := "no"
		if s.Managed {
			managed = "yes"
		}
		typ := s.ServerType
		if typ == "" {
			typ = "-"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", s.Name, managed, typ, truncate(target(s), 60))
	}
	_ = tw.Flush()
}

func printServersDetailed(w io.Writer, servers []client.ServerInfo) {
	for i, s := range servers {
		if i > 0 {
			fmt.Fprintln(w)
		}
		status := "external"
		if s.Managed {
			status = "managed"
		}
		if s.ServerType != "" {
			status += ", " + s.ServerType
		}
		fmt.Fprintf(w, "  %s %s\n", bold(s.Name), faint("("+status+")"))

		if s.Command != "" {
			fmt.Fprintf(w, "    command: %s\n", s.Command)
		}
		if len(s.Args) > 0 {
			fmt.Fprintf(w, "    args:    %s\n", strings.Join(s.Args, " "))
		}
		if s.URL != "" {
			fmt.Fprintf(w, "    url:     %s\n", s.URL)
		}
		if len(s.Env) > 0 {
			keys := make([]string, 0, len(s.Env))
			for k := range s.Env {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			for j, k := range keys {
				label := "env:    "
				if j > 0 {
					label = "        "
				}
				fmt.Fprintf(w, "    %s %s=%s\n", label, k, s.Env[k])
			}
		}
		if s.CreatedAt != nil {
			fmt.Fprintf(w, "    created: %s\n", s.CreatedAt.Local().Format(time.DateTime))
		}
		if s.UpdatedAt != nil {
			fmt.Fprintf(w, "    updated: %s\n", s.UpdatedAt.Local().Format(time.DateTime))
		}
	}
}

// target is the short launch description of a server.
func target(s client.ServerInfo) string {
	if s.URL != "" {
		return s.URL
	}
	if s.Command == "" {
		return "-"
	}
	return strings.Join(append([]string{s.Command}, s.Args...), " ")
}
