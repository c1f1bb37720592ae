package commands

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpconf/internal/client"
	"github.com/thoreinstein/mcpconf/internal/config"
	"github.com/thoreinstein/mcpconf/internal/engine"
	"github.com/thoreinstein/mcpconf/internal/errors"
	"github.com/thoreinstein/mcpconf/internal/logging"
	"github.com/thoreinstein/mcpconf/internal/redact"
	"github.com/thoreinstein/mcpconf/internal/server"
	"github.com/thoreinstein/mcpconf/internal/server/plugin"
)

var (
	bold   = color.New(color.Bold).SprintFunc()
	faint  = color.New(color.FgHiBlack).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// currentConfig returns the loaded config, or the defaults when loading
// was skipped.
func currentConfig() *config.Config {
	if cfg != nil {
		return cfg
	}
	return &config.Config{
		Version: 1,
		Backup:  true,
		Python:  engine.DefaultInterpreter,
	}
}

// clientName resolves the target client from --client or the config.
func clientName() (string, error) {
	if clientFlag != "" {
		return clientFlag, nil
	}
	if name := currentConfig().DefaultClient; name != "" {
		return name, nil
	}
	err := errors.Mark(errors.New("no client selected"), errors.ErrInvalidArgument)
	return "", errors.NewUserError(err,
		"Pass --client ("+strings.Join(client.Variants(), ", ")+") or set default_client in config.yaml")
}

// newHandler builds the handler for the selected client.
func newHandler(cmd *cobra.Command, opts ...client.Option) (*client.ConfigHandler, error) {
	name, err := clientName()
	if err != nil {
		return nil, err
	}
	base := []client.Option{
		client.WithBackups(currentConfig().Backup),
		client.WithLogger(logging.FromContext(cmd.Context())),
	}
	return client.New(name, projectDir, append(base, opts...)...)
}

// newRegistry holds the built-in server types plus those found in the
// configured plugin directories.
func newRegistry() (*server.Registry, error) {
	reg, err := server.NewRegistry(server.Builtins(), plugin.DirSource{Dirs: currentConfig().PluginDirs})
	if err != nil {
		return nil, errors.NewConfigError(err)
	}
	return reg, nil
}

func newEngine(cmd *cobra.Command) (*engine.Engine, error) {
	reg, err := newRegistry()
	if err != nil {
		return nil, err
	}
	return engine.New(reg,
		engine.WithInterpreter(engine.StaticInterpreter(currentConfig().Python)),
		engine.WithLogger(logging.FromContext(cmd.Context())),
	), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return errors.Wrap(enc.Encode(v), "encoding JSON output")
}

// truncate shortens a string to maxLen characters, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// maskEntry returns a copy of an entry with secret-looking args, env and
// header values masked. Headers only appear in hand-written URL entries.
func maskEntry(entry map[string]any) map[string]any {
	if entry == nil {
		return nil
	}
	out := make(map[string]any, len(entry))
	for k, v := range entry {
		out[k] = v
	}
	if args := stringList(entry["args"]); args != nil {
		out["args"] = redact.Args(args)
	}
	if env := stringMap(entry["env"]); env != nil {
		out["env"] = redact.Map(env)
	}
	if headers := stringMap(entry["headers"]); headers != nil {
		out["headers"] = redact.Map(headers)
	}
	return out
}

func stringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil
			}
			out = append(out, s)
		}
		return out
	}
	return nil
}

func stringMap(v any) map[string]string {
	switch m := v.(type) {
	case map[string]string:
		return m
	case map[string]any:
		out := make(map[string]string, len(m))
		for k, item := range m {
			s, ok := item.(string)
			if !ok {
				return nil
			}
			out[k] = s
		}
		return out
	}
	return nil
}
