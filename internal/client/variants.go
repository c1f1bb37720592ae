package client

import (
	"path/filepath"
	"slices"

	"github.com/thoreinstein/mcpconf/internal/backup"
	"github.com/thoreinstein/mcpconf/internal/ownership"
	"github.com/thoreinstein/mcpconf/internal/paths"
	"github.com/thoreinstein/mcpconf/internal/server"
)

// Variant names.
const (
	ClaudeDesktop = "claude-desktop"
	VSCode        = "vscode"
	VSCodeUser    = "vscode-user"
	ClaudeCode    = "claude-code"
)

// variant holds everything that differs between hosts. Shared handler code
// only ever calls through these fields.
type variant struct {
	name    string
	display string

	// section is the key of the servers object in the config.
	section   string
	pathStyle server.PathStyle

	// preserve keeps comments and layout of the existing file.
	preserve    bool
	backupStyle backup.Style

	locate func(projectRoot string) (string, error)

	// sibling locates another scope's config for the same host, if any.
	sibling func() (string, error)

	normalize func(name string) (string, bool, error)
	decorate  func(entry map[string]any)
	tracker   func(configDir string, o *options) ownership.Tracker
}

var variants = []*variant{
	{
		name:        ClaudeDesktop,
		display:     "Claude Desktop",
		section:     "mcpServers",
		pathStyle:   server.PathAbsolute,
		backupStyle: backup.Visible,
		locate:      userScoped(paths.ClaudeDesktopConfig),
		normalize:   keepName,
		decorate:    noFields,
		tracker:     implicitTracker,
	},
	{
		name:        VSCode,
		display:     "VS Code (workspace)",
		section:     "servers",
		pathStyle:   server.PathRelative,
		preserve:    true,
		backupStyle: backup.Visible,
		locate:      projectScoped(paths.VSCodeWorkspaceConfig),
		sibling:     paths.VSCodeUserConfig,
		normalize:   keepName,
		decorate:    noFields,
		tracker:     sidecarTracker,
	},
	{
		name:        VSCodeUser,
		display:     "VS Code (user)",
		section:     "servers",
		pathStyle:   server.PathAbsolute,
		preserve:    true,
		backupStyle: backup.Visible,
		locate:      userScoped(paths.VSCodeUserConfig),
		normalize:   keepName,
		decorate:    noFields,
		tracker:     sidecarTracker,
	},
	{
		name:        ClaudeCode,
		display:     "Claude Code (project)",
		section:     "mcpServers",
		pathStyle:   server.PathAbsolute,
		backupStyle: backup.Hidden,
		locate:      projectScoped(paths.ClaudeCodeProjectConfig),
		sibling:     paths.ClaudeCodeUserConfig,
		normalize:   NormalizeName,
		decorate:    stdioType,
		tracker:     implicitTracker,
	},
}

// Variants lists the supported client names.
func Variants() []string {
	names := make([]string, len(variants))
	for i, v := range variants {
		names[i] = v.name
	}
	return names
}

// IsVariant reports whether name is a supported client.
func IsVariant(name string) bool {
	return slices.Contains(Variants(), name)
}

func lookupVariant(name string) (*variant, bool) {
	for _, v := range variants {
		if v.name == name {
			return v, true
		}
	}
	return nil, false
}

func userScoped(locate func() (string, error)) func(string) (string, error) {
	return func(string) (string, error) {
		return locate()
	}
}

func projectScoped(locate func(string) string) func(string) (string, error) {
	return func(root string) (string, error) {
		return locate(root), nil
	}
}

func keepName(name string) (string, bool, error) {
	return name, false, nil
}

func noFields(map[string]any) {}

func stdioType(entry map[string]any) {
	entry["type"] = "stdio"
}

func implicitTracker(string, *options) ownership.Tracker {
	return ownership.Implicit{}
}

func sidecarTracker(configDir string, o *options) ownership.Tracker {
	return ownership.NewSidecar(configDir,
		ownership.WithClock(o.now),
		ownership.WithWriter(ownership.WriteFunc(o.write)),
	)
}

func configDir(configPath string) string {
	return filepath.Dir(configPath)
}
