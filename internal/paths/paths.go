package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/adrg/xdg"

	"github.com/thoreinstein/mcpconf/internal/errors"
)

// AppName names the per-user configuration directory.
const AppName = "mcpconf"

// goos is the operating system used for host config locations.
// Tests override it to exercise other platforms.
var goos = runtime.GOOS

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrInvalidPath indicates the provided path is malformed or invalid.
	ErrInvalidPath = errors.New("invalid path")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// Home returns the user's home directory, or "" if it cannot be determined.
// Use ResolveHome for proper error handling.
func Home() string {
	h, _ := ResolveHome()
	return h
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
func ConfigHome() string {
	return xdg.ConfigHome
}

// AppConfigDir returns <ConfigHome>/mcpconf.
func AppConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// PluginDir returns the default directory scanned for external server
// descriptor files.
func PluginDir() string {
	return filepath.Join(AppConfigDir(), "servers")
}

// UserConfigRoot returns the directory desktop applications use for
// per-user settings:
//   - macOS: ~/Library/Application Support
//   - Windows: %APPDATA% (falling back to ~/AppData/Roaming)
//   - others: $XDG_CONFIG_HOME (usually ~/.config)
func UserConfigRoot() (string, error) {
	switch goos {
	case "darwin":
		home, err := ResolveHome()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return appData, nil
		}
		home, err := ResolveHome()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "AppData", "Roaming"), nil
	default:
		if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" && filepath.IsAbs(dir) {
			return dir, nil
		}
		if xdg.ConfigHome != "" {
			return xdg.ConfigHome, nil
		}
		home, err := ResolveHome()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config"), nil
	}
}

// ClaudeDesktopConfig returns the Claude Desktop config file path.
func ClaudeDesktopConfig() (string, error) {
	root, err := UserConfigRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "Claude", "claude_desktop_config.json"), nil
}

// VSCodeUserConfig returns the user-profile VS Code MCP config path.
func VSCodeUserConfig() (string, error) {
	root, err := UserConfigRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "Code", "User", "mcp.json"), nil
}

// VSCodeWorkspaceConfig returns <projectRoot>/.vscode/mcp.json.
func VSCodeWorkspaceConfig(projectRoot string) string {
	return filepath.Join(projectRoot, ".vscode", "mcp.json")
}

// ClaudeCodeProjectConfig returns <projectRoot>/.mcp.json.
func ClaudeCodeProjectConfig(projectRoot string) string {
	return filepath.Join(projectRoot, ".mcp.json")
}

// ClaudeCodeUserConfig returns ~/.claude.json, the user-scope Claude Code
// file that can also carry MCP servers.
func ClaudeCodeUserConfig() (string, error) {
	home, err := ResolveHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".claude.json"), nil
}

// ExpandHome replaces a leading "~" or "~/" with the user's home directory.
// Other paths are returned unchanged.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path, nil
	}
	home, err := ResolveHome()
	if err != nil {
		return "", err
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}

// ProjectRoot resolves the project directory: dir when set (made
// absolute), otherwise the current working directory.
func ProjectRoot(dir string) (string, error) {
	if strings.ContainsRune(dir, '\x00') {
		return "", errors.Wrapf(ErrInvalidPath, "project dir %q", dir)
	}
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, "resolving working directory")
		}
		return wd, nil
	}
	expanded, err := ExpandHome(dir)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", errors.Wrapf(err, "resolving project dir %s", dir)
	}
	return abs, nil
}
