// Package client reads and writes the MCP server configuration of each
// supported host application.
//
// Every host is served by the same [ConfigHandler]; what differs between
// them is captured by a variant: the servers section key, whether server
// paths are absolute or project-relative, extra fields the host requires,
// how ownership is tracked, how backups are named and whether comments in
// the file must survive a save.
//
// Mutating operations follow one sequence: load the config, check
// ownership, back up the file on disk, edit the entry in memory, then
// write the config atomically followed by any ownership sidecar. A failed
// write leaves the original file untouched and the backup in place.
//
// Concurrent edits by another process between load and save are not
// detected; the last writer wins.
package client

import (
	"time"

	"github.com/thoreinstein/mcpconf/internal/jsondoc"
	"github.com/thoreinstein/mcpconf/internal/server"
	"github.com/thoreinstein/mcpconf/internal/validator"
)

// Handler is the uniform operation set over one host config file.
type Handler interface {
	// Name is the variant identifier, e.g. "vscode".
	Name() string
	DisplayName() string
	ConfigPath() string
	ProjectRoot() string

	// PathStyle is how path parameters must be written for this host.
	PathStyle() server.PathStyle

	// NormalizeName applies the host's instance-name restrictions.
	// changed reports whether the result differs from name.
	NormalizeName(name string) (normalized string, changed bool, err error)

	LoadConfig() (*jsondoc.Document, error)
	SaveConfig(doc *jsondoc.Document) error

	SetupServer(name string, entry Entry) (*SetupResult, error)
	// PlanSetup reports what SetupServer would do, refusals included,
	// without writing.
	PlanSetup(name string, entry Entry) (*SetupResult, error)
	RemoveServer(name string) (*RemoveResult, error)

	ListManagedServers() ([]ServerInfo, error)
	ListAllServers() ([]ServerInfo, error)

	// BackupConfig copies the config file aside and returns the backup
	// path, or "" when there is no file yet.
	BackupConfig() (string, error)

	ValidateConfig() ([]validator.Issue, error)
	ValidateServer(name string) ([]validator.Issue, error)
}

// ServerTypeField is the bookkeeping field callers may set on an Entry to
// name the server type. Fields starting with "_" never reach the file.
const ServerTypeField = "_server_type"

// Entry is a server entry as supplied by callers.
type Entry map[string]any

// NewEntry builds the standard {command, args, env} entry. Nil args and
// env are written as empty values.
func NewEntry(command string, args []string, env map[string]string) Entry {
	if args == nil {
		args = []string{}
	}
	if env == nil {
		env = map[string]string{}
	}
	return Entry{
		"command": command,
		"args":    args,
		"env":     env,
	}
}

// WithServerType returns a copy of e carrying the bookkeeping server type.
func (e Entry) WithServerType(serverType string) Entry {
	out := make(Entry, len(e)+1)
	for k, v := range e {
		out[k] = v
	}
	out[ServerTypeField] = serverType
	return out
}

// ServerInfo describes one entry of the servers section.
type ServerInfo struct {
	Name string `json:"name"`

	// Managed reports whether mcpconf owns the entry.
	Managed bool `json:"managed"`

	// ServerType is known only for entries tracked in a sidecar.
	ServerType string `json:"server_type,omitempty"`

	Command string            `json:"command,omitempty"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
	URL     string            `json:"url,omitempty"`

	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// Entry is a deep copy of the raw entry, unknown fields included.
	Entry any `json:"entry"`
}

// SetupResult reports what SetupServer did.
type SetupResult struct {
	// Name is the instance name written to the config.
	Name string `json:"name"`

	// RequestedName is the name the caller asked for.
	RequestedName string `json:"requested_name"`

	// Renamed is set when Name differs from RequestedName.
	Renamed bool `json:"renamed"`

	// Replaced is set when an existing managed entry was overwritten.
	Replaced bool `json:"replaced"`

	ConfigPath string `json:"config_path"`

	// BackupPath is empty when backups are off or there was no file.
	BackupPath string `json:"backup_path,omitempty"`

	// Entry is the object written to the servers section.
	Entry map[string]any `json:"entry"`

	// Warnings are informational messages for the user.
	Warnings []string `json:"warnings,omitempty"`
}

// RemoveResult reports what RemoveServer did.
type RemoveResult struct {
	Name       string `json:"name"`
	ConfigPath string `json:"config_path"`
	BackupPath string `json:"backup_path,omitempty"`
	Entry      any    `json:"entry"`
}
