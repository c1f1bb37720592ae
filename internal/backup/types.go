package backup

import (
	"time"

	"github.com/thoreinstein/mcpconf/internal/errors"
)

// TimestampLayout is the time format embedded in backup file names.
const TimestampLayout = "20060102_150405"

// maxCollisions bounds the numeric suffixes tried for one timestamp.
const maxCollisions = 1000

// Sentinel errors for backup operations.
var (
	// ErrNoBackupsFound indicates no backups exist for the config file.
	ErrNoBackupsFound = errors.New("no backups found")

	// ErrNotBackup indicates a path does not follow the backup naming
	// convention for the config file it is being restored to.
	ErrNotBackup = errors.New("not a backup of this config file")
)

// Style selects how backup files are named.
type Style int

const (
	// Visible backups sit next to the config as <stem>.backup_<ts>.json.
	Visible Style = iota
	// Hidden backups are dot-prefixed and carry no extension:
	// .<stem>.backup_<ts>.
	Hidden
)

// String returns the style name.
func (s Style) String() string {
	if s == Hidden {
		return "hidden"
	}
	return "visible"
}

// Backup describes one backup file on disk.
type Backup struct {
	// Path is the backup file location.
	Path string `json:"path"`

	// Source is the config file the backup was taken from.
	Source string `json:"source"`

	// CreatedAt is parsed from the file name, in local time.
	CreatedAt time.Time `json:"created_at"`

	// SHA256 is the hex-encoded hash of the backup contents.
	SHA256 string `json:"sha256"`

	// Size is the backup size in bytes.
	Size int64 `json:"size"`

	// Current reports whether the backup matches the config file as it is
	// now. Only set by List.
	Current bool `json:"current"`
}
