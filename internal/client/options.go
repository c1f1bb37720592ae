package client

import (
	"log/slog"
	"os"
	"time"

	"github.com/thoreinstein/mcpconf/internal/logging"
)

// WriteFunc persists data at path. The default writes atomically through
// a temporary file in the same directory.
type WriteFunc func(path string, data []byte, perm os.FileMode) error

type options struct {
	configPath string
	userConfig *string
	backups    bool
	write      WriteFunc
	now        func() time.Time
	logger     *slog.Logger
}

// Option configures a ConfigHandler.
type Option func(*options)

// WithConfigPath overrides the config file location.
func WithConfigPath(path string) Option {
	return func(o *options) {
		o.configPath = path
	}
}

// WithUserConfigPath overrides where the host's other-scope config is
// looked for. An empty path disables the check.
func WithUserConfigPath(path string) Option {
	return func(o *options) {
		o.userConfig = &path
	}
}

// WithBackups controls whether setup and remove back up the config first.
// BackupConfig always creates a backup.
func WithBackups(enabled bool) Option {
	return func(o *options) {
		o.backups = enabled
	}
}

// WithWriter replaces the writer used for the config and sidecar files.
func WithWriter(w WriteFunc) Option {
	return func(o *options) {
		o.write = w
	}
}

// WithClock sets the time source for backups and ownership records.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func defaultOptions() *options {
	return &options{
		backups: true,
		now:     time.Now,
		logger:  logging.NewDiscard(),
	}
}
