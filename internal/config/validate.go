package config

import (
	"strings"

	"github.com/thoreinstein/mcpconf/internal/client"
	"github.com/thoreinstein/mcpconf/internal/errors"
)

// Validation errors for configuration fields.
var (
	// ErrUnsupportedVersion indicates the version field is not 1.
	ErrUnsupportedVersion = errors.New("unsupported config version")

	// ErrInvalidClient indicates an unrecognized default client.
	ErrInvalidClient = errors.New("invalid default client")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrEmptyPython indicates the interpreter setting was blanked.
	ErrEmptyPython = errors.New("python interpreter must not be empty")
)

// Validate checks a Config for validity.
// Returns nil if valid, or every problem found.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version != 1 {
		errs = append(errs, errors.Wrapf(ErrUnsupportedVersion, "%d", cfg.Version))
	}

	if cfg.DefaultClient != "" && !client.IsVariant(cfg.DefaultClient) {
		errs = append(errs, errors.Wrapf(ErrInvalidClient, "%s", cfg.DefaultClient))
	}

	if strings.TrimSpace(cfg.Python) == "" {
		errs = append(errs, ErrEmptyPython)
	}

	for _, dir := range cfg.PluginDirs {
		if err := validatePath(dir); err != nil {
			errs = append(errs, &PathError{Field: "plugin_dirs", Path: dir, Err: err})
		}
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	if strings.ContainsRune(path, '\x00') || strings.TrimSpace(path) == "" {
		return ErrInvalidPath
	}
	return nil
}

// PathError represents an error for a specific path field.
type PathError struct {
	Field string
	Path  string
	Err   error
}

func (e *PathError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Path
}

func (e *PathError) Unwrap() error {
	return e.Err
}
