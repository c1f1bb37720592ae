// Package config provides configuration management for mcpconf using Viper.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/thoreinstein/mcpconf/internal/errors"
	"github.com/thoreinstein/mcpconf/internal/paths"
)

// AppName is the application name used for config file naming.
const AppName = paths.AppName

// EnvPrefix is the prefix for environment overrides (MCPCONF_PYTHON, ...).
const EnvPrefix = "MCPCONF"

// Config represents the top-level configuration structure.
type Config struct {
	Version       int      `mapstructure:"version" yaml:"version"`
	DefaultClient string   `mapstructure:"default_client" yaml:"default_client"`
	Backup        bool     `mapstructure:"backup" yaml:"backup"`
	Python        string   `mapstructure:"python" yaml:"python"`
	PluginDirs    []string `mapstructure:"plugin_dirs" yaml:"plugin_dirs"`
}

// Init resets Viper and installs the default search paths, environment
// binding and defaults. Call this once at application startup before
// accessing config values.
func Init() {
	viper.Reset()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// MCPCONF_CONFIG_DIR takes precedence over the standard locations.
	if dir := os.Getenv(EnvPrefix + "_CONFIG_DIR"); dir != "" {
		viper.AddConfigPath(dir)
	}
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.AppConfigDir())

	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	viper.SetDefault("version", 1)
	viper.SetDefault("default_client", "")
	viper.SetDefault("backup", true)
	viper.SetDefault("python", "python3")
	viper.SetDefault("plugin_dirs", []string{paths.PluginDir()})
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations and falls back to
// defaults when no file is found.
// The result is validated; all problems are joined into one error marked
// ErrInvalidConfig.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
			// implicit load: defaults only
		case errors.Is(err, os.ErrNotExist) || errors.As(err, &notFound):
			return nil, errors.Mark(errors.Wrapf(err, "config file not found at %s", path), errors.ErrInvalidConfig)
		default:
			return nil, errors.Mark(errors.Wrap(err, "reading config file"), errors.ErrInvalidConfig)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "unmarshaling config"), errors.ErrInvalidConfig)
	}

	for i, dir := range cfg.PluginDirs {
		expanded, err := paths.ExpandHome(dir)
		if err != nil {
			return nil, err
		}
		cfg.PluginDirs[i] = filepath.Clean(expanded)
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Mark(errors.Wrap(errs[0], "validating config"), errors.ErrInvalidConfig)
	}

	return &cfg, nil
}

// FileUsed returns the config file Viper loaded, or "" when running on
// defaults.
func FileUsed() string {
	return viper.ConfigFileUsed()
}
