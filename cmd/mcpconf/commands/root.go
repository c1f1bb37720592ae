// Package commands implements the CLI commands for mcpconf.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcpconf/cmd"
	"github.com/thoreinstein/mcpconf/internal/client"
	"github.com/thoreinstein/mcpconf/internal/config"
	"github.com/thoreinstein/mcpconf/internal/errors"
	"github.com/thoreinstein/mcpconf/internal/logging"
)

// debugEnv raises the log level when no -v flag is given.
const debugEnv = config.EnvPrefix + "_DEBUG"

// clientFlag holds the value of the --client flag.
var clientFlag string

// projectDir holds the value of the --project-dir flag.
var projectDir string

// configFile holds the value of the --config flag.
var configFile string

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

var (
	// cfg is the loaded configuration; nil until initConfig has run.
	cfg *config.Config
	// configLoadErr holds any error that occurred during config loading.
	configLoadErr error
	// logCloser closes the --log-file handle of the previous run.
	logCloser io.Closer
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&clientFlag, "client", "c", "",
		"target client: "+strings.Join(client.Variants(), ", ")+" (default: default_client from config)")
	rootCmd.PersistentFlags().StringVar(&projectDir, "project-dir", "",
		"project root for workspace clients (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file (default: $XDG_CONFIG_HOME/mcpconf/config.yaml)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv, -vvv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"also write logs to this file in JSON format")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("mcpconf version {{.Version}}\n")

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func initConfig() {
	config.Init()
	cfg, configLoadErr = config.Load(configFile)
}

var rootCmd = &cobra.Command{
	Use:   "mcpconf",
	Short: "Configure MCP servers for Claude and VS Code",
	Long: `mcpconf writes MCP server entries into the config files of MCP host
clients: Claude Desktop, Claude Code and VS Code (workspace and user).

Server types describe how a server is launched and which parameters it
takes. mcpconf turns a server type plus parameters into a config entry,
backs up the existing file and writes the change atomically. Entries it
did not create are never modified.`,
	Example: `  # Add a filesystem server to the VS Code workspace config
  mcpconf setup filesystem docs --root ./docs -c vscode

  # List configured servers
  mcpconf list -c claude-desktop

  # Check the config for problems
  mcpconf validate -c claude-code

  See Also: mcpconf servers, mcpconf backup`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkConfig(cmd)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags and
// stores it in the command context.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(
			errors.Mark(errors.New("--quiet and --verbose are mutually exclusive"), errors.ErrInvalidArgument),
			"Use only one of -q or -v")
	}

	format, err := logging.ParseFormat(logFormat)
	if err != nil {
		return err
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv(debugEnv); ok {
				switch val {
				case "1", "true":
					v = 2
				case "2":
					v = 3
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	if logCloser != nil {
		_ = logCloser.Close()
		logCloser = nil
	}
	logCfg := logging.Config{
		Level:  level,
		Format: format,
		Output: cmd.ErrOrStderr(),
	}
	if logFile != "" {
		f, err := logging.OpenFile(logFile)
		if err != nil {
			return errors.NewUserError(err, "Check the --log-file path")
		}
		logCfg.File = f
		logCloser = f
	}

	logger := logging.New(logCfg)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	if used := config.FileUsed(); used != "" {
		logger.Debug("loaded config", "path", used)
	}
	return nil
}

// checkConfig reports config load errors, except for commands that work
// without a usable config.
func checkConfig(cmd *cobra.Command) error {
	if cmd.Name() == "help" || cmd.Name() == "version" {
		return nil
	}
	if configLoadErr != nil {
		return errors.NewConfigError(configLoadErr)
	}
	if clientFlag != "" && !client.IsVariant(clientFlag) {
		err := errors.Mark(errors.Newf("unknown client %q (valid: %s)",
			clientFlag, strings.Join(client.Variants(), ", ")), errors.ErrInvalidArgument)
		return errors.NewUserError(err, "Run 'mcpconf --help' to see valid clients")
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	defer func() {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	}()
	return rootCmd.Execute()
}

// HandleError prints err with its suggestion to w and returns the process
// exit code.
func HandleError(w io.Writer, err error) int {
	if err == nil {
		return errors.ExitSuccess
	}
	exitErr := errors.Classify(err)
	slog.Debug("command failed", "error", fmt.Sprintf("%+v", err))

	fmt.Fprintf(w, "%s %s\n", color.RedString("Error:"), exitErr.Error())
	if exitErr.Suggestion != "" {
		fmt.Fprintf(w, "  %s\n", exitErr.Suggestion)
	}
	return exitErr.Code
}
