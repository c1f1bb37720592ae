package commands

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/thoreinstein/mcpconf/internal/client"
	"github.com/thoreinstein/mcpconf/internal/engine"
	"github.com/thoreinstein/mcpconf/internal/errors"
	"github.com/thoreinstein/mcpconf/internal/logging"
	"github.com/thoreinstein/mcpconf/internal/server"
)

func init() {
	rootCmd.AddCommand(setupCmd)
}

// Server parameters become flags only once the server type is known, so
// setup parses its own arguments.
var setupCmd = &cobra.Command{
	Use:   "setup [server-type] <instance-name> [flags]",
	Short: "Add or update an MCP server entry",
	Long: `Add an MCP server to the selected client's config, or update one that
mcpconf created earlier.

Each server type defines its own parameters, which are accepted as flags
after the type. Run 'mcpconf setup <server-type> --help' to see them, or
'mcpconf servers --detailed' for every type. When the server type is
omitted on a terminal, an interactive picker is shown.

The config file is backed up before it is changed unless backups are
disabled in config.yaml or with --no-backup. Path parameters are written
relative to the project for VS Code workspace configs and as absolute
paths everywhere else.`,
	Example: `  # Expose ./docs to Claude Desktop
  mcpconf setup filesystem docs --root ./docs -c claude-desktop

  # Several allowed directories, read-only
  mcpconf setup filesystem work --root . --allowed-dir ../shared --read-only -c vscode

  # Pass environment variables to the server
  mcpconf setup fetch web --env HTTPS_PROXY=http://proxy:3128 -c claude-code

  # Show the entry without writing it
  mcpconf setup sqlite db --db-path ./app.db --dry-run -c vscode`,
	DisableFlagParsing: true,
	RunE:               runSetup,
}

// setupOptions holds the fixed flags of setup.
type setupOptions struct {
	env         []string
	dryRun      bool
	backup      bool
	noBackup    bool
	jsonOutput  bool
	showSecrets bool
	help        bool
}

// interactive reports whether the server type picker can be shown.
var interactive = func() bool {
	return logging.IsTTY(os.Stdin) && logging.IsTTY(os.Stdout)
}

// pickServerType asks the user to choose one of descs.
var pickServerType = func(descs []*server.Descriptor) (string, error) {
	idx, err := fuzzyfinder.Find(
		descs,
		func(i int) string {
			return fmt.Sprintf("%s: %s", descs[i].TypeName, descs[i].Title())
		},
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			return describeServerType(descs[i])
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return "", errors.NewUserError(
				errors.Mark(errors.New("no server type selected"), errors.ErrInvalidArgument), "")
		}
		return "", errors.Wrap(err, "server type picker failed")
	}
	return descs[idx].TypeName, nil
}

func runSetup(cmd *cobra.Command, args []string) error {
	positional, err := parseGlobals(cmd, args)
	if err != nil {
		return err
	}

	eng, err := newEngine(cmd)
	if err != nil {
		return err
	}
	reg := eng.Registry()

	typeName, err := selectServerType(cmd, reg, positional, args)
	if err != nil || typeName == "" {
		return err
	}
	desc, err := reg.Get(typeName)
	if err != nil {
		return errors.NewUserError(err, "Run 'mcpconf servers' to see available server types")
	}

	opts := &setupOptions{}
	fs, err := newSetupFlags(cmd, desc, opts)
	if err != nil {
		return err
	}
	// counted again by the full parse
	verbosity = 0
	if err := fs.Parse(withoutFirst(args, typeName)); err != nil {
		return errors.NewUserError(errors.Mark(err, errors.ErrInvalidArgument),
			"Run 'mcpconf setup "+typeName+" --help' to see its parameters")
	}
	if opts.help {
		printSetupHelp(cmd.OutOrStdout(), desc, fs)
		return nil
	}

	req, err := buildSetupRequest(desc, fs, opts)
	if err != nil {
		return err
	}

	backups := currentConfig().Backup
	switch {
	case opts.backup && opts.noBackup:
		return errors.NewUserError(
			errors.Mark(errors.New("--backup and --no-backup are mutually exclusive"), errors.ErrInvalidArgument), "")
	case opts.backup:
		backups = true
	case opts.noBackup:
		backups = false
	}

	h, err := newHandler(cmd, client.WithBackups(backups))
	if err != nil {
		return err
	}

	report, err := eng.SetupServer(cmd.Context(), h, req)
	if err != nil {
		return err
	}
	if !opts.showSecrets {
		report.Entry = maskEntry(report.Entry)
	}

	if opts.jsonOutput {
		return writeJSON(cmd.OutOrStdout(), report)
	}
	return printSetupReport(cmd.OutOrStdout(), cmd.ErrOrStderr(), h, report)
}

// parseGlobals applies the root flags found anywhere in args and returns
// the positional arguments. Server parameter flags are skipped here.
func parseGlobals(cmd *cobra.Command, args []string) ([]string, error) {
	fs, err := newSetupFlags(cmd, nil, &setupOptions{})
	if err != nil {
		return nil, err
	}
	fs.ParseErrorsAllowlist.UnknownFlags = true
	if err := fs.Parse(args); err != nil {
		return nil, errors.NewUserError(errors.Mark(err, errors.ErrInvalidArgument), "")
	}

	if fs.Changed("config") {
		initConfig()
	}
	if err := setupLogging(cmd); err != nil {
		return nil, err
	}
	if err := checkConfig(cmd); err != nil {
		return nil, err
	}
	return fs.Args(), nil
}

// selectServerType returns the server type named on the command line or
// chosen in the picker. An empty result means help was printed.
func selectServerType(cmd *cobra.Command, reg *server.Registry, positional, args []string) (string, error) {
	if len(positional) > 0 && slices.Contains(reg.Names(), positional[0]) {
		return positional[0], nil
	}
	if slices.Contains(args, "--help") || slices.Contains(args, "-h") {
		return "", cmd.Help()
	}

	switch {
	case len(positional) > 1:
		_, err := reg.Get(positional[0])
		return "", errors.NewUserError(err, "Run 'mcpconf servers' to see available server types")
	case len(positional) == 0:
		return "", errors.NewUserError(errors.ErrMissingName,
			"Usage: mcpconf setup <server-type> <instance-name> [flags]")
	case !interactive():
		err := errors.Mark(errors.New("server type is required"), errors.ErrInvalidArgument)
		return "", errors.NewUserError(err, "Usage: mcpconf setup <server-type> <instance-name> [flags]")
	}
	return pickServerType(reg.All())
}

// newSetupFlags builds the flag set for desc. With a nil desc only the
// fixed and root flags are defined.
func newSetupFlags(cmd *cobra.Command, desc *server.Descriptor, opts *setupOptions) (*pflag.FlagSet, error) {
	fs := pflag.NewFlagSet("setup", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	fs.StringArrayVarP(&opts.env, "env", "e", nil, "environment variable for the server as KEY=VALUE (repeatable)")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "print the entry without writing it")
	fs.BoolVar(&opts.backup, "backup", false, "back up the config before writing (default from config.yaml)")
	fs.BoolVar(&opts.noBackup, "no-backup", false, "do not back up the config")
	fs.BoolVar(&opts.jsonOutput, "json", false, "output the result as JSON")
	fs.BoolVar(&opts.showSecrets, "show-secrets", false, "do not mask secret-looking values in the output")
	fs.BoolVarP(&opts.help, "help", "h", false, "help for setup")
	fs.AddFlagSet(cmd.InheritedFlags())

	if desc == nil {
		return fs, nil
	}
	for _, p := range desc.Params {
		if fs.Lookup(p.Name) != nil {
			err := errors.Newf("parameter %q of server type %q clashes with a setup option", p.Name, desc.TypeName)
			return nil, errors.NewConfigError(errors.Mark(err, errors.ErrInvalidConfig))
		}
		usage := paramUsage(p)
		switch {
		case p.Repeatable:
			fs.StringArray(p.Name, nil, usage)
		case p.Type == server.TypeBoolean:
			fs.Bool(p.Name, false, usage)
		default:
			fs.String(p.Name, "", usage)
		}
	}
	return fs, nil
}

func buildSetupRequest(desc *server.Descriptor, fs *pflag.FlagSet, opts *setupOptions) (engine.SetupRequest, error) {
	rest := fs.Args()
	switch {
	case len(rest) == 0:
		return engine.SetupRequest{}, errors.NewUserError(errors.ErrMissingName,
			"Usage: mcpconf setup "+desc.TypeName+" <instance-name> [flags]")
	case len(rest) > 1:
		err := errors.Newf("unexpected arguments: %s", strings.Join(rest[1:], " "))
		return engine.SetupRequest{}, errors.NewUserError(errors.Mark(err, errors.ErrInvalidArgument), "")
	}

	values := server.Values{}
	var visitErr error
	fs.Visit(func(f *pflag.Flag) {
		p, ok := desc.Param(f.Name)
		if !ok || visitErr != nil {
			return
		}
		switch {
		case p.Repeatable:
			values[p.Name], visitErr = fs.GetStringArray(p.Name)
		case p.Type == server.TypeBoolean:
			values[p.Name], visitErr = fs.GetBool(p.Name)
		default:
			values[p.Name] = f.Value.String()
		}
	})
	if visitErr != nil {
		return engine.SetupRequest{}, errors.Wrap(visitErr, "reading parameter flags")
	}

	env, err := parseEnv(opts.env)
	if err != nil {
		return engine.SetupRequest{}, err
	}

	return engine.SetupRequest{
		ServerType: desc.TypeName,
		Name:       rest[0],
		Values:     values,
		Env:        env,
		DryRun:     opts.dryRun,
	}, nil
}

func parseEnv(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	env := make(map[string]string, len(pairs))
	for _, kv := range pairs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			err := errors.Mark(errors.Newf("invalid --env value %q", kv), errors.ErrInvalidArgument)
			return nil, errors.NewUserError(err, "Use --env KEY=VALUE")
		}
		env[k] = v
	}
	return env, nil
}

// withoutFirst drops the first occurrence of s from args.
func withoutFirst(args []string, s string) []string {
	i := slices.Index(args, s)
	if i < 0 {
		return args
	}
	return slices.Delete(slices.Clone(args), i, i+1)
}

func paramUsage(p server.Param) string {
	usage := p.Help
	if usage == "" {
		usage = string(p.Type)
	}
	var notes []string
	if p.Required {
		notes = append(notes, "required")
	}
	if p.Repeatable {
		notes = append(notes, "repeatable")
	}
	if len(p.Choices) > 0 {
		notes = append(notes, "one of: "+strings.Join(p.Choices, ", "))
	}
	if p.Default != nil {
		notes = append(notes, fmt.Sprintf("default: %v", p.Default))
	}
	if p.CLIFlag() != "--"+p.Name {
		notes = append(notes, "passed as "+p.CLIFlag())
	}
	if len(notes) > 0 {
		usage += " (" + strings.Join(notes, "; ") + ")"
	}
	return usage
}

func printSetupHelp(w io.Writer, desc *server.Descriptor, fs *pflag.FlagSet) {
	fmt.Fprintf(w, "%s\n\n", bold(desc.Title()))
	if desc.Description != "" {
		fmt.Fprintf(w, "%s\n\n", desc.Description)
	}
	fmt.Fprintf(w, "Usage:\n  mcpconf setup %s <instance-name> [flags]\n\n", desc.TypeName)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprint(w, fs.FlagUsages())
}

// printSetupReport writes the outcome to w. Warnings such as an instance
// rename are always shown; with --quiet they go to errW alone.
func printSetupReport(w, errW io.Writer, h client.Handler, r *engine.SetupReport) error {
	if r.DryRun {
		fmt.Fprintf(w, "%s entry %q for %s %s\n", yellow("Dry run:"), r.Name, h.DisplayName(), faint("(not written)"))
		fmt.Fprintf(w, "  config: %s\n", r.ConfigPath)
		if r.Replaced {
			fmt.Fprintf(w, "  action: would replace the existing managed entry\n")
		}
		printWarnings(w, r.Warnings)
		return writeJSON(w, r.Entry)
	}

	if quiet {
		printWarnings(errW, r.Warnings)
		return nil
	}
	verb := "Added"
	if r.Replaced {
		verb = "Updated"
	}
	fmt.Fprintf(w, "%s %s %s server %q for %s\n", green("✓"), verb, r.ServerType, r.Name, h.DisplayName())
	fmt.Fprintf(w, "  config: %s\n", r.ConfigPath)
	if r.BackupPath != "" {
		fmt.Fprintf(w, "  backup: %s\n", r.BackupPath)
	}
	printWarnings(w, r.Warnings)
	return nil
}

func printWarnings(w io.Writer, warnings []string) {
	for _, warning := range warnings {
		fmt.Fprintf(w, "  %s %s\n", yellow("note:"), warning)
	}
}
