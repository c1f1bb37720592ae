// Package engine turns a server type plus user parameters into a host
// config entry and applies it through a client handler.
//
// The engine owns no files itself. It resolves the descriptor from a
// registry, validates and defaults the parameters, generates the argument
// list in the handler's path style and hands the finished entry to the
// handler, which performs the backed-up, atomic write.
package engine

import (
	"context"
	"log/slog"

	"github.com/thoreinstein/mcpconf/internal/client"
	"github.com/thoreinstein/mcpconf/internal/errors"
	"github.com/thoreinstein/mcpconf/internal/logging"
	"github.com/thoreinstein/mcpconf/internal/redact"
	"github.com/thoreinstein/mcpconf/internal/server"
)

// DefaultInterpreter is used when no interpreter is configured.
const DefaultInterpreter = "python3"

// Interpreter finds the command that runs server launch modules.
type Interpreter interface {
	Command(ctx context.Context) (string, error)
}

// StaticInterpreter always returns the same command.
type StaticInterpreter string

// Command returns s, or an error when it is empty.
func (s StaticInterpreter) Command(context.Context) (string, error) {
	if s == "" {
		return "", errors.Mark(errors.New("no python interpreter configured"), errors.ErrInvalidConfig)
	}
	return string(s), nil
}

// Engine composes descriptors with client handlers.
type Engine struct {
	registry    *server.Registry
	interpreter Interpreter
	logger      *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithInterpreter sets the interpreter source.
func WithInterpreter(i Interpreter) Option {
	return func(e *Engine) {
		if i != nil {
			e.interpreter = i
		}
	}
}

// WithLogger sets the logger. Without one, the logger carried by the
// context of each call is used.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New returns an engine backed by registry.
func New(registry *server.Registry, opts ...Option) *Engine {
	e := &Engine{
		registry:    registry,
		interpreter: StaticInterpreter(DefaultInterpreter),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the descriptor registry.
func (e *Engine) Registry() *server.Registry {
	return e.registry
}

// SetupRequest asks for one server instance to be configured.
type SetupRequest struct {
	ServerType string
	Name       string

	// Values maps parameter names to user values. Unknown names are
	// rejected; missing ones take their defaults.
	Values server.Values

	Env map[string]string

	// DryRun computes the entry without touching any file.
	DryRun bool
}

// SetupReport describes the outcome of SetupServer.
type SetupReport struct {
	Client        string         `json:"client"`
	ServerType    string         `json:"server_type"`
	Name          string         `json:"name"`
	RequestedName string         `json:"requested_name"`
	Renamed       bool           `json:"renamed"`
	Replaced      bool           `json:"replaced"`
	DryRun        bool           `json:"dry_run"`
	ConfigPath    string         `json:"config_path"`
	BackupPath    string         `json:"backup_path,omitempty"`
	Entry         map[string]any `json:"entry"`
	Warnings      []string       `json:"warnings,omitempty"`
}

// RemoveReport describes the outcome of RemoveServer.
type RemoveReport struct {
	Client     string `json:"client"`
	Name       string `json:"name"`
	ConfigPath string `json:"config_path"`
	BackupPath string `json:"backup_path,omitempty"`
}

// SetupServer builds the entry for req and writes it through h.
func (e *Engine) SetupServer(ctx context.Context, h client.Handler, req SetupRequest) (*SetupReport, error) {
	logger := e.log(ctx).With("client", h.Name(), "server_type", req.ServerType)

	if req.Name == "" {
		return nil, errors.ErrMissingName
	}

	entry, err := e.buildEntry(ctx, h, req)
	if err != nil {
		return nil, err
	}

	report := &SetupReport{
		Client:        h.Name(),
		ServerType:    req.ServerType,
		RequestedName: req.Name,
		DryRun:        req.DryRun,
		ConfigPath:    h.ConfigPath(),
	}

	setup := h.SetupServer
	if req.DryRun {
		setup = h.PlanSetup
	}
	res, err := setup(req.Name, entry)
	if err != nil {
		return nil, errors.Wrapf(err, "configuring %q for %s", req.Name, h.DisplayName())
	}

	report.Name = res.Name
	report.Renamed = res.Renamed
	report.Replaced = res.Replaced
	report.BackupPath = res.BackupPath
	report.Entry = res.Entry
	report.Warnings = res.Warnings
	if req.DryRun {
		logger.Debug("dry run", "name", res.Name, "replaced", res.Replaced)
		return report, nil
	}
	logger.Info("server set up", "name", res.Name, "config", res.ConfigPath)
	return report, nil
}

// RemoveServer deletes a managed server instance through h.
func (e *Engine) RemoveServer(ctx context.Context, h client.Handler, name string) (*RemoveReport, error) {
	res, err := h.RemoveServer(name)
	if err != nil {
		return nil, errors.Wrapf(err, "removing %q from %s", name, h.DisplayName())
	}
	e.log(ctx).Info("server removed", "client", h.Name(), "name", res.Name)
	return &RemoveReport{
		Client:     h.Name(),
		Name:       res.Name,
		ConfigPath: res.ConfigPath,
		BackupPath: res.BackupPath,
	}, nil
}

// buildEntry produces {command, args, env} plus the server type
// bookkeeping field.
func (e *Engine) buildEntry(ctx context.Context, h client.Handler, req SetupRequest) (client.Entry, error) {
	desc, err := e.registry.Get(req.ServerType)
	if err != nil {
		return nil, err
	}
	values, err := desc.Resolve(req.Values)
	if err != nil {
		return nil, err
	}

	params, err := desc.GenerateArgs(values, server.ArgOptions{
		ProjectRoot: h.ProjectRoot(),
		PathStyle:   h.PathStyle(),
	})
	if err != nil {
		return nil, errors.Mark(err, errors.ErrInvalidArgument)
	}

	command, err := e.interpreter.Command(ctx)
	if err != nil {
		return nil, err
	}

	args := make([]string, 0, len(params)+2)
	args = append(args, "-m", desc.LaunchModule)
	args = append(args, params...)

	e.log(ctx).Debug("generated arguments", "server_type", desc.TypeName, "args", redact.Args(args))
	return client.NewEntry(command, args, req.Env).WithServerType(desc.TypeName), nil
}

func (e *Engine) log(ctx context.Context) *slog.Logger {
	if e.logger != nil {
		return e.logger
	}
	return logging.FromContext(ctx)
}
