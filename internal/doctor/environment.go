package doctor

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/thoreinstein/mcpconf/internal/engine"
	"github.com/thoreinstein/mcpconf/internal/server"
)

// InterpreterCheck verifies that the interpreter written into server
// entries can be found on PATH. Hosts launch entries with their own PATH,
// so a miss is a warning rather than an error.
type InterpreterCheck struct {
	interpreter engine.Interpreter
	lookPath    func(string) (string, error)
}

var _ Check = (*InterpreterCheck)(nil)

// NewInterpreterCheck creates an interpreter check.
func NewInterpreterCheck(i engine.Interpreter) *InterpreterCheck {
	return &InterpreterCheck{interpreter: i, lookPath: exec.LookPath}
}

func (c *InterpreterCheck) Name() string     { return "interpreter" }
func (c *InterpreterCheck) Category() string { return "environment" }

func (c *InterpreterCheck) Run(ctx context.Context) *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	command, err := c.interpreter.Command(ctx)
	if err != nil {
		result.Status = SeverityError
		result.Message = err.Error()
		result.FixHint = "set python in config.yaml"
		return result
	}

	resolved, err := c.lookPath(command)
	if err != nil {
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("interpreter %q not found on PATH", command)
		result.FixHint = "install it or set python in config.yaml to an absolute path"
		return result
	}
	result.Message = fmt.Sprintf("interpreter %q resolves to %s", command, resolved)
	return result
}

// PluginCheck loads the server type registry, reporting descriptor files
// that fail to parse or collide with another type.
type PluginCheck struct {
	load func() (*server.Registry, error)
}

var _ Check = (*PluginCheck)(nil)

// NewPluginCheck creates a plugin check around a registry loader.
func NewPluginCheck(load func() (*server.Registry, error)) *PluginCheck {
	return &PluginCheck{load: load}
}

func (c *PluginCheck) Name() string     { return "server-types" }
func (c *PluginCheck) Category() string { return "config" }

func (c *PluginCheck) Run(context.Context) *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	reg, err := c.load()
	if err != nil {
		result.Status = SeverityError
		result.Message = err.Error()
		result.FixHint = "fix or remove the descriptor file in plugin_dirs"
		return result
	}
	names := reg.Names()
	result.Message = fmt.Sprintf("%d server type(s) available: %s", len(names), strings.Join(names, ", "))
	return result
}
