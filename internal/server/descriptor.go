package server

import (
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/thoreinstein/mcpconf/internal/errors"
)

var typeNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Values maps parameter names to user-supplied values.
type Values map[string]any

// Descriptor is a named server type. Descriptors are immutable once
// registered.
type Descriptor struct {
	TypeName    string `json:"type_name" yaml:"type_name" toml:"type_name"`
	DisplayName string `json:"display_name,omitempty" yaml:"display_name,omitempty" toml:"display_name,omitempty"`
	// LaunchModule is run as "<interpreter> -m <LaunchModule>".
	LaunchModule string `json:"launch_module" yaml:"launch_module" toml:"launch_module"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	// Params are emitted in this order.
	Params []Param `json:"params,omitempty" yaml:"params,omitempty" toml:"params,omitempty"`
}

// Title returns DisplayName, or TypeName when no display name is set.
func (d *Descriptor) Title() string {
	if d.DisplayName != "" {
		return d.DisplayName
	}
	return d.TypeName
}

// Param returns the named parameter.
func (d *Descriptor) Param(name string) (Param, bool) {
	for _, p := range d.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Validate checks the descriptor's structural invariants.
func (d *Descriptor) Validate() error {
	if d == nil {
		return errors.New("descriptor is nil")
	}
	if !typeNamePattern.MatchString(d.TypeName) {
		return errors.Newf("invalid server type name %q", d.TypeName)
	}
	if strings.TrimSpace(d.LaunchModule) == "" {
		return errors.Newf("server type %q: launch module is required", d.TypeName)
	}

	seen := make(map[string]struct{}, len(d.Params))
	for _, p := range d.Params {
		if err := p.validate(); err != nil {
			return errors.Wrapf(err, "server type %q", d.TypeName)
		}
		if _, dup := seen[p.Name]; dup {
			return errors.Newf("server type %q: duplicate parameter %q", d.TypeName, p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}

// Resolve validates user values against the descriptor and fills in
// defaults. The result holds canonical types ([]string, bool or string)
// and is suitable for GenerateArgs. Errors are marked
// errors.ErrInvalidArgument.
func (d *Descriptor) Resolve(values Values) (Values, error) {
	var unknown []string
	for name := range values {
		if _, ok := d.Param(name); !ok {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, invalidArg(errors.Newf("server type %q has no parameter(s) %s", d.TypeName, strings.Join(unknown, ", ")))
	}

	resolved := make(Values, len(d.Params))
	var missing []string
	for _, p := range d.Params {
		raw, ok := values[p.Name]
		if !ok || raw == nil {
			raw, ok = p.Default, p.Default != nil
		}
		if !ok {
			if p.Required {
				missing = append(missing, p.CLIFlag())
			}
			continue
		}

		v, err := p.coerce(raw)
		if err != nil {
			return nil, invalidArg(errors.Wrapf(err, "parameter %s", p.CLIFlag()))
		}
		if items, isList := v.([]string); isList && len(items) == 0 && p.Required {
			missing = append(missing, p.CLIFlag())
			continue
		}
		resolved[p.Name] = v
	}

	if len(missing) > 0 {
		return nil, invalidArg(errors.Newf("server type %q requires %s", d.TypeName, strings.Join(missing, ", ")))
	}
	return resolved, nil
}

// ParamNames returns parameter names in descriptor order.
func (d *Descriptor) ParamNames() []string {
	names := make([]string, len(d.Params))
	for i, p := range d.Params {
		names[i] = p.Name
	}
	return names
}

func (d *Descriptor) clone() *Descriptor {
	c := *d
	c.Params = make([]Param, len(d.Params))
	for i, p := range d.Params {
		p.Choices = slices.Clone(p.Choices)
		if list, ok := p.Default.([]string); ok {
			p.Default = slices.Clone(list)
		}
		c.Params[i] = p
	}
	return &c
}

func invalidArg(err error) error {
	return errors.Mark(err, errors.ErrInvalidArgument)
}
