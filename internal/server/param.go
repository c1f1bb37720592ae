package server

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/thoreinstein/mcpconf/internal/errors"
)

// ParamType identifies how a parameter value is interpreted.
type ParamType string

// Supported parameter types.
const (
	TypePath    ParamType = "path"
	TypeString  ParamType = "string"
	TypeChoice  ParamType = "choice"
	TypeBoolean ParamType = "boolean"
)

// Valid reports whether t is one of the supported types.
func (t ParamType) Valid() bool {
	switch t {
	case TypePath, TypeString, TypeChoice, TypeBoolean:
		return true
	}
	return false
}

// Param describes one configurable flag of a server.
type Param struct {
	// Name is the kebab-case identifier, unique within a descriptor.
	Name string `json:"name" yaml:"name" toml:"name"`
	// Flag is the CLI flag passed to the server. Defaults to "--<name>".
	Flag string    `json:"flag,omitempty" yaml:"flag,omitempty" toml:"flag,omitempty"`
	Type ParamType `json:"type" yaml:"type" toml:"type"`
	// Required params must have a user value or a default.
	Required bool `json:"required,omitempty" yaml:"required,omitempty" toml:"required,omitempty"`
	// Default is a string, bool or []string depending on Type and Repeatable.
	Default any `json:"default,omitempty" yaml:"default,omitempty" toml:"default,omitempty"`
	// Repeatable params accept several values, each emitted as its own
	// "flag value" pair.
	Repeatable bool     `json:"repeatable,omitempty" yaml:"repeatable,omitempty" toml:"repeatable,omitempty"`
	Choices    []string `json:"choices,omitempty" yaml:"choices,omitempty" toml:"choices,omitempty"`
	// IsFlag booleans take no value and are emitted only when true.
	IsFlag bool   `json:"is_flag,omitempty" yaml:"is_flag,omitempty" toml:"is_flag,omitempty"`
	Help   string `json:"help,omitempty" yaml:"help,omitempty" toml:"help,omitempty"`
}

// CLIFlag returns the flag emitted for this parameter.
func (p Param) CLIFlag() string {
	if p.Flag != "" {
		return p.Flag
	}
	return "--" + p.Name
}

func (p Param) validate() error {
	if p.Name == "" {
		return errors.New("parameter name is required")
	}
	if !p.Type.Valid() {
		return errors.Newf("parameter %q: unknown type %q", p.Name, p.Type)
	}
	if p.Type == TypeChoice && len(p.Choices) == 0 {
		return errors.Newf("parameter %q: choice type needs at least one choice", p.Name)
	}
	if p.Repeatable && p.IsFlag {
		return errors.Newf("parameter %q: repeatable and is_flag are mutually exclusive", p.Name)
	}
	if p.IsFlag && p.Type != TypeBoolean {
		return errors.Newf("parameter %q: is_flag requires boolean type", p.Name)
	}
	if p.Default != nil {
		if _, err := p.coerce(p.Default); err != nil {
			return errors.Wrapf(err, "parameter %q default", p.Name)
		}
	}
	return nil
}

// coerce converts a raw value into the canonical Go type for the param:
// []string for repeatable params, bool for booleans, string otherwise.
// Choice membership is checked here as well.
func (p Param) coerce(v any) (any, error) {
	if p.Repeatable {
		var items []string
		switch val := v.(type) {
		case []string:
			items = slices.Clone(val)
		case []any:
			items = make([]string, 0, len(val))
			for _, item := range val {
				s, err := p.scalar(item)
				if err != nil {
					return nil, err
				}
				items = append(items, s.(string))
			}
		default:
			s, err := p.scalar(v)
			if err != nil {
				return nil, err
			}
			if str, ok := s.(string); ok {
				items = []string{str}
			} else {
				return nil, errors.Newf("expected a list, got %T", v)
			}
		}
		for _, item := range items {
			if err := p.checkChoice(item); err != nil {
				return nil, err
			}
		}
		return items, nil
	}

	s, err := p.scalar(v)
	if err != nil {
		return nil, err
	}
	if str, ok := s.(string); ok {
		if err := p.checkChoice(str); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (p Param) scalar(v any) (any, error) {
	if p.Type == TypeBoolean && !p.Repeatable {
		switch val := v.(type) {
		case bool:
			return val, nil
		case string:
			b, err := strconv.ParseBool(val)
			if err != nil {
				return nil, errors.Newf("expected true or false, got %q", val)
			}
			return b, nil
		default:
			return nil, errors.Newf("expected a boolean, got %T", v)
		}
	}

	switch val := v.(type) {
	case string:
		return val, nil
	case bool, int, int64, float64, uint, uint64:
		return fmt.Sprint(val), nil
	default:
		return nil, errors.Newf("expected a string, got %T", v)
	}
}

func (p Param) checkChoice(s string) error {
	if p.Type != TypeChoice || slices.Contains(p.Choices, s) {
		return nil
	}
	return errors.Newf("%q is not one of %v", s, p.Choices)
}
