package server

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/thoreinstein/mcpconf/internal/errors"
	"github.com/thoreinstein/mcpconf/internal/paths"
)

// PathStyle selects how path parameters are written into a host config.
type PathStyle int

const (
	// PathAbsolute writes cleaned absolute paths.
	PathAbsolute PathStyle = iota
	// PathRelative writes paths relative to the project root when they
	// live under it, and absolute paths otherwise.
	PathRelative
)

func (s PathStyle) String() string {
	if s == PathRelative {
		return "relative"
	}
	return "absolute"
}

// ArgOptions controls argument generation.
type ArgOptions struct {
	// ProjectRoot anchors relative path values. When empty, path values are
	// emitted as given apart from "~" expansion.
	ProjectRoot string
	PathStyle   PathStyle
}

// GenerateArgs builds the ordered argument list for values, which must
// already have passed Resolve. Parameters are visited in descriptor order;
// a missing value falls back to the default and is skipped when there is
// none. Repeatable parameters emit the flag once per element and nothing
// for an empty list.
func (d *Descriptor) GenerateArgs(values Values, opts ArgOptions) ([]string, error) {
	var args []string
	for _, p := range d.Params {
		v, ok := values[p.Name]
		if !ok || v == nil {
			if p.Default == nil {
				continue
			}
			v = p.Default
		}
		flag := p.CLIFlag()

		switch {
		case p.IsFlag:
			on, isBool := v.(bool)
			if !isBool {
				return nil, errors.Newf("parameter %s: expected a boolean, got %T", flag, v)
			}
			if on {
				args = append(args, flag)
			}

		case p.Repeatable:
			items, isList := v.([]string)
			if !isList {
				return nil, errors.Newf("parameter %s: expected a list, got %T", flag, v)
			}
			for _, item := range items {
				if p.Type == TypePath {
					normalized, err := normalizePath(item, opts)
					if err != nil {
						return nil, errors.Wrapf(err, "parameter %s", flag)
					}
					item = normalized
				}
				args = append(args, flag, item)
			}

		default:
			var s string
			switch val := v.(type) {
			case string:
				s = val
			case bool:
				s = strconv.FormatBool(val)
			default:
				return nil, errors.Newf("parameter %s: unexpected value type %T", flag, v)
			}
			if p.Type == TypePath {
				normalized, err := normalizePath(s, opts)
				if err != nil {
					return nil, errors.Wrapf(err, "parameter %s", flag)
				}
				s = normalized
			}
			args = append(args, flag, s)
		}
	}
	return args, nil
}

// normalizePath resolves p against the project root per the path style.
func normalizePath(p string, opts ArgOptions) (string, error) {
	expanded, err := paths.ExpandHome(p)
	if err != nil {
		return "", err
	}
	if opts.ProjectRoot == "" || expanded == "" {
		return expanded, nil
	}

	root := filepath.Clean(opts.ProjectRoot)
	abs := expanded
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(root, abs)
	}
	abs = filepath.Clean(abs)

	if opts.PathStyle == PathAbsolute {
		return abs, nil
	}

	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return abs, nil
	}
	return filepath.ToSlash(rel), nil
}
