// Package plugin discovers server descriptors defined outside the binary.
//
// Each *.yaml, *.yml or *.toml file in a plugin directory holds one
// descriptor:
//
//	type_name: weather
//	display_name: Weather
//	launch_module: mcp_server_weather
//	params:
//	  - name: api-key-file
//	    type: path
//	    required: true
//	  - name: units
//	    type: choice
//	    choices: [metric, imperial]
//	    default: metric
package plugin

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/mcpconf/internal/errors"
	"github.com/thoreinstein/mcpconf/internal/server"
	"github.com/thoreinstein/mcpconf/pkg/fileutil"
)

// DirSource reads descriptor files from a list of directories.
// Missing directories are skipped.
type DirSource struct {
	Dirs []string
}

// Descriptors implements server.Source. Files are read in directory order,
// then by file name.
func (s DirSource) Descriptors() ([]*server.Descriptor, error) {
	var descs []*server.Descriptor
	for _, dir := range s.Dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, errors.Wrapf(err, "reading plugin directory %s", dir)
		}

		names := make([]string, 0, len(entries))
		for _, entry := range entries {
			if entry.IsDir() || !isDescriptorFile(entry.Name()) {
				continue
			}
			names = append(names, entry.Name())
		}
		sort.Strings(names)

		for _, name := range names {
			d, err := LoadFile(filepath.Join(dir, name))
			if err != nil {
				return nil, err
			}
			descs = append(descs, d)
		}
	}
	return descs, nil
}

func isDescriptorFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".toml":
		return true
	}
	return false
}

// LoadFile decodes one descriptor file. Unknown keys are rejected so typos
// surface instead of silently dropping a parameter.
func LoadFile(path string) (*server.Descriptor, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading descriptor %s", path)
	}

	var d server.Descriptor
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&d); err != nil {
			var decodeErr *toml.DecodeError
			if errors.As(err, &decodeErr) {
				row, col := decodeErr.Position()
				err = errors.Newf("line %d, column %d: %s", row, col, decodeErr.Error())
			}
			return nil, invalid(errors.Wrapf(err, "parsing descriptor %s", path))
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&d); err != nil {
			return nil, invalid(errors.Wrapf(err, "parsing descriptor %s", path))
		}
	}

	if d.TypeName == "" {
		d.TypeName = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := d.Validate(); err != nil {
		return nil, invalid(errors.Wrapf(err, "descriptor %s", path))
	}
	return &d, nil
}

func invalid(err error) error {
	return errors.Mark(err, errors.ErrInvalidConfig)
}
