package ownership

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/thoreinstein/mcpconf/internal/errors"
	"github.com/thoreinstein/mcpconf/pkg/fileutil"
)

// SidecarName is the file name of the ownership sidecar, stored in the
// same directory as the config it describes.
const SidecarName = ".mcp-config-metadata.json"

// SidecarVersion is the sidecar format version written by Save.
const SidecarVersion = 1

// ErrUnsupportedVersion is returned when a sidecar was written by a newer
// format version.
var ErrUnsupportedVersion = errors.New("unsupported sidecar version")

// WriteFunc persists data at path.
type WriteFunc func(path string, data []byte, perm os.FileMode) error

type sidecarFile struct {
	Version int               `json:"version"`
	Servers map[string]Record `json:"servers"`
}

// Sidecar tracks ownership in a JSON file beside the config:
//
//	{"version": 1, "servers": {"<name>": {"server_type": "...",
//	  "created_at": "...", "updated_at": "..."}}}
//
// A missing sidecar means no entry is managed.
type Sidecar struct {
	path    string
	now     func() time.Time
	write   WriteFunc
	records map[string]Record
}

var _ Tracker = (*Sidecar)(nil)

// SidecarOption configures a Sidecar.
type SidecarOption func(*Sidecar)

// WithClock sets the time source for record timestamps.
func WithClock(now func() time.Time) SidecarOption {
	return func(s *Sidecar) {
		if now != nil {
			s.now = now
		}
	}
}

// WithWriter replaces the file writer.
func WithWriter(w WriteFunc) SidecarOption {
	return func(s *Sidecar) {
		if w != nil {
			s.write = w
		}
	}
}

// NewSidecar returns a tracker for the config stored in configDir.
func NewSidecar(configDir string, opts ...SidecarOption) *Sidecar {
	s := &Sidecar{
		path:    filepath.Join(configDir, SidecarName),
		now:     time.Now,
		write:   fileutil.AtomicWriteFile,
		records: make(map[string]Record),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the sidecar file location.
func (s *Sidecar) Path() string {
	return s.path
}

// Load replaces the in-memory records with the sidecar's contents.
func (s *Sidecar) Load() error {
	s.records = make(map[string]Record)

	data, err := fileutil.ReadFileWithLimit(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errors.Wrapf(err, "reading %s", s.path)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	var file sidecarFile
	if err := json.Unmarshal(data, &file); err != nil {
		return errors.Mark(errors.Wrapf(err, "parsing %s", s.path), errors.ErrMalformedDocument)
	}
	if file.Version > SidecarVersion {
		return errors.Wrapf(ErrUnsupportedVersion, "%s: version %d", s.path, file.Version)
	}

	for name, rec := range file.Servers {
		s.records[name] = rec
	}
	return nil
}

// Save writes the sidecar, creating its directory when needed.
func (s *Sidecar) Save() error {
	file := sidecarFile{
		Version: SidecarVersion,
		Servers: s.records,
	}
	data, err := fileutil.MarshalJSON(file)
	if err != nil {
		return errors.Wrap(err, "encoding ownership metadata")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", s.path)
	}
	perm := fileutil.FileMode(s.path, fileutil.DefaultFilePerm)
	if err := s.write(s.path, data, perm); err != nil {
		return errors.Wrapf(err, "writing %s", s.path)
	}
	return nil
}

func (s *Sidecar) Separated() bool { return true }

func (s *Sidecar) Managed(name string) bool {
	_, ok := s.records[name]
	return ok
}

func (s *Sidecar) Lookup(name string) (Record, bool) {
	rec, ok := s.records[name]
	return rec, ok
}

// Record keeps the original created_at when name is already tracked and
// refreshes updated_at.
func (s *Sidecar) Record(name, serverType string) {
	now := s.now().UTC().Truncate(time.Second)
	rec, ok := s.records[name]
	if !ok {
		rec.CreatedAt = now
	}
	rec.ServerType = serverType
	rec.UpdatedAt = now
	s.records[name] = rec
}

func (s *Sidecar) Forget(name string) {
	delete(s.records, name)
}

func (s *Sidecar) Names() []string {
	names := make([]string, 0, len(s.records))
	for name := range s.records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
