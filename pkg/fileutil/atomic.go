// Package fileutil holds the file primitives every config write goes
// through: bounded reads, atomic replacement and hashed copies.
package fileutil

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/thoreinstein/mcpconf/internal/errors"
)

// DefaultFilePerm is the mode given to files that do not exist yet.
const DefaultFilePerm os.FileMode = 0o644

const tempPattern = ".mcpconf-*.tmp"

// AtomicWriteFile replaces path with data so that readers see either the
// old or the new content, never a mix. The parent directory must exist.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), tempPattern)
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = fill(tmp, data, perm); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "replacing %s", path)
	}
	return nil
}

func fill(f *os.File, data []byte, perm os.FileMode) error {
	if _, err := f.Write(data); err != nil {
		return errors.Wrap(err, "writing temp file")
	}
	if err := f.Chmod(perm); err != nil {
		return errors.Wrap(err, "setting file permissions")
	}
	return errors.Wrap(f.Sync(), "syncing temp file")
}

// MarshalJSON encodes v the way mcpconf writes JSON files: two-space
// indent, no HTML escaping, trailing newline.
func MarshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, errors.Wrap(err, "marshaling JSON")
	}
	return buf.Bytes(), nil
}

// FileMode returns the permission bits of path, or fallback when it
// cannot be stat'ed. Rewrites use it to keep a file's existing mode.
func FileMode(path string, fallback os.FileMode) os.FileMode {
	if info, err := os.Stat(path); err == nil {
		return info.Mode().Perm()
	}
	return fallback
}
