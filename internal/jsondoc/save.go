package jsondoc

import (
	"os"
	"path/filepath"

	"github.com/thoreinstein/mcpconf/internal/errors"
	"github.com/thoreinstein/mcpconf/pkg/fileutil"
)

// WriteFunc persists data at path. The default is fileutil.AtomicWriteFile.
type WriteFunc func(path string, data []byte, perm os.FileMode) error

// SaveOption configures Save.
type SaveOption func(*saveOptions)

type saveOptions struct {
	write WriteFunc
}

// WithWriter replaces the file writer.
func WithWriter(w WriteFunc) SaveOption {
	return func(o *saveOptions) {
		if w != nil {
			o.write = w
		}
	}
}

// Save encodes doc and writes it to its path, creating the parent
// directory when needed. An existing file keeps its permission bits.
// On success the document is rebased on the written bytes, so a later
// Encode without further edits reproduces them.
func Save(doc *Document, opts ...SaveOption) error {
	o := saveOptions{write: fileutil.AtomicWriteFile}
	for _, opt := range opts {
		opt(&o)
	}

	data, err := doc.Encode()
	if err != nil {
		return errors.Wrapf(err, "encoding %s", doc.path)
	}

	if err := os.MkdirAll(filepath.Dir(doc.path), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", doc.path)
	}

	perm := fileutil.FileMode(doc.path, fileutil.DefaultFilePerm)
	if err := o.write(doc.path, data, perm); err != nil {
		return errors.Wrapf(err, "writing %s", doc.path)
	}

	doc.exists = true
	if doc.model != nil {
		return doc.rebase(data)
	}
	return nil
}

// rebase keeps the live root, which callers may still hold references into.
func (d *Document) rebase(data []byte) error {
	root := d.root
	if err := d.parsePreserved(data); err != nil {
		return errors.Wrapf(err, "re-reading %s", d.path)
	}
	d.root = root
	return nil
}
