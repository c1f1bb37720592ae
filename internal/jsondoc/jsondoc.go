// Package jsondoc loads, edits and atomically saves JSON config files.
//
// A [Document] holds the decoded object tree. Documents loaded with
// [WithPreserveFormat] also keep a hujson syntax tree of the original
// bytes; [Document.Encode] then applies only the changed keys to that tree
// so comments, trailing commas and whitespace in untouched regions survive
// a save. Without it, documents are written as indented JSON with sorted
// keys.
//
// Each Document owns its own tree and format model. A missing file yields
// a fresh empty object, never a shared default.
package jsondoc

import (
	"bytes"
	"encoding/json"
	"io"
	"io/fs"

	"github.com/tailscale/hujson"

	"github.com/thoreinstein/mcpconf/internal/errors"
	"github.com/thoreinstein/mcpconf/pkg/fileutil"
)

// Document is one JSON file's content, plus an optional format model.
type Document struct {
	path   string
	exists bool
	root   map[string]any

	// Set only when loaded with WithPreserveFormat from a non-empty file.
	model    *hujson.Value
	snapshot map[string]any
	original []byte
}

// Option configures Load.
type Option func(*loadOptions)

type loadOptions struct {
	preserve bool
}

// WithPreserveFormat parses the file as JSON with comments and trailing
// commas and keeps its layout for Encode.
func WithPreserveFormat() Option {
	return func(o *loadOptions) {
		o.preserve = true
	}
}

// New returns an empty document for path that has not been read from disk.
func New(path string) *Document {
	return &Document{path: path, root: map[string]any{}}
}

// Load reads the JSON object at path.
//
// A missing or whitespace-only file yields an empty document. A file that
// does not parse, or whose top-level value is not an object, yields an
// error marked errors.ErrMalformedDocument that names the path.
func Load(path string, opts ...Option) (*Document, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return New(path), nil
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	doc := New(path)
	doc.exists = true
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}

	if !o.preserve {
		root, err := decodeObject(data)
		if err != nil {
			return nil, malformed(path, err)
		}
		doc.root = root
		return doc, nil
	}

	if err := doc.parsePreserved(data); err != nil {
		return nil, malformed(path, err)
	}
	return doc, nil
}

// parsePreserved installs the root, format model and snapshot for data.
func (d *Document) parsePreserved(data []byte) error {
	model, err := hujson.Parse(data)
	if err != nil {
		return err
	}
	std := model.Clone()
	std.Standardize()
	root, err := decodeObject(std.Pack())
	if err != nil {
		return err
	}
	snapshot, err := decodeObject(std.Pack())
	if err != nil {
		return err
	}

	d.root = root
	d.model = &model
	d.snapshot = snapshot
	d.original = bytes.Clone(data)
	return nil
}

// Path returns the file the document was loaded from.
func (d *Document) Path() string { return d.path }

// Exists reports whether the file was present when loaded.
func (d *Document) Exists() bool { return d.exists }

// Preserving reports whether Encode will keep the original layout.
func (d *Document) Preserving() bool { return d.model != nil }

// Root returns the mutable top-level object.
func (d *Document) Root() map[string]any { return d.root }

// decodeObject decodes a single JSON object, keeping numbers verbatim.
func decodeObject(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, describeJSONError(err, data)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errors.Newf("top-level value must be an object, got %s", kindOf(v))
	}
	return obj, nil
}

func malformed(path string, err error) error {
	return errors.Mark(errors.Wrapf(err, "parsing %s", path), errors.ErrMalformedDocument)
}

// describeJSONError adds line and column information to syntax errors.
func describeJSONError(err error, data []byte) error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		line, col := offsetToLineCol(data, int(syntaxErr.Offset))
		return errors.Newf("line %d, column %d: %s", line, col, syntaxErr.Error())
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return errors.New("unexpected end of JSON input")
	}
	return err
}

// offsetToLineCol converts a byte offset to 1-indexed line and column.
func offsetToLineCol(data []byte, offset int) (line, col int) {
	offset = min(max(offset, 0), len(data))

	line = 1
	lineStart := 0
	for i := range offset {
		if data[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	return line, offset - lineStart + 1
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}
