package jsondoc

import (
	"bytes"
	"encoding/json"
	"reflect"
	"sort"
	"strings"

	"github.com/tailscale/hujson"

	"github.com/thoreinstein/mcpconf/internal/errors"
	"github.com/thoreinstein/mcpconf/pkg/fileutil"
)

// Op is a JSON Patch operation name.
type Op string

// Patch operations produced by Changes.
const (
	OpAdd     Op = "add"
	OpRemove  Op = "remove"
	OpReplace Op = "replace"
)

// Change is one edit between the loaded and current content, addressed by
// JSON pointer.
type Change struct {
	Op    Op
	Path  []string
	Value any
}

// Pointer renders the change path as an RFC 6901 JSON pointer.
func (c Change) Pointer() string {
	return pointer(c.Path)
}

// Changes lists the edits made since the document was loaded. Objects are
// compared key by key; any other differing value is replaced whole.
// Removals come first, then additions and replacements, each in key order.
func (d *Document) Changes() ([]Change, error) {
	current, err := normalize(d.root)
	if err != nil {
		return nil, err
	}
	base := d.snapshot
	if base == nil {
		base = map[string]any{}
	}

	var removes, edits []Change
	diffObjects(nil, base, current, &removes, &edits)
	return append(removes, edits...), nil
}

// Encode serializes the document. With a format model, only changed keys
// are rewritten and an unchanged document encodes to its original bytes.
func (d *Document) Encode() ([]byte, error) {
	if d.model == nil {
		return fileutil.MarshalJSON(d.root)
	}

	changes, err := d.Changes()
	if err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return bytes.Clone(d.original), nil
	}

	v := d.model.Clone()
	unit := indentUnit(&v)

	indents := make([]string, len(changes))
	for i, c := range changes {
		indents[i] = memberIndent(&v, c.Path, unit)
	}

	patch, err := buildPatch(changes, indents, unit)
	if err != nil {
		return nil, err
	}
	if err := v.Patch(patch); err != nil {
		return nil, errors.Wrapf(err, "applying edits to %s", d.path)
	}

	for i, c := range changes {
		if c.Op == OpAdd {
			layoutAddedMember(&v, c.Path, indents[i], unit)
		}
	}

	return v.Pack(), nil
}

// normalize round-trips the live tree through encoding/json so it can be
// compared with the decoded snapshot.
func normalize(root map[string]any) (map[string]any, error) {
	data, err := json.Marshal(root)
	if err != nil {
		return nil, errors.Wrap(err, "encoding document")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, errors.Wrap(err, "normalizing document")
	}
	return out, nil
}

func diffObjects(path []string, before, after map[string]any, removes, edits *[]Change) {
	for _, k := range sortedKeys(before) {
		if _, ok := after[k]; !ok {
			*removes = append(*removes, Change{Op: OpRemove, Path: appendPath(path, k)})
		}
	}
	for _, k := range sortedKeys(after) {
		av := after[k]
		bv, existed := before[k]
		switch {
		case !existed:
			*edits = append(*edits, Change{Op: OpAdd, Path: appendPath(path, k), Value: av})
		case reflect.DeepEqual(bv, av):
		default:
			bm, bIsObj := bv.(map[string]any)
			am, aIsObj := av.(map[string]any)
			if bIsObj && aIsObj {
				diffObjects(appendPath(path, k), bm, am, removes, edits)
				continue
			}
			*edits = append(*edits, Change{Op: OpReplace, Path: appendPath(path, k), Value: av})
		}
	}
}

func appendPath(path []string, key string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, key)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func pointer(path []string) string {
	var sb strings.Builder
	for _, p := range path {
		sb.WriteByte('/')
		sb.WriteString(pointerEscaper.Replace(p))
	}
	return sb.String()
}

// buildPatch renders changes as an RFC 6902 patch whose values are
// indented to sit at their destination depth.
func buildPatch(changes []Change, indents []string, unit string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, c := range changes {
		if i > 0 {
			buf.WriteByte(',')
		}
		ptr, err := json.Marshal(pointer(c.Path))
		if err != nil {
			return nil, errors.Wrap(err, "encoding JSON pointer")
		}
		buf.WriteString(`{"op":"`)
		buf.WriteString(string(c.Op))
		buf.WriteString(`","path":`)
		buf.Write(ptr)
		if c.Op != OpRemove {
			val, err := marshalIndented(c.Value, indents[i], unit)
			if err != nil {
				return nil, err
			}
			buf.WriteString(`,"value":`)
			buf.Write(val)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func marshalIndented(v any, prefix, unit string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent(prefix, unit)
	if err := enc.Encode(v); err != nil {
		return nil, errors.Wrap(err, "encoding value")
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// indentUnit guesses one indentation level from the first member of the
// root object, defaulting to two spaces.
func indentUnit(root *hujson.Value) string {
	obj, ok := root.Value.(*hujson.Object)
	if !ok {
		return "  "
	}
	for _, m := range obj.Members {
		if ws, ok := lineIndent(m.Name.BeforeExtra); ok && ws != "" {
			return ws
		}
	}
	return "  "
}

// memberIndent returns the indentation for the member at path, copied
// from an existing sibling when one sits on its own line.
func memberIndent(root *hujson.Value, path []string, unit string) string {
	if parent := root.Find(pointer(path[:len(path)-1])); parent != nil {
		if obj, ok := parent.Value.(*hujson.Object); ok {
			for _, m := range obj.Members {
				if ws, ok := lineIndent(m.Name.BeforeExtra); ok {
					return ws
				}
			}
		}
	}
	return strings.Repeat(unit, len(path))
}

// lineIndent returns the whitespace following the last newline of extra.
func lineIndent(extra hujson.Extra) (string, bool) {
	i := bytes.LastIndexByte(extra, '\n')
	if i < 0 {
		return "", false
	}
	tail := extra[i+1:]
	if len(bytes.TrimLeft(tail, " \t")) != 0 {
		return "", false
	}
	return string(tail), true
}

// layoutAddedMember puts a member inserted by Patch on its own line and
// spaces its value after the colon.
func layoutAddedMember(root *hujson.Value, path []string, indent, unit string) {
	parent := root.Find(pointer(path[:len(path)-1]))
	if parent == nil {
		return
	}
	obj, ok := parent.Value.(*hujson.Object)
	if !ok {
		return
	}
	name := path[len(path)-1]
	for i := len(obj.Members) - 1; i >= 0; i-- {
		m := &obj.Members[i]
		lit, ok := m.Name.Value.(hujson.Literal)
		if !ok || lit.String() != name {
			continue
		}
		switch ws, onOwnLine := lineIndent(m.Name.BeforeExtra); {
		case !onOwnLine:
			m.Name.BeforeExtra = append(m.Name.BeforeExtra, "\n"+indent...)
		case ws == "":
			// a trailing comment moved here ends with a bare newline
			m.Name.BeforeExtra = append(m.Name.BeforeExtra, indent...)
		}
		if len(m.Value.BeforeExtra) == 0 {
			m.Value.BeforeExtra = hujson.Extra(" ")
		}
		break
	}
	if !bytes.ContainsRune(obj.AfterExtra, '\n') {
		obj.AfterExtra = append(obj.AfterExtra, "\n"+strings.Repeat(unit, len(path)-1)...)
	}
}
