package jsondoc

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/mcpconf/internal/errors"
)

const commented = `{
  // Workspace MCP servers
  "servers": {
    /* managed elsewhere */
    "existing": {
      "command": "node",
      "args": ["server.js"], // entry point
    },
  },
  "inputs": [],
}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.json")

	a, err := Load(path)
	require.NoError(t, err)
	b, err := Load(path, WithPreserveFormat())
	require.NoError(t, err)

	assert.False(t, a.Exists())
	assert.Empty(t, a.Root())
	assert.False(t, b.Preserving(), "missing file has no format model")

	a.Root()["mcpServers"] = map[string]any{}
	assert.Empty(t, b.Root(), "documents must not share a default tree")
}

func TestLoad_WhitespaceOnly(t *testing.T) {
	path := writeFile(t, "blank.json", " \n\t\n")

	doc, err := Load(path, WithPreserveFormat())
	require.NoError(t, err)
	assert.True(t, doc.Exists())
	assert.Empty(t, doc.Root())
}

func TestLoad_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
		opts    []Option
	}{
		{"syntax", "{\n  \"a\": 1,\n  }", nil},
		{"truncated", `{"a": `, nil},
		{"array root", `[1, 2]`, nil},
		{"trailing data", `{} {}`, nil},
		{"comment without preservation", "{ // hi\n}", nil},
		{"preserve syntax", "{\n  \"a\" 1\n}", []Option{WithPreserveFormat()}},
		{"preserve string root", `"x"`, []Option{WithPreserveFormat()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "bad.json", tt.content)

			_, err := Load(path, tt.opts...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrMalformedDocument))
			assert.Contains(t, err.Error(), path)
		})
	}
}

func TestLoad_MalformedReportsLine(t *testing.T) {
	path := writeFile(t, "bad.json", "{\n  \"a\": 1,\n  \"b\": ]\n}")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestEncode_Plain(t *testing.T) {
	doc := New("x.json")
	doc.Root()["zeta"] = "<a&b>"
	doc.Root()["alpha"] = map[string]any{"n": json.Number("1.50")}

	data, err := doc.Encode()
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"alpha\": {\n    \"n\": 1.50\n  },\n  \"zeta\": \"<a&b>\"\n}\n", string(data))
}

func TestEncode_PlainKeepsNumbers(t *testing.T) {
	path := writeFile(t, "n.json", `{"big": 12345678901234567890, "f": 1.0}`)

	doc, err := Load(path)
	require.NoError(t, err)
	data, err := doc.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(data), "12345678901234567890")
	assert.Contains(t, string(data), "1.0")
}

func TestEncode_PreserveNoOpIsByteIdentical(t *testing.T) {
	path := writeFile(t, "mcp.json", commented)

	doc, err := Load(path, WithPreserveFormat())
	require.NoError(t, err)
	require.True(t, doc.Preserving())

	data, err := doc.Encode()
	require.NoError(t, err)
	assert.Equal(t, commented, string(data))

	changes, err := doc.Changes()
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestEncode_PreserveAddKeepsComments(t *testing.T) {
	path := writeFile(t, "mcp.json", commented)

	doc, err := Load(path, WithPreserveFormat())
	require.NoError(t, err)

	servers, created, err := Object(doc.Root(), "servers")
	require.NoError(t, err)
	assert.False(t, created)
	servers["fs-checker"] = map[string]any{
		"command": "python",
		"args":    []string{"-m", "x"},
		"env":     map[string]string{},
	}

	data, err := doc.Encode()
	require.NoError(t, err)
	out := string(data)

	for _, comment := range []string{"// Workspace MCP servers", "/* managed elsewhere */", "// entry point"} {
		assert.Contains(t, out, comment)
	}
	assert.Contains(t, out, `"fs-checker": {`)

	reloaded := reparse(t, data)
	assert.Equal(t, "python", reloaded["servers"].(map[string]any)["fs-checker"].(map[string]any)["command"])
	assert.Equal(t, "node", reloaded["servers"].(map[string]any)["existing"].(map[string]any)["command"])
}

func TestEncode_PreserveRemoveAndReplace(t *testing.T) {
	path := writeFile(t, "mcp.json", commented)

	doc, err := Load(path, WithPreserveFormat())
	require.NoError(t, err)

	servers := doc.Root()["servers"].(map[string]any)
	servers["existing"].(map[string]any)["command"] = "deno"
	delete(doc.Root(), "inputs")

	changes, err := doc.Changes()
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, OpRemove, changes[0].Op)
	assert.Equal(t, "/inputs", changes[0].Pointer())
	assert.Equal(t, OpReplace, changes[1].Op)
	assert.Equal(t, "/servers/existing/command", changes[1].Pointer())

	data, err := doc.Encode()
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "// Workspace MCP servers")
	assert.Contains(t, out, "// entry point")
	assert.Contains(t, out, `"command": "deno"`)
	assert.NotContains(t, out, "inputs")

	reloaded := reparse(t, data)
	assert.Len(t, reloaded, 1)
}

func TestEncode_PreserveAddToEmptySection(t *testing.T) {
	path := writeFile(t, "mcp.json", "{\n\t// tabs\n\t\"servers\": {}\n}\n")

	doc, err := Load(path, WithPreserveFormat())
	require.NoError(t, err)
	doc.Root()["servers"].(map[string]any)["a"] = map[string]any{"command": "x"}

	data, err := doc.Encode()
	require.NoError(t, err)
	assert.Contains(t, string(data), "// tabs")
	assert.Contains(t, string(data), "\n\t\t\"a\": {")

	reloaded := reparse(t, data)
	assert.Equal(t, "x", reloaded["servers"].(map[string]any)["a"].(map[string]any)["command"])
}

func TestChanges_PointerEscaping(t *testing.T) {
	doc := New("x.json")
	doc.Root()["a/b"] = map[string]any{"c~d": 1}

	changes, err := doc.Changes()
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, "/a~1b", changes[0].Pointer())
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.json")

	doc, err := Load(path)
	require.NoError(t, err)
	doc.Root()["mcpServers"] = map[string]any{}

	require.NoError(t, Save(doc))
	assert.True(t, doc.Exists())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"mcpServers\": {}\n}\n", string(data))
}

func TestSave_KeepsFileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	path := writeFile(t, "config.json", "{}")
	require.NoError(t, os.Chmod(path, 0o600))

	doc, err := Load(path)
	require.NoError(t, err)
	doc.Root()["k"] = true
	require.NoError(t, Save(doc))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestSave_WriterFailureLeavesFileUntouched(t *testing.T) {
	path := writeFile(t, "mcp.json", commented)

	doc, err := Load(path, WithPreserveFormat())
	require.NoError(t, err)
	doc.Root()["servers"].(map[string]any)["new"] = map[string]any{"command": "x"}

	failing := func(string, []byte, os.FileMode) error {
		return errors.New("disk full")
	}
	err = Save(doc, WithWriter(failing))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, commented, string(data))
}

func TestSave_RebasesFormatModel(t *testing.T) {
	path := writeFile(t, "mcp.json", commented)

	doc, err := Load(path, WithPreserveFormat())
	require.NoError(t, err)
	doc.Root()["servers"].(map[string]any)["new"] = map[string]any{"command": "x"}
	require.NoError(t, Save(doc))

	written, err := os.ReadFile(path)
	require.NoError(t, err)

	again, err := doc.Encode()
	require.NoError(t, err)
	assert.Equal(t, string(written), string(again))

	changes, err := doc.Changes()
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestObject(t *testing.T) {
	root := map[string]any{"servers": "oops"}

	_, _, err := Object(root, "servers")
	assert.True(t, errors.Is(err, ErrNotObject))

	obj, created, err := Object(root, "mcpServers")
	require.NoError(t, err)
	assert.True(t, created)
	obj["a"] = 1
	assert.Equal(t, 1, root["mcpServers"].(map[string]any)["a"])
}

func TestClone(t *testing.T) {
	orig := map[string]any{"args": []any{"a"}, "env": map[string]any{"K": "v"}}
	c := Clone(orig).(map[string]any)
	c["args"].([]any)[0] = "changed"
	c["env"].(map[string]any)["K"] = "changed"

	assert.Equal(t, "a", orig["args"].([]any)[0])
	assert.Equal(t, "v", orig["env"].(map[string]any)["K"])
}

func reparse(t *testing.T, data []byte) map[string]any {
	t.Helper()
	path := writeFile(t, "reparse.json", string(data))
	doc, err := Load(path, WithPreserveFormat())
	require.NoError(t, err)
	return doc.Root()
}
