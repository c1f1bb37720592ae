package editor

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectEditor(t *testing.T) {
	fallback := "vi"
	if _, err := exec.LookPath("nano"); err == nil {
		fallback = "nano"
	}

	tests := []struct {
		name   string
		editor string
		visual string
		want   string
	}{
		{"editor wins", "nvim", "code", "nvim"},
		{"visual when editor empty", "", "code", "code"},
		{"arguments kept", "code --wait", "", "code --wait"},
		{"fallback", "", "", fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("EDITOR", tt.editor)
			t.Setenv("VISUAL", tt.visual)
			assert.Equal(t, tt.want, detectEditor())
		})
	}
}

func TestOpen_PassesPathAndStreams(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a shell script as the editor")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "fake-editor")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho \"$1 $2\"\necho '{}' > \"$2\"\n"), 0o755))
	target := filepath.Join(dir, "mcp.json")

	t.Setenv("EDITOR", script+" --wait")
	var out bytes.Buffer
	require.NoError(t, Open(t.Context(), target, Streams{Out: &out, Err: &out}))

	assert.Equal(t, "--wait "+target+"\n", out.String())
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))
}

func TestOpen_EditorFails(t *testing.T) {
	t.Setenv("EDITOR", filepath.Join(t.TempDir(), "does-not-exist"))

	err := Open(t.Context(), "x.json", Streams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "running editor")
}
