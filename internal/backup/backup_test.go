package backup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/mcpconf/internal/errors"
)

var fixedTime = time.Date(2026, 1, 23, 10, 7, 12, 0, time.Local)

func fixedClock() time.Time { return fixedTime }

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestStem(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/a/claude_desktop_config.json", "claude_desktop_config"},
		{"/a/.mcp.json", "mcp"},
		{"/a/mcp.json", "mcp"},
		{"/a/config", "config"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Stem(tt.path), tt.path)
	}
}

func TestCreate_Naming(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		style  Style
		expect string
	}{
		{"visible", "claude_desktop_config.json", Visible, "claude_desktop_config.backup_20260123_100712.json"},
		{"hidden", ".mcp.json", Hidden, ".mcp.backup_20260123_100712"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, `{"a":1}`)
			m := NewManager(tt.style, WithClock(fixedClock))

			b, err := m.Create(path)
			require.NoError(t, err)
			require.NotNil(t, b)
			assert.Equal(t, filepath.Join(filepath.Dir(path), tt.expect), b.Path)
			assert.Equal(t, int64(7), b.Size)
			assert.NotEmpty(t, b.SHA256)

			data, err := os.ReadFile(b.Path)
			require.NoError(t, err)
			assert.Equal(t, `{"a":1}`, string(data))

			info, err := os.Stat(b.Path)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
		})
	}
}

func TestCreate_SameSecondCollision(t *testing.T) {
	path := writeConfig(t, "mcp.json", "v1")
	m := NewManager(Visible, WithClock(fixedClock))

	first, err := m.Create(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o600))
	second, err := m.Create(path)
	require.NoError(t, err)

	assert.NotEqual(t, first.Path, second.Path)
	assert.Equal(t, "mcp.backup_20260123_100712_1.json", filepath.Base(second.Path))

	data, err := os.ReadFile(first.Path)
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data), "first backup must not be overwritten")
}

func TestCreate_MissingConfig(t *testing.T) {
	m := NewManager(Visible)

	b, err := m.Create(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestCreate_Directory(t *testing.T) {
	m := NewManager(Visible)

	_, err := m.Create(t.TempDir())
	require.Error(t, err)
}

func TestList(t *testing.T) {
	path := writeConfig(t, "mcp.json", "old")
	clock := fixedTime
	m := NewManager(Visible, WithClock(func() time.Time { return clock }))

	_, err := m.List(path)
	require.True(t, errors.Is(err, ErrNoBackupsFound))

	older, err := m.Create(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("new"), 0o600))
	clock = fixedTime.Add(time.Minute)
	newer, err := m.Create(path)
	require.NoError(t, err)

	// Unrelated files in the same directory are ignored.
	dir := filepath.Dir(path)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.backup_20260123_100712.json"), nil, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".mcp.backup_20260123_100712"), nil, 0o600))

	backups, err := m.List(path)
	require.NoError(t, err)
	require.Len(t, backups, 2)
	assert.Equal(t, newer.Path, backups[0].Path)
	assert.Equal(t, older.Path, backups[1].Path)
	assert.True(t, backups[0].Current)
	assert.False(t, backups[1].Current)
	assert.True(t, fixedTime.Add(time.Minute).Equal(backups[0].CreatedAt))
}

func TestList_OrdersCollisionsNewestFirst(t *testing.T) {
	path := writeConfig(t, ".mcp.json", "x")
	m := NewManager(Hidden, WithClock(fixedClock))

	for range 3 {
		_, err := m.Create(path)
		require.NoError(t, err)
	}

	backups, err := m.List(path)
	require.NoError(t, err)
	require.Len(t, backups, 3)
	assert.Equal(t, ".mcp.backup_20260123_100712_2", filepath.Base(backups[0].Path))
	assert.Equal(t, ".mcp.backup_20260123_100712", filepath.Base(backups[2].Path))
}

func TestRestore(t *testing.T) {
	path := writeConfig(t, "mcp.json", "original")
	clock := fixedTime
	m := NewManager(Visible, WithClock(func() time.Time { return clock }))

	saved, err := m.Create(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("broken"), 0o600))

	clock = clock.Add(time.Second)
	previous, err := m.Restore(path, saved.Path)
	require.NoError(t, err)
	require.NotNil(t, previous)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))

	data, err = os.ReadFile(previous.Path)
	require.NoError(t, err)
	assert.Equal(t, "broken", string(data))
}

func TestRestore_RejectsForeignFile(t *testing.T) {
	path := writeConfig(t, "mcp.json", "x")
	m := NewManager(Visible)

	other := filepath.Join(filepath.Dir(path), "notes.json")
	require.NoError(t, os.WriteFile(other, []byte("{}"), 0o600))

	_, err := m.Restore(path, other)
	assert.True(t, errors.Is(err, ErrNotBackup))

	elsewhere := filepath.Join(t.TempDir(), "mcp.backup_20260123_100712.json")
	_, err = m.Restore(path, elsewhere)
	assert.True(t, errors.Is(err, ErrNotBackup))
}
