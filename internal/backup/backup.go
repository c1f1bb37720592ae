package backup

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/thoreinstein/mcpconf/internal/errors"
	"github.com/thoreinstein/mcpconf/pkg/fileutil"
)

// Manager creates, lists and restores backups of one naming style.
type Manager struct {
	style Style
	now   func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the time source used for backup names.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager creates a Manager that names backups in the given style.
func NewManager(style Style, opts ...Option) *Manager {
	m := &Manager{
		style: style,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Style returns the naming style.
func (m *Manager) Style() Style {
	return m.style
}

// Create copies configPath to a new backup file in the same directory.
// It returns nil when there is no file to back up.
//
// Two backups within the same second get a numeric suffix; an existing
// backup is never overwritten. Backups are never pruned.
func (m *Manager) Create(configPath string) (*Backup, error) {
	info, err := os.Stat(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "stat %s", configPath)
	}
	if !info.Mode().IsRegular() {
		return nil, errors.Newf("%s is not a regular file", configPath)
	}

	now := m.now().Truncate(time.Second)
	ts := now.Format(TimestampLayout)

	for n := range maxCollisions {
		dst := m.name(configPath, ts, n)
		hash, err := fileutil.CopyFile(configPath, dst)
		if err == nil {
			return &Backup{
				Path:      dst,
				Source:    configPath,
				CreatedAt: now,
				SHA256:    hash,
				Size:      info.Size(),
			}, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, errors.Wrapf(err, "backing up %s", configPath)
		}
	}

	return nil, errors.Newf("too many backups of %s at %s", configPath, ts)
}

// List returns the backups of configPath, newest first. It returns
// ErrNoBackupsFound when there are none.
func (m *Manager) List(configPath string) ([]Backup, error) {
	dir := filepath.Dir(configPath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(ErrNoBackupsFound, "%s", configPath)
		}
		return nil, errors.Wrap(err, "reading backup directory")
	}

	var current string
	if fileutil.Exists(configPath) {
		current, err = fileutil.HashFile(configPath)
		if err != nil {
			return nil, errors.Wrapf(err, "hashing %s", configPath)
		}
	}

	pattern := m.pattern(configPath)
	type found struct {
		Backup
		seq int
	}
	var backups []found

	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		created, seq, ok := parseName(pattern, entry.Name())
		if !ok {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			return nil, errors.Wrapf(err, "stat %s", path)
		}
		hash, err := fileutil.HashFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "hashing %s", path)
		}

		backups = append(backups, found{
			Backup: Backup{
				Path:      path,
				Source:    configPath,
				CreatedAt: created,
				SHA256:    hash,
				Size:      info.Size(),
				Current:   hash == current,
			},
			seq: seq,
		})
	}

	if len(backups) == 0 {
		return nil, errors.Wrapf(ErrNoBackupsFound, "%s", configPath)
	}

	slices.SortFunc(backups, func(a, b found) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return b.seq - a.seq
	})

	out := make([]Backup, len(backups))
	for i, b := range backups {
		out[i] = b.Backup
	}
	return out, nil
}

// Restore replaces configPath with the contents of backupPath. The current
// file is backed up first; that backup is returned, or nil when configPath
// did not exist.
func (m *Manager) Restore(configPath, backupPath string) (*Backup, error) {
	if filepath.Dir(backupPath) != filepath.Dir(configPath) {
		return nil, errors.Wrapf(ErrNotBackup, "%s", backupPath)
	}
	if _, _, ok := parseName(m.pattern(configPath), filepath.Base(backupPath)); !ok {
		return nil, errors.Wrapf(ErrNotBackup, "%s", backupPath)
	}

	data, err := fileutil.ReadFileWithLimit(backupPath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading backup %s", backupPath)
	}

	previous, err := m.Create(configPath)
	if err != nil {
		return nil, err
	}

	perm := fileutil.FileMode(configPath, fileutil.FileMode(backupPath, fileutil.DefaultFilePerm))
	if err := fileutil.AtomicWriteFile(configPath, data, perm); err != nil {
		return previous, errors.Wrapf(err, "restoring %s", configPath)
	}
	return previous, nil
}

// Stem returns the config file name without leading dots or extension:
// "claude_desktop_config.json" gives "claude_desktop_config" and ".mcp.json"
// gives "mcp".
func Stem(configPath string) string {
	base := filepath.Base(configPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimLeft(base, ".")
}

func (m *Manager) name(configPath, ts string, seq int) string {
	suffix := ts
	if seq > 0 {
		suffix += "_" + strconv.Itoa(seq)
	}
	prefix, ext := m.affixes(configPath)
	return filepath.Join(filepath.Dir(configPath), prefix+suffix+ext)
}

func (m *Manager) affixes(configPath string) (prefix, ext string) {
	stem := Stem(configPath)
	if m.style == Hidden {
		return "." + stem + ".backup_", ""
	}
	return stem + ".backup_", ".json"
}

func (m *Manager) pattern(configPath string) *regexp.Regexp {
	prefix, ext := m.affixes(configPath)
	return regexp.MustCompile(`^` + regexp.QuoteMeta(prefix) + `(\d{8}_\d{6})(?:_(\d+))?` + regexp.QuoteMeta(ext) + `$`)
}

func parseName(pattern *regexp.Regexp, name string) (time.Time, int, bool) {
	match := pattern.FindStringSubmatch(name)
	if match == nil {
		return time.Time{}, 0, false
	}
	created, err := time.ParseInLocation(TimestampLayout, match[1], time.Local)
	if err != nil {
		return time.Time{}, 0, false
	}
	seq := 0
	if match[2] != "" {
		seq, err = strconv.Atoi(match[2])
		if err != nil {
			return time.Time{}, 0, false
		}
	}
	return created, seq, true
}
