package fileutil

import (
	"io"
	"os"

	"github.com/thoreinstein/mcpconf/internal/errors"
)

// MaxFileSize bounds every config, sidecar and descriptor read. Host
// configs such as ~/.claude.json accumulate project history, so it is
// generous.
const MaxFileSize int64 = 8 << 20

// ErrFileTooLarge marks reads that hit the size limit.
var ErrFileTooLarge = errors.New("file too large")

// ReadFileWithLimit reads path, failing with ErrFileTooLarge when it holds
// more than MaxFileSize bytes. A missing file yields an error matching
// fs.ErrNotExist.
func ReadFileWithLimit(path string) ([]byte, error) {
	return readLimited(path, MaxFileSize)
}

func readLimited(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	// the size from Stat can be stale, so the read is bounded as well
	if info, err := f.Stat(); err == nil && info.Size() > limit {
		return nil, errors.Wrapf(ErrFileTooLarge, "%s is %d bytes, limit %d", path, info.Size(), limit)
	}
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	if int64(len(data)) > limit {
		return nil, errors.Wrapf(ErrFileTooLarge, "%s exceeds %d bytes", path, limit)
	}
	return data, nil
}
