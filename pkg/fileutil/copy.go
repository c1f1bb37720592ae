package fileutil

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"github.com/thoreinstein/mcpconf/internal/errors"
)

// CopyFile copies src to dst, returning the SHA256 hash of the copied bytes.
// The destination gets the source's permission bits. The destination must not
// already exist so an earlier backup is never overwritten.
func CopyFile(src, dst string) (hash string, err error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return "", errors.Wrap(err, "opening source file")
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return "", errors.Wrap(err, "stat source file")
	}
	mode := srcInfo.Mode().Perm()

	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return "", errors.Wrap(err, "creating destination file")
	}

	// A partial copy is worse than none
	defer func() {
		if err != nil {
			os.Remove(dst)
		}
	}()

	h := sha256.New()
	w := io.MultiWriter(dstFile, h)

	if _, err = io.Copy(w, srcFile); err != nil {
		dstFile.Close()
		return "", errors.Wrap(err, "copying file")
	}

	if err = dstFile.Close(); err != nil {
		return "", errors.Wrap(err, "closing destination file")
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashFile computes the SHA256 hash of a file.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "opening file")
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrap(err, "reading file")
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Exists reports whether path exists and is a regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
