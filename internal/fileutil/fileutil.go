// Package fileutil writes files atomically so readers never observe a
// partially written table.
package fileutil

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
)

// AtomicFile buffers writes in a temporary file next to the target and
// renames it into place on Commit. It also tracks the SHA-256 and size of
// everything written.
type AtomicFile struct {
	path    string
	mode    os.FileMode
	tmp     *os.File
	hasher  hash.Hash
	written int64
	done    bool
}

// CreateAtomic opens a temporary file in the directory of path.
func CreateAtomic(path string, mode os.FileMode) (*AtomicFile, error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create temp file for %s: %w", path, err)
	}
	return &AtomicFile{path: path, mode: mode, tmp: tmp, hasher: sha256.New()}, nil
}

// Write appends p to the pending file.
func (f *AtomicFile) Write(p []byte) (int, error) {
	if f.done {
		return 0, os.ErrClosed
	}
	n, err := f.tmp.Write(p)
	f.hasher.Write(p[:n])
	f.written += int64(n)
	return n, err
}

// Size returns the number of bytes written so far.
func (f *AtomicFile) Size() int64 { return f.written }

// Sum returns the hex SHA-256 of the bytes written so far.
func (f *AtomicFile) Sum() string { return hex.EncodeToString(f.hasher.Sum(nil)) }

// Commit flushes the temporary file and renames it over the target. On
// failure the temporary file is removed and the target is left untouched.
func (f *AtomicFile) Commit() error {
	if f.done {
		return os.ErrClosed
	}
	f.done = true
	name := f.tmp.Name()
	err := f.tmp.Sync()
	if cerr := f.tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(name, f.mode)
	}
	if err == nil {
		err = os.Rename(name, f.path)
	}
	if err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("commit %s: %w", f.path, err)
	}
	return nil
}

// Abort discards the temporary file. It is a no-op after Commit.
func (f *AtomicFile) Abort() error {
	if f.done {
		return nil
	}
	f.done = true
	return errors.Join(f.tmp.Close(), os.Remove(f.tmp.Name()))
}

// WriteFileAtomic writes the output of fill to path atomically and returns
// the SHA-256 of the committed content.
func WriteFileAtomic(path string, mode os.FileMode, fill func(io.Writer) error) (string, error) {
	f, err := CreateAtomic(path, mode)
	if err != nil {
		return "", err
	}
	if err := fill(f); err != nil {
		_ = f.Abort()
		return "", err
	}
	if err := f.Commit(); err != nil {
		return "", err
	}
	return f.Sum(), nil
}
