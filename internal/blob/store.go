// Package blob implements a flat-directory file store for uploaded image bytes.
package blob

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrBlobNotFound is returned when no file exists for the given key.
	ErrBlobNotFound = errors.New("blob not found")
	// ErrBlobExists is returned when a write would overwrite an existing file.
	ErrBlobExists = errors.New("blob already exists")
	// ErrInvalidKey is returned when a key is not a bare file name.
	ErrInvalidKey = errors.New("invalid blob key")
)

// Store is a filesystem-based blob store. All files live directly under Root;
// keys are bare file names of the form identifier+extension. A Store is safe
// for concurrent use, each operation maps to a single filesystem call.
type Store struct {
	Root string
}

// New creates a Store rooted at the given directory.
func New(root string) *Store {
	return &Store{Root: root}
}

// path resolves a key to its on-disk location. Keys containing path
// separators are rejected so a client-supplied extension can never escape
// the root directory.
func (s *Store) path(key string) (string, error) {
	if key == "" || key == "." || key == ".." ||
		strings.ContainsAny(key, `/\`) || key != filepath.Base(key) {
		return "", ErrInvalidKey
	}

	return filepath.Join(s.Root, key), nil
}

// Write creates a new file under the given key and streams r into it,
// returning the number of bytes written. The create is exclusive: an existing
// file for the same key is reported as ErrBlobExists, never overwritten.
func (s *Store) Write(key string, r io.Reader) (int64, error) {
	fullPath, err := s.path(key)
	if err != nil {
		return 0, err
	}

	f, err := os.OpenFile(fullPath, os.O_EXCL|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return 0, ErrBlobExists
		}
		return 0, errors.Wrap(err, "failed to create blob file")
	}

	size, err := io.Copy(f, r)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(fullPath) // do not leave a truncated file behind
		return 0, errors.Wrap(err, "failed to write blob")
	}

	if err := f.Close(); err != nil {
		return size, errors.Wrap(err, "failed to close blob file")
	}

	return size, nil
}

// Exists reports whether a file is present for the given key.
func (s *Store) Exists(key string) bool {
	fullPath, err := s.path(key)
	if err != nil {
		return false
	}

	_, err = os.Stat(fullPath)

	return err == nil
}

// Open returns a reader over the blob's bytes.
// A missing file is reported as ErrBlobNotFound.
func (s *Store) Open(key string) (io.ReadCloser, error) {
	fullPath, err := s.path(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrBlobNotFound
		}
		return nil, errors.Wrap(err, "failed to open blob file")
	}

	return f, nil
}

// Delete removes the file for the given key. An already absent file is a
// no-op, not an error, so retries stay safe.
func (s *Store) Delete(key string) error {
	fullPath, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errors.Wrap(err, "failed to delete blob file")
	}

	return nil
}
