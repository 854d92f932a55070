// Package storage holds the image store backends: a local directory and an
// S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/travelbook/story-api/internal/core/domain"
)

// partialDir holds in-progress uploads. Dot names are never served.
const partialDir = ".partial"

// LocalStore keeps images as files in a single directory.
type LocalStore struct {
	dir    string
	tmpDir string
}

// NewLocalStore creates dir if needed and returns a store rooted at it.
func NewLocalStore(dir string) (*LocalStore, error) {
	tmpDir := filepath.Join(dir, partialDir)
	if err := os.MkdirAll(tmpDir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, tmpDir: tmpDir}, nil
}

// path confines filename to the store directory and refuses hidden names.
func (s *LocalStore) path(filename string) (string, error) {
	name := filepath.Base(filepath.Clean("/" + filename))
	if name == "/" || strings.HasPrefix(name, ".") {
		return "", domain.ErrImageNotFound
	}
	return filepath.Join(s.dir, name), nil
}

// Save writes r to a temporary file and renames it into place, so readers
// never observe a partial upload.
func (s *LocalStore) Save(_ context.Context, filename string, r io.Reader) error {
	dst, err := s.path(filename)
	if err != nil {
		return fmt.Errorf("save image: invalid filename %q", filename)
	}

	tmp, err := os.CreateTemp(s.tmpDir, "upload-*")
	if err != nil {
		return fmt.Errorf("save image: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("save image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save image: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o640); err != nil {
		return fmt.Errorf("save image: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("save image: %w", err)
	}
	return nil
}

func (s *LocalStore) Open(_ context.Context, filename string) (io.ReadCloser, error) {
	p, err := s.path(filename)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrImageNotFound
		}
		return nil, fmt.Errorf("open image: %w", err)
	}
	return f, nil
}

func (s *LocalStore) Delete(_ context.Context, filename string) error {
	p, err := s.path(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.ErrImageNotFound
		}
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}
