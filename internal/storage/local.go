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
)

// LocalStore saves files under a directory on the local filesystem.
type LocalStore struct {
	dir     string
	baseURL string // e.g. "http://localhost:8080/api/files"
}

// NewLocalStore creates the base directory if needed.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalStore) resolve(path string) (string, error) {
	clean := filepath.Clean("/" + path)
	if clean == "/" {
		return "", fmt.Errorf("invalid path %q", path)
	}
	return filepath.Join(s.dir, clean), nil
}

// Save writes the file to disk and returns its metadata.
func (s *LocalStore) Save(_ context.Context, path string, file io.Reader, contentType string) (*FileInfo, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, fmt.Errorf("create dir: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, file)
	if err != nil {
		return nil, fmt.Errorf("write file: %w", err)
	}

	return &FileInfo{
		URL:      s.URL(path),
		FileName: filepath.Base(full),
		FileSize: n,
		FileType: contentType,
	}, nil
}

// Delete removes a file. Missing files are not an error.
func (s *LocalStore) Delete(_ context.Context, path string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

// URL returns the public URL for a stored file.
func (s *LocalStore) URL(path string) string {
	return s.baseURL + "/" + strings.TrimLeft(path, "/")
}
