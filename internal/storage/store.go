// Package storage archives exported documents. The archive is optional: with
// no store configured, exports are streamed to the client and then dropped.
package storage

import (
	"context"
	"io"
)

// FileInfo describes a stored file.
type FileInfo struct {
	URL      string `json:"url"`
	FileName string `json:"fileName"`
	FileSize int64  `json:"fileSize"`
	FileType string `json:"fileType"`
}

// Store is implemented by every archive backend.
type Store interface {
	Save(ctx context.Context, path string, file io.Reader, contentType string) (*FileInfo, error)
	Delete(ctx context.Context, path string) error
	URL(path string) string
}
