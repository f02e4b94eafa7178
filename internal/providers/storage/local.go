package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalStorage writes uploads to the local filesystem; the development
// stand-in for the bucket.
type LocalStorage struct {
	dir           string
	publicBaseURL string
}

func NewLocal(dir, publicBaseURL string) *LocalStorage {
	return &LocalStorage{dir: dir, publicBaseURL: publicBaseURL}
}

func (s *LocalStorage) Upload(ctx context.Context, path string, data []byte, contentType string) (UploadResult, error) {
	_ = ctx
	full := filepath.Join(s.dir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return UploadResult{}, fmt.Errorf("local storage mkdir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return UploadResult{}, fmt.Errorf("local storage write %s: %w", path, err)
	}
	return UploadResult{
		Path:      path,
		PublicURL: s.publicBaseURL + "/" + path,
	}, nil
}
