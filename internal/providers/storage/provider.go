package storage

import "context"

// UploadResult carries the stored object path and its public URL.
type UploadResult struct {
	Path      string
	PublicURL string
}

// ObjectStorage uploads report photos by path. Uploads overwrite any
// existing object at the same path.
type ObjectStorage interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (UploadResult, error)
}

// NoOpStorage discards uploads; used when storage is not configured.
type NoOpStorage struct{}

func (NoOpStorage) Upload(ctx context.Context, path string, data []byte, contentType string) (UploadResult, error) {
	return UploadResult{Path: path, PublicURL: path}, nil
}
