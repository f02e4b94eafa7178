package storage

import (
	"context"
	"fmt"

	gcs "cloud.google.com/go/storage"
)

// GCSStorage stores report photos in a Google Cloud Storage bucket.
type GCSStorage struct {
	client *gcs.Client
	bucket string
}

func NewGCS(client *gcs.Client, bucket string) *GCSStorage {
	return &GCSStorage{client: client, bucket: bucket}
}

func (s *GCSStorage) Upload(ctx context.Context, path string, data []byte, contentType string) (UploadResult, error) {
	w := s.client.Bucket(s.bucket).Object(path).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return UploadResult{}, fmt.Errorf("gcs write %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("gcs close %s: %w", path, err)
	}
	return UploadResult{
		Path:      path,
		PublicURL: fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, path),
	}, nil
}
