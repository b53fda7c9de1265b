package storage

import (
	"context"
	"fmt"
)

// Download fetches an object from the bucket, e.g. a prompt file to ingest.
func (s *StorageService) Download(ctx context.Context, path string) ([]byte, error) {
	if !s.UploadsEnabled() {
		return nil, ErrStorageDisabled
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := s.sbClient.DownloadFile(s.bucket, path)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", path, err)
	}
	return data, nil
}
