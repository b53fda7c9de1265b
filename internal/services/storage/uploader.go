package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/blackarched/Prompt-Kraft/pkg/utils"
	storage_go "github.com/supabase-community/storage-go"
)

// Upload stores data in the Supabase bucket and returns its public URL.
func (s *StorageService) Upload(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	if !s.UploadsEnabled() {
		return "", ErrStorageDisabled
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := utils.GenerateStorageKey(filename)

	_, err := s.sbClient.UploadFile(s.bucket, key, bytes.NewReader(data), storage_go.FileOptions{
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to supabase: %w", err)
	}

	publicURL := s.sbClient.GetPublicUrl(s.bucket, key)
	return publicURL.SignedURL, nil
}

// Delete removes file from Supabase Storage
func (s *StorageService) Delete(ctx context.Context, path string) error {
	if !s.UploadsEnabled() {
		return ErrStorageDisabled
	}
	_, err := s.sbClient.RemoveFile(s.bucket, []string{path})
	return err
}
