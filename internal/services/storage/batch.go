package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/blackarched/Prompt-Kraft/internal/models"
	"golang.org/x/sync/errgroup"
)

const maxParallelUploads = 5

// UploadMultiple uploads files with bounded parallelism. The returned URLs
// line up with files; a failed upload leaves an empty string in its slot and
// every failure is joined into the returned error.
func (s *StorageService) UploadMultiple(ctx context.Context, files []models.UploadFile) ([]string, error) {
	urls := make([]string, len(files))
	errs := make([]error, len(files))

	var g errgroup.Group
	g.SetLimit(maxParallelUploads)

	for i, file := range files {
		g.Go(func() error {
			url, err := s.Upload(ctx, file.Data, file.Filename, file.ContentType)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", file.Filename, err)
				return nil
			}
			urls[i] = url
			return nil
		})
	}
	_ = g.Wait()

	if err := errors.Join(errs...); err != nil {
		return urls, fmt.Errorf("failed to upload files: %w", err)
	}
	return urls, nil
}
