package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/blackarched/Prompt-Kraft/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadMultipleWithoutBucket(t *testing.T) {
	s := &StorageService{}

	urls, err := s.UploadMultiple(context.Background(), []models.UploadFile{
		{Filename: "in.csv", ContentType: "text/csv", Data: []byte("prompt\n")},
		{Filename: "out.csv", ContentType: "text/csv", Data: []byte("original_prompt\n")},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStorageDisabled))
	assert.Contains(t, err.Error(), "in.csv")
	assert.Contains(t, err.Error(), "out.csv")
	assert.Equal(t, []string{"", ""}, urls)
}

func TestUploadMultipleEmpty(t *testing.T) {
	s := &StorageService{}

	urls, err := s.UploadMultiple(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, urls)
}
