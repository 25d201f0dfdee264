package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"foodieapi/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStorage fakes presigning without touching S3.
type stubStorage struct {
	failUpload bool
}

func (s *stubStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey, contentType string, expires time.Duration) (string, error) {
	if s.failUpload {
		return "", errors.New("s3 unavailable")
	}
	return "https://bucket.test/upload/" + objectKey, nil
}

func (s *stubStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	return "https://bucket.test/get/" + objectKey, nil
}

func TestPresignImageUpload_Success(t *testing.T) {
	t.Parallel()

	svc := NewUploadService(&stubStorage{})

	ticket, err := svc.PresignImageUpload(context.Background(), "beef.JPG", "image/jpeg")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ticket.Key, "images/"))
	assert.True(t, strings.HasSuffix(ticket.Key, ".jpg"), "extension is kept, lowercased: %s", ticket.Key)
	assert.Equal(t, "https://bucket.test/upload/"+ticket.Key, ticket.UploadURL)
	assert.Equal(t, "https://bucket.test/get/"+ticket.Key, ticket.DownloadURL)
}

func TestPresignImageUpload_KeysAreUnique(t *testing.T) {
	t.Parallel()

	svc := NewUploadService(&stubStorage{})

	first, err := svc.PresignImageUpload(context.Background(), "a.png", "image/png")
	require.NoError(t, err)
	second, err := svc.PresignImageUpload(context.Background(), "a.png", "image/png")
	require.NoError(t, err)

	assert.NotEqual(t, first.Key, second.Key)
}

func TestPresignImageUpload_MissingFields(t *testing.T) {
	t.Parallel()

	svc := NewUploadService(&stubStorage{})

	_, err := svc.PresignImageUpload(context.Background(), "", "")
	require.Error(t, err)

	errs, ok := err.(validation.Errors)
	require.True(t, ok)
	assert.Contains(t, errs, "filename")
	assert.Contains(t, errs, "contentType")
}

func TestPresignImageUpload_StorageFailure(t *testing.T) {
	t.Parallel()

	svc := NewUploadService(&stubStorage{failUpload: true})

	_, err := svc.PresignImageUpload(context.Background(), "a.png", "image/png")
	require.Error(t, err)
	_, isValidation := err.(validation.Errors)
	assert.False(t, isValidation, "storage failures are not validation errors")
}
