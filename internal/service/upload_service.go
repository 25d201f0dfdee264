package service

import (
	"context"
	"path"
	"strings"

	"foodieapi/internal/storage"
	"foodieapi/internal/validation"

	"github.com/google/uuid"
)

// UploadTicket is what a client needs to PUT a resource image directly to
// object storage and reference it afterwards.
type UploadTicket struct {
	Key         string `json:"key"`
	UploadURL   string `json:"uploadUrl"`
	DownloadURL string `json:"url"`
}

// UploadService hands out presigned upload URLs for resource images.
type UploadService interface {
	PresignImageUpload(ctx context.Context, filename, contentType string) (*UploadTicket, error)
}

type uploadService struct {
	fileStorage storage.FileStorage
}

// NewUploadService creates an upload service over the given file storage.
func NewUploadService(fileStorage storage.FileStorage) UploadService {
	return &uploadService{fileStorage: fileStorage}
}

// PresignImageUpload generates a unique object key for the file and returns
// presigned PUT and GET URLs for it. The client must send the same
// Content-Type header on the upload.
func (s *uploadService) PresignImageUpload(ctx context.Context, filename, contentType string) (*UploadTicket, error) {
	errs := validation.Errors{}
	if strings.TrimSpace(filename) == "" {
		errs["filename"] = "Filename is required"
	}
	if strings.TrimSpace(contentType) == "" {
		errs["contentType"] = "ContentType is required"
	}
	if len(errs) > 0 {
		return nil, errs
	}

	objectKey := "images/" + uuid.NewString() + strings.ToLower(path.Ext(filename))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}
	downloadURL, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, objectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}

	return &UploadTicket{
		Key:         objectKey,
		UploadURL:   uploadURL,
		DownloadURL: downloadURL,
	}, nil
}
