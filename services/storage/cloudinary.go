package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// cloudinaryUploader is the part of the Cloudinary upload API in use.
type cloudinaryUploader interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// CloudinaryStorage uploads images to a Cloudinary folder.
type CloudinaryStorage struct {
	api    cloudinaryUploader
	folder string
}

func NewCloudinaryStorage(cloudName, apiKey, apiSecret, folder string) (*CloudinaryStorage, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to initialize Cloudinary: %w", err)
	}
	return &CloudinaryStorage{api: &cld.Upload, folder: folder}, nil
}

func (s *CloudinaryStorage) Save(ctx context.Context, name, contentType string, r io.Reader) (*UploadResult, error) {
	publicID := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	result, err := s.api.Upload(ctx, r, uploader.UploadParams{
		PublicID:     publicID,
		Folder:       s.folder,
		ResourceType: "image",
	})
	if err != nil {
		return nil, fmt.Errorf("storage: failed to upload to Cloudinary: %w", err)
	}
	if result.Error.Message != "" {
		return nil, fmt.Errorf("storage: Cloudinary rejected upload: %s", result.Error.Message)
	}
	return &UploadResult{
		URL:         result.SecureURL,
		PublicID:    result.PublicID,
		ContentType: contentType,
		Size:        int64(result.Bytes),
	}, nil
}

func (s *CloudinaryStorage) Delete(ctx context.Context, publicID string) error {
	if _, err := s.api.Destroy(ctx, uploader.DestroyParams{PublicID: publicID, ResourceType: "image"}); err != nil {
		return fmt.Errorf("storage: failed to delete %s from Cloudinary: %w", publicID, err)
	}
	return nil
}
