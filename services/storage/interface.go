package storage

import (
	"context"
	"io"
)

// UploadResult describes a stored image.
type UploadResult struct {
	URL         string `json:"url"`
	PublicID    string `json:"publicId"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// StorageService persists uploaded files and removes them again.
type StorageService interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, publicID string) error
}
