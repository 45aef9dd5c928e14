package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"villastay/utils"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxFilesPerUpload caps a multiple-file upload.
const MaxFilesPerUpload = 10

// allowedImageTypes maps accepted sniffed types to the stored extension.
var allowedImageTypes = []struct {
	mime string
	ext  string
}{
	{"image/jpeg", ".jpg"},
	{"image/png", ".png"},
	{"image/gif", ".gif"},
	{"image/webp", ".webp"},
}

// ImageUploader validates image uploads and hands them to a backend.
type ImageUploader struct {
	backend  StorageService
	maxBytes int64
	logger   *zap.Logger
}

func NewImageUploader(backend StorageService, maxBytes int64, logger *zap.Logger) *ImageUploader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageUploader{backend: backend, maxBytes: maxBytes, logger: logger}
}

// UploadImage stores a single image.
func (u *ImageUploader) UploadImage(ctx context.Context, fh *multipart.FileHeader) (*UploadResult, error) {
	f, mt, ext, err := u.open(fh)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	result, err := u.backend.Save(ctx, uuid.New().String()+ext, mt, f)
	if err != nil {
		return nil, utils.Internal("failed to store upload", err)
	}
	u.logger.Info("image uploaded",
		zap.String("file", fh.Filename),
		zap.String("url", result.URL),
		zap.String("contentType", mt),
	)
	return result, nil
}

// UploadImages stores up to MaxFilesPerUpload images. Every file is
// validated before any is stored, and stored files are removed again if a
// later one fails.
func (u *ImageUploader) UploadImages(ctx context.Context, files []*multipart.FileHeader) ([]*UploadResult, error) {
	if len(files) == 0 {
		return nil, utils.BadRequest("No files uploaded")
	}
	if len(files) > MaxFilesPerUpload {
		return nil, utils.BadRequest(fmt.Sprintf("At most %d files can be uploaded at once", MaxFilesPerUpload))
	}
	for _, fh := range files {
		f, _, _, err := u.open(fh)
		if err != nil {
			return nil, err
		}
		f.Close()
	}

	results := make([]*UploadResult, 0, len(files))
	for _, fh := range files {
		result, err := u.UploadImage(ctx, fh)
		if err != nil {
			for _, done := range results {
				if derr := u.backend.Delete(ctx, done.PublicID); derr != nil {
					u.logger.Warn("failed to roll back upload", zap.String("publicId", done.PublicID), zap.Error(derr))
				}
			}
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

// open checks the size and sniffed content type of fh and returns the
// file rewound to the start.
func (u *ImageUploader) open(fh *multipart.FileHeader) (multipart.File, string, string, error) {
	if u.maxBytes > 0 && fh.Size > u.maxBytes {
		return nil, "", "", &utils.AppError{
			Status:  http.StatusRequestEntityTooLarge,
			Message: fmt.Sprintf("%s exceeds the %d byte limit", fh.Filename, u.maxBytes),
		}
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", "", utils.BadRequest("Unable to read uploaded file")
	}
	mt, err := mimetype.DetectReader(f)
	if err != nil {
		f.Close()
		return nil, "", "", utils.BadRequest("Unable to read uploaded file")
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, "", "", utils.Internal("failed to rewind upload", err)
	}
	for _, allowed := range allowedImageTypes {
		if mt.Is(allowed.mime) {
			return f, allowed.mime, allowed.ext, nil
		}
	}
	f.Close()
	return nil, "", "", utils.BadRequest(fmt.Sprintf("%s is not an allowed image type (%s)", fh.Filename, mt.String()))
}
