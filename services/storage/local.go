package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
)

// LocalStorage writes files under Dir and serves them from URLPrefix.
type LocalStorage struct {
	Dir       string
	URLPrefix string
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: failed to create upload dir: %w", err)
	}
	return &LocalStorage{Dir: dir, URLPrefix: "/uploads"}, nil
}

func (s *LocalStorage) Save(_ context.Context, name, contentType string, r io.Reader) (*UploadResult, error) {
	name = filepath.Base(name)
	dst, err := os.OpenFile(filepath.Join(s.Dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to create %s: %w", name, err)
	}
	n, err := io.Copy(dst, r)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dst.Name())
		return nil, fmt.Errorf("storage: failed to write %s: %w", name, err)
	}
	return &UploadResult{
		URL:         path.Join(s.URLPrefix, name),
		PublicID:    name,
		ContentType: contentType,
		Size:        n,
	}, nil
}

func (s *LocalStorage) Delete(_ context.Context, publicID string) error {
	err := os.Remove(filepath.Join(s.Dir, filepath.Base(publicID)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: failed to delete %s: %w", publicID, err)
	}
	return nil
}
