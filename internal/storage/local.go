package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrS3NotConfigured is returned when S3 operations are attempted
// without proper configuration.
var ErrS3NotConfigured = errors.New("S3 storage is not configured")

// LocalStorage implements the Storage interface using local disk.
// Renders are kept as .mp4 files in a configurable directory; S3 uploads
// are not supported unless wrapped with S3Storage.
type LocalStorage struct {
	rendersDir string
}

// NewLocalStorage creates a new LocalStorage instance.
// If rendersDir is empty, a "showreel/renders" directory under os.TempDir() is used.
// The directory is created if it doesn't exist.
func NewLocalStorage(rendersDir string) (*LocalStorage, error) {
	if rendersDir == "" {
		rendersDir = filepath.Join(os.TempDir(), "showreel", "renders")
	}

	if err := os.MkdirAll(rendersDir, 0750); err != nil {
		return nil, fmt.Errorf("create renders directory: %w", err)
	}

	return &LocalStorage{rendersDir: rendersDir}, nil
}

// RendersDir returns the directory holding saved renders.
func (s *LocalStorage) RendersDir() string {
	return s.rendersDir
}

// SaveRender writes a finished video to a uniquely named .mp4 file.
func (s *LocalStorage) SaveRender(ctx context.Context, name string, data io.Reader) (string, error) {
	if err := checkContext(ctx); err != nil {
		return "", err
	}

	f, err := os.CreateTemp(s.rendersDir, name+"_*.mp4")
	if err != nil {
		return "", fmt.Errorf("create render file: %w", err)
	}

	fileName := f.Name()
	if _, err := io.Copy(f, data); err != nil {
		_ = f.Close()
		_ = os.Remove(fileName)
		return "", fmt.Errorf("write render file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(fileName)
		return "", fmt.Errorf("close render file: %w", err)
	}

	return fileName, nil
}

// OpenRender opens a saved render.
func (s *LocalStorage) OpenRender(ctx context.Context, path string) (io.ReadCloser, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	f, err := os.Open(path) // #nosec G304 - path comes from SaveRender
	if err != nil {
		return nil, fmt.Errorf("open render file: %w", err)
	}

	return f, nil
}

// RemoveRenders deletes the given render files, returning the first error encountered.
func (s *LocalStorage) RemoveRenders(ctx context.Context, paths []string) error {
	var firstErr error
	for _, p := range paths {
		if err := checkContext(ctx); err != nil {
			return err
		}

		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			if firstErr == nil {
				firstErr = fmt.Errorf("remove render file %s: %w", p, err)
			}
		}
	}
	return firstErr
}

// UploadToS3 is not supported by LocalStorage and returns ErrS3NotConfigured.
func (s *LocalStorage) UploadToS3(_ context.Context, _ string, _ io.Reader) (string, error) {
	return "", ErrS3NotConfigured
}
