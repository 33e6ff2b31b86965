package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewLocalStorage(t *testing.T) {
	t.Run("creates directory if not exists", func(t *testing.T) {
		dir := filepath.Join(os.TempDir(), "showreel_test_"+randomSuffix())
		defer func() { _ = os.RemoveAll(dir) }()

		storage, err := NewLocalStorage(dir)
		if err != nil {
			t.Fatalf("NewLocalStorage() error = %v", err)
		}

		if storage.RendersDir() != dir {
			t.Errorf("RendersDir() = %v, want %v", storage.RendersDir(), dir)
		}

		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("directory not created: %v", err)
		}
		if !info.IsDir() {
			t.Error("expected directory, got file")
		}
	})

	t.Run("uses default directory when empty", func(t *testing.T) {
		storage, err := NewLocalStorage("")
		if err != nil {
			t.Fatalf("NewLocalStorage() error = %v", err)
		}

		expected := filepath.Join(os.TempDir(), "showreel", "renders")
		if storage.RendersDir() != expected {
			t.Errorf("RendersDir() = %v, want %v", storage.RendersDir(), expected)
		}
	})
}

func TestLocalStorage_SaveRender(t *testing.T) {
	storage := setupTestStorage(t)

	t.Run("saves data to mp4 file", func(t *testing.T) {
		ctx := context.Background()

		path, err := storage.SaveRender(ctx, "render-1", bytes.NewReader([]byte("video bytes")))
		if err != nil {
			t.Fatalf("SaveRender() error = %v", err)
		}
		defer func() { _ = os.Remove(path) }()

		if !strings.Contains(filepath.Base(path), "render-1_") {
			t.Errorf("path %s should contain 'render-1_'", path)
		}
		if filepath.Ext(path) != ".mp4" {
			t.Errorf("path %s should end with .mp4", path)
		}

		content, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read saved file: %v", err)
		}
		if string(content) != "video bytes" {
			t.Errorf("got %q, want %q", string(content), "video bytes")
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := storage.SaveRender(ctx, "render", bytes.NewReader([]byte("data")))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestLocalStorage_OpenRender(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()

	t.Run("opens saved render", func(t *testing.T) {
		path, err := storage.SaveRender(ctx, "open", bytes.NewReader([]byte("mp4 data")))
		if err != nil {
			t.Fatalf("SaveRender() error = %v", err)
		}

		reader, err := storage.OpenRender(ctx, path)
		if err != nil {
			t.Fatalf("OpenRender() error = %v", err)
		}
		defer func() { _ = reader.Close() }()

		content, err := io.ReadAll(reader)
		if err != nil {
			t.Fatalf("failed to read: %v", err)
		}
		if string(content) != "mp4 data" {
			t.Errorf("got %q, want %q", string(content), "mp4 data")
		}
	})

	t.Run("returns error for non-existent file", func(t *testing.T) {
		_, err := storage.OpenRender(ctx, "/non/existent/file.mp4")
		if err == nil {
			t.Error("expected error for non-existent file")
		}
	})
}

func TestLocalStorage_RemoveRenders(t *testing.T) {
	storage := setupTestStorage(t)
	ctx := context.Background()

	t.Run("removes files", func(t *testing.T) {
		var paths []string
		for i := 0; i < 3; i++ {
			path, err := storage.SaveRender(ctx, "cleanup", bytes.NewReader([]byte("data")))
			if err != nil {
				t.Fatalf("SaveRender() error = %v", err)
			}
			paths = append(paths, path)
		}

		if err := storage.RemoveRenders(ctx, paths); err != nil {
			t.Fatalf("RemoveRenders() error = %v", err)
		}

		for _, p := range paths {
			if _, err := os.Stat(p); !os.IsNotExist(err) {
				t.Errorf("file %s still exists", p)
			}
		}
	})

	t.Run("ignores non-existent files", func(t *testing.T) {
		if err := storage.RemoveRenders(ctx, []string{"/non/existent/file"}); err != nil {
			t.Errorf("RemoveRenders() should ignore non-existent files, got %v", err)
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := storage.RemoveRenders(ctx, []string{"/some/path"})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestLocalStorage_UploadToS3(t *testing.T) {
	storage := setupTestStorage(t)

	_, err := storage.UploadToS3(context.Background(), "key", bytes.NewReader([]byte("data")))
	if !errors.Is(err, ErrS3NotConfigured) {
		t.Errorf("expected ErrS3NotConfigured, got %v", err)
	}
}

func setupTestStorage(t *testing.T) *LocalStorage {
	t.Helper()
	storage, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	return storage
}

func randomSuffix() string {
	return time.Now().Format("20060102150405.000000000")
}
