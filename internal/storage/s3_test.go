package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewS3Storage(t *testing.T) {
	cfg := S3Config{
		Bucket:          "test-bucket",
		Region:          "us-east-1",
		Endpoint:        "http://localhost:4566",
		AccessKeyID:     "test-access-key",
		SecretAccessKey: "test-secret-key",
	}

	storage, err := NewS3Storage(t.TempDir(), cfg)
	if err != nil {
		t.Fatalf("NewS3Storage() error = %v", err)
	}

	if storage.bucket != cfg.Bucket {
		t.Errorf("bucket = %v, want %v", storage.bucket, cfg.Bucket)
	}
	if storage.region != cfg.Region {
		t.Errorf("region = %v, want %v", storage.region, cfg.Region)
	}
}

func TestS3Storage_InheritsLocalStorage(t *testing.T) {
	storage, err := NewS3Storage(t.TempDir(), S3Config{
		Bucket: "test-bucket",
		Region: "us-east-1",
	})
	if err != nil {
		t.Fatalf("NewS3Storage() error = %v", err)
	}

	ctx := context.Background()
	path, err := storage.SaveRender(ctx, "render", bytes.NewReader([]byte("test data")))
	if err != nil {
		t.Fatalf("SaveRender() error = %v", err)
	}

	reader, err := storage.OpenRender(ctx, path)
	if err != nil {
		t.Fatalf("OpenRender() error = %v", err)
	}
	content, err := io.ReadAll(reader)
	_ = reader.Close()
	if err != nil {
		t.Fatalf("failed to read: %v", err)
	}
	if string(content) != "test data" {
		t.Errorf("got %q, want %q", string(content), "test data")
	}

	if err := storage.RemoveRenders(ctx, []string{path}); err != nil {
		t.Fatalf("RemoveRenders() error = %v", err)
	}
}

func TestS3Storage_ObjectURL(t *testing.T) {
	aws := &S3Storage{bucket: "reels", region: "eu-west-1"}
	if got := aws.objectURL("renders/a.mp4"); got != "https://reels.s3.eu-west-1.amazonaws.com/renders/a.mp4" {
		t.Errorf("objectURL() = %s", got)
	}

	custom := &S3Storage{bucket: "reels", endpoint: "http://minio:9000/"}
	if got := custom.objectURL("renders/a.mp4"); got != "http://minio:9000/reels/renders/a.mp4" {
		t.Errorf("objectURL() = %s", got)
	}
}

func TestS3Storage_UploadToS3_MockServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT method, got %s", r.Method)
		}
		if !strings.Contains(r.URL.Path, "/test-bucket/renders/test-key.mp4") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("failed to read body: %v", err)
		}
		if !strings.Contains(string(body), "test content") {
			t.Errorf("unexpected body: %s", string(body))
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	storage, err := NewS3Storage(t.TempDir(), S3Config{
		Bucket:          "test-bucket",
		Region:          "us-east-1",
		Endpoint:        server.URL,
		AccessKeyID:     "test-access-key",
		SecretAccessKey: "test-secret-key",
	})
	if err != nil {
		t.Fatalf("NewS3Storage() error = %v", err)
	}

	url, err := storage.UploadToS3(context.Background(), "renders/test-key.mp4", bytes.NewReader([]byte("test content")))
	if err != nil {
		t.Fatalf("UploadToS3() error = %v", err)
	}

	expectedURL := server.URL + "/test-bucket/renders/test-key.mp4"
	if url != expectedURL {
		t.Errorf("url = %v, want %v", url, expectedURL)
	}
}
