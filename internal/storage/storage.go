// Package storage provides the binary stores used while rendering videos.
// Assets is the name-keyed working filesystem of the media engine, and
// Storage holds finished renders on local disk with optional S3 publication.
package storage

import (
	"context"
	"io"
)

// Storage defines where finished renders are kept once an encode session ends.
type Storage interface {
	// SaveRender writes a finished video and returns its local path.
	// The name parameter is used as a hint for the filename.
	SaveRender(ctx context.Context, name string, data io.Reader) (path string, err error)

	// OpenRender opens a previously saved render for reading.
	// The caller is responsible for closing the returned ReadCloser.
	OpenRender(ctx context.Context, path string) (io.ReadCloser, error)

	// RemoveRenders deletes saved renders.
	// It continues even if some files fail to delete.
	RemoveRenders(ctx context.Context, paths []string) error

	// UploadToS3 uploads data to S3 and returns the public URL.
	// Returns ErrS3NotConfigured if S3 is not configured.
	UploadToS3(ctx context.Context, key string, data io.Reader) (url string, err error)
}
