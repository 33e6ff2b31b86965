package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Static errors for asset operations.
var (
	// ErrNotFound is returned when an asset name is not present in the store.
	ErrNotFound = errors.New("storage: asset not found")
	// ErrInvalidName is returned when an asset name is empty or contains a path separator.
	ErrInvalidName = errors.New("storage: invalid asset name")
)

// Entry describes one item in an asset store listing.
type Entry struct {
	Name  string
	IsDir bool
}

// Assets is a flat, name-keyed binary store scoped to one media engine.
// It plays the role of the engine's working filesystem: everything the engine
// reads or writes during an encode lives here.
type Assets interface {
	// Write stores data under name, replacing any previous content.
	// A write is either fully observed or not observed at all.
	Write(ctx context.Context, name string, data []byte) error

	// Read returns the content stored under name.
	// Returns ErrNotFound if the name is absent.
	Read(ctx context.Context, name string) ([]byte, error)

	// Delete removes the named asset.
	// Returns ErrNotFound if the name is absent; callers usually tolerate that.
	Delete(ctx context.Context, name string) error

	// List returns every entry currently in the store.
	List(ctx context.Context) ([]Entry, error)
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
		return nil
	}
}
