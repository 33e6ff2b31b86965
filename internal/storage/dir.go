package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// StagingPrefix starts the names of temp files Write renames into place.
// A crash mid-write can leave one behind.
const StagingPrefix = ".tmp-"

// Compile-time check that DirAssets implements Assets.
var _ Assets = (*DirAssets)(nil)

// DirAssets implements Assets on top of a single local directory.
// It is the working filesystem handed to the ffmpeg engine, so asset names
// map one-to-one onto file names inside Dir().
type DirAssets struct {
	dir string
}

// NewDirAssets creates a DirAssets rooted at dir, creating it if needed.
func NewDirAssets(dir string) (*DirAssets, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "showreel", "engine")
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create asset directory: %w", err)
	}
	return &DirAssets{dir: dir}, nil
}

// Dir returns the backing directory.
func (a *DirAssets) Dir() string {
	return a.dir
}

// Write stores data via a temp file and rename so readers never see a partial asset.
func (a *DirAssets) Write(ctx context.Context, name string, data []byte) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	if err := validateName(name); err != nil {
		return err
	}

	f, err := os.CreateTemp(a.dir, StagingPrefix+name+"-*")
	if err != nil {
		return fmt.Errorf("create temp asset: %w", err)
	}
	tmpName := f.Name()

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write asset %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close asset %s: %w", name, err)
	}
	if err := os.Rename(tmpName, filepath.Join(a.dir, name)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("commit asset %s: %w", name, err)
	}
	return nil
}

// Read returns the content of the named asset.
func (a *DirAssets) Read(ctx context.Context, name string) ([]byte, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(a.dir, name)) // #nosec G304 - name is validated as a flat file name
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("read asset %s: %w", name, err)
	}
	return data, nil
}

// Delete removes the named asset.
func (a *DirAssets) Delete(ctx context.Context, name string) error {
	if err := checkContext(ctx); err != nil {
		return err
	}
	if err := validateName(name); err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(a.dir, name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return fmt.Errorf("delete asset %s: %w", name, err)
	}
	return nil
}

// List returns the directory entries sorted by name.
func (a *DirAssets) List(ctx context.Context) ([]Entry, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(a.dir)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, e := range dirEntries {
		entries = append(entries, Entry{Name: e.Name(), IsDir: e.IsDir()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}
