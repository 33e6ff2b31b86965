package compose

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maauso/showreel-api/internal/storage"
)

// brokenDelete fails deletes for one name.
type brokenDelete struct {
	*storage.MemoryAssets
	name string
}

func (b *brokenDelete) Delete(ctx context.Context, name string) error {
	if name == b.name {
		return errors.New("device busy")
	}
	return b.MemoryAssets.Delete(ctx, name)
}

func TestSession_CleanupDeletesTrackedOnly(t *testing.T) {
	ctx := context.Background()
	assets := storage.NewMemoryAssets()
	require.NoError(t, assets.Write(ctx, "keep.bin", []byte("x")))

	s := newSession("s1", assets, discardLogger())
	require.NoError(t, s.write(ctx, "frame-00.png", []byte("a")))
	require.NoError(t, s.write(ctx, "frame-01.png", []byte("b")))
	s.track("output.mp4") // never written

	assert.Equal(t, 0, s.cleanup(ctx))

	entries, err := assets.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []storage.Entry{{Name: "keep.bin"}}, entries)
}

func TestSession_CleanupContinuesPastFailures(t *testing.T) {
	ctx := context.Background()
	assets := &brokenDelete{MemoryAssets: storage.NewMemoryAssets(), name: "frame-00.png"}

	s := newSession("s2", assets, discardLogger())
	for _, name := range []string{"frame-00.png", "frame-01.png", "track.mp3"} {
		require.NoError(t, s.write(ctx, name, []byte("x")))
	}

	assert.Equal(t, 1, s.cleanup(ctx))
	assert.Equal(t, 1, assets.Len())
}

func TestSession_TrackDeduplicates(t *testing.T) {
	s := newSession("s3", storage.NewMemoryAssets(), discardLogger())
	s.track("output.mp4")
	s.track("output.mp4")
	assert.Equal(t, []string{"output.mp4"}, s.tracked())
}

func TestPurgeResidue_SkipsDirectories(t *testing.T) {
	ctx := context.Background()
	assets, err := storage.NewDirAssets(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, assets.Write(ctx, "frame-03.png", []byte("old")))
	require.NoError(t, assets.Write(ctx, "notes.txt", []byte("keep")))

	require.NoError(t, purgeResidue(ctx, assets, discardLogger()))

	entries, err := assets.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []storage.Entry{{Name: "notes.txt"}}, entries)
}

func TestPurgeResidue_RemovesInterruptedWrites(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	assets, err := storage.NewDirAssets(dir)
	require.NoError(t, err)

	// Left behind by a process that died between create and rename.
	stale := filepath.Join(dir, storage.StagingPrefix+"frame-00.png-2841937")
	require.NoError(t, os.WriteFile(stale, []byte("partial"), 0o600))
	require.NoError(t, assets.Write(ctx, "notes.txt", []byte("keep")))

	require.NoError(t, purgeResidue(ctx, assets, discardLogger()))

	entries, err := assets.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []storage.Entry{{Name: "notes.txt"}}, entries)
	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
}
