package bootstrap

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maauso/showreel-api/internal/config"
	"github.com/maauso/showreel-api/internal/storage"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Port:                 8080,
		TempDir:              t.TempDir(),
		FFmpegPath:           "ffmpeg",
		EngineTimeoutSec:     60,
		MaxFrames:            8,
		MusicFetchTimeoutSec: 5,
		MusicMaxBytes:        1 << 20,
		LogFormat:            "text",
		LogLevel:             "info",
	}
}

func TestNewDependencies_Local(t *testing.T) {
	cfg := testConfig(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	deps, err := NewDependencies(cfg, logger)
	require.NoError(t, err)

	assert.NotNil(t, deps.Composer)
	assert.NotNil(t, deps.RenderService)
	require.NotNil(t, deps.Loader)
	assert.False(t, deps.Loader.Loaded(), "engine must load lazily")

	info, err := os.Stat(filepath.Join(cfg.TempDir, "renders"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestInitStorage_S3(t *testing.T) {
	cfg := testConfig(t)
	cfg.S3Bucket = "showreels"
	cfg.S3Region = "eu-west-1"
	cfg.S3Endpoint = "http://localhost:9000"
	cfg.AWSAccessKeyID = "key"
	cfg.AWSSecretAccessKey = "secret"

	store, err := initStorage(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	_, ok := store.(*storage.S3Storage)
	assert.True(t, ok)
}

func TestInitStorage_LocalWithoutBucket(t *testing.T) {
	store, err := initStorage(testConfig(t), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	_, ok := store.(*storage.LocalStorage)
	assert.True(t, ok)
}
