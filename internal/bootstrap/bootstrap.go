// Package bootstrap wires the showreel service together from configuration.
package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/maauso/showreel-api/internal/audio"
	"github.com/maauso/showreel-api/internal/compose"
	"github.com/maauso/showreel-api/internal/config"
	"github.com/maauso/showreel-api/internal/job"
	"github.com/maauso/showreel-api/internal/media"
	"github.com/maauso/showreel-api/internal/storage"
)

// Dependencies holds all initialized dependencies for the HTTP server and CLI.
type Dependencies struct {
	Loader        *media.Loader
	Composer      *compose.Composer
	RenderService *job.RenderService
}

// NewDependencies creates and initializes all dependencies for the application.
// The engine itself is loaded lazily on the first compose.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	store, err := initStorage(cfg, logger)
	if err != nil {
		return nil, err
	}

	loader := media.NewFFmpegLoader(cfg.FFmpegPath, cfg.EngineDir(), logger)
	fetcher := audio.NewHTTPFetcher(
		audio.WithTimeout(cfg.MusicFetchTimeout()),
		audio.WithMaxBytes(cfg.MusicMaxBytes),
	)

	composer := compose.NewComposer(loader, fetcher,
		compose.WithLogger(logger),
		compose.WithEngineTimeout(cfg.EngineTimeout()),
		compose.WithMaxFrames(cfg.MaxFrames),
	)

	repo := job.NewMemoryRepository()
	svc := job.NewRenderService(repo, composer, store, logger)

	return &Dependencies{
		Loader:        loader,
		Composer:      composer,
		RenderService: svc,
	}, nil
}

// initStorage creates the render storage backend based on configuration.
func initStorage(cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	if cfg.S3Enabled() {
		s3Cfg := storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		}
		s3Store, err := storage.NewS3Storage(cfg.RendersDir(), s3Cfg)
		if err != nil {
			return nil, fmt.Errorf("create S3 storage: %w", err)
		}
		logger.Info("S3 storage configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
			slog.String("endpoint", cfg.S3Endpoint),
		)
		return s3Store, nil
	}

	localStore, err := storage.NewLocalStorage(cfg.RendersDir())
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}
	logger.Info("local storage configured",
		slog.String("renders_dir", cfg.RendersDir()),
	)
	return localStore, nil
}
