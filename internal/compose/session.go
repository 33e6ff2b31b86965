package compose

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/maauso/showreel-api/internal/audio"
	"github.com/maauso/showreel-api/internal/metrics"
	"github.com/maauso/showreel-api/internal/storage"
)

// session records every asset written during one compose call so that all of
// them can be removed afterwards, whatever the outcome.
type session struct {
	id     string
	assets storage.Assets
	logger *slog.Logger

	mu      sync.Mutex
	written []string
	seen    map[string]bool
}

func newSession(id string, assets storage.Assets, logger *slog.Logger) *session {
	return &session{
		id:     id,
		assets: assets,
		logger: logger,
		seen:   make(map[string]bool),
	}
}

// write stores data and tracks the name. The name is tracked even if the
// write fails, since a partial write may have left something behind.
func (s *session) write(ctx context.Context, name string, data []byte) error {
	s.track(name)
	return s.assets.Write(ctx, name, data)
}

// track marks name for cleanup. Safe for concurrent use.
func (s *session) track(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[name] {
		return
	}
	s.seen[name] = true
	s.written = append(s.written, name)
}

// tracked returns a snapshot of the names recorded so far.
func (s *session) tracked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.written))
	copy(out, s.written)
	return out
}

// cleanup deletes every tracked name. Missing assets are fine; any other
// failure is logged and counted, and the loop moves on to the next name.
// It returns the number of failed deletions.
func (s *session) cleanup(ctx context.Context) int {
	failed := 0
	for _, name := range s.tracked() {
		err := s.assets.Delete(ctx, name)
		if err == nil || errors.Is(err, storage.ErrNotFound) {
			continue
		}
		failed++
		metrics.RecordCleanupWarning()
		s.logger.Warn("failed to delete session asset",
			slog.String("session_id", s.id),
			slog.String("asset", name),
			slog.String("error", err.Error()),
		)
	}
	return failed
}

// isSessionArtifact reports whether name is something a compose session
// produces, including writes interrupted before they were committed.
func isSessionArtifact(name string) bool {
	return strings.HasPrefix(name, framePrefix) ||
		strings.HasPrefix(name, storage.StagingPrefix) ||
		strings.HasPrefix(name, outputName) ||
		strings.HasPrefix(name, audio.TrackName)
}

// purgeResidue removes artifacts left behind by an earlier session, for
// example after a crash mid-encode. Directories are never touched.
func purgeResidue(ctx context.Context, assets storage.Assets, logger *slog.Logger) error {
	entries, err := assets.List(ctx)
	if err != nil {
		return err
	}

	for _, e := range entries {
		if e.IsDir || !isSessionArtifact(e.Name) {
			continue
		}
		if err := assets.Delete(ctx, e.Name); err != nil && !errors.Is(err, storage.ErrNotFound) {
			metrics.RecordCleanupWarning()
			logger.Warn("failed to purge stale asset",
				slog.String("asset", e.Name),
				slog.String("error", err.Error()),
			)
			continue
		}
		logger.Debug("purged stale asset", slog.String("asset", e.Name))
	}
	return nil
}
