package media

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/maauso/showreel-api/internal/metrics"
)

// LoadFunc creates an engine. It is called at most once per successful load.
type LoadFunc func(ctx context.Context) (Engine, error)

// Loader is the process-scoped owner of the encode engine.
//
// The engine is loaded on first Acquire and reused afterwards; concurrent
// first calls share one load. A failed load is not cached, so a later Acquire
// tries again. Acquire also serializes sessions: the engine's working
// filesystem and invocation state are shared, so at most one Handle is
// outstanding at any time.
type Loader struct {
	load   LoadFunc
	logger *slog.Logger

	mu     sync.Mutex
	engine Engine
	loads  int

	// slot is a single-entry semaphore guarding session access.
	slot chan struct{}
}

// NewLoader creates a Loader that uses load to create the engine.
func NewLoader(load LoadFunc, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		load:   load,
		logger: logger,
		slot:   make(chan struct{}, 1),
	}
}

// NewFFmpegLoader returns a Loader for an FFmpegEngine working in workDir.
func NewFFmpegLoader(ffmpegPath, workDir string, logger *slog.Logger) *Loader {
	l := NewLoader(nil, logger)
	l.load = func(ctx context.Context) (Engine, error) {
		e, err := LoadFFmpegEngine(ctx, ffmpegPath, workDir)
		if err != nil {
			return nil, err
		}
		l.logger.Info("ffmpeg engine loaded",
			slog.String("path", e.ffmpegPath),
			slog.String("version", e.Version()),
			slog.String("work_dir", e.assets.Dir()),
		)
		return e, nil
	}
	return l
}

// Handle is exclusive access to the loaded engine for one session.
type Handle struct {
	Engine
	release func()
	once    sync.Once
}

// Release returns the engine to the Loader. It is safe to call more than once.
func (h *Handle) Release() {
	h.once.Do(h.release)
}

// Acquire waits for exclusive use of the engine, loading it if needed.
func (l *Loader) Acquire(ctx context.Context) (*Handle, error) {
	select {
	case l.slot <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("acquire engine: %w", ctx.Err())
	}

	engine, err := l.ensureLoaded(ctx)
	if err != nil {
		<-l.slot
		return nil, err
	}

	return &Handle{
		Engine:  engine,
		release: func() { <-l.slot },
	}, nil
}

// Loads returns how many times the engine has been loaded successfully.
func (l *Loader) Loads() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loads
}

// Loaded reports whether the engine is ready.
func (l *Loader) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engine != nil
}

func (l *Loader) ensureLoaded(ctx context.Context) (Engine, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.engine != nil {
		return l.engine, nil
	}

	engine, err := l.load(ctx)
	metrics.RecordEngineLoad(err == nil)
	if err != nil {
		return nil, fmt.Errorf("load engine: %w", err)
	}
	l.engine = engine
	l.loads++
	return engine, nil
}
