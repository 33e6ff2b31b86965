// Package compose turns an ordered set of still images into a themed H.264
// showreel.
//
// A Composer runs one encode session per call: it takes exclusive use of the
// shared media engine, writes the frames (and the background track, when one
// can be fetched) into the engine's asset store, builds the filter graph,
// runs a single encode pass and reads the result back. Every asset a session
// writes is removed before Compose returns, on success and on failure.
package compose

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/maauso/showreel-api/internal/audio"
	"github.com/maauso/showreel-api/internal/media"
	"github.com/maauso/showreel-api/internal/media/filtergraph"
	"github.com/maauso/showreel-api/internal/metrics"
	"github.com/maauso/showreel-api/internal/theme"
)

// Static errors returned by Compose.
var (
	// ErrEmptyInput is returned when a request has no frames.
	ErrEmptyInput = errors.New("compose: no frames supplied")
	// ErrTooManyFrames is returned when a request exceeds the configured frame limit.
	ErrTooManyFrames = errors.New("compose: too many frames")
	// ErrInvalidFrameData is returned when a frame payload is not a decodable image.
	ErrInvalidFrameData = errors.New("compose: invalid frame data")
	// ErrEngineFailure is returned when the engine cannot be loaded, fails
	// the encode or exceeds the encode timeout.
	ErrEngineFailure = errors.New("compose: engine failure")
)

// MIMEType is the content type of every composed video.
const MIMEType = "video/mp4"

// EngineProvider hands out exclusive access to the media engine.
// *media.Loader implements it.
type EngineProvider interface {
	Acquire(ctx context.Context) (*media.Handle, error)
}

// Request describes one showreel.
type Request struct {
	Frames []Frame
	Theme  theme.Theme
	// Resolution is the output size. The zero value selects 4k.
	Resolution Resolution
	// MusicURL overrides the theme's default track when set.
	MusicURL string
}

// Result is a composed video.
type Result struct {
	Data          []byte
	MIMEType      string
	Width         int
	Height        int
	FrameDuration int
	Duration      int
	HasAudio      bool
	SessionID     string
}

// Validate checks a request without touching the engine: it must have
// frames, a known theme, and every frame must decode as an image.
func (r Request) Validate() error {
	_, err := r.probe()
	return err
}

func (r Request) probe() ([]frameInfo, error) {
	if len(r.Frames) == 0 {
		return nil, ErrEmptyInput
	}
	if !r.Theme.IsValid() {
		return nil, fmt.Errorf("%w: %q", theme.ErrUnknownTheme, r.Theme)
	}

	infos := make([]frameInfo, len(r.Frames))
	errs := make([]error, len(r.Frames))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, f := range r.Frames {
		g.Go(func() error {
			cfg, format, err := probeFrame(f.Data)
			if err != nil {
				errs[i] = fmt.Errorf("frame %d (%s): %w", i, f.ID, err)
				return nil
			}
			infos[i] = frameInfo{config: cfg, format: format}
			return nil
		})
	}
	_ = g.Wait()

	// Report the first bad frame in presentation order.
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return infos, nil
}

// Composer runs encode sessions against a shared engine.
type Composer struct {
	engines       EngineProvider
	fetcher       audio.Fetcher
	logger        *slog.Logger
	engineTimeout time.Duration
	maxFrames     int
}

// Option configures a Composer.
type Option func(*Composer)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Composer) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithEngineTimeout bounds a single encode. Expiry is reported as ErrEngineFailure.
func WithEngineTimeout(d time.Duration) Option {
	return func(c *Composer) {
		c.engineTimeout = d
	}
}

// WithMaxFrames caps the number of frames per request. Zero means no limit.
func WithMaxFrames(n int) Option {
	return func(c *Composer) {
		c.maxFrames = n
	}
}

// NewComposer creates a Composer. A nil fetcher disables background music.
func NewComposer(engines EngineProvider, fetcher audio.Fetcher, opts ...Option) *Composer {
	c := &Composer{
		engines: engines,
		fetcher: fetcher,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose renders req into an MP4.
//
// Compose fails with ErrEmptyInput or ErrInvalidFrameData before touching
// the engine. A failed music fetch is logged and the video is produced
// without audio.
func (c *Composer) Compose(ctx context.Context, req Request) (result *Result, err error) {
	start := time.Now()
	n := len(req.Frames)

	res := req.Resolution
	if res.Width == 0 || res.Height == 0 {
		res, _ = ParseResolution(Resolution4K)
	}

	defer func() {
		metrics.RecordCompose(outcome(err), res.Name, string(req.Theme), n, time.Since(start).Seconds())
	}()

	if n == 0 {
		return nil, ErrEmptyInput
	}
	if c.maxFrames > 0 && n > c.maxFrames {
		return nil, fmt.Errorf("%w: %d frames, limit is %d", ErrTooManyFrames, n, c.maxFrames)
	}
	infos, err := req.probe()
	if err != nil {
		return nil, err
	}

	sessionID := uuid.NewString()
	logger := c.logger.With(slog.String("session_id", sessionID))
	logFrames(logger, req.Frames, infos, res)

	handle, err := c.engines.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEngineFailure, err)
	}
	defer handle.Release()

	assets := handle.Assets()
	if err := purgeResidue(ctx, assets, logger); err != nil {
		return nil, fmt.Errorf("%w: purge residue: %w", ErrEngineFailure, err)
	}

	sess := newSession(sessionID, assets, logger)
	defer func() {
		// Cleanup must run even if the caller has gone away.
		sess.cleanup(context.WithoutCancel(ctx))
	}()

	logger.Info("compose session started",
		slog.Int("frames", n),
		slog.String("theme", string(req.Theme)),
		slog.String("resolution", res.Name),
	)

	hasAudio, err := c.stage(ctx, sess, req, infos, logger)
	if err != nil {
		if errors.Is(err, ErrInvalidFrameData) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: stage assets: %w", ErrEngineFailure, err)
	}

	d := FrameDuration(n)
	graph, err := filtergraph.Build(filtergraph.Params{
		FrameCount:    n,
		Width:         res.Width,
		Height:        res.Height,
		FrameDuration: d,
	})
	if err != nil {
		return nil, fmt.Errorf("build filter graph: %w", err)
	}

	args := encodeArgs(n, d, graph.String(), hasAudio)
	sess.track(outputName)

	if err := c.exec(ctx, handle, args); err != nil {
		logger.Error("encode failed", slog.String("error", err.Error()))
		return nil, err
	}

	data, err := assets.Read(ctx, outputName)
	if err != nil {
		return nil, fmt.Errorf("%w: read output: %w", ErrEngineFailure, err)
	}
	metrics.RecordOutputSize(len(data))

	logger.Info("compose session completed",
		slog.Int("bytes", len(data)),
		slog.Int("duration_sec", n*d),
		slog.Bool("audio", hasAudio),
		slog.Duration("elapsed", time.Since(start)),
	)

	return &Result{
		Data:          data,
		MIMEType:      MIMEType,
		Width:         res.Width,
		Height:        res.Height,
		FrameDuration: d,
		Duration:      n * d,
		HasAudio:      hasAudio,
		SessionID:     sessionID,
	}, nil
}

// stage writes all frames in parallel while the background track is fetched.
// It reports whether the track was written.
func (c *Composer) stage(ctx context.Context, sess *session, req Request, infos []frameInfo, logger *slog.Logger) (bool, error) {
	n := len(req.Frames)
	g, gctx := errgroup.WithContext(ctx)

	for i, f := range req.Frames {
		name := frameName(i, n)
		format := infos[i].format
		g.Go(func() error {
			data, err := pngFrame(f.Data, format)
			if err != nil {
				return fmt.Errorf("frame %d (%s): %w", i, f.ID, err)
			}
			if err := sess.write(gctx, name, data); err != nil {
				return fmt.Errorf("write %s: %w", name, err)
			}
			return nil
		})
	}

	var hasAudio bool
	if src, ok := audio.ResolveSource(req.MusicURL, req.Theme); ok && c.fetcher != nil {
		g.Go(func() error {
			hasAudio = c.stageTrack(gctx, sess, src, logger)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return false, err
	}
	return hasAudio, nil
}

// stageTrack fetches and writes the background track. Failures are logged and
// the session continues without audio.
func (c *Composer) stageTrack(ctx context.Context, sess *session, src string, logger *slog.Logger) bool {
	data, err := c.fetcher.Fetch(ctx, src)
	metrics.RecordMusicFetch(err == nil)
	if err != nil {
		logger.Warn("music fetch failed, continuing without audio",
			slog.String("url", src),
			slog.String("error", err.Error()),
		)
		return false
	}

	if err := sess.write(ctx, audio.TrackName, data); err != nil {
		logger.Warn("music write failed, continuing without audio", slog.String("error", err.Error()))
		return false
	}
	return true
}

func (c *Composer) exec(ctx context.Context, engine media.Engine, args []string) error {
	execCtx := ctx
	if c.engineTimeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, c.engineTimeout)
		defer cancel()
	}

	err := engine.Exec(execCtx, args)
	if err == nil {
		return nil
	}
	if errors.Is(execCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return fmt.Errorf("%w: encode timed out after %s: %w", ErrEngineFailure, c.engineTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrEngineFailure, err)
}

// logFrames reports how each frame will be placed on the canvas. Frame IDs
// are not required to be unique since assets are named by position.
func logFrames(logger *slog.Logger, frames []Frame, infos []frameInfo, res Resolution) {
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	first := make(map[string]int, len(frames))
	for i, f := range frames {
		if prev, dup := first[f.ID]; dup && f.ID != "" {
			logger.Debug("duplicate frame id", slog.String("frame_id", f.ID), slog.Int("first", prev), slog.Int("index", i))
		} else {
			first[f.ID] = i
		}

		cfg := infos[i].config
		layout := filtergraph.Fit(cfg.Width, cfg.Height, res.Width, res.Height)
		logger.Debug("frame layout",
			slog.Int("index", i),
			slog.String("frame_id", f.ID),
			slog.String("format", infos[i].format),
			slog.Int("src_width", cfg.Width),
			slog.Int("src_height", cfg.Height),
			slog.Int("pad_x", layout.PadX),
			slog.Int("pad_y", layout.PadY),
		)
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrEmptyInput):
		return "empty_input"
	case errors.Is(err, ErrInvalidFrameData):
		return "invalid_frame_data"
	case errors.Is(err, ErrEngineFailure):
		return "engine_failure"
	default:
		return "rejected"
	}
}
