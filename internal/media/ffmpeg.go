package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/maauso/showreel-api/internal/storage"
)

// Static errors for media operations.
var (
	// ErrFFmpegNotFound is returned when the ffmpeg binary cannot be located.
	ErrFFmpegNotFound = errors.New("ffmpeg binary not found")
	// ErrFFmpegUnusable is returned when the ffmpeg binary fails its version probe.
	ErrFFmpegUnusable = errors.New("ffmpeg binary failed version probe")
)

// Compile-time check that FFmpegEngine implements Engine.
var _ Engine = (*FFmpegEngine)(nil)

// FFmpegEngine implements Engine using the ffmpeg CLI, run with its working
// directory set to a DirAssets root so bare asset names resolve as files.
type FFmpegEngine struct {
	// ffmpegPath is the resolved path to the ffmpeg binary.
	ffmpegPath string
	// version is the first line of `ffmpeg -version`.
	version string
	assets  *storage.DirAssets
}

// LoadFFmpegEngine resolves and probes the ffmpeg binary and prepares the
// working directory. If ffmpegPath is empty, it defaults to "ffmpeg" (found via PATH).
func LoadFFmpegEngine(ctx context.Context, ffmpegPath, workDir string) (*FFmpegEngine, error) {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}

	resolved, err := exec.LookPath(ffmpegPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFFmpegNotFound, ffmpegPath, err)
	}

	// #nosec G204 - ffmpegPath is set by the application, not user input
	cmd := exec.CommandContext(ctx, resolved, "-hide_banner", "-version")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFFmpegUnusable, err)
	}

	assets, err := storage.NewDirAssets(workDir)
	if err != nil {
		return nil, err
	}

	version, _, _ := strings.Cut(stdout.String(), "\n")
	return &FFmpegEngine{
		ffmpegPath: resolved,
		version:    strings.TrimSpace(version),
		assets:     assets,
	}, nil
}

// Assets returns the engine's working directory store.
func (e *FFmpegEngine) Assets() storage.Assets {
	return e.assets
}

// Version returns the probed ffmpeg version line.
func (e *FFmpegEngine) Version() string {
	return e.version
}

// Exec runs ffmpeg with the given arguments inside the working directory and
// returns an error containing stderr output if the command fails.
func (e *FFmpegEngine) Exec(ctx context.Context, args []string) error {
	// #nosec G204 - ffmpegPath is set by the application, arguments are built internally
	cmd := exec.CommandContext(ctx, e.ffmpegPath, append([]string{"-hide_banner", "-nostdin"}, args...)...)
	cmd.Dir = e.assets.Dir()

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg cancelled: %w", ctx.Err())
		}
		return &FFmpegError{
			Args:   args,
			Stderr: stderr.String(),
			Err:    err,
		}
	}

	return nil
}

// FFmpegError represents an error from running ffmpeg, including the stderr output.
type FFmpegError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *FFmpegError) Error() string {
	return fmt.Sprintf("ffmpeg error (exit code %d): %v\nargs: %v\nstderr: %s", e.ExitCode(), e.Err, e.Args, e.Stderr)
}

func (e *FFmpegError) Unwrap() error {
	return e.Err
}

// ExitCode returns the process exit status, or -1 when ffmpeg did not exit normally.
func (e *FFmpegError) ExitCode() int {
	var exitErr *exec.ExitError
	if errors.As(e.Err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
