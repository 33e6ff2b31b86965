package main

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maauso/showreel-api/internal/compose"
	"github.com/maauso/showreel-api/internal/config"
	"github.com/maauso/showreel-api/internal/theme"
)

type recordingComposer struct {
	requests []compose.Request
	result   *compose.Result
	err      error
}

func (r *recordingComposer) Compose(_ context.Context, req compose.Request) (*compose.Result, error) {
	r.requests = append(r.requests, req)
	return r.result, r.err
}

func runCLI(t *testing.T, fc *recordingComposer, args ...string) (string, error) {
	t.Helper()
	t.Setenv("TEMP_DIR", t.TempDir())
	t.Setenv("LOG_LEVEL", "error")

	ctx := newCommandContext()
	ctx.newComposer = func(*config.Config, *slog.Logger) (frameComposer, error) {
		return fc, nil
	}

	cmd := newRootCommandWith(ctx)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 6))))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestThemesCommand(t *testing.T) {
	out, err := runCLI(t, &recordingComposer{}, "themes")
	require.NoError(t, err)

	for _, name := range []string{"electric", "cinematic", "retro", "neon"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "Resolutions: 4k (3840x2160), 1080p (1920x1080)")
}

func TestComposeCommand(t *testing.T) {
	dir := t.TempDir()
	first := writePNG(t, dir, "intro.png")
	second := writePNG(t, dir, "outro.png")
	output := filepath.Join(dir, "reel.mp4")

	fc := &recordingComposer{result: &compose.Result{
		Data:     bytes.Repeat([]byte{1}, 2048),
		Width:    1920,
		Height:   1080,
		Duration: 12,
		HasAudio: true,
	}}

	out, err := runCLI(t, fc, "compose", "--theme", "neon", "--resolution", "1080p",
		"--music", "https://example.com/a.mp3", "-o", output, first, second)
	require.NoError(t, err)

	require.Len(t, fc.requests, 1)
	req := fc.requests[0]
	assert.Equal(t, theme.Neon, req.Theme)
	assert.Equal(t, compose.Resolution1080p, req.Resolution.Name)
	assert.Equal(t, "https://example.com/a.mp3", req.MusicURL)
	require.Len(t, req.Frames, 2)
	assert.Equal(t, "intro", req.Frames[0].ID)
	assert.Equal(t, "outro", req.Frames[1].ID)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Len(t, data, 2048)
	assert.Contains(t, out, "2.0 kB")
	assert.Contains(t, out, "1920x1080")
	assert.Contains(t, out, "with audio")
}

func TestComposeCommand_RejectsBeforeComposing(t *testing.T) {
	dir := t.TempDir()
	bogus := filepath.Join(dir, "notes.png")
	require.NoError(t, os.WriteFile(bogus, []byte("not an image"), 0o600))

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"unknown theme", []string{"compose", "--theme", "pastel", writePNG(t, dir, "a.png")}, theme.ErrUnknownTheme},
		{"unknown resolution", []string{"compose", "-r", "720p", writePNG(t, dir, "b.png")}, compose.ErrUnknownResolution},
		{"invalid image", []string{"compose", bogus}, compose.ErrInvalidFrameData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &recordingComposer{}
			_, err := runCLI(t, fc, tt.args...)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, fc.requests)
		})
	}
}

func TestComposeCommand_RequiresImages(t *testing.T) {
	_, err := runCLI(t, &recordingComposer{}, "compose")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "requires at least 1 arg"))
}

func TestComposeCommand_MissingFile(t *testing.T) {
	_, err := runCLI(t, &recordingComposer{}, "compose", filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
