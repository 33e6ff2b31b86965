// Package audio provides background music resolution and retrieval for renders.
package audio

import (
	"context"
	"strings"

	"github.com/maauso/showreel-api/internal/theme"
)

// TrackName is the asset name a fetched music track is stored under.
const TrackName = "track.mp3"

// Fetcher retrieves a music track.
type Fetcher interface {
	// Fetch downloads the resource at url and returns its bytes.
	// Any failure is reported as an error wrapping ErrFetchFailed.
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ResolveSource picks the music source for a render: an explicit override
// wins, otherwise the theme's default track. It returns false when neither
// yields a URL, meaning the render has no audio.
func ResolveSource(override string, t theme.Theme) (string, bool) {
	if src := strings.TrimSpace(override); src != "" {
		return src, true
	}
	if src := theme.Resolve(t).Music; src != "" {
		return src, true
	}
	return "", false
}
