// Package media provides the encode engine used to synthesize videos.
//
// An Engine owns a working asset store and executes encoder argument vectors
// against it. Engines are loaded lazily through a Loader, which also ensures
// that only one encode session uses the engine at a time.
package media

import (
	"context"

	"github.com/maauso/showreel-api/internal/storage"
)

// Engine runs encoder invocations against its own asset store.
type Engine interface {
	// Assets returns the working filesystem that Exec reads from and writes to.
	// Input and output names in Exec arguments are resolved inside it.
	Assets() storage.Assets

	// Exec runs one encoder invocation. A non-nil error means the encode did
	// not succeed; *FFmpegError carries the exit status and stderr.
	Exec(ctx context.Context, args []string) error
}
