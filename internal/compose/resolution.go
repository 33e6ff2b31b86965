package compose

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownResolution is returned when a resolution name is not a known profile.
var ErrUnknownResolution = errors.New("compose: unknown resolution")

// Resolution names accepted by ParseResolution.
const (
	Resolution4K    = "4k"
	Resolution1080p = "1080p"
)

// Resolution is an output frame size.
type Resolution struct {
	Name   string
	Width  int
	Height int
}

var profiles = map[string]Resolution{
	Resolution4K:    {Name: Resolution4K, Width: 3840, Height: 2160},
	Resolution1080p: {Name: Resolution1080p, Width: 1920, Height: 1080},
}

// ParseResolution maps a resolution name to its profile. The empty string
// selects 4k.
func ParseResolution(name string) (Resolution, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = Resolution4K
	}
	r, ok := profiles[key]
	if !ok {
		return Resolution{}, fmt.Errorf("%w: %q", ErrUnknownResolution, name)
	}
	return r, nil
}

// Resolutions returns all profiles, largest first.
func Resolutions() []Resolution {
	return []Resolution{profiles[Resolution4K], profiles[Resolution1080p]}
}

func (r Resolution) String() string {
	return fmt.Sprintf("%s (%dx%d)", r.Name, r.Width, r.Height)
}
