// Package theme holds the closed set of video themes and what each one implies
// for transitions, color grading and background music.
package theme

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTheme is returned when a theme name is not part of the registry.
var ErrUnknownTheme = errors.New("theme: unknown theme")

// Theme identifies a visual and musical treatment for a render.
type Theme string

const (
	// Electric is a fast-cut technology look.
	Electric Theme = "electric"
	// Cinematic is a graded, trailer-style look.
	Cinematic Theme = "cinematic"
	// Retro is a vintage look.
	Retro Theme = "retro"
	// Neon is a night-city glitch look.
	Neon Theme = "neon"
)

// Record describes the treatment a theme applies.
type Record struct {
	// Transition is the transition style name.
	Transition string `json:"transition"`
	// LUT is the color lookup table style name.
	LUT string `json:"lut"`
	// Music is the default background music URL.
	Music string `json:"music"`
}

var registry = map[Theme]Record{
	Electric: {
		Transition: "fade",
		LUT:        "none",
		Music:      "https://cdn.pixabay.com/download/audio/2022/02/16/audio_88a69ff84f.mp3?filename=future-technology-112366.mp3",
	},
	Cinematic: {
		Transition: "crossfade",
		LUT:        "cinematic",
		Music:      "https://cdn.pixabay.com/download/audio/2021/09/18/audio_3f70ce76d9.mp3?filename=epic-cinematic-heroic-drums-11589.mp3",
	},
	Retro: {
		Transition: "slide",
		LUT:        "retro",
		Music:      "https://cdn.pixabay.com/download/audio/2022/02/22/audio_6f66a701d7.mp3?filename=the-digital-era-11184.mp3",
	},
	Neon: {
		Transition: "glitch",
		LUT:        "neon",
		Music:      "https://cdn.pixabay.com/download/audio/2023/03/07/audio_c9f0b5014d.mp3?filename=night-run-145035.mp3",
	},
}

// order is the stable listing order.
var order = []Theme{Cinematic, Electric, Retro, Neon}

// IsValid returns true if the theme is in the registry.
func (t Theme) IsValid() bool {
	_, ok := registry[t]
	return ok
}

// Resolve returns the record for t. Every registered theme resolves; an
// unregistered value yields the zero Record, so callers should obtain themes
// through Parse or the exported constants.
func Resolve(t Theme) Record {
	return registry[t]
}

// Parse converts a case-insensitive name into a Theme.
func Parse(name string) (Theme, error) {
	t := Theme(strings.ToLower(strings.TrimSpace(name)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	return t, nil
}

// All returns every registered theme in a stable order.
func All() []Theme {
	out := make([]Theme, len(order))
	copy(out, order)
	return out
}
