package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_AllThemes(t *testing.T) {
	tests := []struct {
		theme      Theme
		transition string
		lut        string
		track      string
	}{
		{Electric, "fade", "none", "future-technology-112366.mp3"},
		{Cinematic, "crossfade", "cinematic", "epic-cinematic-heroic-drums-11589.mp3"},
		{Retro, "slide", "retro", "the-digital-era-11184.mp3"},
		{Neon, "glitch", "neon", "night-run-145035.mp3"},
	}

	for _, tt := range tests {
		t.Run(string(tt.theme), func(t *testing.T) {
			rec := Resolve(tt.theme)
			assert.Equal(t, tt.transition, rec.Transition)
			assert.Equal(t, tt.lut, rec.LUT)
			assert.Contains(t, rec.Music, tt.track)
		})
	}
}

func TestAll_IsTotal(t *testing.T) {
	all := All()
	require.Len(t, all, 4)
	for _, th := range all {
		assert.True(t, th.IsValid())
		assert.NotEmpty(t, Resolve(th).Music)
	}

	// Mutating the returned slice must not affect the registry order.
	all[0] = "bogus"
	assert.Equal(t, Cinematic, All()[0])
}

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  Theme
		err   bool
	}{
		{"neon", Neon, false},
		{"NEON", Neon, false},
		{" retro ", Retro, false},
		{"cinematic", Cinematic, false},
		{"electric", Electric, false},
		{"vaporwave", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.err {
				assert.ErrorIs(t, err, ErrUnknownTheme)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
