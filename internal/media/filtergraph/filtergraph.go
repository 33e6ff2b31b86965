// Package filtergraph builds ffmpeg -filter_complex graphs from typed clauses.
//
// A Graph is an ordered list of clauses. Each clause consumes zero or more
// labeled pads and produces labeled pads; String renders the graph to the
// textual form ffmpeg expects, with clauses separated by "; ".
package filtergraph

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Static errors for graph construction.
var (
	// ErrInvalidParams is returned when Build receives unusable parameters.
	ErrInvalidParams = errors.New("filtergraph: invalid parameters")
	// ErrDuplicateLabel is returned when two clauses produce the same output label.
	ErrDuplicateLabel = errors.New("filtergraph: duplicate output label")
	// ErrUnknownLabel is returned when a clause consumes a label nothing produces.
	ErrUnknownLabel = errors.New("filtergraph: unknown input label")
)

const (
	// FrameRate is the fixed output frame rate.
	FrameRate = 30
	// OutputLabel is the label of the final video pad.
	OutputLabel = "video"
	// BaseLabel is the label of the background canvas pad.
	BaseLabel = "base"
)

// Clause is one filter chain within a graph.
type Clause interface {
	// Inputs returns the labels this clause consumes. Input stream
	// references such as "0:v" are not labels and are not reported.
	Inputs() []string
	// Outputs returns the labels this clause produces.
	Outputs() []string
	// String renders the clause.
	String() string
}

// Canvas is a solid-color background source.
type Canvas struct {
	Width    int
	Height   int
	Duration int
	Rate     int
	Color    string
	Label    string
}

func (c Canvas) Inputs() []string  { return nil }
func (c Canvas) Outputs() []string { return []string{c.Label} }

func (c Canvas) String() string {
	return fmt.Sprintf("color=size=%dx%d:duration=%d:rate=%d:color=%s [%s]",
		c.Width, c.Height, c.Duration, c.Rate, c.Color, c.Label)
}

// Stream fits input image Index into a Width x Height frame without
// stretching, then places it on the shared timeline: trimmed to
// [0, Duration) and shifted by Offset seconds.
type Stream struct {
	Index    int
	Width    int
	Height   int
	Duration int
	Offset   int
	Label    string
}

func (s Stream) Inputs() []string  { return nil }
func (s Stream) Outputs() []string { return []string{s.Label} }

func (s Stream) String() string {
	return fmt.Sprintf("[%d:v]scale=%dx%d:force_original_aspect_ratio=decrease,"+
		"pad=%d:%d:(ow-iw)/2:(oh-ih)/2,format=yuv420p,setsar=1,"+
		"trim=0:%d,setpts=PTS-STARTPTS+%d/TB[%s]",
		s.Index, s.Width, s.Height, s.Width, s.Height, s.Duration, s.Offset, s.Label)
}

// Concat joins labeled video pads end to end into one video-only pad.
type Concat struct {
	Sources []string
	Label   string
}

func (c Concat) Inputs() []string {
	out := make([]string, len(c.Sources))
	copy(out, c.Sources)
	return out
}

func (c Concat) Outputs() []string { return []string{c.Label} }

func (c Concat) String() string {
	var b strings.Builder
	for _, src := range c.Sources {
		b.WriteString("[" + src + "]")
	}
	b.WriteString("concat=n=" + strconv.Itoa(len(c.Sources)) + ":v=1:a=0,format=yuv420p")
	b.WriteString("[" + c.Label + "]")
	return b.String()
}

// Graph is an ordered set of clauses.
type Graph struct {
	Clauses []Clause
}

// Add appends a clause and returns the graph for chaining.
func (g *Graph) Add(c Clause) *Graph {
	g.Clauses = append(g.Clauses, c)
	return g
}

// Validate checks that output labels are unique and every consumed label is
// produced by an earlier clause.
func (g *Graph) Validate() error {
	produced := make(map[string]bool)
	for i, c := range g.Clauses {
		for _, in := range c.Inputs() {
			if !produced[in] {
				return fmt.Errorf("%w: clause %d consumes [%s]", ErrUnknownLabel, i, in)
			}
		}
		for _, out := range c.Outputs() {
			if produced[out] {
				return fmt.Errorf("%w: [%s]", ErrDuplicateLabel, out)
			}
			produced[out] = true
		}
	}
	return nil
}

// String renders the graph in -filter_complex syntax.
func (g *Graph) String() string {
	parts := make([]string, len(g.Clauses))
	for i, c := range g.Clauses {
		parts[i] = c.String()
	}
	return strings.Join(parts, "; ")
}

// Params describes a slideshow graph.
type Params struct {
	// FrameCount is the number of image inputs, indexed 0..FrameCount-1.
	FrameCount int
	// Width and Height are the output dimensions.
	Width  int
	Height int
	// FrameDuration is how long each image stays on screen, in seconds.
	FrameDuration int
}

// TotalDuration returns the length of the timeline in seconds.
func (p Params) TotalDuration() int {
	return p.FrameCount * p.FrameDuration
}

// StreamLabel returns the output label of the stream clause for input i.
func StreamLabel(i int) string {
	return "v" + strconv.Itoa(i)
}

// Build assembles the slideshow graph: a black canvas covering the whole
// timeline, one fit-and-place stream per input, and a concat of all streams
// in input order into OutputLabel. A single input still goes through concat.
func Build(p Params) (*Graph, error) {
	switch {
	case p.FrameCount < 1:
		return nil, fmt.Errorf("%w: frame count %d", ErrInvalidParams, p.FrameCount)
	case p.Width <= 0 || p.Height <= 0:
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrInvalidParams, p.Width, p.Height)
	case p.FrameDuration <= 0:
		return nil, fmt.Errorf("%w: frame duration %d", ErrInvalidParams, p.FrameDuration)
	}

	g := &Graph{}
	g.Add(Canvas{
		Width:    p.Width,
		Height:   p.Height,
		Duration: p.TotalDuration(),
		Rate:     FrameRate,
		Color:    "black",
		Label:    BaseLabel,
	})

	sources := make([]string, 0, p.FrameCount)
	for i := range p.FrameCount {
		label := StreamLabel(i)
		g.Add(Stream{
			Index:    i,
			Width:    p.Width,
			Height:   p.Height,
			Duration: p.FrameDuration,
			Offset:   i * p.FrameDuration,
			Label:    label,
		})
		sources = append(sources, label)
	}

	g.Add(Concat{Sources: sources, Label: OutputLabel})

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}
