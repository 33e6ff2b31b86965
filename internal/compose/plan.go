package compose

import (
	"fmt"
	"strconv"

	"github.com/maauso/showreel-api/internal/audio"
	"github.com/maauso/showreel-api/internal/media/filtergraph"
)

// Session asset names.
const (
	framePrefix = "frame-"
	frameExt    = ".png"
	outputName  = "output.mp4"
)

const (
	// slideshowSeconds is the target length a showreel is spread over.
	slideshowSeconds = 12
	// minFrameSeconds is the shortest time any frame stays on screen.
	minFrameSeconds = 3
)

// FrameDuration returns how long each of n frames is shown, in whole seconds:
// max(3, floor(12/n)).
func FrameDuration(n int) int {
	if n <= 0 {
		return 0
	}
	return max(minFrameSeconds, slideshowSeconds/n)
}

// frameName returns the asset name of frame i out of n. Indices are zero
// padded to at least two digits and wide enough for n-1 so names sort in
// presentation order.
func frameName(i, n int) string {
	width := max(2, len(strconv.Itoa(n-1)))
	return fmt.Sprintf("%s%0*d%s", framePrefix, width, i, frameExt)
}

// encodeArgs builds the encoder argument vector for n looped still inputs of
// d seconds each, an optional audio input, and the given filter graph.
func encodeArgs(n, d int, graph string, withAudio bool) []string {
	args := make([]string, 0, 6*n+20)
	dur := strconv.Itoa(d)
	for i := range n {
		args = append(args, "-loop", "1", "-t", dur, "-i", frameName(i, n))
	}
	if withAudio {
		args = append(args, "-i", audio.TrackName)
	}

	args = append(args, "-filter_complex", graph, "-map", "["+filtergraph.OutputLabel+"]")
	if withAudio {
		// The track is the input after the last frame.
		args = append(args, "-map", strconv.Itoa(n)+":a", "-shortest")
	}

	return append(args,
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-preset", "slow",
		"-b:v", "25M",
		"-y", outputName,
	)
}
