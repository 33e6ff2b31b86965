package filtergraph

// Layout is where a source image lands inside the output frame.
type Layout struct {
	// Width and Height are the scaled content size.
	Width  int
	Height int
	// PadX and PadY are the total horizontal and vertical bar sizes.
	PadX int
	PadY int
}

// Fit mirrors scale=WxH:force_original_aspect_ratio=decrease followed by a
// centering pad: the content is scaled to the largest size that fits inside
// dstW x dstH with the source aspect ratio, and the rest becomes bars. One of
// PadX and PadY is always zero.
func Fit(srcW, srcH, dstW, dstH int) Layout {
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return Layout{}
	}

	var w, h int
	if int64(srcW)*int64(dstH) >= int64(srcH)*int64(dstW) {
		w = dstW
		h = roundDiv(int64(srcH)*int64(dstW), int64(srcW))
	} else {
		h = dstH
		w = roundDiv(int64(srcW)*int64(dstH), int64(srcH))
	}
	w = min(max(w, 1), dstW)
	h = min(max(h, 1), dstH)

	return Layout{Width: w, Height: h, PadX: dstW - w, PadY: dstH - h}
}

func roundDiv(num, den int64) int {
	return int((num + den/2) / den)
}
