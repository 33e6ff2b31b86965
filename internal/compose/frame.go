package compose

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"strings"

	// Registered decoders for frame validation.
	_ "image/gif"
	_ "image/jpeg"

	_ "github.com/chai2010/webp"
)

// Frame is one still image of the showreel, in presentation order.
type Frame struct {
	// ID identifies the frame in logs. It is not required to be unique.
	ID string
	// Data is the encoded image (PNG, JPEG, GIF or WebP).
	Data []byte
	// Duration is the caller's preferred display time in seconds. It is
	// advisory; every frame is shown for the same computed duration.
	Duration float64
	// Caption is display-only metadata.
	Caption string
}

// DecodeImagePayload turns a data URI ("data:image/png;base64,...") or a bare
// base64 string into raw bytes.
func DecodeImagePayload(payload string) ([]byte, error) {
	s := strings.TrimSpace(payload)
	if strings.HasPrefix(s, "data:") {
		meta, body, ok := strings.Cut(s, ",")
		if !ok {
			return nil, fmt.Errorf("%w: malformed data URI", ErrInvalidFrameData)
		}
		if !strings.HasSuffix(meta, ";base64") {
			return nil, fmt.Errorf("%w: data URI is not base64 encoded", ErrInvalidFrameData)
		}
		s = body
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		// Some clients strip the padding.
		if raw, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "=")); rawErr == nil {
			return raw, nil
		}
		return nil, fmt.Errorf("%w: decode base64: %w", ErrInvalidFrameData, err)
	}
	return data, nil
}

// frameInfo is what validation learned about a frame.
type frameInfo struct {
	config image.Config
	format string
}

// probeFrame fully decodes data, so truncated or corrupt pixel data is
// rejected here rather than by the engine, and returns its header.
func probeFrame(data []byte) (image.Config, string, error) {
	if len(data) == 0 {
		return image.Config{}, "", fmt.Errorf("%w: empty image", ErrInvalidFrameData)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return image.Config{}, "", fmt.Errorf("%w: %w", ErrInvalidFrameData, err)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return image.Config{}, "", fmt.Errorf("%w: zero-sized image", ErrInvalidFrameData)
	}
	return image.Config{ColorModel: img.ColorModel(), Width: b.Dx(), Height: b.Dy()}, format, nil
}

// pngFrame returns data as PNG. Frames are staged under .png names and the
// engine picks its decoder from the extension, so other formats are
// re-encoded.
func pngFrame(data []byte, format string) ([]byte, error) {
	if format == "png" {
		return data, nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFrameData, err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("re-encode %s frame as png: %w", format, err)
	}
	return buf.Bytes(), nil
}
