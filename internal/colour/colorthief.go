package colour

import (
	"fmt"
	stdimage "image"
	"image/color"

	"github.com/ericpauley/go-quantize/quantize"

	"github.com/jmylchreest/walrus/internal/image"
)

const (
	// sampleQuality keeps every Nth pixel in the histogram backends.
	sampleQuality = 5
	// minOpacity is the alpha below which a pixel is ignored.
	minOpacity = 125
	// whiteThreshold marks pixels with every channel above it as near-white.
	whiteThreshold = 250
)

// ColorThiefStrategy implements modified median cut quantization.
type ColorThiefStrategy struct {
	quality int
}

// NewColorThiefStrategy creates a new ColorThiefStrategy.
func NewColorThiefStrategy() *ColorThiefStrategy {
	return &ColorThiefStrategy{quality: sampleQuality}
}

// Extract runs median cut over a sampled copy of buf.
func (c *ColorThiefStrategy) Extract(buf *image.PixelBuffer, count int) ([]RGB, error) {
	if buf == nil {
		return nil, fmt.Errorf("%w: pixel buffer cannot be nil", ErrQuantization)
	}
	if count < 1 {
		return nil, fmt.Errorf("%w: colour count must be at least 1, got %d", ErrQuantization, count)
	}

	pixels := sampleOpaque(buf, c.quality)
	if len(pixels) == 0 {
		return nil, fmt.Errorf("%w: no opaque pixels found in image", ErrQuantization)
	}

	// Pack the sample into a single row so the quantizer sees only it.
	sample := stdimage.NewNRGBA(stdimage.Rect(0, 0, len(pixels), 1))
	for i, p := range pixels {
		sample.SetNRGBA(i, 0, p.Color())
	}

	q := quantize.MedianCutQuantizer{AddTransparent: false}
	palette := q.Quantize(make(color.Palette, 0, count), sample)
	if len(palette) == 0 {
		return nil, fmt.Errorf("%w: median cut produced no colours", ErrQuantization)
	}

	result := make([]RGB, len(palette))
	for i, p := range palette {
		result[i] = ToRGB(p)
	}
	return result, nil
}

// sampleOpaque returns every quality-th pixel with alpha of at least
// minOpacity. Near-white pixels are dropped unless that leaves nothing.
func sampleOpaque(buf *image.PixelBuffer, quality int) []RGB {
	if quality < 1 {
		quality = 1
	}

	var all, filtered []RGB
	for i := 0; i < buf.Len(); i += quality {
		off := i * 4
		if buf.Pix[off+3] < minOpacity {
			continue
		}
		p := RGB{R: buf.Pix[off], G: buf.Pix[off+1], B: buf.Pix[off+2]}
		all = append(all, p)
		if !isNearWhite(p) {
			filtered = append(filtered, p)
		}
	}

	if len(filtered) == 0 {
		return all
	}
	return filtered
}

func isNearWhite(c RGB) bool {
	return c.R > whiteThreshold && c.G > whiteThreshold && c.B > whiteThreshold
}
