package colour

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/jmylchreest/walrus/internal/image"
)

// histogramBits is the number of bits kept per channel for bucketing.
const histogramBits = 5

// PaletteExtractStrategy implements a weighted histogram quantizer: sampled
// pixels are bucketed by their top bits per channel and the most populated
// buckets win.
type PaletteExtractStrategy struct {
	quality int
	bits    uint
}

// NewPaletteExtractStrategy creates a new PaletteExtractStrategy.
func NewPaletteExtractStrategy() *PaletteExtractStrategy {
	return &PaletteExtractStrategy{quality: sampleQuality, bits: histogramBits}
}

type bucket struct {
	key     uint32
	count   int
	r, g, b int
}

// mean returns the rounded mean colour of the bucket.
func (b bucket) mean() RGB {
	n := float64(b.count)
	return RGB{
		R: uint8(math.Round(float64(b.r) / n)),
		G: uint8(math.Round(float64(b.g) / n)),
		B: uint8(math.Round(float64(b.b) / n)),
	}
}

// Extract returns the mean colours of the count most populated buckets.
// Equal populations are ordered by bucket key.
func (p *PaletteExtractStrategy) Extract(buf *image.PixelBuffer, count int) ([]RGB, error) {
	if buf == nil {
		return nil, fmt.Errorf("%w: pixel buffer cannot be nil", ErrQuantization)
	}
	if count < 1 {
		return nil, fmt.Errorf("%w: colour count must be at least 1, got %d", ErrQuantization, count)
	}

	pixels := sampleOpaque(buf, p.quality)
	if len(pixels) == 0 {
		return nil, fmt.Errorf("%w: no opaque pixels found in image", ErrQuantization)
	}

	shift := 8 - p.bits
	histogram := make(map[uint32]*bucket)
	for _, px := range pixels {
		key := uint32(px.R>>shift)<<(2*p.bits) | uint32(px.G>>shift)<<p.bits | uint32(px.B>>shift)
		b, ok := histogram[key]
		if !ok {
			b = &bucket{key: key}
			histogram[key] = b
		}
		b.count++
		b.r += int(px.R)
		b.g += int(px.G)
		b.b += int(px.B)
	}

	buckets := make([]bucket, 0, len(histogram))
	for _, b := range histogram {
		buckets = append(buckets, *b)
	}
	slices.SortFunc(buckets, func(a, b bucket) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return cmp.Compare(a.key, b.key)
	})

	n := min(count, len(buckets))
	result := make([]RGB, n)
	for i := 0; i < n; i++ {
		result[i] = buckets[i].mean()
	}
	return result, nil
}
