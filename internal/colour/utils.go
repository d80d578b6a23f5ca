// Package colour provides utility functions for color manipulation and analysis.
package colour

import (
	"math"
	"slices"

	"github.com/jmylchreest/walrus/internal/security"
)

// Adjust applies the brightness and saturation transform to a colour.
// Each channel is moved away from (or towards) the channel average by
// saturation percent, then shifted by brightness, clamped to [0, 255] and
// truncated.
func Adjust(c RGB, brightness, saturation int) RGB {
	// The average is an integer division, promoted to float afterwards.
	avg := float64((int(c.R) + int(c.G) + int(c.B)) / 3)
	factor := float64(saturation) / 100.0
	shift := float64(brightness)

	channel := func(v uint8) uint8 {
		f := (float64(v)-avg)*factor + avg + shift
		return uint8(math.Max(0, math.Min(255, f)))
	}

	return RGB{R: channel(c.R), G: channel(c.G), B: channel(c.B)}
}

// ToGray converts a colour to gray using 0.3/0.59/0.11 weights, rounds, then
// adds v with saturation at 255.
func ToGray(c RGB, v uint8) RGB {
	g := math.Round(0.3*float64(c.R) + 0.59*float64(c.G) + 0.11*float64(c.B))
	gray := security.SafeUint8(int(g) + int(v))
	return RGB{R: gray, G: gray, B: gray}
}

// Luma returns the perceived brightness of a colour with Rec. 601 weights.
func Luma(c RGB) float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

// SortByLuma sorts colours in place by ascending luma. Equal luma keeps
// the input order.
func SortByLuma(colours []RGB) {
	slices.SortStableFunc(colours, func(a, b RGB) int {
		la, lb := Luma(a), Luma(b)
		switch {
		case la < lb:
			return -1
		case la > lb:
			return 1
		default:
			return 0
		}
	})
}

// Luminance calculates the relative luminance of a colour according to WCAG 2.0.
// Returns a value between 0 (darkest) and 1 (lightest).
// https://www.w3.org/TR/WCAG20/#relativeluminancedef.
func Luminance(c RGB) float64 {
	rf := gammaCorrect(float64(c.R) / 255.0)
	rg := gammaCorrect(float64(c.G) / 255.0)
	rb := gammaCorrect(float64(c.B) / 255.0)
	return 0.2126*rf + 0.7152*rg + 0.0722*rb
}

// gammaCorrect applies gamma correction to a colour component.
func gammaCorrect(v float64) float64 {
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// ContrastRatio calculates the contrast ratio between two colours according to WCAG 2.0.
// Returns a value between 1 and 21, where 21 is maximum contrast (black vs white).
func ContrastRatio(c1, c2 RGB) float64 {
	l1 := Luminance(c1)
	l2 := Luminance(c2)

	// Ensure l1 is the lighter colour.
	if l1 < l2 {
		l1, l2 = l2, l1
	}

	return (l1 + 0.05) / (l2 + 0.05)
}
