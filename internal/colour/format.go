package colour

import (
	"fmt"
	"math"
)

// ColorFormat represents different colour string formats used by templates.
type ColorFormat int

const (
	FormatHex      ColorFormat = iota // #rrggbb
	FormatStrip                       // rrggbb
	FormatRGB                         // r,g,b
	FormatRGBA                        // r,g,b,a
	FormatXRGBA                       // rr/gg/bb/aa
	FormatHexAlpha                    // #rrggbbaa
	FormatAlphaDec                    // a/255 as 0.00-1.00
)

// FormatSuffix pairs a template token suffix with its format.
type FormatSuffix struct {
	Suffix string
	Format ColorFormat
}

// FormatSuffixes returns the accepted template suffixes, longest match first
// so ".alpha_dec" wins over ".alpha". The empty suffix maps to FormatHex.
func FormatSuffixes() []FormatSuffix {
	return []FormatSuffix{
		{".alpha_dec", FormatAlphaDec},
		{".strip", FormatStrip},
		{".xrgba", FormatXRGBA},
		{".rgba", FormatRGBA},
		{".alpha", FormatHexAlpha},
		{".rgb", FormatRGB},
		{"", FormatHex},
	}
}

// Format returns the colour in the given format with alpha a.
func (rgb RGB) Format(format ColorFormat, a uint8) string {
	switch format {
	case FormatStrip:
		return fmt.Sprintf("%02x%02x%02x", rgb.R, rgb.G, rgb.B)
	case FormatRGB:
		return fmt.Sprintf("%d,%d,%d", rgb.R, rgb.G, rgb.B)
	case FormatRGBA:
		return fmt.Sprintf("%d,%d,%d,%d", rgb.R, rgb.G, rgb.B, a)
	case FormatXRGBA:
		return fmt.Sprintf("%02x/%02x/%02x/%02x", rgb.R, rgb.G, rgb.B, a)
	case FormatHexAlpha:
		return fmt.Sprintf("#%02x%02x%02x%02x", rgb.R, rgb.G, rgb.B, a)
	case FormatAlphaDec:
		return fmt.Sprintf("%.2f", float64(a)/255.0)
	default:
		return rgb.Hex()
	}
}

// AlphaPercent converts a 0-255 alpha to a rounded 0-100 percentage.
func AlphaPercent(a uint8) int {
	return int(math.Round(float64(a) * 100 / 255))
}
