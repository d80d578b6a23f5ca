// Package colour provides colour extraction and palette generation functionality.
package colour

import (
	"encoding/json"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// PaletteSize is the number of slots in every generated palette.
const PaletteSize = 16

// RGB represents a colour as three 8-bit channels.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB colour as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB colour as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// Color converts the value to an opaque color.NRGBA.
func (rgb RGB) Color() color.NRGBA {
	return color.NRGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// ToRGB converts a color.Color to RGB, undoing alpha premultiplication.
func ToRGB(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{R: n.R, G: n.G, B: n.B}
}

// ParseHex parses "#rrggbb" or "rrggbb".
func ParseHex(s string) (RGB, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return RGB{}, fmt.Errorf("invalid hex colour %q: expected 6 hex digits", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex colour %q: %w", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Palette is the final 16-slot colour scheme plus the background alpha.
// It is a value type; copies never share state.
type Palette struct {
	Colours [PaletteSize]RGB
	Alpha   uint8
}

// NewPalette creates a palette from exactly PaletteSize colours.
func NewPalette(colours []RGB, alpha uint8) (Palette, error) {
	if len(colours) != PaletteSize {
		return Palette{}, fmt.Errorf("palette needs %d colours, got %d", PaletteSize, len(colours))
	}
	var p Palette
	copy(p.Colours[:], colours)
	p.Alpha = alpha
	return p, nil
}

// Len returns the number of colours in the palette.
func (p Palette) Len() int {
	return len(p.Colours)
}

// Background is slot 0.
func (p Palette) Background() RGB { return p.Colours[0] }

// Foreground is slot 7.
func (p Palette) Foreground() RGB { return p.Colours[7] }

// Cursor is slot 7, the same as the foreground.
func (p Palette) Cursor() RGB { return p.Colours[7] }

// ToHex converts the palette colours to hex strings.
func (p Palette) ToHex() []string {
	hexColours := make([]string, len(p.Colours))
	for i, c := range p.Colours {
		hexColours[i] = c.Hex()
	}
	return hexColours
}

// Checksum is the upper-case concatenation of every slot as RRGGBB.
func (p Palette) Checksum() string {
	var b strings.Builder
	for _, c := range p.Colours {
		fmt.Fprintf(&b, "%02X%02X%02X", c.R, c.G, c.B)
	}
	return b.String()
}

// ColourJSON represents a colour in JSON output format.
type ColourJSON struct {
	Hex string `json:"hex"`
	RGB RGB    `json:"rgb"`
}

// PaletteJSON represents the palette in JSON format.
type PaletteJSON struct {
	Alpha   uint8        `json:"alpha"`
	Colours []ColourJSON `json:"colours"`
}

// ToJSON converts the palette to JSON format.
func (p Palette) ToJSON() ([]byte, error) {
	colours := make([]ColourJSON, len(p.Colours))
	for i, c := range p.Colours {
		colours[i] = ColourJSON{Hex: c.Hex(), RGB: c}
	}
	return json.MarshalIndent(PaletteJSON{Alpha: p.Alpha, Colours: colours}, "", "  ")
}

// String returns a human-readable string representation of the palette.
func (p Palette) String() string {
	result := fmt.Sprintf("Palette (alpha %d):\n", p.Alpha)
	for i, c := range p.Colours {
		result += fmt.Sprintf("  %2d: %s (%s)\n", i, c.Hex(), c.String())
	}
	return result
}
