package colour

import (
	"fmt"
	"strings"
)

// ANSI escape codes for terminal colours.
const (
	ansiReset    = "\033[0m"
	ansiFgPrefix = "\033[38;2;"
	ansiBgPrefix = "\033[48;2;"
	ansiSuffix   = "m"
	defaultWidth = 8
	swatchGlyph  = "●"
)

// Swatch returns one dot per normal terminal colour (30-37) followed by the
// bright black dot (90). It uses the terminal's own palette, so it reflects
// whatever scheme was last broadcast.
func Swatch() string {
	var b strings.Builder
	for _, code := range []int{30, 31, 32, 33, 34, 35, 36, 37, 90} {
		fmt.Fprintf(&b, "\033[0;%dm%s%s ", code, swatchGlyph, ansiReset)
	}
	return strings.TrimRight(b.String(), " ")
}

// ColourPreview returns an ANSI-coloured preview string for a colour.
// Width specifies how many characters wide the colour block should be.
func ColourPreview(c RGB, width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	bgColour := fmt.Sprintf("%s%d;%d;%d%s", ansiBgPrefix, c.R, c.G, c.B, ansiSuffix)
	return bgColour + strings.Repeat(" ", width) + ansiReset
}

// ColourPreviewWithText returns a colour preview with text overlay.
// The text colour is black or white, whichever contrasts more.
func ColourPreviewWithText(c RGB, text string, width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	fg := RGB{R: 255, G: 255, B: 255}
	if ContrastRatio(c, RGB{}) > ContrastRatio(c, fg) {
		fg = RGB{}
	}

	bgColour := fmt.Sprintf("%s%d;%d;%d%s", ansiBgPrefix, c.R, c.G, c.B, ansiSuffix)
	fgColour := fmt.Sprintf("%s%d;%d;%d%s", ansiFgPrefix, fg.R, fg.G, fg.B, ansiSuffix)

	// Pad or truncate text to fit width.
	displayText := text
	if len(text) > width {
		displayText = text[:width]
	} else if len(text) < width {
		padding := (width - len(text)) / 2
		displayText = strings.Repeat(" ", padding) + text + strings.Repeat(" ", width-len(text)-padding)
	}

	return bgColour + fgColour + displayText + ansiReset
}

// FormatColourWithLabel formats a colour with a label and preview.
func FormatColourWithLabel(rgb RGB, label string, width int) string {
	preview := ColourPreview(rgb, width)
	return fmt.Sprintf("%s  %-12s %s", preview, label, rgb.Hex())
}

// PreviewPalette renders every slot of the palette on its own line.
func PreviewPalette(p Palette) string {
	var b strings.Builder
	for i, c := range p.Colours {
		b.WriteString(FormatColourWithLabel(c, fmt.Sprintf("color%d", i), defaultWidth))
		b.WriteByte('\n')
	}
	return b.String()
}
