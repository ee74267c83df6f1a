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
)

// SwatchGlyph is the character drawn in front of each colour.
const SwatchGlyph = "■"

// ColourPreview returns an ANSI-coloured preview string for a colour.
// Width specifies how many characters wide the colour block should be.
func ColourPreview(c RGB, width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	bgColour := fmt.Sprintf("%s%d;%d;%d%s", ansiBgPrefix, c.R, c.G, c.B, ansiSuffix)
	return bgColour + strings.Repeat(" ", width) + ansiReset
}

// ColourString wraps text in a truecolour foreground escape.
func ColourString(rgb RGB, text string) string {
	fgColour := fmt.Sprintf("%s%d;%d;%d%s", ansiFgPrefix, rgb.R, rgb.G, rgb.B, ansiSuffix)
	return fgColour + text + ansiReset
}

// Swatch renders a swatch line for a colour, e.g. "■ #C83232".
// When colourise is false the glyph is left uncoloured.
func Swatch(rgb RGB, colourise bool) string {
	glyph := SwatchGlyph
	if colourise {
		glyph = ColourString(rgb, glyph)
	}
	return glyph + " " + rgb.Hex()
}
