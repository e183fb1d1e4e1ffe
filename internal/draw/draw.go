// Package draw renders the play area into a terminal using half-block
// characters, two vertical sub-pixels per cell.
package draw

// Point is a position in canvas logical space: origin top-left, y down.
type Point struct {
	X, Y float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Color is a pixel color. The zero value is an unset pixel.
type Color uint8

const (
	ColorNone Color = iota
	ColorWhite
	ColorCyan
	ColorRed
	ColorYellow
	ColorGreen
	ColorMagenta
)

// ANSI escape codes for colors.
const (
	ColorReset       = "\033[0m"
	ColorBrightCyan  = "\033[96m"
	ColorBrightRed   = "\033[91m"
	ColorBrightYel   = "\033[93m"
	ColorBrightGreen = "\033[92m"
	ColorBrightMag   = "\033[95m"
	ColorBrightWhite = "\033[97m"
)

// ansi returns the escape sequence that selects c.
func (c Color) ansi() string {
	switch c {
	case ColorCyan:
		return ColorBrightCyan
	case ColorRed:
		return ColorBrightRed
	case ColorYellow:
		return ColorBrightYel
	case ColorGreen:
		return ColorBrightGreen
	case ColorMagenta:
		return ColorBrightMag
	case ColorWhite:
		return ColorBrightWhite
	}
	return ColorReset
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
