package types

import "fmt"

type Color uint8

const (
	ColorOff Color = iota
	ColorRed
	ColorGreen
	ColorBlue
	ColorYellow
	ColorPurple
	ColorCyan
	ColorWhite
	colorCount
)

var colorNames = [...]string{
	ColorOff:    "off",
	ColorRed:    "red",
	ColorGreen:  "green",
	ColorBlue:   "blue",
	ColorYellow: "yellow",
	ColorPurple: "purple",
	ColorCyan:   "cyan",
	ColorWhite:  "white",
}

// rgb bits per palette entry: red=4, green=2, blue=1
var colorChannels = [...]uint8{
	ColorOff:    0b000,
	ColorRed:    0b100,
	ColorGreen:  0b010,
	ColorBlue:   0b001,
	ColorYellow: 0b110,
	ColorPurple: 0b101,
	ColorCyan:   0b011,
	ColorWhite:  0b111,
}

func (c Color) Valid() bool {
	return c < colorCount
}

func (c Color) String() string {
	if !c.Valid() {
		return fmt.Sprintf("color(%d)", uint8(c))
	}
	return colorNames[c]
}

// Lit reports whether any channel of the color is on.
func (c Color) Lit() bool {
	return c.Valid() && c != ColorOff
}

// Channels returns the red, green and blue channel levels.
func (c Color) Channels() (r, g, b bool) {
	if !c.Valid() {
		return false, false, false
	}
	bits := colorChannels[c]
	return bits&0b100 != 0, bits&0b010 != 0, bits&0b001 != 0
}
