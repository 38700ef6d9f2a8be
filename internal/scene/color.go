package scene

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// hex parses a compile-time palette entry.
func hex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// hsl builds a color from hue, saturation and lightness all in [0,1].
// Hue wraps around like a color wheel.
func hsl(h, s, l float64) colorful.Color {
	h = math.Mod(h, 1)
	if h < 0 {
		h++
	}
	return colorful.Hsl(h*360, s, l).Clamped()
}

// RGB32 returns c as float32 components for GPU upload.
func RGB32(c colorful.Color) [3]float32 {
	return [3]float32{float32(c.R), float32(c.G), float32(c.B)}
}
