package scene

import (
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// GradientStop is one color of a vertical gradient; Offset 0 is the top.
type GradientStop struct {
	Offset float64
	Color  colorful.Color
}

// Gradient is the sky behind everything else. A fresh value is built on each
// mode switch, so renderers can compare pointers to detect a change.
type Gradient struct {
	Stops []GradientStop
}

func newGradient(stops ...GradientStop) *Gradient {
	s := append([]GradientStop(nil), stops...)
	sort.SliceStable(s, func(i, j int) bool { return s[i].Offset < s[j].Offset })
	return &Gradient{Stops: s}
}

// At returns the color at t in [0,1], top to bottom.
func (g *Gradient) At(t float64) colorful.Color {
	if len(g.Stops) == 0 {
		return colorful.Color{}
	}
	if t <= g.Stops[0].Offset {
		return g.Stops[0].Color
	}
	for i := 1; i < len(g.Stops); i++ {
		a, b := g.Stops[i-1], g.Stops[i]
		if t <= b.Offset {
			span := b.Offset - a.Offset
			if span <= 0 {
				return b.Color
			}
			return a.Color.BlendRgb(b.Color, (t-a.Offset)/span)
		}
	}
	return g.Stops[len(g.Stops)-1].Color
}

// Pixels rasterizes the gradient into a 1 x height RGBA column, top row first.
func (g *Gradient) Pixels(height int) []uint8 {
	if height < 2 {
		height = 2
	}
	out := make([]uint8, 0, height*4)
	for y := 0; y < height; y++ {
		c := g.At(float64(y) / float64(height-1)).Clamped()
		r, gg, b := c.RGB255()
		out = append(out, r, gg, b, 255)
	}
	return out
}

func landscapeBackground() *Gradient {
	return newGradient(
		GradientStop{0, hex("#0a0a2a")},
		GradientStop{0.3, hex("#2a0a3a")},
		GradientStop{0.6, hex("#aa4466")},
		GradientStop{1, hex("#ffaa33")},
	)
}

func calmBackground() *Gradient {
	return newGradient(
		GradientStop{0, hex("#050714")},
		GradientStop{0.4, hex("#0f173b")},
		GradientStop{0.7, hex("#242b58")},
		GradientStop{1, hex("#664455")},
	)
}

// Fog is exponential-squared fog.
type Fog struct {
	Color   colorful.Color
	Density float64
}

func modeFog(m Mode) Fog {
	if m == ModeAlternate {
		return Fog{Color: hex("#0b1026"), Density: 0.015}
	}
	return Fog{Color: hex("#1a0b2e"), Density: 0.02}
}
