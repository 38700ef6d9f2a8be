package scene

import (
	"math"
	"testing"
)

func TestPlaneGeometry(t *testing.T) {
	g := PlaneGeometry(2, 4, 2, 1)
	if g.VertexCount() != 6 {
		t.Fatalf("vertices = %d", g.VertexCount())
	}
	if len(g.Indices) != 12 {
		t.Fatalf("indices = %d", len(g.Indices))
	}
	// top-left first
	if g.Positions[0] != -1 || g.Positions[1] != 2 {
		t.Fatalf("first vertex (%v, %v)", g.Positions[0], g.Positions[1])
	}
}

func TestCircleGeometry(t *testing.T) {
	g := CircleGeometry(3, 8)
	if g.VertexCount() != 10 || len(g.Indices) != 24 {
		t.Fatalf("counts %d %d", g.VertexCount(), len(g.Indices))
	}
	for i := 1; i < g.VertexCount(); i++ {
		x, y := float64(g.Positions[i*3]), float64(g.Positions[i*3+1])
		if r := math.Hypot(x, y); math.Abs(r-3) > 1e-5 {
			t.Fatalf("rim vertex %d radius %v", i, r)
		}
	}
}

func TestRotateXLaysPlaneFlat(t *testing.T) {
	g := PlaneGeometry(10, 10, 1, 1).RotateX(-math.Pi / 2)
	for i := 0; i < g.VertexCount(); i++ {
		if y := g.Positions[i*3+1]; math.Abs(float64(y)) > 1e-5 {
			t.Fatalf("vertex %d y = %v", i, y)
		}
	}
	// top edge (+y) moves to -z
	if z := g.Positions[2]; math.Abs(float64(z)+5) > 1e-5 {
		t.Fatalf("top-left z = %v", z)
	}
}

func TestMountainsOnlyRaiseUpperRows(t *testing.T) {
	flat := PlaneGeometry(400, 40, 256, 4)
	m := mountainGeometry(0)
	for i := 0; i < m.VertexCount(); i++ {
		fy, my := flat.Positions[i*3+1], m.Positions[i*3+1]
		if fy <= -5 && my != fy {
			t.Fatalf("bottom vertex %d moved", i)
		}
		if my < fy {
			t.Fatalf("vertex %d lowered", i)
		}
	}
}

func TestGradientPixels(t *testing.T) {
	g := landscapeBackground()
	px := g.Pixels(BackgroundHeight)
	if len(px) != BackgroundHeight*4 {
		t.Fatalf("len = %d", len(px))
	}
	top := hexRGB("#0a0a2a")
	if px[0] != top[0] || px[1] != top[1] || px[2] != top[2] || px[3] != 255 {
		t.Fatalf("top row %v", px[:4])
	}
	bottom := hexRGB("#ffaa33")
	n := len(px) - 4
	if px[n] != bottom[0] || px[n+1] != bottom[1] || px[n+2] != bottom[2] {
		t.Fatalf("bottom row %v", px[n:])
	}
}

func hexRGB(s string) [3]uint8 {
	r, g, b := hex(s).RGB255()
	return [3]uint8{r, g, b}
}

func TestHSLWrapsHue(t *testing.T) {
	a := hsl(0.95, 0.6, 0.5)
	b := hsl(-0.05, 0.6, 0.5)
	if a.DistanceRgb(b) > 1e-9 {
		t.Fatalf("%v != %v", a.Hex(), b.Hex())
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"calm": ModeAlternate, "Landscape": ModePrimary, "2": ModeAlternate} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseMode("disco"); err == nil {
		t.Error("expected error for unknown mode")
	}
	if ModePrimary.Toggle() != ModeAlternate {
		t.Error("toggle")
	}
}
