package scene

import "math"

// Geometry is an indexed triangle mesh. Positions holds x,y,z triples.
// Version increases whenever positions are rewritten in place so renderers
// know to re-upload.
type Geometry struct {
	Positions []float32
	Indices   []uint32
	Dynamic   bool
	Version   uint64
}

func (g *Geometry) VertexCount() int { return len(g.Positions) / 3 }

// Touch marks the positions as changed.
func (g *Geometry) Touch() { g.Version++ }

// PlaneGeometry builds a width x height plane in the XY plane, centered on
// the origin, with vertices ordered row by row from the top edge down.
func PlaneGeometry(width, height float64, segW, segH int) *Geometry {
	if segW < 1 {
		segW = 1
	}
	if segH < 1 {
		segH = 1
	}
	cols := segW + 1
	rows := segH + 1
	sw := width / float64(segW)
	sh := height / float64(segH)

	g := &Geometry{
		Positions: make([]float32, 0, cols*rows*3),
		Indices:   make([]uint32, 0, segW*segH*6),
	}
	for iy := 0; iy < rows; iy++ {
		y := float64(iy)*sh - height/2
		for ix := 0; ix < cols; ix++ {
			x := float64(ix)*sw - width/2
			g.Positions = append(g.Positions, float32(x), float32(-y), 0)
		}
	}
	for iy := 0; iy < segH; iy++ {
		for ix := 0; ix < segW; ix++ {
			a := uint32(ix + cols*iy)
			b := uint32(ix + cols*(iy+1))
			c := uint32(ix + 1 + cols*(iy+1))
			d := uint32(ix + 1 + cols*iy)
			g.Indices = append(g.Indices, a, b, d, b, c, d)
		}
	}
	return g
}

// CircleGeometry builds a filled disc in the XY plane as a triangle fan.
func CircleGeometry(radius float64, segments int) *Geometry {
	if segments < 3 {
		segments = 3
	}
	g := &Geometry{
		Positions: make([]float32, 0, (segments+2)*3),
		Indices:   make([]uint32, 0, segments*3),
	}
	g.Positions = append(g.Positions, 0, 0, 0)
	for s := 0; s <= segments; s++ {
		a := float64(s) / float64(segments) * 2 * math.Pi
		g.Positions = append(g.Positions, float32(radius*math.Cos(a)), float32(radius*math.Sin(a)), 0)
	}
	for i := 1; i <= segments; i++ {
		g.Indices = append(g.Indices, uint32(i), uint32(i+1), 0)
	}
	return g
}

// BoxGeometry builds an axis-aligned box centered on the origin.
func BoxGeometry(w, h, d float64) *Geometry {
	x, y, z := float32(w/2), float32(h/2), float32(d/2)
	return &Geometry{
		Positions: []float32{
			-x, -y, z, x, -y, z, x, y, z, -x, y, z, // front
			-x, -y, -z, x, -y, -z, x, y, -z, -x, y, -z, // back
		},
		Indices: []uint32{
			0, 1, 2, 0, 2, 3, // +z
			5, 4, 7, 5, 7, 6, // -z
			4, 0, 3, 4, 3, 7, // -x
			1, 5, 6, 1, 6, 2, // +x
			3, 2, 6, 3, 6, 7, // +y
			4, 5, 1, 4, 1, 0, // -y
		},
	}
}

// Translate moves every vertex.
func (g *Geometry) Translate(dx, dy, dz float32) *Geometry {
	for i := 0; i+2 < len(g.Positions); i += 3 {
		g.Positions[i] += dx
		g.Positions[i+1] += dy
		g.Positions[i+2] += dz
	}
	return g
}

// RotateX rotates every vertex about the X axis by angle radians.
func (g *Geometry) RotateX(angle float64) *Geometry {
	c := float32(math.Cos(angle))
	s := float32(math.Sin(angle))
	for i := 0; i+2 < len(g.Positions); i += 3 {
		y := g.Positions[i+1]
		z := g.Positions[i+2]
		g.Positions[i+1] = y*c - z*s
		g.Positions[i+2] = y*s + z*c
	}
	return g
}
