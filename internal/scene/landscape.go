package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	gridSpacing   = 1.5
	gridBaseY     = -2.0
	gridDepthBias = 5.0
	gridCellWidth = 0.8
	mountainCount = 3
)

// landscape is the primary mode: a pulsing cell field in front of layered
// mountains and a setting sun.
type landscape struct {
	grid      *InstancedMesh
	countX    int
	countZ    int
	mountains []*Mesh
	sun       *Mesh
	neon      *PointLight
}

func (l *landscape) build(g *Group, countX, countZ int) {
	l.countX, l.countZ = countX, countZ

	l.sun = newMesh("sun", CircleGeometry(4, 64), basicMaterial(hex("#ffaa00")))
	l.sun.Position = mgl32.Vec3{0, 3, -20}
	glow := newMesh("sun-glow", CircleGeometry(6, 64), &Material{
		Color:       hex("#ff5500"),
		Opacity:     0.3,
		Transparent: true,
		Fog:         true,
	})
	glow.Position = mgl32.Vec3{0, 0, -0.1}
	l.sun.Children = append(l.sun.Children, glow)
	g.Meshes = append(g.Meshes, l.sun)

	for j := 0; j < mountainCount; j++ {
		m := newMesh("mountain", mountainGeometry(j), litMaterial(hsl(0.7, 0.4, 0.05+float64(j)*0.1)))
		m.Position = mgl32.Vec3{0, float32(-5 + j*2), float32(-30 - j*20)}
		l.mountains = append(l.mountains, m)
		g.Meshes = append(g.Meshes, m)
	}

	box := BoxGeometry(1, 1, 1).Translate(0, 0.5, 0)
	mat := litMaterial(hex("#110022"))
	mat.Emissive = hex("#aa2266")
	mat.EmissiveIntensity = 0.5
	l.grid = &InstancedMesh{
		Mesh:     *newMesh("grid", box, mat),
		Matrices: make([]mgl32.Mat4, countX*countZ),
	}
	l.grid.Position = mgl32.Vec3{0, 0, gridDepthBias}
	offsetX := float64(countX) * gridSpacing / 2
	for z := 0; z < countZ; z++ {
		for x := 0; x < countX; x++ {
			l.grid.Matrices[z*countX+x] = mgl32.Translate3D(
				float32(float64(x)*gridSpacing-offsetX), gridBaseY, float32(-float64(z)*gridSpacing))
		}
	}
	g.Instanced = append(g.Instanced, l.grid)

	l.neon = &PointLight{
		Color:     hex("#ff0088"),
		Intensity: 1,
		Distance:  50,
		Position:  mgl32.Vec3{0, 10, -10},
	}
	g.Lights = append(g.Lights, l.neon)
}

// mountainGeometry raises the upper rows of a wide plane into a ridge line.
// Farther layers are wider, taller and smoother.
func mountainGeometry(layer int) *Geometry {
	j := float64(layer)
	g := PlaneGeometry(400+j*100, 40+j*20, 256, 4)
	freq := 0.2 - j*0.05
	amp := 8 - j*2
	for i := 0; i < g.VertexCount(); i++ {
		y := float64(g.Positions[i*3+1])
		if y <= -5 {
			continue
		}
		x := float64(g.Positions[i*3])
		noise := math.Sin(x*freq)*amp +
			math.Sin(x*freq*2.5)*(amp/2) +
			math.Sin(x*freq*5.1+j)*(amp/4)
		g.Positions[i*3+1] = float32(y + math.Max(0, noise))
	}
	return g
}

// gridCellScale is the vertical scale of the cell at lattice (x, z): a ring
// wave spreading from the front center plus a bass-driven ripple.
func gridCellScale(x, z, countX int, t float64, e Energy) float64 {
	dx := float64(x) - float64(countX)/2
	dz := float64(z)
	dist := math.Sqrt(dx*dx + dz*dz)
	wave := math.Sin(dist*0.2-t*2)*0.5 + 0.5
	scaleY := 0.2 + wave*(0.5+e.Mid*2)
	noise := math.Sin(float64(x)*0.5+t) * math.Cos(float64(z)*0.5+t)
	return scaleY + math.Abs(noise)*e.Bass*3
}

func (l *landscape) update(t float64, e Energy) {
	offsetX := float64(l.countX) * gridSpacing / 2
	for z := 0; z < l.countZ; z++ {
		for x := 0; x < l.countX; x++ {
			sy := gridCellScale(x, z, l.countX, t, e)
			l.grid.Matrices[z*l.countX+x] = mgl32.Translate3D(
				float32(float64(x)*gridSpacing-offsetX),
				gridBaseY,
				float32(-float64(z)*gridSpacing+gridDepthBias),
			).Mul4(mgl32.Scale3D(gridCellWidth, float32(sy), gridCellWidth))
		}
	}
	l.grid.Material.Color = hsl(0.85+e.Bass*0.1, 0.6, 0.3+e.Mid*0.4)

	for i, m := range l.mountains {
		m.Scale = mgl32.Vec3{1, float32(1 + e.Bass*(0.1/float64(i+1))), 1}
	}

	l.sun.Position[1] = float32(3 + math.Sin(t)*0.2 + e.High)
	s := float32(1 + e.High*0.5)
	l.sun.Scale = mgl32.Vec3{s, s, 1}
	l.sun.Material.Color = hsl(0.08+e.High*0.05, 1, 0.5+e.High*0.5)
}
