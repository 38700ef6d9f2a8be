package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	fireflySpread  = 40.0
	fireflyCeiling = 10.0
	hillCount      = 3
)

var hillColors = [hillCount]string{"#0a0f24", "#111633", "#1a224a"}

// calm is the alternate mode: a night lake with drifting hills, fireflies
// and a moon.
type calm struct {
	water     *Mesh
	waterBase []float32
	hills     []*Mesh
	fireflies *Points
	moon      *Mesh
	rng       *Rand
}

func (c *calm) build(g *Group, fireflies int, rng *Rand) {
	c.rng = rng

	wg := PlaneGeometry(100, 100, 64, 64).RotateX(-math.Pi / 2)
	wg.Dynamic = true
	wm := litMaterial(hex("#1a2b4a"))
	wm.Transparent = true
	wm.Opacity = 0.8
	c.water = newMesh("water", wg, wm)
	c.water.Position = mgl32.Vec3{0, -2, -10}
	c.waterBase = append([]float32(nil), wg.Positions...)
	g.Meshes = append(g.Meshes, c.water)

	moonMat := basicMaterial(hex("#ffffcc"))
	moonMat.Fog = false
	c.moon = newMesh("moon", CircleGeometry(3, 32), moonMat)
	c.moon.Position = mgl32.Vec3{10, 8, -25}
	halo := newMesh("moon-glow", CircleGeometry(5, 32), &Material{
		Color:       hex("#ffffee"),
		Opacity:     0.1,
		Transparent: true,
	})
	halo.Position = mgl32.Vec3{0, 0, -0.1}
	c.moon.Children = append(c.moon.Children, halo)
	g.Meshes = append(g.Meshes, c.moon)

	for i := 0; i < hillCount; i++ {
		m := &Material{Color: hex(hillColors[i]), Opacity: 0.9, Transparent: true, Fog: true}
		h := newMesh("hill", hillGeometry(i), m)
		h.Position = mgl32.Vec3{0, 0, float32(-20 - i*10)}
		c.hills = append(c.hills, h)
		g.Meshes = append(g.Meshes, h)
	}

	c.fireflies = &Points{
		Name:      "fireflies",
		Positions: make([]float32, fireflies*3),
		Color:     hex("#ffffaa"),
		Size:      0.2,
		Opacity:   0.8,
		Visible:   true,
	}
	for i := 0; i < fireflies; i++ {
		c.fireflies.Positions[i*3] = float32(rng.RangeF(-fireflySpread/2, fireflySpread/2))
		c.fireflies.Positions[i*3+1] = float32(rng.Float64() * fireflyCeiling)
		c.fireflies.Positions[i*3+2] = float32(rng.RangeF(-fireflySpread/2, fireflySpread/2))
	}
	g.Points = append(g.Points, c.fireflies)
}

// hillGeometry turns the top edge of a strip into a rolling silhouette.
func hillGeometry(layer int) *Geometry {
	i := float64(layer)
	g := PlaneGeometry(100, 20, 128, 1)
	for k := 0; k < g.VertexCount(); k++ {
		if g.Positions[k*3+1] <= 0 {
			continue
		}
		x := float64(g.Positions[k*3])
		noise := math.Sin(x*(0.05+i*0.02)+i)*(3+i) + math.Sin(x*0.2)
		g.Positions[k*3+1] = float32(noise + i*2)
	}
	return g
}

// waterHeight is the surface displacement at plane coordinates (x, y).
func waterHeight(x, y, t, bass float64) float64 {
	wave1 := math.Sin(x*0.2+t) * 0.5
	wave2 := math.Cos(y*0.2+t*0.8) * 0.5
	swell := (math.Sin(x*0.5+t*2) + math.Cos(y*0.5+t*2)) * (bass * 2)
	return wave1 + wave2 + swell
}

func (c *calm) update(t float64, e Energy) {
	pos := c.water.Geometry.Positions
	for i := 0; i+2 < len(c.waterBase); i += 3 {
		x := float64(c.waterBase[i])
		// The plane was laid flat, so its pre-rotation y now runs along -z.
		y := -float64(c.waterBase[i+2])
		pos[i+1] = c.waterBase[i+1] + float32(waterHeight(x, y, t, e.Bass))
	}
	c.water.Geometry.Touch()

	for i, h := range c.hills {
		h.Position[0] = float32(math.Sin(t*0.1+float64(i)) * (0.5 + e.Mid))
	}

	rise := float32(0.02 + e.High*0.1)
	fp := c.fireflies.Positions
	for i := 0; i+2 < len(fp); i += 3 {
		fp[i+1] += rise
		if fp[i+1] > fireflyCeiling {
			fp[i] = float32(c.rng.RangeF(-fireflySpread/2, fireflySpread/2))
			fp[i+1] = 0
			fp[i+2] = float32(c.rng.RangeF(-fireflySpread/2, fireflySpread/2))
		}
	}
	c.fireflies.Opacity = 0.5 + e.High*0.5

	s := float32(1 + e.Bass*0.05)
	c.moon.Scale = mgl32.Vec3{s, s, 1}
}
