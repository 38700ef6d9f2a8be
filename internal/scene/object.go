package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// Material describes how a mesh is shaded. Unlit materials ignore lights.
type Material struct {
	Color             colorful.Color
	Emissive          colorful.Color
	EmissiveIntensity float64
	Opacity           float64
	Transparent       bool
	Lit               bool
	Fog               bool
}

func basicMaterial(c colorful.Color) *Material {
	return &Material{Color: c, Opacity: 1, Fog: true}
}

func litMaterial(c colorful.Color) *Material {
	return &Material{Color: c, Opacity: 1, Lit: true, Fog: true}
}

// Mesh is a drawable node. Children inherit the parent's transform.
type Mesh struct {
	Name     string
	Geometry *Geometry
	Material *Material
	Position mgl32.Vec3
	Scale    mgl32.Vec3
	Visible  bool
	Children []*Mesh
}

func newMesh(name string, g *Geometry, m *Material) *Mesh {
	return &Mesh{
		Name:     name,
		Geometry: g,
		Material: m,
		Scale:    mgl32.Vec3{1, 1, 1},
		Visible:  true,
	}
}

// Matrix is the local transform: translate then scale.
func (m *Mesh) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(m.Position[0], m.Position[1], m.Position[2]).
		Mul4(mgl32.Scale3D(m.Scale[0], m.Scale[1], m.Scale[2]))
}

// InstancedMesh draws one geometry many times in a single call, each copy
// with its own matrix applied before the mesh transform.
type InstancedMesh struct {
	Mesh
	Matrices []mgl32.Mat4
}

func (im *InstancedMesh) Count() int { return len(im.Matrices) }

// Points is a cloud of round sprites sized in world units.
type Points struct {
	Name      string
	Positions []float32
	Color     colorful.Color
	Size      float32
	Opacity   float64
	Visible   bool
}

func (p *Points) Count() int { return len(p.Positions) / 3 }

type AmbientLight struct {
	Color     colorful.Color
	Intensity float64
}

// PointLight fades to zero at Distance.
type PointLight struct {
	Color     colorful.Color
	Intensity float64
	Distance  float64
	Position  mgl32.Vec3
}

// Group holds one mode's objects. Visibility is toggled on mode switches;
// the objects themselves live for the whole scene.
type Group struct {
	Name      string
	Visible   bool
	Meshes    []*Mesh
	Instanced []*InstancedMesh
	Points    []*Points
	Lights    []*PointLight
}
