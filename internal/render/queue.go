package render

import (
	"sort"

	"github.com/go-gl/mathgl/mgl32"

	"duskwave/internal/scene"
)

// drawItem is one mesh with its resolved world transform.
type drawItem struct {
	mesh  *scene.Mesh
	model mgl32.Mat4
	depth float32 // view-space distance, larger is farther
}

// frame is the per-frame draw list built from the visible groups.
type frame struct {
	opaque      []drawItem
	transparent []drawItem
	instanced   []*scene.InstancedMesh
	points      []*scene.Points
	light       *scene.PointLight
}

func (f *frame) reset() {
	f.opaque = f.opaque[:0]
	f.transparent = f.transparent[:0]
	f.instanced = f.instanced[:0]
	f.points = f.points[:0]
	f.light = nil
}

// collect walks the visible groups and sorts transparent meshes back to
// front. Only the first visible point light is used.
func (f *frame) collect(groups []*scene.Group, view mgl32.Mat4) {
	f.reset()
	for _, g := range groups {
		if g == nil || !g.Visible {
			continue
		}
		for _, m := range g.Meshes {
			f.addMesh(m, mgl32.Ident4(), view)
		}
		for _, im := range g.Instanced {
			if im.Visible && im.Count() > 0 {
				f.instanced = append(f.instanced, im)
			}
		}
		for _, p := range g.Points {
			if p.Visible && p.Count() > 0 {
				f.points = append(f.points, p)
			}
		}
		if f.light == nil && len(g.Lights) > 0 {
			f.light = g.Lights[0]
		}
	}
	sort.SliceStable(f.transparent, func(i, j int) bool {
		return f.transparent[i].depth > f.transparent[j].depth
	})
}

func (f *frame) addMesh(m *scene.Mesh, parent, view mgl32.Mat4) {
	if m == nil || !m.Visible {
		return
	}
	model := parent.Mul4(m.Matrix())
	if m.Geometry != nil && m.Geometry.VertexCount() > 0 {
		origin := view.Mul4(model).Col(3)
		item := drawItem{mesh: m, model: model, depth: -origin[2]}
		if m.Material != nil && m.Material.Transparent {
			f.transparent = append(f.transparent, item)
		} else {
			f.opaque = append(f.opaque, item)
		}
	}
	for _, c := range m.Children {
		f.addMesh(c, model, view)
	}
}
