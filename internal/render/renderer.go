// Package render draws a scene.Scene with OpenGL 4.1 core.
package render

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"duskwave/internal/log"
	"duskwave/internal/scene"
)

// glOffset converts a byte offset to unsafe.Pointer for OpenGL VBO offset params.
func glOffset(n int) unsafe.Pointer { return unsafe.Pointer(uintptr(n)) }

const mat4Bytes = 16 * 4

var _ scene.Renderer = (*Renderer)(nil)

// meshUniforms are shared by the plain and instanced mesh programs.
type meshUniforms struct {
	model, view, proj int32

	color, emissive, opacity int32
	lit, fog                 int32

	ambient, lightPos, lightColor, lightDistance int32
	fogColor, fogDensity                         int32
}

func lookupMeshUniforms(prog uint32) meshUniforms {
	loc := func(name string) int32 { return gl.GetUniformLocation(prog, gl.Str(name+"\x00")) }
	return meshUniforms{
		model:         loc("uModel"),
		view:          loc("uView"),
		proj:          loc("uProj"),
		color:         loc("uColor"),
		emissive:      loc("uEmissive"),
		opacity:       loc("uOpacity"),
		lit:           loc("uLit"),
		fog:           loc("uFog"),
		ambient:       loc("uAmbient"),
		lightPos:      loc("uLightPos"),
		lightColor:    loc("uLightColor"),
		lightDistance: loc("uLightDistance"),
		fogColor:      loc("uFogColor"),
		fogDensity:    loc("uFogDensity"),
	}
}

// gpuGeometry mirrors one scene.Geometry on the GPU.
type gpuGeometry struct {
	vao, vbo, ebo uint32
	count         int32
	version       uint64

	instVBO uint32
	instCap int
}

type Renderer struct {
	log *log.Logger

	width, height int

	quadVAO uint32
	quadVBO uint32

	skyProg uint32
	skyTex  uint32
	skyFrom *scene.Gradient
	uSky    int32

	vignetteProg uint32
	uGlow        int32
	uVignetteRes int32

	meshProg uint32
	meshU    meshUniforms
	instProg uint32
	instU    meshUniforms

	pointsProg   uint32
	pointsVAO    uint32
	pointsVBO    uint32
	pointsCap    int
	ptView       int32
	ptProj       int32
	ptSize       int32
	ptScale      int32
	ptColor      int32
	ptOpacity    int32
	ptFogColor   int32
	ptFogDensity int32

	geometries map[*scene.Geometry]*gpuGeometry
	frame      frame
}

func NewRenderer(l *log.Logger) (*Renderer, error) {
	if l == nil {
		l = log.Discard()
	}
	r := &Renderer{log: l.Named("render"), geometries: make(map[*scene.Geometry]*gpuGeometry)}

	progs := []struct {
		dst        *uint32
		name       string
		vert, frag string
	}{
		{&r.skyProg, "sky", quadVertSrc, skyFragSrc},
		{&r.vignetteProg, "vignette", quadVertSrc, vignetteFragSrc},
		{&r.meshProg, "mesh", meshVertSrc, meshFragSrc},
		{&r.instProg, "instanced", instancedVertSrc, meshFragSrc},
		{&r.pointsProg, "points", pointsVertSrc, pointsFragSrc},
	}
	for _, p := range progs {
		prog, err := linkProgram(p.vert, p.frag)
		if err != nil {
			r.Destroy()
			return nil, fmt.Errorf("%s program: %w", p.name, err)
		}
		*p.dst = prog
	}

	// Quad VAO/VBO: a unit quad (6 vertices, 2 triangles).
	gl.GenVertexArrays(1, &r.quadVAO)
	gl.GenBuffers(1, &r.quadVBO)
	gl.BindVertexArray(r.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	quadVerts := [12]float32{
		0, 0, 1, 0, 1, 1,
		0, 0, 1, 1, 0, 1,
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVerts)*4, gl.Ptr(&quadVerts[0]), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, glOffset(0))

	// Points VAO/VBO: streaming xyz positions.
	gl.GenVertexArrays(1, &r.pointsVAO)
	gl.GenBuffers(1, &r.pointsVBO)
	gl.BindVertexArray(r.pointsVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.pointsVBO)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, glOffset(0))

	gl.GenTextures(1, &r.skyTex)
	gl.BindTexture(gl.TEXTURE_2D, r.skyTex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	gl.UseProgram(r.skyProg)
	r.uSky = gl.GetUniformLocation(r.skyProg, gl.Str("uSky\x00"))
	gl.Uniform1i(r.uSky, 0)

	gl.UseProgram(r.vignetteProg)
	r.uGlow = gl.GetUniformLocation(r.vignetteProg, gl.Str("uGlow\x00"))
	r.uVignetteRes = gl.GetUniformLocation(r.vignetteProg, gl.Str("uResolution\x00"))

	r.meshU = lookupMeshUniforms(r.meshProg)
	r.instU = lookupMeshUniforms(r.instProg)

	gl.UseProgram(r.pointsProg)
	pt := func(name string) int32 { return gl.GetUniformLocation(r.pointsProg, gl.Str(name+"\x00")) }
	r.ptView = pt("uView")
	r.ptProj = pt("uProj")
	r.ptSize = pt("uSize")
	r.ptScale = pt("uScale")
	r.ptColor = pt("uColor")
	r.ptOpacity = pt("uOpacity")
	r.ptFogColor = pt("uFogColor")
	r.ptFogDensity = pt("uFogDensity")

	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.BindVertexArray(0)
	return r, nil
}

func (r *Renderer) Destroy() {
	for _, g := range r.geometries {
		r.freeGeometry(g)
	}
	r.geometries = nil
	for _, id := range []uint32{r.quadVBO, r.pointsVBO} {
		if id != 0 {
			gl.DeleteBuffers(1, &id)
		}
	}
	for _, id := range []uint32{r.quadVAO, r.pointsVAO} {
		if id != 0 {
			gl.DeleteVertexArrays(1, &id)
		}
	}
	for _, id := range []uint32{r.skyProg, r.vignetteProg, r.meshProg, r.instProg, r.pointsProg} {
		if id != 0 {
			gl.DeleteProgram(id)
		}
	}
	if r.skyTex != 0 {
		gl.DeleteTextures(1, &r.skyTex)
	}
}

// SetSize records the framebuffer size used for the next frame.
func (r *Renderer) SetSize(width, height int) {
	r.width, r.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Render draws one frame: background, opaque meshes, instanced meshes,
// transparent meshes back to front, points and the vignette.
func (r *Renderer) Render(s *scene.Scene) {
	if r.width <= 0 || r.height <= 0 {
		return
	}
	gl.Viewport(0, 0, int32(r.width), int32(r.height))
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.drawSky(s.Background())

	cam := s.Camera()
	view := cam.View()
	proj := cam.Projection()
	r.frame.collect(s.Groups(), view)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)

	r.useMeshProgram(r.meshProg, r.meshU, s, view, proj)
	for _, it := range r.frame.opaque {
		r.drawMesh(r.meshU, it.mesh, it.model)
	}
	if len(r.frame.instanced) > 0 {
		r.useMeshProgram(r.instProg, r.instU, s, view, proj)
		for _, im := range r.frame.instanced {
			r.drawInstanced(im)
		}
	}

	gl.Enable(gl.BLEND)
	gl.DepthMask(false)
	if len(r.frame.transparent) > 0 {
		r.useMeshProgram(r.meshProg, r.meshU, s, view, proj)
		for _, it := range r.frame.transparent {
			r.drawMesh(r.meshU, it.mesh, it.model)
		}
	}
	if len(r.frame.points) > 0 {
		r.drawPoints(s, view, proj)
	}
	gl.DepthMask(true)
	gl.Disable(gl.DEPTH_TEST)

	r.drawVignette(s.Glow())
	gl.Disable(gl.BLEND)
	gl.BindVertexArray(0)
}

func (r *Renderer) drawSky(bg *scene.Gradient) {
	if bg == nil {
		return
	}
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.skyTex)
	if bg != r.skyFrom {
		px := bg.Pixels(scene.BackgroundHeight)
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, 1, int32(scene.BackgroundHeight), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(&px[0]))
		r.skyFrom = bg
		r.log.Debugf("background uploaded")
	}
	gl.Disable(gl.DEPTH_TEST)
	gl.UseProgram(r.skyProg)
	gl.BindVertexArray(r.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
}

func (r *Renderer) drawVignette(glow float64) {
	gl.UseProgram(r.vignetteProg)
	gl.Uniform1f(r.uGlow, float32(glow))
	gl.Uniform2f(r.uVignetteRes, float32(r.width), float32(r.height))
	gl.BindVertexArray(r.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
}

func (r *Renderer) useMeshProgram(prog uint32, u meshUniforms, s *scene.Scene, view, proj mgl32.Mat4) {
	gl.UseProgram(prog)
	gl.UniformMatrix4fv(u.view, 1, false, &view[0])
	gl.UniformMatrix4fv(u.proj, 1, false, &proj[0])

	amb := s.AmbientLight()
	ac := scene.RGB32(amb.Color)
	ai := float32(amb.Intensity)
	gl.Uniform3f(u.ambient, ac[0]*ai, ac[1]*ai, ac[2]*ai)

	if l := r.frame.light; l != nil {
		lc := scene.RGB32(l.Color)
		li := float32(l.Intensity)
		gl.Uniform3f(u.lightPos, l.Position[0], l.Position[1], l.Position[2])
		gl.Uniform3f(u.lightColor, lc[0]*li, lc[1]*li, lc[2]*li)
		gl.Uniform1f(u.lightDistance, float32(l.Distance))
	} else {
		gl.Uniform3f(u.lightColor, 0, 0, 0)
	}

	fog := s.Fog()
	fc := scene.RGB32(fog.Color)
	gl.Uniform3f(u.fogColor, fc[0], fc[1], fc[2])
	gl.Uniform1f(u.fogDensity, float32(fog.Density))
}

func (r *Renderer) setMaterial(u meshUniforms, m *scene.Material) {
	c := scene.RGB32(m.Color)
	e := scene.RGB32(m.Emissive)
	ei := float32(m.EmissiveIntensity)
	gl.Uniform3f(u.color, c[0], c[1], c[2])
	gl.Uniform3f(u.emissive, e[0]*ei, e[1]*ei, e[2]*ei)
	gl.Uniform1f(u.opacity, float32(m.Opacity))
	gl.Uniform1i(u.lit, boolInt(m.Lit))
	gl.Uniform1i(u.fog, boolInt(m.Fog))
}

func (r *Renderer) drawMesh(u meshUniforms, m *scene.Mesh, model mgl32.Mat4) {
	g := r.geometry(m.Geometry)
	r.setMaterial(u, m.Material)
	gl.UniformMatrix4fv(u.model, 1, false, &model[0])
	gl.BindVertexArray(g.vao)
	gl.DrawElements(gl.TRIANGLES, g.count, gl.UNSIGNED_INT, glOffset(0))
}

func (r *Renderer) drawInstanced(im *scene.InstancedMesh) {
	g := r.geometry(im.Geometry)
	n := im.Count()
	gl.BindVertexArray(g.vao)
	if g.instVBO == 0 {
		gl.GenBuffers(1, &g.instVBO)
		gl.BindBuffer(gl.ARRAY_BUFFER, g.instVBO)
		for col := 0; col < 4; col++ {
			loc := uint32(1 + col)
			gl.EnableVertexAttribArray(loc)
			gl.VertexAttribPointer(loc, 4, gl.FLOAT, false, mat4Bytes, glOffset(col*16))
			gl.VertexAttribDivisor(loc, 1)
		}
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, g.instVBO)
	if n > g.instCap {
		gl.BufferData(gl.ARRAY_BUFFER, n*mat4Bytes, gl.Ptr(&im.Matrices[0][0]), gl.DYNAMIC_DRAW)
		g.instCap = n
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, n*mat4Bytes, gl.Ptr(&im.Matrices[0][0]))
	}

	model := im.Matrix()
	r.setMaterial(r.instU, im.Material)
	gl.UniformMatrix4fv(r.instU.model, 1, false, &model[0])
	gl.DrawElementsInstanced(gl.TRIANGLES, g.count, gl.UNSIGNED_INT, glOffset(0), int32(n))
}

func (r *Renderer) drawPoints(s *scene.Scene, view, proj mgl32.Mat4) {
	cam := s.Camera()
	scale := float32(r.height) / (2 * float32(math.Tan(float64(mgl32.DegToRad(cam.FOV))/2)))
	fog := s.Fog()
	fc := scene.RGB32(fog.Color)

	gl.UseProgram(r.pointsProg)
	gl.UniformMatrix4fv(r.ptView, 1, false, &view[0])
	gl.UniformMatrix4fv(r.ptProj, 1, false, &proj[0])
	gl.Uniform1f(r.ptScale, scale)
	gl.Uniform3f(r.ptFogColor, fc[0], fc[1], fc[2])
	gl.Uniform1f(r.ptFogDensity, float32(fog.Density))
	gl.BindVertexArray(r.pointsVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.pointsVBO)

	for _, p := range r.frame.points {
		c := scene.RGB32(p.Color)
		gl.Uniform3f(r.ptColor, c[0], c[1], c[2])
		gl.Uniform1f(r.ptOpacity, float32(p.Opacity))
		gl.Uniform1f(r.ptSize, p.Size)
		if len(p.Positions) > r.pointsCap {
			gl.BufferData(gl.ARRAY_BUFFER, len(p.Positions)*4, gl.Ptr(&p.Positions[0]), gl.STREAM_DRAW)
			r.pointsCap = len(p.Positions)
		} else {
			gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(p.Positions)*4, gl.Ptr(&p.Positions[0]))
		}
		gl.DrawArrays(gl.POINTS, 0, int32(p.Count()))
	}
}

// geometry returns the GPU copy of g, uploading it on first use and again
// whenever its Version moves.
func (r *Renderer) geometry(g *scene.Geometry) *gpuGeometry {
	gg, ok := r.geometries[g]
	if !ok {
		gg = &gpuGeometry{version: g.Version, count: int32(len(g.Indices))}
		gl.GenVertexArrays(1, &gg.vao)
		gl.GenBuffers(1, &gg.vbo)
		gl.GenBuffers(1, &gg.ebo)
		gl.BindVertexArray(gg.vao)

		usage := uint32(gl.STATIC_DRAW)
		if g.Dynamic {
			usage = gl.DYNAMIC_DRAW
		}
		gl.BindBuffer(gl.ARRAY_BUFFER, gg.vbo)
		gl.BufferData(gl.ARRAY_BUFFER, len(g.Positions)*4, gl.Ptr(&g.Positions[0]), usage)
		gl.EnableVertexAttribArray(0)
		gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, glOffset(0))

		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gg.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(g.Indices)*4, gl.Ptr(&g.Indices[0]), gl.STATIC_DRAW)

		r.geometries[g] = gg
		return gg
	}
	if gg.version != g.Version {
		gl.BindBuffer(gl.ARRAY_BUFFER, gg.vbo)
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(g.Positions)*4, gl.Ptr(&g.Positions[0]))
		gg.version = g.Version
	}
	return gg
}

func (r *Renderer) freeGeometry(g *gpuGeometry) {
	for _, id := range []uint32{g.vbo, g.ebo, g.instVBO} {
		if id != 0 {
			gl.DeleteBuffers(1, &id)
		}
	}
	gl.DeleteVertexArrays(1, &g.vao)
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
