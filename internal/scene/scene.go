// Package scene holds the 3D world of the visualizer and maps audio energy
// onto it once per frame.
package scene

import (
	"errors"
	"time"

	"duskwave/internal/log"
)

var ErrAlreadyInitialized = errors.New("scene: already initialized")

// Energy is the per-frame audio input: three bands in [0,1].
type Energy struct {
	Bass float64
	Mid  float64
	High float64
}

// Renderer draws the scene's current state.
type Renderer interface {
	Render(s *Scene)
	SetSize(width, height int)
}

const (
	DefaultGridSize     = 40
	DefaultFireflyCount = 100
	alternateTimeScale  = 0.5
	BackgroundHeight    = 128 // rows in a rasterized background
)

type Scene struct {
	log   *log.Logger
	now   func() time.Time
	start time.Time
	seed  uint64

	gridX, gridZ int
	fireflyCount int

	renderer    Renderer
	initialized bool
	mode        Mode
	width       int
	height      int

	camera     Camera
	fog        Fog
	background *Gradient
	ambient    AmbientLight
	primary    *Group
	alternate  *Group
	glow       float64

	landscape landscape
	calm      calm
}

type Option func(*Scene)

func WithClock(now func() time.Time) Option {
	return func(s *Scene) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSeed fixes the firefly placement.
func WithSeed(seed uint64) Option { return func(s *Scene) { s.seed = seed } }

func WithGridSize(x, z int) Option {
	return func(s *Scene) {
		if x > 0 && z > 0 {
			s.gridX, s.gridZ = x, z
		}
	}
}

func WithFireflies(n int) Option {
	return func(s *Scene) {
		if n >= 0 {
			s.fireflyCount = n
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Scene) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMode picks the mode the scene starts in.
func WithMode(m Mode) Option { return func(s *Scene) { s.mode = m } }

func New(opts ...Option) *Scene {
	s := &Scene{
		log:          log.Discard(),
		now:          time.Now,
		seed:         uint64(time.Now().UnixNano()),
		gridX:        DefaultGridSize,
		gridZ:        DefaultGridSize,
		fireflyCount: DefaultFireflyCount,
		mode:         ModePrimary,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Initialize builds the camera, both object groups, fog and background and
// binds the renderer. It may only be called once.
func (s *Scene) Initialize(r Renderer, width, height int) error {
	if s.initialized {
		return ErrAlreadyInitialized
	}
	if r == nil {
		r = nopRenderer{}
	}
	s.renderer = r
	s.start = s.now()
	s.width, s.height = width, height

	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	s.camera = newCamera(aspect)
	s.ambient = AmbientLight{Color: hex("#ffffff"), Intensity: 0.5}
	r.SetSize(width, height)

	s.primary = &Group{Name: "landscape", Visible: true}
	s.landscape.build(s.primary, s.gridX, s.gridZ)

	s.alternate = &Group{Name: "calm"}
	s.calm.build(s.alternate, s.fireflyCount, NewRand(s.seed))

	s.initialized = true
	s.applyMode(s.mode)
	s.log.Infof("scene ready: %d grid cells, %d fireflies, mode %s", s.landscape.grid.Count(), s.calm.fireflies.Count(), s.mode)
	return nil
}

// SetMode switches visual theme. Switching to the active mode does nothing.
func (s *Scene) SetMode(m Mode) {
	if !s.initialized || m == s.mode {
		return
	}
	s.applyMode(m)
	s.log.Debugf("mode -> %s", m)
}

func (s *Scene) applyMode(m Mode) {
	s.mode = m
	s.primary.Visible = m == ModePrimary
	s.alternate.Visible = m == ModeAlternate
	s.camera.Position = modePose(m)
	s.fog = modeFog(m)
	if m == ModeAlternate {
		s.background = calmBackground()
	} else {
		s.background = landscapeBackground()
	}
}

// Update advances every reactive object of the active mode using the time
// since Initialize, then renders one frame.
func (s *Scene) Update(e Energy) {
	if !s.initialized {
		return
	}
	s.UpdateAt(s.now().Sub(s.start).Seconds(), e)
}

// UpdateAt is Update at an explicit elapsed time in seconds.
func (s *Scene) UpdateAt(t float64, e Energy) {
	if !s.initialized {
		return
	}
	e = clampEnergy(e)
	s.glow = e.Bass
	switch s.mode {
	case ModeAlternate:
		s.calm.update(t*alternateTimeScale, e)
	default:
		s.landscape.update(t, e)
	}
	s.renderer.Render(s)
}

// OnResize adapts the camera and output surface to a new viewport.
func (s *Scene) OnResize(width, height int) {
	if !s.initialized || width <= 0 || height <= 0 {
		return
	}
	s.width, s.height = width, height
	s.camera.Aspect = float32(width) / float32(height)
	s.renderer.SetSize(width, height)
	if s.camera.Aspect < 1 {
		s.camera.Position[2] = portraitCameraZ
	} else {
		s.camera.Position[2] = modePose(s.mode)[2]
	}
}

func (s *Scene) Mode() Mode                 { return s.mode }
func (s *Scene) Camera() Camera             { return s.camera }
func (s *Scene) Fog() Fog                   { return s.fog }
func (s *Scene) Background() *Gradient      { return s.background }
func (s *Scene) AmbientLight() AmbientLight { return s.ambient }
func (s *Scene) Size() (width, height int)  { return s.width, s.height }
func (s *Scene) Initialized() bool          { return s.initialized }

// Glow is the bass level of the last update, used for the vignette.
func (s *Scene) Glow() float64 { return s.glow }

// Groups returns both object groups, hidden ones included.
func (s *Scene) Groups() []*Group {
	if !s.initialized {
		return nil
	}
	return []*Group{s.primary, s.alternate}
}

// Grid returns the instanced cell field of the landscape mode.
func (s *Scene) Grid() *InstancedMesh { return s.landscape.grid }

func clampEnergy(e Energy) Energy {
	return Energy{Bass: clamp01(e.Bass), Mid: clamp01(e.Mid), High: clamp01(e.High)}
}

func clamp01(v float64) float64 {
	if v < 0 || v != v {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

type nopRenderer struct{}

func (nopRenderer) Render(*Scene)    {}
func (nopRenderer) SetSize(int, int) {}
