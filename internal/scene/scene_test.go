package scene

import (
	"math"
	"testing"
	"time"
)

type fakeRenderer struct {
	renders int
	width   int
	height  int
}

func (f *fakeRenderer) Render(*Scene)         { f.renders++ }
func (f *fakeRenderer) SetSize(w, h int)      { f.width, f.height = w, h }
func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func newTestScene(t *testing.T, opts ...Option) (*Scene, *fakeRenderer) {
	t.Helper()
	opts = append([]Option{WithSeed(7), WithClock(fixedClock(time.Unix(0, 0)))}, opts...)
	s := New(opts...)
	r := &fakeRenderer{}
	if err := s.Initialize(r, 1280, 720); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return s, r
}

func cellScaleY(s *Scene, i int) float64 {
	return float64(s.Grid().Matrices[i][5])
}

func TestInitializeOnce(t *testing.T) {
	s, r := newTestScene(t)
	if err := s.Initialize(r, 10, 10); err != ErrAlreadyInitialized {
		t.Fatalf("second Initialize: got %v, want ErrAlreadyInitialized", err)
	}
	if r.width != 1280 || r.height != 720 {
		t.Fatalf("renderer size %dx%d", r.width, r.height)
	}
	if s.Mode() != ModePrimary {
		t.Fatalf("initial mode %s", s.Mode())
	}
	g := s.Groups()
	if !g[0].Visible || g[1].Visible {
		t.Fatalf("visibility: primary %v alternate %v", g[0].Visible, g[1].Visible)
	}
}

func TestUninitializedIsNoop(t *testing.T) {
	s := New()
	s.Update(Energy{Bass: 1})
	s.SetMode(ModeAlternate)
	s.OnResize(100, 100)
	if s.Mode() != ModePrimary || s.Groups() != nil {
		t.Fatal("uninitialized scene changed state")
	}
}

func TestGridCountInvariant(t *testing.T) {
	s, r := newTestScene(t)
	if n := s.Grid().Count(); n != 1600 {
		t.Fatalf("grid count = %d, want 1600", n)
	}
	for i := 0; i < 50; i++ {
		s.UpdateAt(float64(i)*0.016, Energy{Bass: 0.5, Mid: 0.3, High: 0.9})
	}
	if n := s.Grid().Count(); n != 1600 {
		t.Fatalf("grid count after updates = %d", n)
	}
	if r.renders != 50 {
		t.Fatalf("renders = %d, want one per update", r.renders)
	}
}

func TestBassRaisesCell(t *testing.T) {
	s, _ := newTestScene(t, WithGridSize(4, 4))
	const tm = 1.3
	s.UpdateAt(tm, Energy{})
	quiet := cellScaleY(s, 0)
	s.UpdateAt(tm, Energy{Bass: 1})
	loud := cellScaleY(s, 0)

	want := 3 * math.Abs(math.Sin(tm)*math.Cos(tm))
	if d := loud - quiet; math.Abs(d-want) > 1e-4 {
		t.Fatalf("bass contribution = %v, want %v", d, want)
	}
}

func TestCellScaleFormula(t *testing.T) {
	got := gridCellScale(20, 0, 40, 0, Energy{})
	// dist 0, wave 0.5
	if math.Abs(got-0.45) > 1e-9 {
		t.Fatalf("center cell scale = %v, want 0.45", got)
	}
}

func TestSetModeIdempotent(t *testing.T) {
	s, _ := newTestScene(t)
	s.SetMode(ModeAlternate)
	bg, cam, fog := s.Background(), s.Camera(), s.Fog()
	s.SetMode(ModeAlternate)
	if s.Background() != bg {
		t.Fatal("background rebuilt on redundant switch")
	}
	if s.Camera() != cam || s.Fog() != fog {
		t.Fatal("camera or fog changed on redundant switch")
	}
	g := s.Groups()
	if g[0].Visible || !g[1].Visible {
		t.Fatal("alternate group not the only visible one")
	}
	if cam.Position[2] != 12 {
		t.Fatalf("calm camera z = %v", cam.Position[2])
	}
}

func TestModeSwitchKeepsMeshes(t *testing.T) {
	s, _ := newTestScene(t)
	grid := s.Grid()
	bg := s.Background()
	s.SetMode(ModeAlternate)
	s.SetMode(ModePrimary)
	if s.Grid() != grid {
		t.Fatal("grid rebuilt on mode switch")
	}
	if s.Background() == bg {
		t.Fatal("background not replaced on mode switch")
	}
	if s.Camera().Position[2] != 10 {
		t.Fatalf("landscape camera z = %v", s.Camera().Position[2])
	}
}

func TestOnResize(t *testing.T) {
	s, r := newTestScene(t)
	s.OnResize(400, 800)
	if z := s.Camera().Position[2]; z != portraitCameraZ {
		t.Fatalf("portrait z = %v", z)
	}
	if r.width != 400 || r.height != 800 {
		t.Fatalf("renderer size %dx%d", r.width, r.height)
	}
	s.OnResize(800, 400)
	if z := s.Camera().Position[2]; z != 10 {
		t.Fatalf("landscape z = %v", z)
	}
	s.SetMode(ModeAlternate)
	s.OnResize(1000, 500)
	if z := s.Camera().Position[2]; z != 12 {
		t.Fatalf("calm z = %v", z)
	}
	if a := s.Camera().Aspect; a != 2 {
		t.Fatalf("aspect = %v", a)
	}
}

func TestFirefliesWrap(t *testing.T) {
	s, _ := newTestScene(t, WithFireflies(10), WithMode(ModeAlternate))
	ff := s.calm.fireflies
	for i := 0; i+2 < len(ff.Positions); i += 3 {
		ff.Positions[i+1] = 9.99
	}
	s.UpdateAt(0, Energy{High: 1})
	for i := 0; i+2 < len(ff.Positions); i += 3 {
		x, y, z := ff.Positions[i], ff.Positions[i+1], ff.Positions[i+2]
		if y != 0 {
			t.Fatalf("firefly %d y = %v, want wrapped to 0", i/3, y)
		}
		if x < -20 || x > 20 || z < -20 || z > 20 {
			t.Fatalf("firefly %d out of range (%v, %v)", i/3, x, z)
		}
	}
	if ff.Opacity != 1 {
		t.Fatalf("opacity = %v", ff.Opacity)
	}
}

func TestFirefliesRise(t *testing.T) {
	s, _ := newTestScene(t, WithFireflies(5), WithMode(ModeAlternate))
	ff := s.calm.fireflies
	for i := 0; i+2 < len(ff.Positions); i += 3 {
		ff.Positions[i+1] = 1
	}
	s.UpdateAt(0, Energy{})
	for i := 1; i < len(ff.Positions); i += 3 {
		if math.Abs(float64(ff.Positions[i])-1.02) > 1e-6 {
			t.Fatalf("y = %v, want 1.02", ff.Positions[i])
		}
	}
}

func TestWaterTouched(t *testing.T) {
	s, _ := newTestScene(t, WithMode(ModeAlternate))
	g := s.calm.water.Geometry
	v := g.Version
	s.UpdateAt(1, Energy{Bass: 1})
	if g.Version == v {
		t.Fatal("water geometry not marked dirty")
	}
	// First vertex: top-left corner of the plane, laid flat.
	x := float64(s.calm.waterBase[0])
	y := -float64(s.calm.waterBase[2])
	want := waterHeight(x, y, 1*alternateTimeScale, 1)
	if got := float64(g.Positions[1] - s.calm.waterBase[1]); math.Abs(got-want) > 1e-4 {
		t.Fatalf("displacement = %v, want %v", got, want)
	}
}

func TestEnergyClamped(t *testing.T) {
	s, _ := newTestScene(t)
	s.UpdateAt(0, Energy{Bass: 4, Mid: -1, High: math.NaN()})
	if s.Glow() != 1 {
		t.Fatalf("glow = %v", s.Glow())
	}
}

func TestSunFollowsHigh(t *testing.T) {
	s, _ := newTestScene(t)
	s.UpdateAt(0, Energy{High: 1})
	sun := s.landscape.sun
	if sun.Position[1] != 4 {
		t.Fatalf("sun y = %v, want 4", sun.Position[1])
	}
	if sun.Scale[0] != 1.5 || sun.Scale[1] != 1.5 || sun.Scale[2] != 1 {
		t.Fatalf("sun scale = %v", sun.Scale)
	}
}

func TestLandscapeFormulas(t *testing.T) {
	cases := []Energy{
		{},
		{Bass: 1},
		{Bass: 0.4, Mid: 0.7},
		{Mid: 1, High: 0.3},
	}
	for _, e := range cases {
		s, _ := newTestScene(t, WithGridSize(2, 2))
		s.UpdateAt(0.7, e)

		for i, m := range s.landscape.mountains {
			want := 1 + e.Bass*(0.1/float64(i+1))
			if got := float64(m.Scale[1]); math.Abs(got-want) > 1e-6 {
				t.Errorf("%+v: mountain %d scale = %v, want %v", e, i, got, want)
			}
			if m.Scale[0] != 1 || m.Scale[2] != 1 {
				t.Errorf("%+v: mountain %d horizontal scale %v", e, i, m.Scale)
			}
		}

		want := hsl(0.85+0.1*e.Bass, 0.6, 0.3+0.4*e.Mid)
		if got := s.Grid().Material.Color; got.DistanceRgb(want) > 1e-9 {
			t.Errorf("%+v: grid tint %s, want %s", e, got.Hex(), want.Hex())
		}
	}
}

func TestCalmFormulas(t *testing.T) {
	cases := []struct {
		t float64
		e Energy
	}{
		{0, Energy{}},
		{3, Energy{Bass: 1, Mid: 1}},
		{10, Energy{Bass: 0.5, Mid: 0.25}},
	}
	for _, c := range cases {
		s, _ := newTestScene(t, WithFireflies(1), WithMode(ModeAlternate))
		s.UpdateAt(c.t, c.e)
		ct := c.t * alternateTimeScale

		for i, h := range s.calm.hills {
			want := math.Sin(ct*0.1+float64(i)) * (0.5 + c.e.Mid)
			if got := float64(h.Position[0]); math.Abs(got-want) > 1e-6 {
				t.Errorf("t=%v %+v: hill %d x = %v, want %v", c.t, c.e, i, got, want)
			}
		}

		want := 1 + 0.05*c.e.Bass
		sc := s.calm.moon.Scale
		if math.Abs(float64(sc[0])-want) > 1e-6 || math.Abs(float64(sc[1])-want) > 1e-6 || sc[2] != 1 {
			t.Errorf("t=%v %+v: moon scale %v, want %v", c.t, c.e, sc, want)
		}
	}
}
