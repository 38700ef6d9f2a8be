package app

import (
	"testing"

	"duskwave/internal/scene"
)

type fakeTransport struct {
	playing bool
	pos     float64
	dur     float64
	plays   int
}

func (f *fakeTransport) Play() {
	if f.dur > 0 && !f.playing {
		f.playing = true
		f.plays++
	}
}
func (f *fakeTransport) Pause()               { f.playing = false }
func (f *fakeTransport) CurrentTime() float64 { return f.pos }
func (f *fakeTransport) Duration() float64    { return f.dur }
func (f *fakeTransport) IsPlaying() bool      { return f.playing }
func (f *fakeTransport) Ended() bool          { return f.dur > 0 && f.pos >= f.dur }
func (f *fakeTransport) Seek(s float64) {
	if s < 0 {
		s = 0
	}
	if s > f.dur {
		s = f.dur
	}
	f.pos = s
}

type fakeModes struct{ mode scene.Mode }

func (f *fakeModes) Mode() scene.Mode     { return f.mode }
func (f *fakeModes) SetMode(m scene.Mode) { f.mode = m }

func TestTogglePlay(t *testing.T) {
	tr := &fakeTransport{dur: 60, pos: 10}
	apply(actTogglePlay, tr, &fakeModes{})
	if !tr.playing {
		t.Fatal("not playing after first toggle")
	}
	apply(actTogglePlay, tr, &fakeModes{})
	if tr.playing {
		t.Fatal("still playing after second toggle")
	}
	if tr.pos != 10 {
		t.Fatalf("pos = %v", tr.pos)
	}
}

func TestTogglePlayAtEndRewinds(t *testing.T) {
	tr := &fakeTransport{dur: 60, pos: 60}
	apply(actTogglePlay, tr, &fakeModes{})
	if !tr.playing || tr.pos != 0 {
		t.Fatalf("playing=%v pos=%v", tr.playing, tr.pos)
	}
}

func TestTogglePlayWithoutAudio(t *testing.T) {
	tr := &fakeTransport{}
	apply(actTogglePlay, tr, &fakeModes{})
	if tr.playing || tr.plays != 0 {
		t.Fatal("played with nothing loaded")
	}
}

func TestSeekKeys(t *testing.T) {
	tr := &fakeTransport{dur: 12, pos: 3}
	m := &fakeModes{}
	apply(actBack, tr, m)
	if tr.pos != 0 {
		t.Fatalf("back: pos = %v", tr.pos)
	}
	apply(actForward, tr, m)
	apply(actForward, tr, m)
	if tr.pos != 10 {
		t.Fatalf("forward: pos = %v", tr.pos)
	}
	apply(actForward, tr, m)
	if tr.pos != 12 {
		t.Fatalf("forward past end: pos = %v", tr.pos)
	}
	apply(actRewind, tr, m)
	if tr.pos != 0 {
		t.Fatalf("rewind: pos = %v", tr.pos)
	}
}

func TestModeKeys(t *testing.T) {
	tr := &fakeTransport{}
	m := &fakeModes{}
	apply(actAlternate, tr, m)
	if m.mode != scene.ModeAlternate {
		t.Fatal("2 did not select calm")
	}
	apply(actToggleMode, tr, m)
	if m.mode != scene.ModePrimary {
		t.Fatal("M did not toggle back")
	}
	apply(actToggleMode, tr, m)
	apply(actPrimary, tr, m)
	if m.mode != scene.ModePrimary {
		t.Fatal("1 did not select landscape")
	}
}

func TestAutoPause(t *testing.T) {
	tr := &fakeTransport{dur: 5, pos: 5, playing: true}
	if !autoPause(tr) || tr.playing {
		t.Fatal("did not pause at end")
	}
	if autoPause(tr) {
		t.Fatal("paused twice")
	}
}
