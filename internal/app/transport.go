package app

import "duskwave/internal/scene"

// transport is the part of audio.Controller the key bindings drive.
type transport interface {
	Play()
	Pause()
	Seek(seconds float64)
	CurrentTime() float64
	Duration() float64
	IsPlaying() bool
	Ended() bool
}

type modeSwitcher interface {
	Mode() scene.Mode
	SetMode(scene.Mode)
}

// apply runs one command. Transport commands are ignored until audio is
// loaded, matching the controller's own no-op rules.
func apply(a action, t transport, s modeSwitcher) {
	switch a {
	case actTogglePlay:
		switch {
		case t.IsPlaying():
			t.Pause()
		case t.Duration() > 0:
			if t.Ended() {
				t.Seek(0)
			}
			t.Play()
		}
	case actPrimary:
		s.SetMode(scene.ModePrimary)
	case actAlternate:
		s.SetMode(scene.ModeAlternate)
	case actToggleMode:
		s.SetMode(s.Mode().Toggle())
	case actBack:
		t.Seek(t.CurrentTime() - SeekStep)
	case actForward:
		t.Seek(t.CurrentTime() + SeekStep)
	case actRewind:
		t.Seek(0)
	}
}

// autoPause stops the transport once it has run past the end.
func autoPause(t transport) bool {
	if t.IsPlaying() && t.Ended() {
		t.Pause()
		return true
	}
	return false
}
