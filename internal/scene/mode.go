package scene

import (
	"fmt"
	"strings"
)

// Mode selects which object group, camera pose, fog and background are active.
type Mode int

const (
	ModePrimary   Mode = iota // dusk landscape with grid, mountains and sun
	ModeAlternate             // calm night water with hills, fireflies and moon
)

func (m Mode) String() string {
	switch m {
	case ModePrimary:
		return "landscape"
	case ModeAlternate:
		return "calm"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModePrimary {
		return ModeAlternate
	}
	return ModePrimary
}

// ParseMode accepts the mode names used on the command line and in env vars.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "landscape", "primary", "1":
		return ModePrimary, nil
	case "calm", "alternate", "2":
		return ModeAlternate, nil
	default:
		return ModePrimary, fmt.Errorf("unknown mode %q", s)
	}
}
