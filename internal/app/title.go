package app

import (
	"fmt"
	"math"
)

type titleState struct {
	name     string
	loading  string
	failed   string
	pos, dur float64
}

func (ts titleState) String() string {
	switch {
	case ts.loading != "":
		return fmt.Sprintf("%s - loading %s...", AppName, ts.loading)
	case ts.failed != "":
		return fmt.Sprintf("%s - could not load %s", AppName, ts.failed)
	case ts.name == "":
		return fmt.Sprintf("%s - drop an audio file", AppName)
	}
	return fmt.Sprintf("%s  %s / %s", ts.name, formatTime(ts.pos), formatTime(ts.dur))
}

// formatTime renders whole seconds as m:ss.
func formatTime(sec float64) string {
	if sec < 0 || math.IsNaN(sec) {
		sec = 0
	}
	s := int(sec)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
