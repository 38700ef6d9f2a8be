package audio

import "time"

// Clock is the time base playback positions are measured against, in seconds.
type Clock interface {
	Now() float64
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() float64

func (f ClockFunc) Now() float64 { return f() }

type wallClock struct {
	start time.Time
}

// NewWallClock returns a monotonic clock that reads zero at construction.
func NewWallClock() Clock {
	return wallClock{start: time.Now()}
}

func (c wallClock) Now() float64 { return time.Since(c.start).Seconds() }
