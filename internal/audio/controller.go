// Package audio decodes audio files, plays them through an output sink and
// exposes transport state and coarse spectral energy.
package audio

import (
	"sync"
	"sync/atomic"
	"time"

	"duskwave/internal/log"
)

const DefaultSampleRate = 44100

// Controller owns the decoded buffer, the playback clock reference and the
// analysis tap. Operations with nothing to act on are silent no-ops.
type Controller struct {
	mu sync.Mutex

	sink      Sink
	clock     Clock
	log       *log.Logger
	rate      int
	fftSize   int
	smoothing float64

	buf      *Buffer
	player   Player
	stream   *stream
	analyser *Analyser
	freq     []uint8

	playing  bool
	startRef float64 // clock time at which position 0 would have played
	pausedAt float64

	loading atomic.Bool
}

type Option func(*Controller)

func WithClock(c Clock) Option { return func(ct *Controller) { ct.clock = c } }

// WithSampleRate sets the output rate decoded audio is converted to.
func WithSampleRate(rate int) Option {
	return func(ct *Controller) {
		if rate > 0 {
			ct.rate = rate
		}
	}
}

func WithFFTSize(n int) Option {
	return func(ct *Controller) {
		if validFFTSize(n) {
			ct.fftSize = n
		}
	}
}

func WithSmoothing(tau float64) Option {
	return func(ct *Controller) { ct.smoothing = clampF(tau, 0, 1) }
}

func WithLogger(l *log.Logger) Option {
	return func(ct *Controller) {
		if l != nil {
			ct.log = l
		}
	}
}

func NewController(sink Sink, opts ...Option) *Controller {
	c := &Controller{
		sink:      sink,
		clock:     NewWallClock(),
		log:       log.Discard(),
		rate:      DefaultSampleRate,
		fftSize:   DefaultFFTSize,
		smoothing: DefaultSmoothing,
	}
	for _, o := range opts {
		o(c)
	}
	if c.sink == nil {
		c.sink = NewSilentSink(c.rate)
	}
	return c
}

// SampleRate is the output rate players run at.
func (c *Controller) SampleRate() int { return c.rate }

// LoadAudio decodes data and replaces the current buffer. Playback stops and
// the position returns to 0. On error the previous state is kept. Only one
// load may run at a time; overlapping calls get ErrLoadInProgress.
func (c *Controller) LoadAudio(data []byte) (Info, error) {
	if !c.loading.CompareAndSwap(false, true) {
		return Info{}, ErrLoadInProgress
	}
	defer c.loading.Store(false)

	began := time.Now()
	buf, err := Decode(data, c.rate)
	if err != nil {
		c.log.Warnf("load rejected: %v", err)
		return Info{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
	c.playing = false
	c.buf = buf
	c.pausedAt = 0
	c.startRef = 0

	c.log.Infof("loaded %.2fs, %d ch @ %d Hz in %v", buf.Info.Duration, buf.Info.Channels, buf.Info.SampleRate, time.Since(began).Round(time.Millisecond))
	return buf.Info, nil
}

// Loading reports whether a LoadAudio call is decoding.
func (c *Controller) Loading() bool { return c.loading.Load() }

func (c *Controller) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.buf == nil || c.playing {
		return
	}
	if c.analyser == nil {
		c.analyser = NewAnalyser(c.fftSize, c.smoothing)
	}
	c.startLocked(clampF(c.pausedAt, 0, c.buf.Info.Duration))
}

func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.playing {
		return
	}
	c.pausedAt = c.positionLocked()
	c.stopLocked()
	c.playing = false
}

// Seek moves to seconds, clamped to [0, duration]. While playing, the active
// player is replaced by one starting at the new offset in a single step.
func (c *Controller) Seek(seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.buf == nil {
		return
	}
	seconds = clampF(seconds, 0, c.buf.Info.Duration)
	c.pausedAt = seconds
	if c.playing {
		c.stopLocked()
		c.startLocked(seconds)
	}
}

func (c *Controller) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.buf == nil {
		return 0
	}
	if c.playing {
		return c.positionLocked()
	}
	return c.pausedAt
}

func (c *Controller) Duration() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.buf == nil {
		return 0
	}
	return c.buf.Info.Duration
}

func (c *Controller) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// Ended reports whether playback has run to the end of the buffer. The
// controller stays in the playing state until paused.
func (c *Controller) Ended() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing && c.clock.Now()-c.startRef >= c.buf.Info.Duration
}

// FrequencyData returns the byte magnitude spectrum. Before the first Play
// it is all zeros.
func (c *Controller) FrequencyData(dst []uint8) []uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.analyser == nil {
		n := c.fftSize / 2
		if cap(dst) < n {
			dst = make([]uint8, n)
		}
		dst = dst[:n]
		clear(dst)
		return dst
	}
	return c.analyser.ByteFrequencyData(dst)
}

// Energy returns a fresh band summary of the current spectrum.
func (c *Controller) Energy() Energy {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.analyser == nil {
		return Energy{}
	}
	c.freq = c.analyser.ByteFrequencyData(c.freq)
	return BandEnergy(c.freq)
}

// Close stops any active player.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.playing {
		c.pausedAt = c.positionLocked()
	}
	c.stopLocked()
	c.playing = false
	return nil
}

func (c *Controller) positionLocked() float64 {
	return clampF(c.clock.Now()-c.startRef, 0, c.buf.Info.Duration)
}

func (c *Controller) startLocked(offset float64) {
	st := newStream(c.buf, int(offset*float64(c.buf.Rate)), c.analyser)
	p := c.sink.NewPlayer(st)
	p.Play()
	c.stream = st
	c.player = p
	c.startRef = c.clock.Now() - offset
	c.playing = true
	c.log.Debugf("play from %.3fs", offset)
}

func (c *Controller) stopLocked() {
	if c.player != nil {
		c.stream.stop()
		c.player.Pause()
		if err := c.player.Close(); err != nil {
			c.log.Warnf("close player: %v", err)
		}
		c.player = nil
		c.stream = nil
	}
	if c.analyser != nil {
		c.analyser.Silence()
	}
}
