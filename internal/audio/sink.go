package audio

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/hajimehoshi/oto/v2"
)

// Player is one sample-producing instance pulling from a reader.
type Player interface {
	Play()
	Pause()
	Close() error
}

// Sink creates players on an output device.
type Sink interface {
	NewPlayer(r io.Reader) Player
}

// OtoSink plays float32 stereo through an oto context.
type OtoSink struct {
	ctx   *oto.Context
	ready chan struct{}
}

func NewOtoSink(sampleRate int) (*OtoSink, error) {
	ctx, ready, err := oto.NewContext(sampleRate, OutputChannels, oto.FormatFloat32LE)
	if err != nil {
		return nil, fmt.Errorf("oto context: %w", err)
	}
	return &OtoSink{ctx: ctx, ready: ready}, nil
}

func (s *OtoSink) NewPlayer(r io.Reader) Player {
	<-s.ready
	return s.ctx.NewPlayer(r)
}

// SilentSink drains streams at real-time pace without an audio device, so
// analysis keeps running when no output is available.
type SilentSink struct {
	rate int
	tick time.Duration
}

func NewSilentSink(sampleRate int) *SilentSink {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return &SilentSink{rate: sampleRate, tick: 10 * time.Millisecond}
}

func (s *SilentSink) NewPlayer(r io.Reader) Player {
	chunk := int(float64(s.rate)*s.tick.Seconds()) * bytesPerFrame
	return &silentPlayer{r: r, buf: make([]byte, chunk), tick: s.tick}
}

type silentPlayer struct {
	mu   sync.Mutex
	r    io.Reader
	buf  []byte
	tick time.Duration
	stop chan struct{}
	done chan struct{}
}

func (p *silentPlayer) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stop != nil {
		return
	}
	p.stop = make(chan struct{})
	p.done = make(chan struct{})
	go p.run(p.stop, p.done)
}

func (p *silentPlayer) run(stop, done chan struct{}) {
	defer close(done)
	t := time.NewTicker(p.tick)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			if _, err := p.r.Read(p.buf); errors.Is(err, io.EOF) {
				return
			}
		}
	}
}

func (p *silentPlayer) Pause() {
	p.mu.Lock()
	stop, done := p.stop, p.done
	p.stop, p.done = nil, nil
	p.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-done
}

func (p *silentPlayer) Close() error {
	p.Pause()
	return nil
}
