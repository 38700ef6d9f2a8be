package audio

import (
	"io"
	"math"
	"sync/atomic"
)

const (
	// OutputChannels is fixed: every buffer is stereo by the time it plays.
	OutputChannels = 2
	// bytesPerFrame is one float32 LE sample per channel.
	bytesPerFrame = OutputChannels * 4
)

// stream feeds a Buffer to an output player from a frame offset and copies a
// mono mix of everything it hands out into the analyser.
type stream struct {
	buf     *Buffer
	pos     int // next frame
	tap     *Analyser
	mono    []float64
	stopped atomic.Bool
}

func newStream(buf *Buffer, frame int, tap *Analyser) *stream {
	if frame < 0 {
		frame = 0
	}
	if n := buf.Frames(); frame > n {
		frame = n
	}
	return &stream{buf: buf, pos: frame, tap: tap}
}

func (s *stream) stop() { s.stopped.Store(true) }

func (s *stream) Read(p []byte) (int, error) {
	if s.stopped.Load() {
		return 0, io.EOF
	}
	frames := len(p) / bytesPerFrame
	if frames == 0 {
		return 0, nil
	}
	remaining := s.buf.Frames() - s.pos
	if remaining <= 0 {
		return 0, io.EOF
	}
	if frames > remaining {
		frames = remaining
	}

	s.mono = s.mono[:0]
	for i := 0; i < frames; i++ {
		l := s.buf.Samples[(s.pos+i)*2]
		r := s.buf.Samples[(s.pos+i)*2+1]
		putStereoF32LR(p, i, l, r)
		s.mono = append(s.mono, float64(l+r)*0.5)
	}
	s.pos += frames
	if s.tap != nil {
		s.tap.Write(s.mono)
	}
	return frames * bytesPerFrame, nil
}

// putStereoF32LR writes independent left/right samples as float32 LE at frame i.
func putStereoF32LR(buf []byte, i int, left, right float32) {
	l := math.Float32bits(left)
	r := math.Float32bits(right)
	buf[i*8] = byte(l)
	buf[i*8+1] = byte(l >> 8)
	buf[i*8+2] = byte(l >> 16)
	buf[i*8+3] = byte(l >> 24)
	buf[i*8+4] = byte(r)
	buf[i*8+5] = byte(r >> 8)
	buf[i*8+6] = byte(r >> 16)
	buf[i*8+7] = byte(r >> 24)
}
