package audio

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"sync"
)

// makeWAV builds a 16-bit PCM WAV with one sample per frame per channel,
// taken from gen(frame).
func makeWAV(sampleRate, channels, frames int, gen func(i int) float64) []byte {
	var b bytes.Buffer
	dataSize := uint32(frames * channels * 2)
	b.WriteString("RIFF")
	binary.Write(&b, binary.LittleEndian, 36+dataSize)
	b.WriteString("WAVEfmt ")
	binary.Write(&b, binary.LittleEndian, uint32(16))
	binary.Write(&b, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&b, binary.LittleEndian, uint16(channels))
	binary.Write(&b, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&b, binary.LittleEndian, uint32(sampleRate*channels*2))
	binary.Write(&b, binary.LittleEndian, uint16(channels*2))
	binary.Write(&b, binary.LittleEndian, uint16(16))
	b.WriteString("data")
	binary.Write(&b, binary.LittleEndian, dataSize)
	for i := 0; i < frames; i++ {
		v := int16(math.Round(gen(i) * 32767))
		for c := 0; c < channels; c++ {
			binary.Write(&b, binary.LittleEndian, v)
		}
	}
	return b.Bytes()
}

func silence(int) float64 { return 0 }

func sine(freq float64, rate int, amp float64) func(int) float64 {
	return func(i int) float64 {
		return amp * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
	}
}

type fakeClock struct{ t float64 }

func (c *fakeClock) Now() float64 { return c.t }

type fakePlayer struct {
	r       io.Reader
	playing bool
	closed  bool
}

func (p *fakePlayer) Play()  { p.playing = true }
func (p *fakePlayer) Pause() { p.playing = false }
func (p *fakePlayer) Close() error {
	p.playing = false
	p.closed = true
	return nil
}

// pull reads frames stereo frames from the player's stream.
func (p *fakePlayer) pull(frames int) (int, error) {
	buf := make([]byte, frames*bytesPerFrame)
	return p.r.Read(buf)
}

type fakeSink struct {
	mu      sync.Mutex
	players []*fakePlayer
}

func (s *fakeSink) NewPlayer(r io.Reader) Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &fakePlayer{r: r}
	s.players = append(s.players, p)
	return p
}

func (s *fakeSink) active() []*fakePlayer {
	var out []*fakePlayer
	for _, p := range s.players {
		if p.playing && !p.closed {
			out = append(out, p)
		}
	}
	return out
}

func (s *fakeSink) last() *fakePlayer {
	if len(s.players) == 0 {
		return nil
	}
	return s.players[len(s.players)-1]
}
