package audio

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/window"
)

const (
	DefaultFFTSize   = 2048
	DefaultSmoothing = 0.8

	minDecibels = -100.0
	maxDecibels = -30.0
)

// Analyser keeps the most recent fftSize mono samples of the playback stream
// and turns them into a smoothed byte magnitude spectrum on demand.
type Analyser struct {
	mu     sync.Mutex
	size   int
	ring   []float64
	pos    int
	window []float64
	smooth float64
	mag    []float64 // smoothed magnitudes, carried across queries
	frame  []float64
}

func NewAnalyser(fftSize int, smoothing float64) *Analyser {
	if !validFFTSize(fftSize) {
		fftSize = DefaultFFTSize
	}
	smoothing = clampF(smoothing, 0, 1)

	w := make([]float64, fftSize)
	for i := range w {
		w[i] = 1
	}
	return &Analyser{
		size:   fftSize,
		ring:   make([]float64, fftSize),
		window: window.Blackman(w),
		smooth: smoothing,
		mag:    make([]float64, fftSize/2),
		frame:  make([]float64, fftSize),
	}
}

func validFFTSize(n int) bool {
	return n >= 32 && n <= 32768 && n&(n-1) == 0
}

// BinCount is the number of frequency bins, half the FFT size.
func (a *Analyser) BinCount() int { return a.size / 2 }

// Write appends mono samples to the ring buffer.
func (a *Analyser) Write(samples []float64) {
	a.mu.Lock()
	for _, s := range samples {
		a.ring[a.pos] = s
		a.pos = (a.pos + 1) % a.size
	}
	a.mu.Unlock()
}

// Silence clears the captured signal. Smoothed magnitudes keep decaying on
// later queries instead of dropping straight to zero.
func (a *Analyser) Silence() {
	a.mu.Lock()
	for i := range a.ring {
		a.ring[i] = 0
	}
	a.pos = 0
	a.mu.Unlock()
}

// ByteFrequencyData fills dst with the current spectrum scaled so that
// minDecibels maps to 0 and maxDecibels to 255. dst is grown if too short.
func (a *Analyser) ByteFrequencyData(dst []uint8) []uint8 {
	bins := a.BinCount()
	if cap(dst) < bins {
		dst = make([]uint8, bins)
	}
	dst = dst[:bins]

	a.mu.Lock()
	defer a.mu.Unlock()

	for i := 0; i < a.size; i++ {
		a.frame[i] = a.ring[(a.pos+i)%a.size] * a.window[i]
	}
	coeffs := fft.FFTReal(a.frame)

	scale := 255 / (maxDecibels - minDecibels)
	for k := 0; k < bins; k++ {
		m := cmplx.Abs(coeffs[k]) / float64(a.size)
		a.mag[k] = a.smooth*a.mag[k] + (1-a.smooth)*m
		if a.mag[k] <= 0 {
			dst[k] = 0
			continue
		}
		db := 20 * math.Log10(a.mag[k])
		v := math.Floor(scale * (db - minDecibels))
		dst[k] = uint8(clampF(v, 0, 255))
	}
	return dst
}

// Energy is the coarse three-band summary of a spectrum, each band in [0,1].
type Energy struct {
	Bass float64
	Mid  float64
	High float64
}

// Band edges as fractions of the bin count. Fixed for every sample rate;
// at 44.1 kHz they sit near 550 Hz and 2.7 kHz.
const (
	bassEdge = 0.05
	midEdge  = 0.25
)

// BandEnergy averages the normalized bins of data over the bass, mid and
// high ranges.
func BandEnergy(data []uint8) Energy {
	n := len(data)
	if n == 0 {
		return Energy{}
	}
	bassEnd := int(math.Floor(float64(n) * bassEdge))
	midEnd := int(math.Floor(float64(n) * midEdge))
	return Energy{
		Bass: average(data, 0, bassEnd),
		Mid:  average(data, bassEnd, midEnd),
		High: average(data, midEnd, n),
	}
}

func average(data []uint8, start, end int) float64 {
	count := end - start
	if count <= 0 {
		return 0
	}
	sum := 0
	for _, v := range data[start:end] {
		sum += int(v)
	}
	return float64(sum) / float64(count) / 255
}

func clampF(v, lo, hi float64) float64 {
	if v < lo || math.IsNaN(v) {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
