package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/dh1tw/gosamplerate"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
)

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
)

// Info describes a decoded file as it was stored, before resampling.
type Info struct {
	Duration   float64 // seconds
	Channels   int
	SampleRate int
}

// Buffer is decoded audio ready for playback: interleaved stereo float32 at
// Rate. It is never mutated after Decode returns.
type Buffer struct {
	Samples []float32
	Rate    int
	Info    Info
}

// Frames returns the number of stereo frames in the buffer.
func (b *Buffer) Frames() int { return len(b.Samples) / OutputChannels }

// Decode detects the container of data, decodes it and converts it to stereo
// at outRate.
func Decode(data []byte, outRate int) (*Buffer, error) {
	if len(data) == 0 {
		return nil, &DecodeError{Format: "unknown", Err: ErrEmptyAudio}
	}

	var (
		format   string
		samples  []float32
		channels int
		rate     int
		err      error
	)
	switch {
	case isWAV(data):
		format = "wav"
		samples, channels, rate, err = decodeWAV(data)
	case isMP3(data):
		format = "mp3"
		samples, channels, rate, err = decodeMP3(data)
	default:
		return nil, &DecodeError{Format: "unknown", Err: ErrUnsupportedFormat}
	}
	if err != nil {
		return nil, &DecodeError{Format: format, Err: err}
	}
	if channels <= 0 || rate <= 0 {
		return nil, &DecodeError{Format: format, Err: fmt.Errorf("bad stream parameters: %d channels at %d Hz", channels, rate)}
	}
	frames := len(samples) / channels
	if frames == 0 {
		return nil, &DecodeError{Format: format, Err: ErrEmptyAudio}
	}

	stereo := toStereo(samples, channels)
	if outRate > 0 && rate != outRate {
		stereo, err = gosamplerate.Simple(stereo, float64(outRate)/float64(rate), OutputChannels, gosamplerate.SRC_SINC_MEDIUM_QUALITY)
		if err != nil {
			return nil, &DecodeError{Format: format, Err: fmt.Errorf("resample %d->%d: %w", rate, outRate, err)}
		}
	} else {
		outRate = rate
	}

	return &Buffer{
		Samples: stereo,
		Rate:    outRate,
		Info: Info{
			Duration:   float64(frames) / float64(rate),
			Channels:   channels,
			SampleRate: rate,
		},
	}, nil
}

func isWAV(data []byte) bool {
	return len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE"
}

func isMP3(data []byte) bool {
	if bytes.HasPrefix(data, []byte("ID3")) {
		return true
	}
	// MPEG frame sync: 11 set bits.
	return len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0
}

func decodeWAV(data []byte) ([]float32, int, int, error) {
	d := wav.NewDecoder(bytes.NewReader(data))
	if !d.IsValidFile() {
		return nil, 0, 0, errors.New("invalid WAV header")
	}
	if d.WavAudioFormat != wavFormatPCM && d.WavAudioFormat != wavFormatExtensible {
		return nil, 0, 0, fmt.Errorf("%w: WAV format tag %d", ErrUnsupportedFormat, d.WavAudioFormat)
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, 0, 0, fmt.Errorf("read PCM: %w", err)
	}
	depth := int(d.BitDepth)
	if depth == 0 {
		depth = buf.SourceBitDepth
	}
	if depth <= 0 || depth > 32 {
		return nil, 0, 0, fmt.Errorf("unsupported bit depth %d", depth)
	}

	out := make([]float32, len(buf.Data))
	if depth == 8 {
		// 8-bit WAV is unsigned.
		for i, v := range buf.Data {
			out[i] = float32(v-128) / 128
		}
	} else {
		factor := math.Pow(2, float64(depth-1))
		for i, v := range buf.Data {
			out[i] = float32(float64(v) / factor)
		}
	}
	return out, int(d.NumChans), int(d.SampleRate), nil
}

func decodeMP3(data []byte) ([]float32, int, int, error) {
	d, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, err
	}
	pcm, err := io.ReadAll(d)
	if err != nil && len(pcm) == 0 {
		return nil, 0, 0, fmt.Errorf("read frames: %w", err)
	}
	// go-mp3 always yields signed 16-bit little-endian stereo.
	n := len(pcm) / 2
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		out[i] = float32(int16(binary.LittleEndian.Uint16(pcm[i*2:]))) / 32768
	}
	return out, 2, d.SampleRate(), nil
}

// toStereo maps interleaved samples with any channel count onto two channels.
// Mono is duplicated; channels beyond the first two are dropped.
func toStereo(samples []float32, channels int) []float32 {
	frames := len(samples) / channels
	if channels == 2 {
		return samples[:frames*2]
	}
	out := make([]float32, frames*2)
	for i := 0; i < frames; i++ {
		l := samples[i*channels]
		r := l
		if channels > 1 {
			r = samples[i*channels+1]
		}
		out[i*2] = l
		out[i*2+1] = r
	}
	return out
}
