package audio

import (
	"errors"
	"math"
	"testing"
)

func TestDecodeMonoWAV(t *testing.T) {
	data := makeWAV(8000, 1, 8000*3, sine(440, 8000, 0.5))
	buf, err := Decode(data, 8000)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if buf.Info.Channels != 1 || buf.Info.SampleRate != 8000 {
		t.Fatalf("unexpected info %+v", buf.Info)
	}
	if math.Abs(buf.Info.Duration-3) > 1e-9 {
		t.Fatalf("duration = %v, want 3", buf.Info.Duration)
	}
	if buf.Frames() != 8000*3 {
		t.Fatalf("frames = %d", buf.Frames())
	}
	// Mono is duplicated to both channels.
	for i := 0; i < 100; i++ {
		if buf.Samples[i*2] != buf.Samples[i*2+1] {
			t.Fatalf("frame %d not duplicated: %v %v", i, buf.Samples[i*2], buf.Samples[i*2+1])
		}
	}
}

func TestDecodeNormalizesSixteenBit(t *testing.T) {
	data := makeWAV(8000, 2, 10, func(int) float64 { return 0.5 })
	buf, err := Decode(data, 8000)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got := buf.Samples[0]; math.Abs(float64(got)-0.5) > 1e-3 {
		t.Fatalf("sample = %v, want ~0.5", got)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	cases := map[string][]byte{
		"empty":     nil,
		"text":      []byte("definitely not audio"),
		"truncated": []byte("RIFF\x00\x00\x00\x00WAVE"),
	}
	for name, data := range cases {
		_, err := Decode(data, 44100)
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Errorf("%s: expected *DecodeError, got %v", name, err)
		}
	}
}

func TestDecodeUnknownFormat(t *testing.T) {
	_, err := Decode([]byte("OggS0000000000"), 44100)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestDecodeEmptyDataChunk(t *testing.T) {
	_, err := Decode(makeWAV(8000, 1, 0, silence), 8000)
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DecodeError for empty data chunk, got %v", err)
	}
}

func TestToStereoDropsExtraChannels(t *testing.T) {
	in := []float32{1, 2, 3, 4, 5, 6}
	out := toStereo(in, 3)
	want := []float32{1, 2, 4, 5}
	if len(out) != len(want) {
		t.Fatalf("len = %d, want %d", len(out), len(want))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestDecodeResamplesToOutputRate(t *testing.T) {
	data := makeWAV(22050, 1, 22050, sine(220, 22050, 0.5))
	buf, err := Decode(data, 44100)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if buf.Rate != 44100 {
		t.Fatalf("rate = %d, want 44100", buf.Rate)
	}
	if buf.Info.SampleRate != 22050 || math.Abs(buf.Info.Duration-1) > 1e-9 {
		t.Fatalf("info = %+v", buf.Info)
	}
	if f := buf.Frames(); math.Abs(float64(f)-44100) > 441 {
		t.Fatalf("frames = %d, want about 44100", f)
	}
	if len(buf.Samples)%OutputChannels != 0 {
		t.Fatalf("odd sample count %d", len(buf.Samples))
	}
}

func TestDecodeRoutesMP3(t *testing.T) {
	cases := map[string][]byte{
		"id3 tag only":    []byte("ID3\x03\x00\x00\x00\x00\x00\x00"),
		"frame sync only": {0xFF, 0xFB, 0x90, 0x00},
	}
	for name, data := range cases {
		if !isMP3(data) {
			t.Errorf("%s: not sniffed as mp3", name)
			continue
		}
		_, err := Decode(data, 44100)
		var de *DecodeError
		if !errors.As(err, &de) || de.Format != "mp3" {
			t.Errorf("%s: got %v, want mp3 *DecodeError", name, err)
		}
	}
}

func TestSniff(t *testing.T) {
	wav := makeWAV(8000, 1, 1, silence)
	if !isWAV(wav) || isMP3(wav) {
		t.Fatal("wav misdetected")
	}
	if isMP3([]byte{0xFF, 0x00}) || isMP3([]byte("ID")) {
		t.Fatal("false mp3 match")
	}
}
