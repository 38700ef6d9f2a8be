package audio

import (
	"errors"
	"fmt"
)

var (
	// ErrLoadInProgress is returned when LoadAudio is called while another
	// load is still decoding.
	ErrLoadInProgress = errors.New("audio: load already in progress")

	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrEmptyAudio        = errors.New("no audio samples")
)

// DecodeError reports a payload that could not be turned into PCM.
type DecodeError struct {
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("audio: decode %s: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
