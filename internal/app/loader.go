package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"duskwave/internal/audio"
	"duskwave/internal/log"
)

type audioLoader interface {
	LoadAudio(data []byte) (audio.Info, error)
}

type loadResult struct {
	name string
	info audio.Info
	err  error
}

// loader reads and decodes files off the render thread. One load runs at a
// time; results arrive on a buffered channel drained by the render loop, and
// the next request is accepted only after poll has handed the result over.
type loader struct {
	dst      audioLoader
	log      *log.Logger
	readFile func(string) ([]byte, error)
	busy     atomic.Bool
	results  chan loadResult
}

func newLoader(dst audioLoader, l *log.Logger) *loader {
	return &loader{
		dst:      dst,
		log:      l,
		readFile: os.ReadFile,
		results:  make(chan loadResult, 1),
	}
}

// request starts loading path and reports whether it was accepted.
func (ld *loader) request(path string) bool {
	if !ld.busy.CompareAndSwap(false, true) {
		ld.log.Warnf("ignoring %s: %v", path, audio.ErrLoadInProgress)
		return false
	}
	name := filepath.Base(path)
	ld.log.Infof("loading %s", path)
	go func() {
		res := loadResult{name: name}
		data, err := ld.readFile(path)
		if err != nil {
			res.err = fmt.Errorf("read %s: %w", name, err)
		} else if res.info, err = ld.dst.LoadAudio(data); err != nil {
			res.err = fmt.Errorf("decode %s: %w", name, err)
		}
		ld.results <- res
	}()
	return true
}

// poll returns a finished load, if any, without blocking.
func (ld *loader) poll() (loadResult, bool) {
	select {
	case r := <-ld.results:
		ld.busy.Store(false)
		return r, true
	default:
		return loadResult{}, false
	}
}
