// Package app is the desktop front end: it owns the window, feeds key and
// drop events to the audio controller and the scene, and drives the frame
// loop.
package app

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"duskwave/internal/audio"
	"duskwave/internal/log"
	"duskwave/internal/render"
	"duskwave/internal/scene"
)

// RunDesktop opens the window and runs until it is closed.
func RunDesktop(cfg Config, lg *log.Logger) error {
	runtime.LockOSThread()
	if lg == nil {
		lg = log.Discard()
	}

	window, err := initWindow()
	if err != nil {
		return err
	}
	defer glfw.Terminate()
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}
	lg.Debugf("GL %s", gl.GoStr(gl.GetString(gl.VERSION)))

	var sink audio.Sink
	if s, err := audio.NewOtoSink(audio.DefaultSampleRate); err != nil {
		lg.Warnf("audio init failed (continuing without sound): %v", err)
		sink = audio.NewSilentSink(audio.DefaultSampleRate)
	} else {
		sink = s
	}
	ctrl := audio.NewController(sink, audio.WithLogger(lg.Named("audio")))
	defer ctrl.Close()

	rend, err := render.NewRenderer(lg)
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	defer rend.Destroy()

	sc := scene.New(
		scene.WithSeed(cfg.Seed),
		scene.WithMode(cfg.Mode),
		scene.WithLogger(lg.Named("scene")),
	)
	fbW, fbH := window.GetFramebufferSize()
	if err := sc.Initialize(rend, fbW, fbH); err != nil {
		return fmt.Errorf("scene: %w", err)
	}

	ld := newLoader(ctrl, lg.Named("load"))
	var title titleState
	if cfg.File != "" && ld.request(cfg.File) {
		title.loading = filepath.Base(cfg.File)
	}
	window.SetDropCallback(func(_ *glfw.Window, names []string) {
		if len(names) > 0 && ld.request(names[0]) {
			title.loading = filepath.Base(names[0])
		}
	})

	input := NewInput()
	var acts []action
	shown := ""
	lastW, lastH := fbW, fbH

	for !window.ShouldClose() {
		glfw.PollEvents()
		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
			continue
		}

		fbW, fbH := window.GetFramebufferSize()
		if fbW <= 0 || fbH <= 0 {
			continue
		}
		if fbW != lastW || fbH != lastH {
			sc.OnResize(fbW, fbH)
			lastW, lastH = fbW, fbH
		}

		if res, ok := ld.poll(); ok {
			title.loading = ""
			if res.err != nil {
				lg.Errorf("%v", res.err)
				title.failed = res.name
			} else {
				title.failed = ""
				title.name = res.name
				ctrl.Seek(res.info.Duration * cfg.StartFraction)
				ctrl.Play()
			}
		}

		acts = input.Actions(window, acts)
		for _, a := range acts {
			apply(a, ctrl, sc)
		}
		if autoPause(ctrl) {
			lg.Infof("end of track")
		}

		sc.Update(scene.Energy(ctrl.Energy()))

		title.pos, title.dur = ctrl.CurrentTime(), ctrl.Duration()
		if s := title.String(); s != shown {
			window.SetTitle(s)
			shown = s
		}
		window.SwapBuffers()
	}
	return nil
}
