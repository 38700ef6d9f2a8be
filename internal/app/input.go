package app

import "github.com/go-gl/glfw/v3.3/glfw"

// action is one user command, independent of the key that produced it.
type action int

const (
	actNone action = iota
	actTogglePlay
	actPrimary
	actAlternate
	actToggleMode
	actBack
	actForward
	actRewind
)

var keyActions = []struct {
	key glfw.Key
	act action
}{
	{glfw.KeySpace, actTogglePlay},
	{glfw.Key1, actPrimary},
	{glfw.Key2, actAlternate},
	{glfw.KeyM, actToggleMode},
	{glfw.KeyLeft, actBack},
	{glfw.KeyRight, actForward},
	{glfw.KeyHome, actRewind},
}

type Input struct {
	prevKeys map[glfw.Key]bool
}

func NewInput() *Input {
	return &Input{prevKeys: make(map[glfw.Key]bool)}
}

func (in *Input) JustPressed(window *glfw.Window, key glfw.Key) bool {
	down := window.GetKey(key) == glfw.Press
	jp := down && !in.prevKeys[key]
	in.prevKeys[key] = down
	return jp
}

// Actions returns the commands whose keys went down since the last poll.
func (in *Input) Actions(window *glfw.Window, dst []action) []action {
	dst = dst[:0]
	for _, ka := range keyActions {
		if in.JustPressed(window, ka.key) {
			dst = append(dst, ka.act)
		}
	}
	return dst
}
