package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/vrlab/internal/input"
)

// holdTicks is how long a movement key stays down after its last press.
// Terminals report no key releases, so auto-repeat keeps a held key alive.
const holdTicks = 8

var moveKeys = map[string]input.Key{
	"w":     input.KeyW,
	"a":     input.KeyA,
	"s":     input.KeyS,
	"d":     input.KeyD,
	"up":    input.KeyUpArrow,
	"down":  input.KeyDownArrow,
	"left":  input.KeyLeftArrow,
	"right": input.KeyRightArrow,
}

// held tracks synthetic key releases.
type held map[input.Key]int

// press returns true when the key was not already down.
func (h held) press(k input.Key) bool {
	_, down := h[k]
	h[k] = holdTicks
	return !down
}

// expire counts down every held key and returns the ones that lapsed.
func (h held) expire() []input.Key {
	var out []input.Key
	for k, n := range h {
		if n <= 1 {
			delete(h, k)
			out = append(out, k)
			continue
		}
		h[k] = n - 1
	}
	return out
}

func moveKey(msg tea.KeyMsg) (input.Key, bool) {
	k, ok := moveKeys[msg.String()]
	return k, ok
}
