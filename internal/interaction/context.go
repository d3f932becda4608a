// Package interaction runs one tick of the immersive-scene core: input
// snapshot, picking, grab transitions, locomotion, physics and lasers, in
// that order, against an explicit per-session Context.
package interaction

import (
	"github.com/san-kum/vrlab/internal/locomotion"
	"github.com/san-kum/vrlab/internal/selection"
)

// Context is the mutable per-session interaction state that is not part of
// the scene. Grab state lives in the core's grab controller.
type Context struct {
	Highlights *selection.Set
	Keys       locomotion.Keys
	Look       *locomotion.Look

	tick  uint64
	time  float64
	ended bool
}

func NewContext(lookSpeed float64) *Context {
	return &Context{
		Highlights: selection.NewSet(),
		Look:       locomotion.NewLook(lookSpeed),
	}
}

func (c *Context) Ticks() uint64 { return c.tick }
func (c *Context) Time() float64 { return c.time }
func (c *Context) Ended() bool { return c.ended }
