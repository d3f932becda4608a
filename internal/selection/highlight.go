// Package selection tracks the highlighted object of each picking pointer.
//
// An empty pick keeps the previous highlight; call Clear to drop it.
package selection

import (
	"github.com/san-kum/vrlab/internal/pick"
	"github.com/san-kum/vrlab/internal/scene"
	"github.com/san-kum/vrlab/internal/vr"
)

// Highlight is the record of one pointer's current highlight.
type Highlight struct {
	current scene.ID
}

func NewHighlight() *Highlight {
	return &Highlight{current: scene.None}
}

func (h *Highlight) Current() scene.ID { return h.current }

// OnPick highlights the nearest hit and restores the previous object's base
// colour. It reports whether the highlight changed.
func (h *Highlight) OnPick(g *scene.Graph, hits []pick.Hit) bool {
	if len(hits) == 0 {
		return false
	}
	target := hits[0].Object
	if target == h.current {
		return false
	}
	if h.current != scene.None {
		g.ResetColor(h.current)
	}
	obj, ok := g.Get(target)
	if !ok {
		return false
	}
	g.SetColor(target, obj.HighlightColor)
	h.current = target
	return true
}

// Clear restores the highlighted object's base colour and forgets it.
func (h *Highlight) Clear(g *scene.Graph) {
	if h.current != scene.None {
		g.ResetColor(h.current)
	}
	h.current = scene.None
}

// Set holds one highlight per pointer. Pointers may highlight the same
// object; its base colour is restored only when no pointer still holds it.
type Set struct {
	pointers map[vr.Pointer]*Highlight
}

func NewSet() *Set {
	return &Set{pointers: make(map[vr.Pointer]*Highlight)}
}

func (s *Set) For(p vr.Pointer) *Highlight {
	h, ok := s.pointers[p]
	if !ok {
		h = NewHighlight()
		s.pointers[p] = h
	}
	return h
}

// OnPick routes hits to the pointer's highlight and re-applies the
// highlight colour for objects other pointers still hold.
func (s *Set) OnPick(g *scene.Graph, p vr.Pointer, hits []pick.Hit) bool {
	h := s.For(p)
	prev := h.current
	changed := h.OnPick(g, hits)
	if changed && prev != scene.None {
		s.reassert(g, prev)
	}
	return changed
}

func (s *Set) Clear(g *scene.Graph, p vr.Pointer) {
	h := s.For(p)
	prev := h.current
	h.Clear(g)
	if prev != scene.None {
		s.reassert(g, prev)
	}
}

func (s *Set) Current(p vr.Pointer) scene.ID {
	return s.For(p).Current()
}

func (s *Set) reassert(g *scene.Graph, id scene.ID) {
	for _, h := range s.pointers {
		if h.current == id {
			if obj, ok := g.Get(id); ok {
				g.SetColor(id, obj.HighlightColor)
			}
			return
		}
	}
}
