// Package input is the boundary between the host and the interaction core:
// poses, axes and discrete events arrive here and are snapshotted once per
// tick.
package input

import (
	"fmt"
	"strings"

	"github.com/san-kum/vrlab/internal/vr"
)

type Kind int

const (
	SelectStart Kind = iota
	SelectEnd
	KeyDown
	KeyUp
	MouseDown
	MouseUp
	MouseMove
	Click
	SessionEnd
)

var kindNames = [...]string{
	SelectStart: "select_start",
	SelectEnd:   "select_end",
	KeyDown:     "key_down",
	KeyUp:       "key_up",
	MouseDown:   "mouse_down",
	MouseUp:     "mouse_up",
	MouseMove:   "mouse_move",
	Click:       "click",
	SessionEnd:  "session_end",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown event kind: %q", s)
}

type Key int

const (
	KeyNone Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyUpArrow
	KeyDownArrow
	KeyLeftArrow
	KeyRightArrow
)

var keyNames = map[string]Key{
	"w":     KeyW,
	"a":     KeyA,
	"s":     KeyS,
	"d":     KeyD,
	"up":    KeyUpArrow,
	"down":  KeyDownArrow,
	"left":  KeyLeftArrow,
	"right": KeyRightArrow,
}

func (k Key) String() string {
	for name, v := range keyNames {
		if v == k {
			return name
		}
	}
	return "none"
}

// ParseKey accepts the names used by terminals and scenario files, case
// insensitive.
func ParseKey(s string) (Key, error) {
	if k, ok := keyNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return k, nil
	}
	return KeyNone, fmt.Errorf("unknown key: %q", s)
}

// Mouse buttons.
const (
	ButtonLeft = iota
	ButtonMiddle
	ButtonRight
)

// Event is one discrete input. Hand is set for select events, Key for key
// events, X/Y (pixels) and Button for mouse events.
type Event struct {
	Kind   Kind
	Hand   vr.Hand
	Key    Key
	X, Y   float64
	Button int
}

func Select(h vr.Hand, start bool) Event {
	if start {
		return Event{Kind: SelectStart, Hand: h}
	}
	return Event{Kind: SelectEnd, Hand: h}
}

func KeyEvent(k Key, down bool) Event {
	if down {
		return Event{Kind: KeyDown, Hand: vr.NoHand, Key: k}
	}
	return Event{Kind: KeyUp, Hand: vr.NoHand, Key: k}
}

func Mouse(kind Kind, x, y float64, button int) Event {
	return Event{Kind: kind, Hand: vr.NoHand, X: x, Y: y, Button: button}
}

func (e Event) String() string {
	switch e.Kind {
	case SelectStart, SelectEnd:
		return fmt.Sprintf("%s(%s)", e.Kind, e.Hand)
	case KeyDown, KeyUp:
		return fmt.Sprintf("%s(%s)", e.Kind, e.Key)
	case SessionEnd:
		return e.Kind.String()
	}
	return fmt.Sprintf("%s(%.0f,%.0f)", e.Kind, e.X, e.Y)
}
