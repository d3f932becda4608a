package locomotion

import "github.com/san-kum/vrlab/internal/input"

// Keys is the discrete keyboard movement state. Each axis holds the
// direction of the last key pressed on it.
type Keys struct {
	Forward int
	Right   int
}

func (k *Keys) bind(key input.Key) (*int, int, bool) {
	switch key {
	case input.KeyW, input.KeyUpArrow:
		return &k.Forward, 1, true
	case input.KeyS, input.KeyDownArrow:
		return &k.Forward, -1, true
	case input.KeyD, input.KeyRightArrow:
		return &k.Right, 1, true
	case input.KeyA, input.KeyLeftArrow:
		return &k.Right, -1, true
	}
	return nil, 0, false
}

// KeyDown reports whether key is a movement key.
func (k *Keys) KeyDown(key input.Key) bool {
	axis, dir, ok := k.bind(key)
	if ok {
		*axis = dir
	}
	return ok
}

// KeyUp clears the axis only if the released key is the one in effect.
func (k *Keys) KeyUp(key input.Key) bool {
	axis, dir, ok := k.bind(key)
	if ok && *axis == dir {
		*axis = 0
	}
	return ok
}

func (k *Keys) Reset() { *k = Keys{} }

// Input maps the key state onto stick conventions. The strafe basis
// up x forward points to the viewer's left, so Right is negated.
func (k Keys) Input() Input {
	return Input{X: float64(-k.Right), Y: float64(-k.Forward)}
}
