package vr

import (
	"errors"
	"fmt"
)

// Domain errors for the interaction core.
var (
	// ErrNoCamera indicates the rig has no primary camera.
	ErrNoCamera = errors.New("vr: no camera in rig")

	// ErrNoPlayerFrame indicates the rig has no movable player frame.
	ErrNoPlayerFrame = errors.New("vr: no player frame in rig")

	// ErrNoPickables indicates the scene has no pickable objects.
	ErrNoPickables = errors.New("vr: scene has no pickable objects")

	// ErrUnknownObject indicates an id outside the scene arena.
	ErrUnknownObject = errors.New("vr: unknown scene object")

	// ErrCycle indicates a reparent that would make an object its own ancestor.
	ErrCycle = errors.New("vr: reparent would create a cycle")

	// ErrWriteConflict indicates a second writer touched an object's transform in one tick.
	ErrWriteConflict = errors.New("vr: transform written by two owners in one tick")

	// ErrParameterBounds indicates a tunable outside its valid range.
	ErrParameterBounds = errors.New("vr: parameter out of valid bounds")

	// ErrUnknownHand indicates a controller index other than left or right.
	ErrUnknownHand = errors.New("vr: unknown hand")
)

// SimError reports a numeric failure during pendulum integration.
type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

// BoundsError wraps ErrParameterBounds with the offending parameter.
type BoundsError struct {
	Param string
	Value float64
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("%s: %s=%g", ErrParameterBounds, e.Param, e.Value)
}

func (e *BoundsError) Unwrap() error {
	return ErrParameterBounds
}
