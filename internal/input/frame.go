package input

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/vrlab/internal/vr"
)

// Pose is a position and orientation relative to the player frame.
type Pose struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
}

func IdentityPose() Pose {
	return Pose{Orientation: mgl64.QuatIdent()}
}

// HandInput is what one tracked controller reports in a frame.
type HandInput struct {
	Connected  bool
	Handedness vr.Hand
	Pose       Pose
	Axes       []float64
}

type Viewport struct {
	W, H float64
}

func (v Viewport) Aspect() float64 {
	if v.W <= 0 || v.H <= 0 {
		return 1
	}
	return v.W / v.H
}

// Frame is the immutable per-tick input snapshot. Hands is indexed by
// vr.Hand. Head is only meaningful when HasHead is set; without it the
// camera follows mouse look.
type Frame struct {
	Dt       float64
	Hands    [2]HandInput
	Head     Pose
	HasHead  bool
	Viewport Viewport
	Events   []Event
}

// AssignHands slots reported sources by handedness. Sources without a
// handedness fill the first free slot, left first; extras are dropped.
func AssignHands(sources []HandInput) [2]HandInput {
	var out [2]HandInput
	var pending []HandInput
	for _, s := range sources {
		if !s.Connected {
			continue
		}
		if s.Handedness.Valid() && !out[s.Handedness].Connected {
			out[s.Handedness] = s
			continue
		}
		pending = append(pending, s)
	}
	for _, s := range pending {
		for _, h := range vr.Hands {
			if !out[h].Connected {
				s.Handedness = h
				out[h] = s
				break
			}
		}
	}
	return out
}
