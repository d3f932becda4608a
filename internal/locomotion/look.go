package locomotion

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// MaxPitch keeps the camera from flipping over.
const MaxPitch = math.Pi / 2

var pitchAxis = mgl64.Vec3{1, 0, 0}

func ClampPitch(p float64) float64 {
	return math.Max(-MaxPitch, math.Min(MaxPitch, p))
}

// Look is mouse-drag look for hosts without a tracked head.
type Look struct {
	Yaw   float64
	Pitch float64
	Speed float64

	dragging     bool
	lastX, lastY float64
}

func NewLook(speed float64) *Look {
	return &Look{Speed: speed}
}

func (l *Look) Dragging() bool { return l.dragging }

func (l *Look) Press(x, y float64) {
	l.dragging = true
	l.lastX, l.lastY = x, y
}

func (l *Look) Release() { l.dragging = false }

// Move feeds a pointer position; it only turns the view while dragging.
func (l *Look) Move(x, y float64) bool {
	if !l.dragging {
		return false
	}
	dx, dy := x-l.lastX, y-l.lastY
	l.lastX, l.lastY = x, y
	l.Drag(dx, dy)
	return dx != 0 || dy != 0
}

// Drag turns the view by a pixel delta. Moving right turns right, moving
// down looks down.
func (l *Look) Drag(dx, dy float64) {
	l.Yaw -= dx * l.Speed
	l.Pitch = ClampPitch(l.Pitch - dy*l.Speed)
}

// Rotation is yaw about Y applied after pitch about X.
func (l *Look) Rotation() mgl64.Quat {
	l.Pitch = ClampPitch(l.Pitch)
	return mgl64.QuatRotate(l.Yaw, mgl64.Vec3{0, 1, 0}).Mul(mgl64.QuatRotate(l.Pitch, pitchAxis))
}
