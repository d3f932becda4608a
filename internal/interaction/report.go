package interaction

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/vrlab/internal/pick"
	"github.com/san-kum/vrlab/internal/scene"
	"github.com/san-kum/vrlab/internal/vr"
)

type GrabChange struct {
	Hand   vr.Hand
	Object scene.ID
	Name   string
}

type PendulumSample struct {
	Pivot    scene.ID
	Angle    float64
	Velocity float64
	HeldBy   vr.Hand
}

// Report summarises what one tick did. Arrays are indexed by vr.Hand or
// vr.Pointer.
type Report struct {
	Tick uint64
	Time float64
	Dt   float64

	Hits      [2][]pick.Hit
	MouseHits []pick.Hit
	Grabbed   []GrabChange
	Released  []GrabChange
	Held      [2]scene.ID
	Highlight [3]scene.ID
	Lasers    [2]float64

	Player    mgl64.Vec3
	Yaw       float64
	Pitch     float64
	Pendulums []PendulumSample
	Ended     bool
}

// Snapshot is the render-facing output of the scene after a tick.
func Snapshot(g *scene.Graph) []scene.Output {
	return g.Snapshot()
}
