package scene

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/vrlab/internal/vr"
)

const (
	EyeHeight   = 1.6
	CubeSize    = 0.3
	HelixRise   = 0.1
	HelixStep   = 0.2
	ArmRadius   = 0.02
	PendulumGap = 1.5
)

// Rig is the player frame with its camera, controller handles and lasers.
type Rig struct {
	Player ID
	Camera ID
	Hands  [2]ID
	Lasers [2]ID
}

// BuildRig adds a player frame at the origin carrying the camera at eye
// height and both controller handles, each with a laser pointer child.
func BuildRig(g *Graph, laserLength float64) Rig {
	var r Rig
	r.Player = g.Add(Object{Name: "player", Parent: None, Local: Identity()})
	r.Camera = g.Add(Object{Name: "camera", Parent: r.Player, Local: At(mgl64.Vec3{0, EyeHeight, 0})})

	offsets := [2]mgl64.Vec3{{-0.2, 1.2, -0.3}, {0.2, 1.2, -0.3}}
	for _, h := range vr.Hands {
		r.Hands[h] = g.Add(Object{
			Name:   "hand." + h.String(),
			Parent: r.Player,
			Local:  At(offsets[h]),
		})
		laser := Identity()
		laser.Scale = mgl64.Vec3{1, 1, laserLength}
		r.Lasers[h] = g.Add(Object{
			Name:      "laser." + h.String(),
			Parent:    r.Hands[h],
			Local:     laser,
			BaseColor: vr.White,
		})
	}
	return r
}

// AddCubeHelix places n cubes on a helix around the origin, cycling the
// palette for base colours. Cubes are pickable and grabbable.
func AddCubeHelix(g *Graph, n int, radius float64, highlight vr.Color) []ID {
	ids := make([]ID, 0, n)
	for i := 0; i < n; i++ {
		theta := float64(i) * HelixStep
		pos := mgl64.Vec3{radius * math.Cos(theta), float64(i) * HelixRise, radius * math.Sin(theta)}
		ids = append(ids, g.Add(Object{
			Name:           fmt.Sprintf("cube.%d", i),
			Parent:         None,
			Local:          At(pos),
			Shape:          Box(CubeSize),
			BaseColor:      vr.Palette[i%len(vr.Palette)],
			HighlightColor: highlight,
			Pickable:       true,
			Grabbable:      true,
		}))
	}
	return ids
}

// PendulumNodes are the scene objects of one pendulum.
type PendulumNodes struct {
	Pivot ID
	Arm   ID
	Bob   ID
}

// AddPendulum adds a grabbable pivot at pos with an arm and a pickable bob
// hanging length below it.
func AddPendulum(g *Graph, name string, pos mgl64.Vec3, length, bobRadius float64, base, highlight vr.Color) PendulumNodes {
	var n PendulumNodes
	n.Pivot = g.Add(Object{
		Name:      name,
		Parent:    None,
		Local:     At(pos),
		Grabbable: true,
	})
	n.Arm = g.Add(Object{
		Name:      name + ".arm",
		Parent:    n.Pivot,
		Local:     At(mgl64.Vec3{0, -length / 2, 0}),
		BaseColor: base,
	})
	n.Bob = g.Add(Object{
		Name:           name + ".bob",
		Parent:         n.Pivot,
		Local:          At(mgl64.Vec3{0, -length, 0}),
		Shape:          Sphere(bobRadius),
		BaseColor:      base,
		HighlightColor: highlight,
		Pickable:       true,
	})
	return n
}

// PendulumRow returns the pivot positions of a row of count pendulums.
func PendulumRow(count int) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, count)
	for i := range out {
		out[i] = mgl64.Vec3{float64(i)*PendulumGap - 3, 2, -2}
	}
	return out
}
