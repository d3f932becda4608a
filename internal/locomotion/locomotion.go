// Package locomotion moves the player frame from stick, keyboard and mouse
// input. Displacements scale with the frame delta so speed does not depend
// on frame rate.
package locomotion

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/vrlab/internal/scene"
	"github.com/san-kum/vrlab/internal/vr"
)

const (
	DefaultMoveSpeed     = 3.0 // m/s
	DefaultRotationSpeed = 1.8 // rad/s
	DefaultDeadZone      = 0.1
	DefaultLookSpeed     = 0.005 // rad/pixel
)

type Config struct {
	MoveSpeed     float64
	RotationSpeed float64
	DeadZone      float64
	LookSpeed     float64
}

func DefaultConfig() Config {
	return Config{
		MoveSpeed:     DefaultMoveSpeed,
		RotationSpeed: DefaultRotationSpeed,
		DeadZone:      DefaultDeadZone,
		LookSpeed:     DefaultLookSpeed,
	}
}

func (c Config) Validate() error {
	switch {
	case c.MoveSpeed < 0:
		return &vr.BoundsError{Param: "move_speed", Value: c.MoveSpeed}
	case c.RotationSpeed < 0:
		return &vr.BoundsError{Param: "rotation_speed", Value: c.RotationSpeed}
	case c.DeadZone < 0 || c.DeadZone >= 1:
		return &vr.BoundsError{Param: "dead_zone", Value: c.DeadZone}
	case c.LookSpeed < 0:
		return &vr.BoundsError{Param: "look_speed", Value: c.LookSpeed}
	}
	return nil
}

// ApplyDeadZone zeroes v when its magnitude is below dz.
func ApplyDeadZone(v, dz float64) float64 {
	if math.Abs(v) < dz {
		return 0
	}
	return v
}

// Input is one tick of analog locomotion: Rotate turns the player, X strafes
// and Y moves (negative Y is forward, as sticks report it).
type Input struct {
	Rotate float64
	X, Y   float64
}

func (in Input) IsZero() bool { return in.Rotate == 0 && in.X == 0 && in.Y == 0 }

func (in Input) Add(o Input) Input {
	return Input{
		Rotate: clampUnit(in.Rotate + o.Rotate),
		X:      clampUnit(in.X + o.X),
		Y:      clampUnit(in.Y + o.Y),
	}
}

// Delta is what an update did to the player frame.
type Delta struct {
	Yaw         float64
	Translation mgl64.Vec3
}

// Mover applies locomotion to a player frame and tracks its accumulated yaw.
type Mover struct {
	cfg Config
	yaw float64
}

func NewMover(cfg Config) *Mover {
	return &Mover{cfg: cfg}
}

func (m *Mover) Config() Config { return m.cfg }
func (m *Mover) Yaw() float64 { return m.yaw }

// Update turns and translates player for one tick. The translation basis is
// the camera's forward flattened onto the ground and right = up x forward.
// Nothing is written when the filtered input is zero.
func (m *Mover) Update(g *scene.Graph, player, camera scene.ID, in Input, dt float64) (Delta, error) {
	var d Delta
	rotate := ApplyDeadZone(in.Rotate, m.cfg.DeadZone)
	x := ApplyDeadZone(in.X, m.cfg.DeadZone)
	y := ApplyDeadZone(in.Y, m.cfg.DeadZone)

	if rotate != 0 {
		d.Yaw = -rotate * m.cfg.RotationSpeed * dt
		q := mgl64.QuatRotate(d.Yaw, scene.Up).Mul(g.Local(player).Rotation)
		if err := g.SetLocalRotation(player, q, scene.WriterLocomotion); err != nil {
			return Delta{}, fmt.Errorf("locomotion rotate: %w", err)
		}
		m.yaw += d.Yaw
	}

	if x == 0 && y == 0 {
		return d, nil
	}

	forward, right, ok := Basis(g.WorldForward(camera))
	if !ok {
		return d, nil
	}
	step := m.cfg.MoveSpeed * dt
	d.Translation = forward.Mul(-y * step).Add(right.Mul(x * step))

	pos := g.WorldPosition(player).Add(d.Translation)
	if err := g.SetWorldPosition(player, pos, scene.WriterLocomotion); err != nil {
		return Delta{}, fmt.Errorf("locomotion translate: %w", err)
	}
	return d, nil
}

// Basis flattens a view direction onto the ground plane. It fails when the
// view is vertical.
func Basis(view mgl64.Vec3) (forward, right mgl64.Vec3, ok bool) {
	forward = mgl64.Vec3{view.X(), 0, view.Z()}
	if forward.Len() < 1e-9 {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	forward = forward.Normalize()
	right = scene.Up.Cross(forward).Normalize()
	return forward, right, true
}

// Thumbstick picks the stick axes out of a controller's axis array. Newer
// runtimes report the touchpad first and the stick in [2] and [3].
func Thumbstick(axes []float64) (x, y float64, ok bool) {
	switch {
	case len(axes) >= 4:
		return axes[2], axes[3], true
	case len(axes) >= 2:
		return axes[0], axes[1], true
	}
	return 0, 0, false
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
