package sim

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/san-kum/vrlab/internal/physics"
	"github.com/san-kum/vrlab/internal/scene"
	"github.com/san-kum/vrlab/internal/vr"
)

var swingAxis = mgl64.Vec3{0, 0, 1}

// Body is one pendulum in the scene. The pivot's local rotation is Base
// followed by the swing angle about Z; the bob hangs from it.
type Body struct {
	Pivot  scene.ID
	Bob    scene.ID
	Model  physics.Pendulum
	State  physics.State
	Base   mgl64.Quat
	HeldBy vr.Hand
}

func (b *Body) rotation() mgl64.Quat {
	return b.Base.Mul(mgl64.QuatRotate(b.State.Angle, swingAxis))
}

// swingTwist splits q into base * twist, where twist turns about Z, and
// returns the base with the twist angle in (-pi, pi].
func swingTwist(q mgl64.Quat) (mgl64.Quat, float64) {
	q = q.Normalize()
	twist := mgl64.Quat{W: q.W, V: mgl64.Vec3{0, 0, q.V.Z()}}
	if twist.Len() < 1e-9 {
		// half-turn about an axis in the XY plane, no Z component to keep
		return q, 0
	}
	twist = twist.Normalize()
	angle := math.Remainder(2*math.Atan2(twist.V.Z(), twist.W), 2*math.Pi)
	return q.Mul(mgl64.QuatRotate(angle, swingAxis).Inverse()), angle
}

// Simulator steps every pendulum in a scene once per tick. A held body is
// frozen; grabbing always wins over integration.
type Simulator struct {
	graph  *scene.Graph
	bodies []Body
	index  map[scene.ID]int
	time   float64
	logger *zap.Logger
}

func New(g *scene.Graph, logger *zap.Logger) *Simulator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Simulator{
		graph:  g,
		index:  make(map[scene.ID]int),
		logger: logger.Named("sim"),
	}
}

// Add registers a pendulum and poses its pivot at the initial angle.
func (s *Simulator) Add(nodes scene.PendulumNodes, model physics.Pendulum, angle float64) error {
	if err := model.Validate(); err != nil {
		return fmt.Errorf("pendulum %s: %w", s.graph.Name(nodes.Pivot), err)
	}
	if !s.graph.Valid(nodes.Pivot) || !s.graph.Valid(nodes.Bob) {
		return fmt.Errorf("%w: pendulum %d/%d", vr.ErrUnknownObject, nodes.Pivot, nodes.Bob)
	}

	b := Body{
		Pivot:  nodes.Pivot,
		Bob:    nodes.Bob,
		Model:  model,
		State:  physics.State{Angle: angle},
		Base:   mgl64.QuatIdent(),
		HeldBy: vr.NoHand,
	}
	if err := s.graph.SetLocalRotation(b.Pivot, b.rotation(), scene.WriterHost); err != nil {
		return err
	}
	s.index[b.Pivot] = len(s.bodies)
	s.index[b.Bob] = len(s.bodies)
	s.bodies = append(s.bodies, b)
	return nil
}

func (s *Simulator) Len() int { return len(s.bodies) }

func (s *Simulator) Time() float64 { return s.time }

// Bodies returns a copy of every body.
func (s *Simulator) Bodies() []Body {
	out := make([]Body, len(s.bodies))
	copy(out, s.bodies)
	return out
}

// Body looks a body up by its pivot or bob.
func (s *Simulator) Body(id scene.ID) (Body, bool) {
	i, ok := s.index[id]
	if !ok {
		return Body{}, false
	}
	return s.bodies[i], true
}

// Step integrates every free body and writes its pivot rotation. Bodies that
// are held, or whose pivot another writer claimed this tick, are skipped.
func (s *Simulator) Step(dt float64) error {
	for i := range s.bodies {
		b := &s.bodies[i]
		if b.HeldBy.Valid() {
			continue
		}
		if owner, ok := s.graph.Owner(b.Pivot); ok && owner != scene.WriterPendulum {
			s.logger.Debug("pivot written this tick, skipping",
				zap.String("pivot", s.graph.Name(b.Pivot)),
				zap.Stringer("owner", owner))
			continue
		}

		next := b.Model.Step(b.State, dt)
		if !next.Valid() {
			return vr.SimError{Time: s.time, Step: i, Message: "invalid pendulum state (NaN/Inf)"}
		}
		b.State = next

		if err := s.graph.SetLocalRotation(b.Pivot, b.rotation(), scene.WriterPendulum); err != nil {
			return err
		}
	}
	s.time += dt
	return nil
}

// OnGrab freezes the grabbed body.
func (s *Simulator) OnGrab(hand vr.Hand, object scene.ID) {
	i, ok := s.index[object]
	if !ok {
		return
	}
	s.bodies[i].HeldBy = hand
	s.logger.Debug("pendulum grabbed", zap.String("pivot", s.graph.Name(s.bodies[i].Pivot)), zap.Stringer("hand", hand))
}

// OnRelease lets the body swing again from rest where the hand left it.
// Whatever the controller turned the pivot by is kept as the new base, and
// the Z twist becomes the swing angle.
func (s *Simulator) OnRelease(hand vr.Hand, object scene.ID) {
	i, ok := s.index[object]
	if !ok || s.bodies[i].HeldBy != hand {
		return
	}
	b := &s.bodies[i]
	b.HeldBy = vr.NoHand
	b.Base, b.State.Angle = swingTwist(s.graph.Local(b.Pivot).Rotation)
	b.State = b.State.Rest()
	s.logger.Debug("pendulum released", zap.String("pivot", s.graph.Name(b.Pivot)), zap.Float64("angle", b.State.Angle))
}
