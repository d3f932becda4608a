package automation

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/san-kum/vrlab/internal/input"
	"github.com/san-kum/vrlab/internal/interaction"
	"github.com/san-kum/vrlab/internal/scene"
	"github.com/san-kum/vrlab/internal/vr"
)

// Observer sees every tick report in order.
type Observer interface {
	OnTick(rep interaction.Report)
}

type ObserverFunc func(rep interaction.Report)

func (f ObserverFunc) OnTick(rep interaction.Report) { f(rep) }

type Summary struct {
	Ticks    int
	Grabs    int
	Releases int
	Final    interaction.Report
}

var defaultViewport = input.Viewport{W: 800, H: 600}

// Run feeds the scenario to the core one frame per tick. It stops early on
// cancellation or when a tick ends the session.
func Run(ctx context.Context, core *interaction.Core, ic *interaction.Context, sc *Scenario, obs Observer, logger *zap.Logger) (*Summary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	logger = logger.Named("automation").With(zap.String("scenario", sc.Name))

	viewport := defaultViewport
	if len(sc.Viewport) == 2 {
		viewport = input.Viewport{W: sc.Viewport[0], H: sc.Viewport[1]}
	}

	g := core.Graph()
	rig := core.Rig()
	hands, err := startHands(g, rig, sc.Sources)
	if err != nil {
		return nil, err
	}
	logger.Debug("session started",
		zap.Bool("left", hands[vr.Left].Connected),
		zap.Bool("right", hands[vr.Right].Connected))

	summary := &Summary{}
	for i, step := range sc.Steps {
		for _, h := range vr.Hands {
			if err := applyHand(g, rig, &hands[h], step.hand(h)); err != nil {
				return summary, fmt.Errorf("step %d: %w", i+1, err)
			}
		}

		for r := 0; r < max(step.Repeat, 1); r++ {
			select {
			case <-ctx.Done():
				return summary, ctx.Err()
			default:
			}

			f := input.Frame{
				Dt:       step.Dt,
				Hands:    hands,
				Viewport: viewport,
			}
			if len(step.Head) == 3 {
				f.HasHead = true
				f.Head = input.Pose{Position: vec(step.Head), Orientation: mgl64.QuatIdent()}
			}
			if r == 0 {
				if f.Events, err = stepEvents(step); err != nil {
					return summary, fmt.Errorf("step %d: %w", i+1, err)
				}
			}

			rep, err := core.Tick(ic, f)
			if err != nil {
				return summary, fmt.Errorf("step %d tick %d: %w", i+1, rep.Tick, err)
			}
			summary.Ticks++
			summary.Grabs += len(rep.Grabbed)
			summary.Releases += len(rep.Released)
			summary.Final = rep
			if obs != nil {
				obs.OnTick(rep)
			}

			for _, c := range rep.Grabbed {
				logger.Debug("grabbed", zap.Stringer("hand", c.Hand), zap.String("object", c.Name), zap.Uint64("tick", rep.Tick))
			}
			if rep.Ended {
				logger.Info("session ended by scenario", zap.Int("ticks", summary.Ticks))
				return summary, nil
			}
		}
	}
	logger.Info("scenario complete",
		zap.Int("ticks", summary.Ticks),
		zap.Int("grabs", summary.Grabs),
		zap.Int("releases", summary.Releases))
	return summary, nil
}

// startHands slots the scenario's sources into hands. Without sources both
// controllers start connected at their rest positions; a hand no source
// claimed starts disconnected there.
func startHands(g *scene.Graph, rig scene.Rig, sources []Source) ([2]input.HandInput, error) {
	var hands [2]input.HandInput
	if len(sources) > 0 {
		reported := make([]input.HandInput, 0, len(sources))
		for i, src := range sources {
			in, err := src.input()
			if err != nil {
				return hands, fmt.Errorf("source %d: %w", i+1, err)
			}
			reported = append(reported, in)
		}
		hands = input.AssignHands(reported)
	}
	for _, h := range vr.Hands {
		if hands[h].Connected {
			continue
		}
		hands[h] = input.HandInput{
			Connected:  len(sources) == 0,
			Handedness: h,
			Pose:       input.Pose{Position: g.Local(rig.Hands[h]).Position, Orientation: mgl64.QuatIdent()},
		}
	}
	return hands, nil
}

func stepEvents(step Step) ([]input.Event, error) {
	events := make([]input.Event, 0, len(step.Events)+3)
	for _, s := range step.Events {
		e, err := ParseEvent(s)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if len(step.Drag) == 2 {
		events = append(events,
			input.Mouse(input.MouseDown, 0, 0, input.ButtonLeft),
			input.Mouse(input.MouseMove, step.Drag[0], step.Drag[1], input.ButtonLeft),
			input.Mouse(input.MouseUp, step.Drag[0], step.Drag[1], input.ButtonLeft),
		)
	}
	return events, nil
}

func applyHand(g *scene.Graph, rig scene.Rig, in *input.HandInput, spec *HandSpec) error {
	if spec == nil {
		return nil
	}
	if spec.Connected != nil {
		in.Connected = *spec.Connected
	}
	if len(spec.Position) == 3 {
		in.Pose.Position = vec(spec.Position)
	}
	if spec.Axes != nil {
		in.Axes = append([]float64(nil), spec.Axes...)
	}
	if spec.Aim != "" {
		target := g.Find(spec.Aim)
		if target == scene.None {
			return fmt.Errorf("%w: aim target %q", vr.ErrUnknownObject, spec.Aim)
		}
		in.Pose.Orientation = aim(g, rig.Player, in.Pose.Position, g.WorldPosition(target))
	}
	return nil
}

// aim returns the player-relative orientation that points a controller at
// local position from along -Z toward the world point to.
func aim(g *scene.Graph, player scene.ID, from, to mgl64.Vec3) mgl64.Quat {
	world := g.World(player).Mul4x1(from.Vec4(1)).Vec3()
	dir := to.Sub(world)
	if dir.Len() < 1e-9 {
		return mgl64.QuatIdent()
	}
	rot := mgl64.QuatBetweenVectors(scene.Forward, dir.Normalize())
	return g.WorldRotation(player).Inverse().Mul(rot).Normalize()
}

func vec(v []float64) mgl64.Vec3 {
	return mgl64.Vec3{v[0], v[1], v[2]}
}
