package interaction

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/san-kum/vrlab/internal/config"
	"github.com/san-kum/vrlab/internal/grab"
	"github.com/san-kum/vrlab/internal/input"
	"github.com/san-kum/vrlab/internal/locomotion"
	"github.com/san-kum/vrlab/internal/pick"
	"github.com/san-kum/vrlab/internal/scene"
	"github.com/san-kum/vrlab/internal/sim"
	"github.com/san-kum/vrlab/internal/vr"
)

// Core owns the components of the interaction tick. The scene graph is
// shared with the host, which reads it between ticks.
type Core struct {
	cfg       *config.Config
	graph     *scene.Graph
	rig       scene.Rig
	picker    *pick.Picker
	grab      *grab.Controller
	mover     *locomotion.Mover
	sim       *sim.Simulator
	lens      pick.Lens
	pickables []scene.ID
	logger    *zap.Logger
}

// New validates the scene and wires the components. A nil simulator gets an
// empty one.
func New(cfg *config.Config, g *scene.Graph, rig scene.Rig, s *sim.Simulator, logger *zap.Logger) (*Core, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if !g.Valid(rig.Camera) {
		return nil, vr.ErrNoCamera
	}
	if !g.Valid(rig.Player) {
		return nil, vr.ErrNoPlayerFrame
	}
	for _, h := range vr.Hands {
		if !g.Valid(rig.Hands[h]) {
			return nil, fmt.Errorf("%w: %s controller", vr.ErrUnknownObject, h)
		}
	}
	pickables := g.Pickables()
	if len(pickables) == 0 {
		return nil, vr.ErrNoPickables
	}
	if s == nil {
		s = sim.New(g, logger)
	}

	c := &Core{
		cfg:       cfg,
		graph:     g,
		rig:       rig,
		picker:    pick.New(g, cfg.PickRange),
		grab:      grab.New(g, rig.Hands, cfg.GrabSmoothing, logger),
		mover:     locomotion.NewMover(cfg.Locomotion()),
		sim:       s,
		lens:      pick.DefaultLens(1),
		pickables: pickables,
		logger:    logger.Named("core"),
	}
	c.grab.AddListener(s)
	return c, nil
}

func (c *Core) Graph() *scene.Graph { return c.graph }
func (c *Core) Rig() scene.Rig { return c.rig }
func (c *Core) Grab() *grab.Controller { return c.grab }
func (c *Core) Sim() *sim.Simulator { return c.sim }
func (c *Core) Lens() pick.Lens { return c.lens }
func (c *Core) Config() *config.Config { return c.cfg }

// NewContext returns a session context matching the core's tuning.
func (c *Core) NewContext() *Context {
	return NewContext(c.cfg.LookSpeed)
}

var pointers = [...]vr.Pointer{vr.PointerMouse, vr.PointerLeft, vr.PointerRight}

// tickEvents keeps each hand's select events in arrival order. Hands are
// evaluated left before right.
type tickEvents struct {
	selects    []input.Event
	clicks     []input.Event
	sessionEnd bool
}

// Tick advances the session by one frame. Per-tick input problems such as
// short axis arrays or empty picks are logged and skipped; only scene
// invariant violations are returned.
func (c *Core) Tick(ic *Context, f input.Frame) (Report, error) {
	dt := f.Dt
	if dt <= 0 {
		dt = c.cfg.Dt
	}
	ic.tick++
	ic.time += dt
	c.graph.BeginTick()

	rep := Report{Tick: ic.tick, Time: ic.time, Dt: dt}

	if err := c.snapshotPoses(f); err != nil {
		return rep, err
	}
	ev := c.readEvents(ic, f.Events)

	c.selectTargets(ic, f, ev, &rep)

	if err := c.transitions(ic, ev, &rep); err != nil {
		return rep, err
	}

	if err := c.locomote(ic, f, dt); err != nil {
		return rep, err
	}

	if err := c.grab.Follow(); err != nil {
		return rep, err
	}
	if err := c.sim.Step(dt); err != nil {
		return rep, err
	}

	if err := c.updateLasers(f, &rep); err != nil {
		return rep, err
	}

	c.fillReport(ic, &rep)
	return rep, nil
}

func (c *Core) snapshotPoses(f input.Frame) error {
	for _, h := range vr.Hands {
		in := f.Hands[h]
		if !in.Connected {
			continue
		}
		if err := c.graph.SetLocal(c.rig.Hands[h], poseTransform(in.Pose), scene.WriterHost); err != nil {
			return err
		}
	}
	if f.HasHead {
		if err := c.graph.SetLocal(c.rig.Camera, poseTransform(f.Head), scene.WriterHost); err != nil {
			return err
		}
	}
	if f.Viewport.W > 0 && f.Viewport.H > 0 {
		c.lens.Aspect = f.Viewport.Aspect()
	}
	return nil
}

func poseTransform(p input.Pose) scene.Transform {
	t := scene.At(p.Position)
	if p.Orientation != (mgl64.Quat{}) {
		t.Rotation = p.Orientation.Normalize()
	}
	return t
}

func (c *Core) readEvents(ic *Context, events []input.Event) tickEvents {
	var ev tickEvents
	for _, e := range events {
		switch e.Kind {
		case input.SelectStart, input.SelectEnd:
			if !e.Hand.Valid() {
				c.logger.Debug("select without hand", zap.Stringer("event", e))
				continue
			}
			ev.selects = append(ev.selects, e)
		case input.KeyDown:
			ic.Keys.KeyDown(e.Key)
		case input.KeyUp:
			ic.Keys.KeyUp(e.Key)
		case input.MouseDown:
			ic.Look.Press(e.X, e.Y)
		case input.MouseMove:
			ic.Look.Move(e.X, e.Y)
		case input.MouseUp:
			ic.Look.Release()
		case input.Click:
			ev.clicks = append(ev.clicks, e)
		case input.SessionEnd:
			ev.sessionEnd = true
		}
	}
	sort.SliceStable(ev.selects, func(i, j int) bool {
		return ev.selects[i].Hand < ev.selects[j].Hand
	})
	return ev
}

func (c *Core) selectTargets(ic *Context, f input.Frame, ev tickEvents, rep *Report) {
	var picked [2]bool
	for _, e := range ev.selects {
		h := e.Hand
		if e.Kind != input.SelectStart || picked[h] {
			continue
		}
		picked[h] = true
		hits := c.picker.Pick(pick.FromController(c.graph, c.rig.Hands[h]), c.pickables)
		rep.Hits[h] = hits
		if len(hits) == 0 {
			c.logger.Debug("no intersection", zap.Stringer("hand", h))
		}
		ic.Highlights.OnPick(c.graph, vr.PointerFor(h), hits)
	}

	for _, e := range ev.clicks {
		ray := pick.FromScreen(c.graph, c.rig.Camera, c.lens, e.X, e.Y, f.Viewport.W, f.Viewport.H)
		hits := pick.Cast(c.graph, ray, c.pickables, 0)
		rep.MouseHits = hits
		ic.Highlights.OnPick(c.graph, vr.PointerMouse, hits)
	}
}

func (c *Core) transitions(ic *Context, ev tickEvents, rep *Report) error {
	for _, e := range ev.selects {
		h := e.Hand
		if e.Kind == input.SelectEnd {
			if err := c.release(h, rep); err != nil {
				return err
			}
			continue
		}
		ok, err := c.grab.Begin(h, rep.Hits[h])
		if err != nil {
			return err
		}
		if ok {
			rep.Grabbed = append(rep.Grabbed, c.change(h))
		}
	}

	if ev.sessionEnd {
		for _, h := range vr.Hands {
			if err := c.release(h, rep); err != nil {
				return err
			}
		}
		for _, p := range pointers {
			ic.Highlights.Clear(c.graph, p)
		}
		ic.Keys.Reset()
		ic.Look.Release()
		ic.ended = true
		c.logger.Info("session ended", zap.Uint64("tick", ic.tick))
	}
	return nil
}

func (c *Core) release(h vr.Hand, rep *Report) error {
	held := c.change(h)
	ok, err := c.grab.End(h)
	if err != nil {
		return err
	}
	if ok {
		rep.Released = append(rep.Released, held)
	}
	return nil
}

func (c *Core) change(h vr.Hand) GrabChange {
	id := c.grab.Hand(h).Held()
	return GrabChange{Hand: h, Object: id, Name: c.graph.Name(id)}
}

func (c *Core) locomote(ic *Context, f input.Frame, dt float64) error {
	var in locomotion.Input
	if left := f.Hands[vr.Left]; left.Connected {
		if x, _, ok := locomotion.Thumbstick(left.Axes); ok {
			in.Rotate = x
		} else {
			c.logger.Debug("left controller has no stick", zap.Int("axes", len(left.Axes)))
		}
	}
	if right := f.Hands[vr.Right]; right.Connected {
		if x, y, ok := locomotion.Thumbstick(right.Axes); ok {
			in.X, in.Y = x, y
		} else {
			c.logger.Debug("right controller has no stick", zap.Int("axes", len(right.Axes)))
		}
	}
	in = in.Add(ic.Keys.Input())

	if _, err := c.mover.Update(c.graph, c.rig.Player, c.rig.Camera, in, dt); err != nil {
		return err
	}

	if !f.HasHead {
		if err := c.graph.SetLocalRotation(c.rig.Camera, ic.Look.Rotation(), scene.WriterLocomotion); err != nil {
			return err
		}
	}
	return nil
}

func (c *Core) updateLasers(f input.Frame, rep *Report) error {
	for _, h := range vr.Hands {
		length := c.cfg.LaserLength
		if f.Hands[h].Connected {
			hits := c.picker.Pick(pick.FromController(c.graph, c.rig.Hands[h]), c.pickables)
			if len(hits) > 0 {
				length = hits[0].Distance
			}
		}
		rep.Lasers[h] = length
		if err := c.graph.SetLocalScale(c.rig.Lasers[h], laserScale(length), scene.WriterHost); err != nil {
			return err
		}
	}
	return nil
}

func (c *Core) fillReport(ic *Context, rep *Report) {
	for _, h := range vr.Hands {
		rep.Held[h] = c.grab.Hand(h).Held()
	}
	for _, p := range pointers {
		rep.Highlight[p] = ic.Highlights.Current(p)
	}
	rep.Player = c.graph.WorldPosition(c.rig.Player)
	rep.Yaw = c.mover.Yaw()
	rep.Pitch = ic.Look.Pitch
	for _, b := range c.sim.Bodies() {
		rep.Pendulums = append(rep.Pendulums, PendulumSample{
			Pivot:    b.Pivot,
			Angle:    b.State.Angle,
			Velocity: b.State.Velocity,
			HeldBy:   b.HeldBy,
		})
	}
	rep.Ended = ic.ended
}
