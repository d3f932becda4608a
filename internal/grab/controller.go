// Package grab implements the per-hand grab state machine: a hand that
// selects a grabbable object takes it over until it releases it.
package grab

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/vrlab/internal/pick"
	"github.com/san-kum/vrlab/internal/scene"
	"github.com/san-kum/vrlab/internal/vr"
)

// DefaultSmoothing is the per-tick lerp factor pulling a held object toward
// its controller.
const DefaultSmoothing = 0.5

type State int

const (
	Idle State = iota
	Holding
)

func (s State) String() string {
	if s == Holding {
		return "holding"
	}
	return "idle"
}

// Listener is told when an object changes hands. The pendulum simulator
// uses it to freeze and reset bodies.
type Listener interface {
	OnGrab(hand vr.Hand, object scene.ID)
	OnRelease(hand vr.Hand, object scene.ID)
}

// Hand is the grab state of one controller.
type Hand struct {
	Index vr.Hand
	Node  scene.ID

	state          State
	held           scene.ID
	originalParent scene.ID
}

func (h Hand) State() State { return h.state }
func (h Hand) Held() scene.ID { return h.held }
func (h Hand) Holding() bool { return h.state == Holding }

type Controller struct {
	graph     *scene.Graph
	hands     [2]Hand
	smoothing float64
	listeners []Listener
	logger    *zap.Logger
}

// New returns a controller for the two controller nodes, indexed by vr.Hand.
// A nil logger is replaced by a no-op one.
func New(g *scene.Graph, nodes [2]scene.ID, smoothing float64, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Controller{
		graph:     g,
		smoothing: smoothing,
		logger:    logger.Named("grab"),
	}
	for _, h := range vr.Hands {
		c.hands[h] = Hand{Index: h, Node: nodes[h], held: scene.None, originalParent: scene.None}
	}
	return c
}

func (c *Controller) AddListener(l Listener) {
	c.listeners = append(c.listeners, l)
}

// Hand returns a copy of the hand's state.
func (c *Controller) Hand(h vr.Hand) Hand {
	if !h.Valid() {
		return Hand{Index: vr.NoHand, Node: scene.None, held: scene.None, originalParent: scene.None}
	}
	return c.hands[h]
}

func (c *Controller) Smoothing() float64 { return c.smoothing }

// HeldBy reports which hand holds object, if any.
func (c *Controller) HeldBy(object scene.ID) (vr.Hand, bool) {
	for _, h := range vr.Hands {
		if c.hands[h].state == Holding && c.hands[h].held == object {
			return h, true
		}
	}
	return vr.NoHand, false
}

// Begin starts a grab with the nearest hit. It reports false when the hand
// is already holding, nothing was hit, the hit has no grabbable root, or the
// other hand already holds that root.
func (c *Controller) Begin(h vr.Hand, hits []pick.Hit) (bool, error) {
	if !h.Valid() {
		return false, fmt.Errorf("%w: %d", vr.ErrUnknownHand, h)
	}
	hand := &c.hands[h]
	if hand.state == Holding {
		c.logger.Debug("hand already holding", zap.Stringer("hand", h))
		return false, nil
	}
	if len(hits) == 0 {
		return false, nil
	}

	target := c.graph.GrabRoot(hits[0].Object)
	if target == scene.None {
		c.logger.Debug("hit is not grabbable", zap.String("object", c.graph.Name(hits[0].Object)))
		return false, nil
	}
	if other, held := c.HeldBy(target); held {
		c.logger.Debug("object held by other hand",
			zap.String("object", c.graph.Name(target)),
			zap.Stringer("holder", other),
			zap.Stringer("hand", h))
		return false, nil
	}

	parent := c.graph.Parent(target)
	if err := c.graph.Attach(target, hand.Node, scene.WriterGrab); err != nil {
		return false, fmt.Errorf("grab %s: %w", c.graph.Name(target), err)
	}
	hand.state = Holding
	hand.held = target
	hand.originalParent = parent

	c.logger.Debug("grab", zap.Stringer("hand", h), zap.String("object", c.graph.Name(target)))
	for _, l := range c.listeners {
		l.OnGrab(h, target)
	}
	return true, nil
}

// End releases whatever the hand holds back to its original parent.
func (c *Controller) End(h vr.Hand) (bool, error) {
	if !h.Valid() {
		return false, fmt.Errorf("%w: %d", vr.ErrUnknownHand, h)
	}
	hand := &c.hands[h]
	if hand.state != Holding {
		return false, nil
	}

	object := hand.held
	if err := c.graph.Attach(object, hand.originalParent, scene.WriterGrab); err != nil {
		return false, fmt.Errorf("release %s: %w", c.graph.Name(object), err)
	}
	hand.state = Idle
	hand.held = scene.None
	hand.originalParent = scene.None

	c.logger.Debug("release", zap.Stringer("hand", h), zap.String("object", c.graph.Name(object)))
	for _, l := range c.listeners {
		l.OnRelease(h, object)
	}
	return true, nil
}

// Follow pulls every held object toward its controller by the smoothing
// factor.
func (c *Controller) Follow() error {
	for _, h := range vr.Hands {
		hand := &c.hands[h]
		if hand.state != Holding {
			continue
		}
		from := c.graph.WorldPosition(hand.held)
		to := c.graph.WorldPosition(hand.Node)
		if err := c.graph.SetWorldPosition(hand.held, scene.Lerp(from, to, c.smoothing), scene.WriterGrab); err != nil {
			return fmt.Errorf("follow %s: %w", h, err)
		}
	}
	return nil
}

// ReleaseAll ends every hold, left hand first.
func (c *Controller) ReleaseAll() error {
	var errs []error
	for _, h := range vr.Hands {
		if _, err := c.End(h); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
