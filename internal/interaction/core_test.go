package interaction_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/vrlab/internal/config"
	"github.com/san-kum/vrlab/internal/input"
	"github.com/san-kum/vrlab/internal/interaction"
	"github.com/san-kum/vrlab/internal/physics"
	"github.com/san-kum/vrlab/internal/scene"
	"github.com/san-kum/vrlab/internal/sim"
	"github.com/san-kum/vrlab/internal/vr"
)

var (
	leftPose  = mgl64.Vec3{-0.2, 1.2, -0.3}
	rightPose = mgl64.Vec3{0.2, 1.2, -0.3}
)

func hand(h vr.Hand, pos mgl64.Vec3, axes ...float64) input.HandInput {
	return input.HandInput{
		Connected:  true,
		Handedness: h,
		Pose:       input.Pose{Position: pos, Orientation: mgl64.QuatIdent()},
		Axes:       axes,
	}
}

func frame(events ...input.Event) input.Frame {
	return input.Frame{
		Dt:       physics.DefaultDt,
		Hands:    [2]input.HandInput{hand(vr.Left, leftPose), hand(vr.Right, rightPose)},
		Viewport: input.Viewport{W: 800, H: 600},
		Events:   events,
	}
}

var _ = Describe("Core", func() {
	var (
		cfg  *config.Config
		g    *scene.Graph
		rig  scene.Rig
		s    *sim.Simulator
		core *interaction.Core
		ic   *interaction.Context
		wide scene.ID
	)

	build := func() {
		var err error
		core, err = interaction.New(cfg, g, rig, s, nil)
		Expect(err).NotTo(HaveOccurred())
		ic = core.NewContext()
	}

	tick := func(f input.Frame) interaction.Report {
		rep, err := core.Tick(ic, f)
		Expect(err).NotTo(HaveOccurred())
		return rep
	}

	BeforeEach(func() {
		cfg = config.DefaultConfig()
		g = scene.New()
		rig = scene.BuildRig(g, cfg.LaserLength)
		s = sim.New(g, nil)
		wide = g.Add(scene.Object{
			Name:           "wide",
			Parent:         scene.None,
			Local:          scene.At(mgl64.Vec3{0, 1.2, -2}),
			Shape:          scene.Box(1),
			BaseColor:      vr.Red,
			HighlightColor: vr.White,
			Pickable:       true,
			Grabbable:      true,
		})
	})

	Describe("New", func() {
		It("requires a camera", func() {
			rig.Camera = scene.None
			_, err := interaction.New(cfg, g, rig, s, nil)
			Expect(err).To(MatchError(vr.ErrNoCamera))
		})

		It("requires a player frame", func() {
			rig.Player = scene.None
			_, err := interaction.New(cfg, g, rig, s, nil)
			Expect(err).To(MatchError(vr.ErrNoPlayerFrame))
		})

		It("requires something to pick", func() {
			empty := scene.New()
			r := scene.BuildRig(empty, 50)
			_, err := interaction.New(cfg, empty, r, nil, nil)
			Expect(err).To(MatchError(vr.ErrNoPickables))
		})

		It("rejects invalid tunables", func() {
			cfg.GrabSmoothing = 0
			_, err := interaction.New(cfg, g, rig, s, nil)
			Expect(err).To(MatchError(vr.ErrParameterBounds))
		})
	})

	Describe("selecting", func() {
		BeforeEach(build)

		It("highlights and grabs the nearest hit", func() {
			rep := tick(frame(input.Select(vr.Left, true)))

			Expect(rep.Hits[vr.Left]).NotTo(BeEmpty())
			Expect(rep.Hits[vr.Left][0].Object).To(Equal(wide))
			Expect(rep.Hits[vr.Left][0].Distance).To(BeNumerically("~", 1.2, 1e-9))
			Expect(rep.Highlight[vr.PointerLeft]).To(Equal(wide))
			Expect(g.Color(wide)).To(Equal(vr.White))

			Expect(rep.Grabbed).To(HaveLen(1))
			Expect(rep.Grabbed[0].Object).To(Equal(wide))
			Expect(rep.Held[vr.Left]).To(Equal(wide))
			Expect(g.Parent(wide)).To(Equal(rig.Hands[vr.Left]))
		})

		It("pulls the held object halfway to the controller in the grab tick", func() {
			tick(frame(input.Select(vr.Left, true)))
			want := scene.Lerp(mgl64.Vec3{0, 1.2, -2}, leftPose, 0.5)
			Expect(g.WorldPosition(wide).ApproxEqualThreshold(want, 1e-9)).To(BeTrue())
		})

		It("lets the left hand win a simultaneous double grab", func() {
			rep := tick(frame(input.Select(vr.Right, true), input.Select(vr.Left, true)))

			Expect(rep.Held[vr.Left]).To(Equal(wide))
			Expect(rep.Held[vr.Right]).To(Equal(scene.None))
			Expect(rep.Grabbed).To(HaveLen(1))
			Expect(rep.Grabbed[0].Hand).To(Equal(vr.Left))
		})

		It("releases back to the root on select end", func() {
			tick(frame(input.Select(vr.Left, true)))
			rep := tick(frame(input.Select(vr.Left, false)))

			Expect(rep.Released).To(HaveLen(1))
			Expect(rep.Released[0].Object).To(Equal(wide))
			Expect(rep.Held[vr.Left]).To(Equal(scene.None))
			Expect(g.Parent(wide)).To(Equal(scene.None))
		})

		It("re-grabs when a hand ends and restarts its select in one tick", func() {
			tick(frame(input.Select(vr.Left, true)))
			rep := tick(frame(input.Select(vr.Left, false), input.Select(vr.Left, true)))

			Expect(rep.Released).To(HaveLen(1))
			Expect(rep.Grabbed).To(HaveLen(1))
			Expect(rep.Held[vr.Left]).To(Equal(wide))
			Expect(g.Parent(wide)).To(Equal(rig.Hands[vr.Left]))
		})

		It("lets the right hand take an object the left drops earlier in the tick", func() {
			tick(frame(input.Select(vr.Left, true)))
			f := frame(input.Select(vr.Right, true), input.Select(vr.Left, false))
			f.Hands[vr.Right].Pose.Position = mgl64.Vec3{0, 1.2, -0.3}
			rep := tick(f)

			Expect(rep.Held[vr.Left]).To(Equal(scene.None))
			Expect(rep.Held[vr.Right]).To(Equal(wide))
		})

		It("keeps the highlight when a later select hits nothing", func() {
			tick(frame(input.Select(vr.Left, true), input.Select(vr.Left, false)))

			f := frame(input.Select(vr.Left, true))
			f.Hands[vr.Left].Pose.Position = mgl64.Vec3{-5, 1.2, -0.3}
			rep := tick(f)
			Expect(rep.Hits[vr.Left]).To(BeEmpty())
			Expect(rep.Highlight[vr.PointerLeft]).To(Equal(wide))
		})

		It("picks with the mouse through the camera", func() {
			rep := tick(frame(input.Mouse(input.Click, 400, 300, input.ButtonLeft)))
			Expect(rep.MouseHits).NotTo(BeEmpty())
			Expect(rep.MouseHits[0].Object).To(Equal(wide))
			Expect(rep.Highlight[vr.PointerMouse]).To(Equal(wide))
			Expect(rep.Grabbed).To(BeEmpty())
		})

		It("sizes lasers to the first hit", func() {
			rep := tick(frame())
			Expect(rep.Lasers[vr.Left]).To(BeNumerically("~", 1.2, 1e-9))

			f := frame()
			f.Hands[vr.Right].Pose.Position = mgl64.Vec3{5, 1.2, -0.3}
			rep = tick(f)
			Expect(rep.Lasers[vr.Right]).To(Equal(cfg.LaserLength))
			Expect(g.Local(rig.Lasers[vr.Right]).Scale.Z()).To(Equal(cfg.LaserLength))
		})
	})

	Describe("moving", func() {
		BeforeEach(build)

		It("ignores stick noise inside the dead zone", func() {
			f := frame()
			f.Hands[vr.Right] = hand(vr.Right, rightPose, 0, 0, 0.05, -0.05)
			rep := tick(f)
			Expect(rep.Player).To(Equal(mgl64.Vec3{}))
		})

		It("moves the player with the right stick", func() {
			f := frame()
			f.Hands[vr.Right] = hand(vr.Right, rightPose, 0, 0, 0, -1)
			rep := tick(f)
			Expect(rep.Player.Z()).To(BeNumerically("~", -cfg.MoveSpeed*f.Dt, 1e-9))
		})

		It("turns the player with the left stick", func() {
			f := frame()
			f.Hands[vr.Left] = hand(vr.Left, leftPose, 1, 0)
			rep := tick(f)
			Expect(rep.Yaw).To(BeNumerically("~", -cfg.RotationSpeed*f.Dt, 1e-9))
		})

		It("walks with held keys until released", func() {
			tick(frame(input.KeyEvent(input.KeyW, true)))
			rep := tick(frame())
			Expect(rep.Player.Z()).To(BeNumerically("<", 0))

			z := rep.Player.Z()
			tick(frame(input.KeyEvent(input.KeyW, false)))
			rep = tick(frame())
			Expect(rep.Player.Z()).To(Equal(z))
		})

		It("clamps drag-look pitch", func() {
			events := []input.Event{input.Mouse(input.MouseDown, 0, 0, input.ButtonLeft)}
			for y := 1; y <= 50; y++ {
				events = append(events, input.Mouse(input.MouseMove, 0, float64(y*100), input.ButtonLeft))
			}
			rep := tick(frame(events...))
			Expect(rep.Pitch).To(Equal(-math.Pi / 2))
		})

		It("carries held objects along with the player", func() {
			tick(frame(input.Select(vr.Left, true)))
			before := g.WorldPosition(wide).Sub(g.WorldPosition(rig.Hands[vr.Left])).Len()

			f := frame()
			f.Hands[vr.Right] = hand(vr.Right, rightPose, 0, 0, 1, 0)
			tick(f)
			after := g.WorldPosition(wide).Sub(g.WorldPosition(rig.Hands[vr.Left])).Len()
			Expect(after).To(BeNumerically("~", before*0.5, 1e-9))
		})
	})

	Describe("pendulums", func() {
		var nodes scene.PendulumNodes

		BeforeEach(func() {
			nodes = scene.AddPendulum(g, "pendulum.0", mgl64.Vec3{3, 3.2, -3}, 2, 0.2, vr.Red, vr.White)
			Expect(s.Add(nodes, *physics.NewPendulum(), 0.3)).To(Succeed())
			build()
		})

		aimAtBob := func(events ...input.Event) input.Frame {
			f := frame(events...)
			bob := g.WorldPosition(nodes.Bob)
			f.Hands[vr.Right].Pose.Position = mgl64.Vec3{bob.X(), bob.Y(), bob.Z() + 2}
			return f
		}

		angle := func(rep interaction.Report) float64 { return rep.Pendulums[0].Angle }

		It("swings freely", func() {
			a := angle(tick(frame()))
			b := angle(tick(frame()))
			Expect(b).NotTo(Equal(a))
		})

		It("freezes while held and rests on release", func() {
			tick(frame())
			rep := tick(aimAtBob(input.Select(vr.Right, true)))
			Expect(rep.Held[vr.Right]).To(Equal(nodes.Pivot))
			Expect(rep.Pendulums[0].HeldBy).To(Equal(vr.Right))

			held := angle(rep)
			for i := 0; i < 10; i++ {
				rep = tick(frame())
				Expect(angle(rep)).To(Equal(held))
				owner, _ := g.Owner(nodes.Pivot)
				Expect(owner).To(Equal(scene.WriterGrab))
			}

			rep = tick(frame(input.Select(vr.Right, false)))
			Expect(rep.Pendulums[0].HeldBy).To(Equal(vr.NoHand))
			Expect(rep.Pendulums[0].Velocity).To(BeZero())
			Expect(angle(rep)).To(BeNumerically("~", held, 1e-9))

			rep = tick(frame())
			Expect(angle(rep)).NotTo(Equal(held))
			owner, _ := g.Owner(nodes.Pivot)
			Expect(owner).To(Equal(scene.WriterPendulum))
		})

		It("resumes from where a turned controller let go", func() {
			f := aimAtBob(input.Select(vr.Right, true))
			Expect(tick(f).Held[vr.Right]).To(Equal(nodes.Pivot))

			yawed := f.Hands[vr.Right]
			yawed.Pose.Orientation = mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0})
			f = frame()
			f.Hands[vr.Right] = yawed
			tick(f)

			f = frame(input.Select(vr.Right, false))
			f.Hands[vr.Right] = yawed
			rep := tick(f)
			Expect(rep.Held[vr.Right]).To(Equal(scene.None))

			before := g.WorldPosition(nodes.Bob)
			tick(frame())
			Expect(g.WorldPosition(nodes.Bob).Sub(before).Len()).To(BeNumerically("<", 0.01))
		})
	})

	Describe("session end", func() {
		BeforeEach(build)

		It("releases every hold and stops movement", func() {
			tick(frame(input.Select(vr.Left, true), input.KeyEvent(input.KeyW, true)))
			rep := tick(frame(input.Event{Kind: input.SessionEnd, Hand: vr.NoHand}))

			Expect(rep.Ended).To(BeTrue())
			Expect(ic.Ended()).To(BeTrue())
			Expect(rep.Released).To(HaveLen(1))
			Expect(rep.Held).To(Equal([2]scene.ID{scene.None, scene.None}))
			Expect(ic.Keys).To(BeZero())
		})

		It("drops every highlight and restores base colours", func() {
			tick(frame(input.Select(vr.Left, true), input.Mouse(input.Click, 400, 300, input.ButtonLeft)))
			Expect(g.Color(wide)).To(Equal(vr.White))

			rep := tick(frame(input.Event{Kind: input.SessionEnd, Hand: vr.NoHand}))
			Expect(rep.Highlight[vr.PointerLeft]).To(Equal(scene.None))
			Expect(rep.Highlight[vr.PointerMouse]).To(Equal(scene.None))
			Expect(g.Color(wide)).To(Equal(vr.Red))
		})
	})

	It("keeps one writer per object through a busy session", func() {
		Expect(s.Add(scene.AddPendulum(g, "p", mgl64.Vec3{0.2, 3.2, -4}, 2, 0.2, vr.Red, vr.White),
			*physics.NewPendulum(), 0.5)).To(Succeed())
		build()

		script := [][]input.Event{
			{input.Select(vr.Left, true), input.Select(vr.Right, true)},
			{input.KeyEvent(input.KeyD, true)},
			{input.Select(vr.Right, true)},
			{input.Select(vr.Left, false), input.Mouse(input.Click, 400, 300, input.ButtonLeft)},
			{input.Select(vr.Right, false), input.KeyEvent(input.KeyD, false)},
		}
		for i := 0; i < 60; i++ {
			f := frame(script[i%len(script)]...)
			f.Hands[vr.Right] = hand(vr.Right, rightPose, 0, 0, 0.5, -0.5)
			_, err := core.Tick(ic, f)
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(ic.Ticks()).To(Equal(uint64(60)))
	})
})
