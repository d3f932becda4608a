package grab_test

import (
	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/vrlab/internal/grab"
	"github.com/san-kum/vrlab/internal/pick"
	"github.com/san-kum/vrlab/internal/scene"
	"github.com/san-kum/vrlab/internal/vr"
)

type event struct {
	grab   bool
	hand   vr.Hand
	object scene.ID
}

type recorder struct{ events []event }

func (r *recorder) OnGrab(h vr.Hand, id scene.ID) { r.events = append(r.events, event{true, h, id}) }
func (r *recorder) OnRelease(h vr.Hand, id scene.ID) { r.events = append(r.events, event{false, h, id}) }

func hitOn(id scene.ID) []pick.Hit {
	return []pick.Hit{{Object: id, Distance: 1}}
}

var _ = Describe("Controller", func() {
	var (
		g    *scene.Graph
		rig  scene.Rig
		cube scene.ID
		wall scene.ID
		c    *grab.Controller
		rec  *recorder
	)

	BeforeEach(func() {
		g = scene.New()
		rig = scene.BuildRig(g, 50)
		cube = g.Add(scene.Object{
			Name:      "cube",
			Parent:    scene.None,
			Local:     scene.At(mgl64.Vec3{0, 1.2, -1}),
			Shape:     scene.Box(0.3),
			Pickable:  true,
			Grabbable: true,
		})
		wall = g.Add(scene.Object{
			Name:     "wall",
			Parent:   scene.None,
			Local:    scene.At(mgl64.Vec3{0, 1, -5}),
			Shape:    scene.Box(2),
			Pickable: true,
		})
		rec = &recorder{}
		c = grab.New(g, rig.Hands, grab.DefaultSmoothing, nil)
		c.AddListener(rec)
	})

	It("starts idle in both hands", func() {
		for _, h := range vr.Hands {
			Expect(c.Hand(h).State()).To(Equal(grab.Idle))
			Expect(c.Hand(h).Held()).To(Equal(scene.None))
		}
	})

	Context("when selecting with no hits", func() {
		It("stays idle", func() {
			ok, err := c.Begin(vr.Left, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
			Expect(c.Hand(vr.Left).Holding()).To(BeFalse())
			Expect(rec.events).To(BeEmpty())
		})
	})

	Context("when the hit is not grabbable", func() {
		It("stays idle", func() {
			ok, err := c.Begin(vr.Left, hitOn(wall))
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
			Expect(g.Parent(wall)).To(Equal(scene.None))
		})
	})

	Context("when grabbing a cube", func() {
		var before mgl64.Vec3

		BeforeEach(func() {
			before = g.WorldPosition(cube)
			ok, err := c.Begin(vr.Left, hitOn(cube))
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
		})

		It("holds the cube under the controller without moving it", func() {
			Expect(c.Hand(vr.Left).State()).To(Equal(grab.Holding))
			Expect(c.Hand(vr.Left).Held()).To(Equal(cube))
			Expect(g.Parent(cube)).To(Equal(rig.Hands[vr.Left]))
			Expect(g.WorldPosition(cube).ApproxEqualThreshold(before, 1e-9)).To(BeTrue())
			Expect(rec.events).To(Equal([]event{{true, vr.Left, cube}}))
		})

		It("claims the cube for the grab writer", func() {
			owner, ok := g.Owner(cube)
			Expect(ok).To(BeTrue())
			Expect(owner).To(Equal(scene.WriterGrab))
		})

		It("ignores a second select on the same hand", func() {
			ok, err := c.Begin(vr.Left, hitOn(cube))
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
			Expect(rec.events).To(HaveLen(1))
		})

		It("refuses the other hand (first grab wins)", func() {
			ok, err := c.Begin(vr.Right, hitOn(cube))
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
			Expect(c.Hand(vr.Right).Holding()).To(BeFalse())
			Expect(g.Parent(cube)).To(Equal(rig.Hands[vr.Left]))

			holder, held := c.HeldBy(cube)
			Expect(held).To(BeTrue())
			Expect(holder).To(Equal(vr.Left))
		})

		It("moves the cube halfway to the controller each follow", func() {
			ctrl := g.WorldPosition(rig.Hands[vr.Left])
			d0 := g.WorldPosition(cube).Sub(ctrl).Len()

			Expect(c.Follow()).To(Succeed())
			d1 := g.WorldPosition(cube).Sub(ctrl).Len()
			Expect(d1).To(BeNumerically("~", d0*0.5, 1e-9))

			Expect(c.Follow()).To(Succeed())
			d2 := g.WorldPosition(cube).Sub(ctrl).Len()
			Expect(d2).To(BeNumerically("~", d0*0.25, 1e-9))
		})

		It("carries the cube when the controller moves", func() {
			g.BeginTick()
			offset := mgl64.Vec3{1, 0, 0}
			hand := g.Local(rig.Hands[vr.Left]).Position
			before := g.WorldPosition(cube)
			Expect(g.SetLocalPosition(rig.Hands[vr.Left], hand.Add(offset), scene.WriterHost)).To(Succeed())
			Expect(g.WorldPosition(cube).ApproxEqualThreshold(before.Add(offset), 1e-9)).To(BeTrue())
		})

		Context("and releasing it", func() {
			var held mgl64.Vec3

			BeforeEach(func() {
				Expect(c.Follow()).To(Succeed())
				held = g.WorldPosition(cube)
				ok, err := c.End(vr.Left)
				Expect(err).NotTo(HaveOccurred())
				Expect(ok).To(BeTrue())
			})

			It("returns the cube to its original parent where it was dropped", func() {
				Expect(g.Parent(cube)).To(Equal(scene.None))
				Expect(g.WorldPosition(cube).ApproxEqualThreshold(held, 1e-9)).To(BeTrue())
				Expect(c.Hand(vr.Left).State()).To(Equal(grab.Idle))
				Expect(rec.events).To(Equal([]event{{true, vr.Left, cube}, {false, vr.Left, cube}}))
			})

			It("lets the other hand take it", func() {
				ok, err := c.Begin(vr.Right, hitOn(cube))
				Expect(err).NotTo(HaveOccurred())
				Expect(ok).To(BeTrue())
			})

			It("ignores a second release", func() {
				ok, err := c.End(vr.Left)
				Expect(err).NotTo(HaveOccurred())
				Expect(ok).To(BeFalse())
			})
		})
	})

	Context("when grabbing a pendulum bob", func() {
		It("holds the pivot", func() {
			p := scene.AddPendulum(g, "pendulum.0", mgl64.Vec3{0, 2, -2}, 2, 0.2, vr.Grey, vr.Yellow)
			ok, err := c.Begin(vr.Right, hitOn(p.Bob))
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(c.Hand(vr.Right).Held()).To(Equal(p.Pivot))
			Expect(g.Parent(p.Bob)).To(Equal(p.Pivot))
		})
	})

	It("rejects an unknown hand", func() {
		_, err := c.Begin(vr.NoHand, hitOn(cube))
		Expect(err).To(MatchError(vr.ErrUnknownHand))
		_, err = c.End(vr.Hand(7))
		Expect(err).To(MatchError(vr.ErrUnknownHand))
	})

	It("releases everything on ReleaseAll", func() {
		other := g.Add(scene.Object{Name: "other", Parent: scene.None, Grabbable: true, Shape: scene.Box(0.3)})
		_, _ = c.Begin(vr.Left, hitOn(cube))
		_, _ = c.Begin(vr.Right, hitOn(other))

		Expect(c.ReleaseAll()).To(Succeed())
		for _, h := range vr.Hands {
			Expect(c.Hand(h).Holding()).To(BeFalse())
		}
		Expect(g.Parent(cube)).To(Equal(scene.None))
		Expect(g.Parent(other)).To(Equal(scene.None))
		Expect(rec.events).To(HaveLen(4))
	})

	It("never lets one object be held by two hands", func() {
		hits := [][]pick.Hit{hitOn(cube), nil, hitOn(wall), hitOn(cube)}
		for i := 0; i < 40; i++ {
			g.BeginTick()
			h := vr.Hands[i%2]
			switch i % 3 {
			case 0, 1:
				_, err := c.Begin(h, hits[i%len(hits)])
				Expect(err).NotTo(HaveOccurred())
			default:
				_, err := c.End(h)
				Expect(err).NotTo(HaveOccurred())
			}

			holders := 0
			for _, hh := range vr.Hands {
				if c.Hand(hh).Holding() && c.Hand(hh).Held() == cube {
					holders++
				}
			}
			Expect(holders).To(BeNumerically("<=", 1))
		}
	})
})
