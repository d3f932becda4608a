package interaction_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/vrlab/internal/config"
	"github.com/san-kum/vrlab/internal/interaction"
	"github.com/san-kum/vrlab/internal/physics"
	"github.com/san-kum/vrlab/internal/vr"
)

var _ = Describe("NewWorld", func() {
	It("builds the default scene", func() {
		cfg := config.DefaultConfig()
		w, err := interaction.NewWorld(cfg, nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(w.Cubes).To(HaveLen(100))
		Expect(w.Pendulums).To(HaveLen(5))
		Expect(w.Sim.Len()).To(Equal(5))
		Expect(w.Graph.Pickables()).To(HaveLen(105))

		bob, ok := w.Graph.Get(w.Pendulums[0].Bob)
		Expect(ok).To(BeTrue())
		Expect(bob.Shape.Radius).To(Equal(0.3))
		Expect(bob.Color).To(Equal(vr.Grey))

		for _, b := range w.Sim.Bodies() {
			Expect(b.State.Angle).To(Equal(physics.DefaultInitialAngle))
			Expect(b.HeldBy).To(Equal(vr.NoHand))
		}

		core, err := interaction.New(cfg, w.Graph, w.Rig, w.Sim, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(core.Sim()).To(BeIdenticalTo(w.Sim))
	})

	It("refuses a pendulum it cannot integrate", func() {
		cfg := config.DefaultConfig()
		cfg.Pendulum.Damping = 0
		_, err := interaction.NewWorld(cfg, nil)
		Expect(err).To(MatchError(vr.ErrParameterBounds))
	})
})
