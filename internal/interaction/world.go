package interaction

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/vrlab/internal/config"
	"github.com/san-kum/vrlab/internal/scene"
	"github.com/san-kum/vrlab/internal/sim"
)

// World is a populated scene: the player rig, the cube helix and a row of
// pendulums registered with a simulator.
type World struct {
	Graph     *scene.Graph
	Rig       scene.Rig
	Sim       *sim.Simulator
	Cubes     []scene.ID
	Pendulums []scene.PendulumNodes
}

func NewWorld(cfg *config.Config, logger *zap.Logger) (*World, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := scene.New()
	w := &World{
		Graph: g,
		Rig:   scene.BuildRig(g, cfg.LaserLength),
		Sim:   sim.New(g, logger),
	}
	w.Cubes = scene.AddCubeHelix(g, cfg.Cubes.Count, cfg.Cubes.Radius, cfg.HighlightColor)

	model := cfg.Model()
	for i, pos := range scene.PendulumRow(cfg.Pendulum.Count) {
		nodes := scene.AddPendulum(g, fmt.Sprintf("pendulum.%d", i), pos,
			cfg.Pendulum.Length, cfg.Pendulum.BobRadius, cfg.BaseColor, cfg.HighlightColor)
		if err := w.Sim.Add(nodes, model, cfg.Pendulum.InitialAngle); err != nil {
			return nil, err
		}
		w.Pendulums = append(w.Pendulums, nodes)
	}

	logger.Info("world built",
		zap.Int("objects", g.Len()),
		zap.Int("cubes", len(w.Cubes)),
		zap.Int("pendulums", len(w.Pendulums)))
	return w, nil
}
