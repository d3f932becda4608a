package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/vrlab/internal/analysis"
	"github.com/san-kum/vrlab/internal/automation"
	"github.com/san-kum/vrlab/internal/config"
	"github.com/san-kum/vrlab/internal/interaction"
	"github.com/san-kum/vrlab/internal/metrics"
	"github.com/san-kum/vrlab/internal/physics"
	"github.com/san-kum/vrlab/internal/sim"
	"github.com/san-kum/vrlab/internal/storage"
	"github.com/san-kum/vrlab/internal/tui"
)

// setup loads the config and builds the logger shared by every command.
func setup(cmd *cobra.Command, quiet bool) (*config.Config, *zap.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger, err := newLogger(cfg, quiet)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func newCore(cfg *config.Config, logger *zap.Logger) (*interaction.World, *interaction.Core, error) {
	world, err := interaction.NewWorld(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	core, err := interaction.New(cfg, world.Graph, world.Rig, world.Sim, logger)
	if err != nil {
		return nil, nil, err
	}
	return world, core, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer logger.Sync()

	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}
	world, core, err := newCore(cfg, logger)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running scenario %s (%d ticks)...\n", sc.Name, sc.Ticks())
	start := time.Now()

	rec := automation.NewRecorder(len(world.Pendulums))
	summary, err := automation.Run(ctx, core, core.NewContext(), sc, rec, logger)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	final := summary.Final
	runID, err := st.Save(storage.RunMetadata{
		Kind:   "scenario",
		Name:   sc.Name,
		Dt:     cfg.Dt,
		Preset: preset,
		Metrics: map[string]float64{
			"grabs":    float64(summary.Grabs),
			"releases": float64(summary.Releases),
			"sim_time": final.Time,
			"player_x": final.Player.X(),
			"player_z": final.Player.Z(),
		},
	}, rec.Trace())
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("ticks: %d  grabs: %d  releases: %d\n", summary.Ticks, summary.Grabs, summary.Releases)
	fmt.Printf("player: %.3f %.3f %.3f  yaw: %.3f\n", final.Player.X(), final.Player.Y(), final.Player.Z(), final.Yaw)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer logger.Sync()

	_, core, err := newCore(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return tui.Run(ctx, core, theme, logger)
}

func swingMetrics(model *physics.Pendulum) []sim.Metric {
	return []sim.Metric{
		metrics.NewEnergy(model),
		metrics.NewEnergyDrift(model),
		metrics.NewPeakAmplitude(),
	}
}

func runSwing(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if !cmd.Flags().Changed("angle") {
		angle = cfg.Pendulum.InitialAngle
	}
	simCfg := sim.Config{Dt: cfg.Dt, Duration: duration, ValidateState: true}
	model := cfg.Model()
	ctx := context.Background()

	if len(angles) > 0 {
		return swingMany(ctx, model, simCfg)
	}

	fmt.Printf("swinging pendulum from %.3f rad...\n", angle)
	start := time.Now()
	result, err := sim.Run(ctx, &model, physics.State{Angle: angle}, simCfg, swingMetrics(&model)...)
	if err != nil {
		return err
	}
	logger.Debug("swing finished", zap.Int("steps", result.StepsTaken), zap.Duration("elapsed", time.Since(start)))

	trace := storage.NewTrace("angle", "velocity")
	for i, s := range result.States {
		trace.Append(result.Times[i], s.Angle, s.Velocity)
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunMetadata{
		Kind:    "swing",
		Name:    "swing",
		Dt:      cfg.Dt,
		Preset:  preset,
		Metrics: result.Metrics,
	}, trace)
	if err != nil {
		return err
	}

	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}
	fmt.Printf("\nperiod: %.3fs (small-angle %.3fs)\n",
		analysis.DominantPeriod(result.Angles(), cfg.Dt),
		analysis.SmallAnglePeriod(model.Length, model.Gravity))
	if settle > 0 {
		// look well past the plotted window
		settleCfg := simCfg
		settleCfg.Duration = simCfg.Duration * 20
		at, settled, err := sim.SettleTime(ctx, &model, physics.State{Angle: angle}, settleCfg, settle)
		if err != nil {
			return err
		}
		if settled {
			fmt.Printf("settled below %.3g rad after %.2fs\n", settle, at)
		} else {
			fmt.Printf("still swinging after %.0fs\n", settleCfg.Duration)
		}
	}
	fmt.Println()
	fmt.Println(asciigraph.Plot(result.Angles(),
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("theta (angle)"),
	))
	return nil
}

// swingMany runs every --angles value concurrently and overlays the traces.
func swingMany(ctx context.Context, model physics.Pendulum, simCfg sim.Config) error {
	sweep := sim.NewSweep(model, angles, func() []sim.Metric {
		m := model
		return swingMetrics(&m)
	})
	results, err := sweep.Run(ctx, simCfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ANGLE\tFINAL\tPEAK\tDRIFT")
	series := make([][]float64, len(results))
	for i, r := range results {
		series[i] = r.Angles()
		fmt.Fprintf(w, "%.3f\t%.4f\t%.4f\t%.2e\n", angles[i], r.Final().Angle, r.Metrics["peak_amplitude"], r.Metrics["energy_drift"])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(asciigraph.PlotMany(series,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("theta per initial angle"),
	))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if !cmd.Flags().Changed("angle") {
		angle = cfg.Pendulum.InitialAngle
	}
	results, err := automation.RunSweep(context.Background(), &automation.ParameterSweep{
		Base:      cfg.Model(),
		ParamName: args[0],
		ParamMin:  paramMin,
		ParamMax:  paramMax,
		NumSteps:  paramSteps,
		Angle:     angle,
		Duration:  duration,
		Dt:        cfg.Dt,
	}, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tFINAL\tLAST PEAK\tMAX E\tMIN E\tDECAYING\n", args[0])
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%v\n",
			r.ParamValue, r.Final.Angle, r.LastPeak, r.MaxEnergy, r.MinEnergy, r.Monotonic)
	}
	return w.Flush()
}
