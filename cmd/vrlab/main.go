package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/vrlab/internal/config"
	"github.com/san-kum/vrlab/internal/logging"
	"github.com/san-kum/vrlab/internal/physics"
)

var (
	dataDir    string
	configFile string
	preset     string
	logLevel   string
	logFormat  string
	logFile    string
	dt         float64
	// swing
	angle    float64
	duration float64
	angles   []float64
	settle   float64
	// sweep
	paramMin   float64
	paramMax   float64
	paramSteps int
	// live
	theme string
	// plot / export
	column string
	format string
)

// main registers the vrlab commands and runs the live session when no
// subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:          "vrlab",
		Short:        "immersive scene interaction lab",
		SilenceUsage: true,
		RunE:         runLive,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".vrlab", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	pf.StringVar(&logFormat, "log-format", "console", "log encoding (console, json)")
	pf.StringVar(&logFile, "log-file", "", "write logs to a file instead of stderr")
	pf.Float64Var(&dt, "dt", physics.DefaultDt, "simulation timestep")

	runCmd := &cobra.Command{
		Use:   "run [scenario.yaml]",
		Short: "run a scripted session headless and save its trace",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive terminal session",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	rootCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "colour theme")
	liveCmd.Flags().StringVar(&theme, "theme", "cyberpunk", "colour theme")

	swingCmd := &cobra.Command{
		Use:   "swing",
		Short: "swing a single pendulum headless and plot its angle",
		Args:  cobra.NoArgs,
		RunE:  runSwing,
	}
	swingCmd.Flags().Float64Var(&angle, "angle", physics.DefaultInitialAngle, "initial angle (rad)")
	swingCmd.Flags().Float64Var(&duration, "time", 10.0, "duration")
	swingCmd.Flags().Float64SliceVar(&angles, "angles", nil, "swing several initial angles concurrently")
	swingCmd.Flags().Float64Var(&settle, "settle", 0.01, "report when the amplitude drops below this (0 disables)")

	sweepCmd := &cobra.Command{
		Use:   "sweep [length|gravity|damping]",
		Short: "sweep one pendulum parameter",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64Var(&paramMin, "min", 0.5, "first parameter value")
	sweepCmd.Flags().Float64Var(&paramMax, "max", 3.0, "last parameter value")
	sweepCmd.Flags().IntVar(&paramSteps, "steps", 6, "number of values")
	sweepCmd.Flags().Float64Var(&angle, "angle", physics.DefaultInitialAngle, "initial angle (rad)")
	sweepCmd.Flags().Float64Var(&duration, "time", 10.0, "duration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a recorded column",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "column", "", "trace column (default: pendulum_0 or angle)")

	exportCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "csv", "output format (csv, json)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the effective configuration to a yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, liveCmd, swingCmd, sweepCmd, listCmd, plotCmd, exportCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers defaults, then the preset, then the config file, then
// any flags set explicitly on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the process logger. quiet drops console output, which
// the live session needs while it owns the terminal.
func newLogger(cfg *config.Config, quiet bool) (*zap.Logger, error) {
	opts := logging.DefaultOptions()
	opts.Level = cfg.LogLevel
	opts.Encoding = logFormat
	if logFile != "" {
		opts.Output = logFile
	} else if quiet {
		return zap.NewNop(), nil
	}
	return logging.New(opts)
}
