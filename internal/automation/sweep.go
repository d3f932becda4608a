package automation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/vrlab/internal/metrics"
	"github.com/san-kum/vrlab/internal/physics"
	"github.com/san-kum/vrlab/internal/sim"
)

// ParameterSweep runs headless swings across a range of one pendulum
// parameter.
type ParameterSweep struct {
	Base      physics.Pendulum
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Angle     float64
	Duration  float64
	Dt        float64
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue float64
	Final      physics.State
	MaxEnergy  float64
	MinEnergy  float64
	LastPeak   float64
	Monotonic  bool
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, logger *zap.Logger) ([]SweepResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}
	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		model := sweep.Base
		if err := model.SetParam(sweep.ParamName, paramVal); err != nil {
			return nil, err
		}

		peaks := metrics.NewPeakAmplitude()
		result, err := sim.Run(ctx, &model, physics.State{Angle: sweep.Angle},
			sim.Config{Dt: sweep.Dt, Duration: sweep.Duration, ValidateState: true}, peaks)
		if err != nil {
			return nil, fmt.Errorf("%s=%.4f: %w", sweep.ParamName, paramVal, err)
		}

		var maxE, minE float64
		if len(result.States) > 0 {
			minE, maxE = model.Energy(result.States[0]), model.Energy(result.States[0])
			for _, s := range result.States {
				e := model.Energy(s)
				maxE = max(maxE, e)
				minE = min(minE, e)
			}
		}

		results = append(results, SweepResult{
			ParamValue: paramVal,
			Final:      result.Final(),
			MaxEnergy:  maxE,
			MinEnergy:  minE,
			LastPeak:   peaks.Value(),
			Monotonic:  peaks.Monotonic(1e-9),
		})

		logger.Debug("sweep step",
			zap.Int("step", i+1),
			zap.String("param", sweep.ParamName),
			zap.Float64("value", paramVal))
	}

	return results, nil
}
