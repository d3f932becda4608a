package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/vrlab/internal/physics"
	"github.com/san-kum/vrlab/internal/vr"
)

// Runner integrates a single pendulum headlessly, outside any scene.
type Runner struct {
	model     *physics.Pendulum
	metrics   []Metric
	observers []Observer
}

func NewRunner(model *physics.Pendulum) *Runner {
	return &Runner{
		model:     model,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Run is a convenience wrapper around a Runner with the given metrics.
func Run(ctx context.Context, model *physics.Pendulum, s0 physics.State, cfg Config, metrics ...Metric) (*Result, error) {
	r := NewRunner(model)
	for _, m := range metrics {
		r.AddMetric(m)
	}
	return r.Run(ctx, s0, cfg)
}

func (r *Runner) Run(ctx context.Context, s0 physics.State, cfg Config) (*Result, error) {
	if err := r.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &Result{
		States:  make([]physics.State, 0, steps+1),
		Times:   make([]float64, 0, steps+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	s := s0
	t := 0.0

	result.States = append(result.States, s)
	result.Times = append(result.Times, t)

	initialEnergy := r.model.Energy(s)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for _, m := range r.metrics {
			m.Observe(s, t)
		}
		for _, obs := range r.observers {
			obs.OnStep(s, t)
		}

		next := r.model.Step(s, cfg.Dt)
		if cfg.ValidateState && !next.Valid() {
			err := vr.SimError{Time: t, Step: i, Message: "invalid state (NaN/Inf)"}
			result.Errors = append(result.Errors, err)
			break
		}

		s = next
		t += cfg.Dt
		result.StepsTaken++

		result.States = append(result.States, s)
		result.Times = append(result.Times, t)
	}

	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(r.model.Energy(s)-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (r *Runner) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if err := r.model.Validate(); err != nil {
		return err
	}
	return nil
}

// RunWithCallback steps until the callback returns false or the duration
// elapses.
func (r *Runner) RunWithCallback(ctx context.Context, s0 physics.State, cfg Config, callback func(physics.State, float64) bool) error {
	if err := r.validateConfig(cfg); err != nil {
		return err
	}

	s := s0
	t := 0.0

	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(s, t) {
			return nil
		}

		s = r.model.Step(s, cfg.Dt)
		t += cfg.Dt

		if cfg.ValidateState && !s.Valid() {
			return fmt.Errorf("invalid state at t=%.4f", t)
		}
	}

	return nil
}

// SettleTime swings model from s0 until its amplitude, estimated from angle
// and velocity, drops below tol. It reports false if the swing is still
// going when cfg.Duration runs out.
func SettleTime(ctx context.Context, model *physics.Pendulum, s0 physics.State, cfg Config, tol float64) (float64, bool, error) {
	if tol <= 0 {
		return 0, false, fmt.Errorf("settle tolerance must be positive, got %f", tol)
	}
	omega := math.Sqrt(model.Gravity / model.Length)

	var settledAt float64
	settled := false
	err := NewRunner(model).RunWithCallback(ctx, s0, cfg, func(s physics.State, t float64) bool {
		amp := math.Abs(s.Angle) + math.Abs(s.Velocity)
		if omega > 0 {
			amp = math.Hypot(s.Angle, s.Velocity/omega)
		}
		if amp < tol {
			settledAt, settled = t, true
			return false
		}
		return true
	})
	return settledAt, settled, err
}
