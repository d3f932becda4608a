package sim

import "github.com/san-kum/vrlab/internal/physics"

type Metric interface {
	Name() string
	Observe(s physics.State, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s physics.State, t float64)
}

type Config struct {
	Dt            float64
	Duration      float64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            physics.DefaultDt,
		Duration:      10,
		ValidateState: true,
	}
}

type Result struct {
	States      []physics.State
	Times       []float64
	Metrics     map[string]float64
	StepsTaken  int
	EnergyDrift float64
	Errors      []error
}

// Angles returns the angle series of the run.
func (r *Result) Angles() []float64 {
	out := make([]float64, len(r.States))
	for i, s := range r.States {
		out[i] = s.Angle
	}
	return out
}

func (r *Result) Final() physics.State {
	if len(r.States) == 0 {
		return physics.State{}
	}
	return r.States[len(r.States)-1]
}
