package metrics

import (
	"math"

	"github.com/san-kum/vrlab/internal/physics"
)

// Energy reports the mean energy per unit mass over the observed steps.
type Energy struct {
	name        string
	model       *physics.Pendulum
	samples     int
	totalEnergy float64
}

func NewEnergy(model *physics.Pendulum) *Energy {
	return &Energy{
		name:  "energy",
		model: model,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s physics.State, t float64) {
	e.totalEnergy += e.model.Energy(s)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift reports the largest relative rise of energy above its initial
// value. A damped pendulum should keep this at zero.
type EnergyDrift struct {
	name          string
	model         *physics.Pendulum
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(model *physics.Pendulum) *EnergyDrift {
	return &EnergyDrift{
		name:  "energy_drift",
		model: model,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s physics.State, t float64) {
	energy := e.model.Energy(s)
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := (energy - e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
