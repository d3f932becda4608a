package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/vrlab/internal/vr"
)

const (
	DefaultLength       = 2.0
	DefaultGravity      = 9.81
	DefaultDamping      = 0.995
	DefaultInitialAngle = math.Pi / 4
	DefaultDt           = 0.016
)

// Pendulum is a single-DOF damped pendulum. Damping is a per-step velocity
// factor in (0, 1], not a viscous coefficient.
type Pendulum struct {
	Length  float64
	Gravity float64
	Damping float64
}

// State is the angular state of one pendulum.
type State struct {
	Angle        float64
	Velocity     float64
	Acceleration float64
}

func NewPendulum() *Pendulum {
	return &Pendulum{
		Length:  DefaultLength,
		Gravity: DefaultGravity,
		Damping: DefaultDamping,
	}
}

func (p *Pendulum) Validate() error {
	switch {
	case !(p.Length > 0):
		return &vr.BoundsError{Param: "length", Value: p.Length}
	case !(p.Gravity >= 0):
		return &vr.BoundsError{Param: "gravity", Value: p.Gravity}
	case !(p.Damping > 0 && p.Damping <= 1):
		return &vr.BoundsError{Param: "damping", Value: p.Damping}
	}
	return nil
}

// Step advances s by dt with semi-implicit Euler: velocity first, then the
// angle from the damped velocity.
func (p *Pendulum) Step(s State, dt float64) State {
	s.Acceleration = -(p.Gravity / p.Length) * math.Sin(s.Angle)
	s.Velocity += s.Acceleration * dt
	s.Velocity *= p.Damping
	s.Angle += s.Velocity * dt
	return s
}

// Energy per unit mass: KE = 0.5 (L w)^2, PE = g L (1 - cos a).
func (p *Pendulum) Energy(s State) float64 {
	v := p.Length * s.Velocity
	return 0.5*v*v + p.Gravity*p.Length*(1-math.Cos(s.Angle))
}

func (p *Pendulum) GetParams() map[string]float64 {
	return map[string]float64{
		"length":  p.Length,
		"gravity": p.Gravity,
		"damping": p.Damping,
	}
}

func (p *Pendulum) SetParam(name string, value float64) error {
	switch name {
	case "length":
		p.Length = value
	case "gravity":
		p.Gravity = value
	case "damping":
		p.Damping = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}

// Valid reports whether s holds finite numbers.
func (s State) Valid() bool {
	for _, v := range [...]float64{s.Angle, s.Velocity, s.Acceleration} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Rest returns s with velocity and acceleration cleared.
func (s State) Rest() State {
	return State{Angle: s.Angle}
}
