package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/vrlab/internal/physics"
)

func TestEnergyValue(t *testing.T) {
	model := physics.NewPendulum()
	m := NewEnergy(model)

	s := physics.State{Angle: math.Pi / 4}
	m.Observe(s, 0)

	expected := model.Gravity * model.Length * (1 - math.Cos(math.Pi/4))
	if math.Abs(m.Value()-expected) > 1e-9 {
		t.Errorf("expected energy %f, got %f", expected, m.Value())
	}
}

func TestEnergyReset(t *testing.T) {
	m := NewEnergy(physics.NewPendulum())

	m.Observe(physics.State{Angle: 1, Velocity: 1}, 0)
	if m.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDriftStaysZeroWhenDamped(t *testing.T) {
	model := physics.NewPendulum()
	m := NewEnergyDrift(model)

	s := physics.State{Angle: physics.DefaultInitialAngle}
	for i := 0; i < 2000; i++ {
		m.Observe(s, float64(i)*physics.DefaultDt)
		s = model.Step(s, physics.DefaultDt)
	}
	if m.Value() > 1e-3 {
		t.Errorf("damped pendulum should not gain energy, drift %f", m.Value())
	}
}

func TestPeakAmplitudeNonIncreasing(t *testing.T) {
	model := &physics.Pendulum{Length: 2, Gravity: 9.81, Damping: 0.995}
	m := NewPeakAmplitude()

	s := physics.State{Angle: math.Pi / 4}
	for i := 0; i < 10000; i++ {
		s = model.Step(s, 0.016)
		m.Observe(s, float64(i)*0.016)
	}

	peaks := m.Peaks()
	if len(peaks) < 10 {
		t.Fatalf("expected many turning points, got %d", len(peaks))
	}
	if !m.Monotonic(1e-9) {
		t.Errorf("peaks should not grow: %v", peaks[:10])
	}
	if m.Value() >= 0.01 {
		t.Errorf("expected final peak below 0.01, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 || len(m.Peaks()) != 0 {
		t.Error("reset should drop peaks")
	}
}
