package metrics

import (
	"math"

	"github.com/san-kum/vrlab/internal/physics"
)

// PeakAmplitude records |angle| at every turning point of the swing.
type PeakAmplitude struct {
	name    string
	prev    physics.State
	started bool
	peaks   []float64
}

func NewPeakAmplitude() *PeakAmplitude {
	return &PeakAmplitude{name: "peak_amplitude"}
}

func (p *PeakAmplitude) Name() string { return p.name }

// Observe detects a peak when the velocity changes sign.
func (p *PeakAmplitude) Observe(s physics.State, t float64) {
	if p.started && p.prev.Velocity != 0 && math.Signbit(p.prev.Velocity) != math.Signbit(s.Velocity) {
		p.peaks = append(p.peaks, math.Abs(s.Angle))
	}
	p.prev = s
	p.started = true
}

// Value is the most recent peak, or zero before the first turning point.
func (p *PeakAmplitude) Value() float64 {
	if len(p.peaks) == 0 {
		return 0
	}
	return p.peaks[len(p.peaks)-1]
}

func (p *PeakAmplitude) Reset() {
	p.prev = physics.State{}
	p.started = false
	p.peaks = p.peaks[:0]
}

func (p *PeakAmplitude) Peaks() []float64 {
	out := make([]float64, len(p.peaks))
	copy(out, p.peaks)
	return out
}

// Monotonic reports whether successive peaks never grow beyond tol.
func (p *PeakAmplitude) Monotonic(tol float64) bool {
	for i := 1; i < len(p.peaks); i++ {
		if p.peaks[i] > p.peaks[i-1]+tol {
			return false
		}
	}
	return true
}
