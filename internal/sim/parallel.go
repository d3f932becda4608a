package sim

import (
	"context"
	"sync"

	"github.com/san-kum/vrlab/internal/physics"
)

// Sweep runs one headless swing per initial angle concurrently. Metrics are
// built per run by newMetrics so runs share no state.
type Sweep struct {
	model      physics.Pendulum
	angles     []float64
	newMetrics func() []Metric
}

func NewSweep(model physics.Pendulum, angles []float64, newMetrics func() []Metric) *Sweep {
	return &Sweep{model: model, angles: angles, newMetrics: newMetrics}
}

func (w *Sweep) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(w.angles))
	errs := make([]error, len(w.angles))

	var wg sync.WaitGroup
	for i, angle := range w.angles {
		wg.Add(1)
		go func(idx int, angle float64) {
			defer wg.Done()

			model := w.model
			r := NewRunner(&model)
			if w.newMetrics != nil {
				for _, m := range w.newMetrics() {
					r.AddMetric(m)
				}
			}

			results[idx], errs[idx] = r.Run(ctx, physics.State{Angle: angle}, cfg)
		}(i, angle)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
