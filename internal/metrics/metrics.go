// Package metrics evaluates scalar summaries over finished trajectories.
package metrics

import "github.com/san-kum/springsim/internal/dynamo"

// Evaluate resets every metric, feeds it each sample of tr in order and returns
// the values by name.
func Evaluate(tr *dynamo.Trajectory, ms ...dynamo.Metric) map[string]float64 {
	for _, m := range ms {
		m.Reset()
	}
	tr.Each(func(_ int, t float64, x dynamo.State) {
		for _, m := range ms {
			m.Observe(x, t)
		}
	})

	values := make(map[string]float64, len(ms))
	for _, m := range ms {
		values[m.Name()] = m.Value()
	}
	return values
}

// Default returns the metrics reported for every run.
func Default(h dynamo.Hamiltonian) []dynamo.Metric {
	return []dynamo.Metric{
		NewEnergyDrift(h),
		NewEnergyIncrease(h),
		NewDisplacementDecay(0.1),
		NewPeakDisplacement(),
		NewStability(2.0),
	}
}
