package optim

import (
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/metrics"
	"github.com/san-kum/springsim/internal/physics"
)

// Objectives are the scores selectable by name from the command line.
var Objectives = map[string]Objective{
	// fastest settling: remaining amplitude relative to the start
	"decay": func(_ physics.Params, tr *dynamo.Trajectory) float64 {
		return metrics.Evaluate(tr, metrics.NewDisplacementDecay(0.1))["displacement_decay"]
	},
	"peak": func(_ physics.Params, tr *dynamo.Trajectory) float64 {
		return metrics.Evaluate(tr, metrics.NewPeakDisplacement())["peak_displacement"]
	},
	// smallest excursion of the follower mass
	"peak-x2": func(_ physics.Params, tr *dynamo.Trajectory) float64 {
		peak := 0.0
		for _, v := range tr.Series(physics.X2) {
			peak = max(peak, v, -v)
		}
		return peak
	},
}
