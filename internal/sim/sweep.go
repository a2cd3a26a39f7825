package sim

import (
	"context"
	"runtime"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/physics"
)

// Run describes one independent simulation of a sweep.
type Run struct {
	Name    string
	Params  physics.Params
	Initial dynamo.State
	Grid    dynamo.TimeGrid
}

// Outcome pairs a run with its trajectory or the error that prevented one.
type Outcome struct {
	Run        Run
	Trajectory *dynamo.Trajectory
	Err        error
}

// Sweep simulates runs on up to workers goroutines (GOMAXPROCS when workers <= 0).
// A failing run does not stop the others; its error is kept in its Outcome.
// Outcomes are in the order of runs.
//
// ctx is checked before each run starts. A run in progress always completes.
func (s *Solver) Sweep(ctx context.Context, runs []Run, workers int) ([]Outcome, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	outcomes := make([]Outcome, len(runs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, r := range runs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			tr, err := s.Simulate(r.Params, r.Initial, r.Grid)
			outcomes[i] = Outcome{Run: r, Trajectory: tr, Err: err}
			if err != nil {
				s.logger.Warn("sweep run failed",
					zap.Int("index", i),
					zap.String("run", r.Name),
					zap.Error(err),
				)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// ParamSweep returns n runs that vary one parameter of base linearly over
// [from, to]. set applies a value to a copy of base.
func ParamSweep(base physics.Params, set func(p *physics.Params, v float64), from, to float64, n int, x0 dynamo.State, grid dynamo.TimeGrid) []Run {
	values := dynamo.Linspace(from, to, n)
	runs := make([]Run, len(values))
	for i, v := range values {
		p := base
		set(&p, v)
		runs[i] = Run{
			Name:    formatValue(v),
			Params:  p,
			Initial: x0.Clone(),
			Grid:    grid,
		}
	}
	return runs
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}
