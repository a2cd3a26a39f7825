// Package optim searches parameter grids for the run that minimises an
// objective computed from its trajectory.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/physics"
	"github.com/san-kum/springsim/internal/sim"
)

var ErrNoFeasibleRun = errors.New("optim: no run completed")

// Axis is one searched parameter and the values it takes.
type Axis struct {
	Name   string
	Values []float64
}

// Objective scores one finished run. Lower is better.
type Objective func(p physics.Params, tr *dynamo.Trajectory) float64

type Result struct {
	Params    physics.Params
	Score     float64
	Evaluated int
	Failed    int
}

type GridSearch struct {
	axes []Axis
}

func NewGridSearch(axes ...Axis) *GridSearch {
	return &GridSearch{axes: axes}
}

// Runs expands the grid into one run per combination of axis values.
func (g *GridSearch) Runs(base physics.Params, x0 dynamo.State, grid dynamo.TimeGrid) ([]sim.Run, error) {
	var runs []sim.Run
	if err := g.expand(0, base, "", x0, grid, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

func (g *GridSearch) expand(depth int, current physics.Params, name string, x0 dynamo.State, grid dynamo.TimeGrid, runs *[]sim.Run) error {
	if depth == len(g.axes) {
		*runs = append(*runs, sim.Run{Name: name, Params: current, Initial: x0.Clone(), Grid: grid})
		return nil
	}

	axis := g.axes[depth]
	for _, v := range axis.Values {
		p, err := current.With(axis.Name, v)
		if err != nil {
			return err
		}
		label := fmt.Sprintf("%s=%g", axis.Name, v)
		if name != "" {
			label = name + " " + label
		}
		if err := g.expand(depth+1, p, label, x0, grid, runs); err != nil {
			return err
		}
	}
	return nil
}

// Search simulates every combination concurrently and returns the best one.
// Failed runs are counted and skipped. Ties keep the earliest combination.
func (g *GridSearch) Search(ctx context.Context, solver *sim.Solver, base physics.Params, x0 dynamo.State, grid dynamo.TimeGrid, objective Objective, workers int) (Result, error) {
	runs, err := g.Runs(base, x0, grid)
	if err != nil {
		return Result{}, err
	}

	outcomes, err := solver.Sweep(ctx, runs, workers)
	if err != nil {
		return Result{}, err
	}

	res := Result{Score: math.Inf(1)}
	found := false
	for _, o := range outcomes {
		if o.Err != nil {
			res.Failed++
			continue
		}
		res.Evaluated++

		score := objective(o.Run.Params, o.Trajectory)
		if math.IsNaN(score) {
			continue
		}
		if !found || score < res.Score {
			res.Score = score
			res.Params = o.Run.Params
			found = true
		}
	}

	if !found {
		return res, ErrNoFeasibleRun
	}
	return res, nil
}
