package sim

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/integrators"
	"github.com/san-kum/springsim/internal/physics"
)

// Solver turns a model, an initial state and a reporting grid into a trajectory.
// It holds no per-run state, so one Solver may serve any number of concurrent calls.
type Solver struct {
	opts   Options
	logger *zap.Logger
}

// New validates opts. A nil logger disables logging.
func New(opts Options, logger *zap.Logger) (*Solver, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Solver{opts: opts, logger: logger}, nil
}

func (s *Solver) Options() Options { return s.opts }

// Integrate solves with DefaultOptions.
func Integrate(model dynamo.System, x0 dynamo.State, grid dynamo.TimeGrid) (*dynamo.Trajectory, error) {
	s, err := New(DefaultOptions(), nil)
	if err != nil {
		return nil, err
	}
	return s.Integrate(model, x0, grid)
}

// Integrate returns the state of model at every time in grid, starting from x0 at
// grid[0]. The first sample is a copy of x0. Neither model nor x0 is modified.
//
// If the local error cannot be kept within tolerance the returned error wraps
// dynamo.ErrIntegrationDivergence and no trajectory is returned.
func (s *Solver) Integrate(model dynamo.System, x0 dynamo.State, grid dynamo.TimeGrid) (*dynamo.Trajectory, error) {
	if model == nil {
		return nil, fmt.Errorf("sim: nil model")
	}
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	if len(x0) != model.StateDim() {
		return nil, fmt.Errorf("%w: initial state has %d components, system expects %d",
			dynamo.ErrDimensionMismatch, len(x0), model.StateDim())
	}
	if !x0.IsValid() {
		return nil, dynamo.ErrInvalidState
	}

	states := make([]dynamo.State, len(grid))
	states[0] = x0.Clone()

	var (
		stats dynamo.Stats
		err   error
	)
	switch s.opts.Method {
	case MethodRK4:
		stats, err = s.fixed(model, states, grid)
	default:
		stats, err = s.adaptive(model, states, grid)
	}
	if err != nil {
		s.logger.Warn("integration failed",
			zap.String("method", s.opts.Method),
			zap.Int("samples", len(grid)),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Debug("integration finished",
		zap.String("method", stats.Method),
		zap.Int("samples", len(grid)),
		zap.Int("accepted", stats.Accepted),
		zap.Int("rejected", stats.Rejected),
		zap.Int("evaluations", stats.Evaluations),
		zap.Float64("min_step", stats.MinStep),
		zap.Float64("max_step", stats.MaxStep),
	)

	return dynamo.NewTrajectory(grid, states, stats)
}

// Simulate builds the coupled spring model from p and integrates it.
func (s *Solver) Simulate(p physics.Params, x0 dynamo.State, grid dynamo.TimeGrid) (*dynamo.Trajectory, error) {
	model, err := physics.NewCoupledSprings(p)
	if err != nil {
		return nil, err
	}
	return s.Integrate(model, x0, grid)
}

func (s *Solver) adaptive(model dynamo.System, states []dynamo.State, grid dynamo.TimeGrid) (dynamo.Stats, error) {
	dp := integrators.NewDormandPrince(s.opts.Rtol, s.opts.Atol)
	stats := dynamo.Stats{Method: MethodDopri5, MinStep: math.Inf(1)}

	x := states[0].Clone()
	t := grid[0]
	k := model.Derive(x, t)
	stats.Evaluations++

	h := s.opts.InitialStep
	if h == 0 {
		h = dp.InitialStep(model, x, k, t, grid.Span())
		stats.Evaluations++
	}
	h = s.clampStep(h)

	step := 0
	for i := 1; i < len(grid); i++ {
		target := grid[i]
		attempts := 0

		for t < target {
			if attempts >= s.opts.MaxSteps {
				return stats, divergence(step, t, x,
					fmt.Sprintf("more than %d steps needed to reach t=%g", s.opts.MaxSteps, target))
			}
			hMin := math.Max(s.opts.MinStep, 10*(math.Nextafter(t, math.Inf(1))-t))
			if h < hMin {
				return stats, divergence(step, t, x,
					fmt.Sprintf("step size %g below minimum %g", h, hMin))
			}

			// Land exactly on the reporting time; stretch by up to 1% rather than
			// leave a sliver for the next attempt.
			hTry := h
			last := false
			if remaining := target - t; remaining <= 1.01*hTry && s.clampStep(remaining) == remaining {
				hTry = remaining
				last = true
			}

			xNew, kNew, errNorm := dp.Attempt(model, x, k, t, hTry)
			stats.Evaluations += integrators.StagesPerAttempt
			attempts++

			if math.IsNaN(errNorm) || math.IsInf(errNorm, 0) || !xNew.IsValid() {
				return stats, divergence(step, t, x, "state or error estimate is not finite")
			}

			if errNorm > 1 {
				stats.Rejected++
				h = s.clampStep(dp.NextStep(hTry, errNorm))
				continue
			}

			stats.Accepted++
			step++
			stats.MinStep = math.Min(stats.MinStep, hTry)
			stats.MaxStep = math.Max(stats.MaxStep, hTry)

			if last {
				t = target
			} else {
				t += hTry
			}
			x, k = xNew, kNew

			next := dp.NextStep(hTry, errNorm)
			if last {
				// A step shortened to hit the grid says little about the natural size.
				next = math.Max(next, h)
			}
			h = s.clampStep(next)
		}

		states[i] = x.Clone()
	}

	if stats.Accepted == 0 {
		stats.MinStep = 0
	}
	return stats, nil
}

func (s *Solver) fixed(model dynamo.System, states []dynamo.State, grid dynamo.TimeGrid) (dynamo.Stats, error) {
	rk := integrators.NewRK4()
	stats := dynamo.Stats{Method: MethodRK4, MinStep: math.Inf(1)}
	n := s.opts.Substeps

	x := states[0].Clone()
	step := 0
	for i := 1; i < len(grid); i++ {
		start := grid[i-1]
		dt := (grid[i] - start) / float64(n)
		stats.MinStep = math.Min(stats.MinStep, dt)
		stats.MaxStep = math.Max(stats.MaxStep, dt)

		for j := 0; j < n; j++ {
			t := start + float64(j)*dt
			x = rk.Step(model, x, t, dt)
			stats.Evaluations += 4
			stats.Accepted++
			step++
			if !x.IsValid() {
				return stats, divergence(step, t+dt, x, "state is not finite")
			}
		}

		states[i] = x.Clone()
	}
	return stats, nil
}

func (s *Solver) clampStep(h float64) float64 {
	if s.opts.MaxStep > 0 && h > s.opts.MaxStep {
		return s.opts.MaxStep
	}
	return h
}

func divergence(step int, t float64, x dynamo.State, reason string) error {
	return &dynamo.SimulationError{
		Step:    step,
		Time:    t,
		State:   x.Clone(),
		Reason:  reason,
		Wrapped: dynamo.ErrIntegrationDivergence,
	}
}
