package dynamo

import (
	"fmt"
	"math"
)

// TimeGrid holds the reporting times of a run. It only fixes where states are
// sampled, never the internal integration step.
type TimeGrid []float64

// Linspace returns n evenly spaced samples over [start, stop]. The last sample is
// exactly stop.
func Linspace(start, stop float64, n int) TimeGrid {
	if n <= 0 {
		return TimeGrid{}
	}
	if n == 1 {
		return TimeGrid{start}
	}
	g := make(TimeGrid, n)
	step := (stop - start) / float64(n-1)
	for i := 0; i < n-1; i++ {
		g[i] = start + float64(i)*step
	}
	g[n-1] = stop
	return g
}

// Validate checks that the grid has at least two finite, strictly increasing samples.
func (g TimeGrid) Validate() error {
	if len(g) < 2 {
		return fmt.Errorf("%w: need at least 2 samples, got %d", ErrInvalidTimeGrid, len(g))
	}
	for i, t := range g {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return fmt.Errorf("%w: sample %d is not finite", ErrInvalidTimeGrid, i)
		}
		if i > 0 && t <= g[i-1] {
			return fmt.Errorf("%w: sample %d (%g) does not follow %g", ErrInvalidTimeGrid, i, t, g[i-1])
		}
	}
	return nil
}

func (g TimeGrid) Start() float64 { return g[0] }
func (g TimeGrid) End() float64   { return g[len(g)-1] }

// Span is End minus Start.
func (g TimeGrid) Span() float64 { return g.End() - g.Start() }

func (g TimeGrid) Clone() TimeGrid {
	c := make(TimeGrid, len(g))
	copy(c, g)
	return c
}
