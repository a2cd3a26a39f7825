package dynamo

// Trajectory is the dense output of one run: Trajectory.At(i) is the state at
// Trajectory.Time(i). It is immutable once built and every accessor hands out copies.
type Trajectory struct {
	times  TimeGrid
	states []State
	stats  Stats
}

// NewTrajectory copies times and states into a new Trajectory.
func NewTrajectory(times TimeGrid, states []State, stats Stats) (*Trajectory, error) {
	if len(times) != len(states) {
		return nil, ErrDimensionMismatch
	}
	tr := &Trajectory{
		times:  times.Clone(),
		states: make([]State, len(states)),
		stats:  stats,
	}
	for i, s := range states {
		tr.states[i] = s.Clone()
	}
	return tr, nil
}

func (tr *Trajectory) Len() int { return len(tr.states) }

func (tr *Trajectory) Times() TimeGrid { return tr.times.Clone() }

func (tr *Trajectory) Time(i int) float64 { return tr.times[i] }

func (tr *Trajectory) At(i int) State { return tr.states[i].Clone() }

func (tr *Trajectory) Final() State { return tr.At(len(tr.states) - 1) }

// Dim is the state dimension, or 0 for an empty trajectory.
func (tr *Trajectory) Dim() int {
	if len(tr.states) == 0 {
		return 0
	}
	return len(tr.states[0])
}

// Series returns component j of every sample.
func (tr *Trajectory) Series(j int) []float64 {
	out := make([]float64, len(tr.states))
	for i, s := range tr.states {
		out[i] = s[j]
	}
	return out
}

func (tr *Trajectory) Stats() Stats { return tr.stats }

// Each calls fn for every sample in order without copying. fn must not retain or
// modify x.
func (tr *Trajectory) Each(fn func(i int, t float64, x State)) {
	for i, s := range tr.states {
		fn(i, tr.times[i], s)
	}
}
