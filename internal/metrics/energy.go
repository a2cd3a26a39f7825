package metrics

import (
	"math"

	"github.com/san-kum/springsim/internal/dynamo"
)

// EnergySeries evaluates the system energy at every sample of tr.
func EnergySeries(h dynamo.Hamiltonian, tr *dynamo.Trajectory) []float64 {
	out := make([]float64, tr.Len())
	tr.Each(func(i int, _ float64, x dynamo.State) {
		out[i] = h.Energy(x)
	})
	return out
}

// EnergyDrift is the largest deviation of the energy from its first observed
// value, relative to that value (absolute when the first value is zero).
type EnergyDrift struct {
	name          string
	dyn           dynamo.Hamiltonian
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(dyn dynamo.Hamiltonian) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		dyn:  dyn,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(x dynamo.State, t float64) {
	energy := e.dyn.Energy(x)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	drift := math.Abs(energy - e.initialEnergy)
	if e.initialEnergy != 0 {
		drift /= math.Abs(e.initialEnergy)
	}
	e.maxDrift = math.Max(e.maxDrift, drift)
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// EnergyIncrease is the largest rise of the energy between consecutive samples.
// For a damped run it should not be meaningfully above zero.
type EnergyIncrease struct {
	name     string
	dyn      dynamo.Hamiltonian
	previous float64
	maxRise  float64
	samples  int
}

func NewEnergyIncrease(dyn dynamo.Hamiltonian) *EnergyIncrease {
	return &EnergyIncrease{
		name: "energy_increase",
		dyn:  dyn,
	}
}

func (e *EnergyIncrease) Name() string { return e.name }

func (e *EnergyIncrease) Observe(x dynamo.State, t float64) {
	energy := e.dyn.Energy(x)
	if e.samples == 1 {
		e.maxRise = energy - e.previous
	} else if e.samples > 1 {
		e.maxRise = math.Max(e.maxRise, energy-e.previous)
	}
	e.previous = energy
	e.samples++
}

func (e *EnergyIncrease) Value() float64 {
	return e.maxRise
}

func (e *EnergyIncrease) Reset() {
	e.previous = 0
	e.maxRise = 0
	e.samples = 0
}
