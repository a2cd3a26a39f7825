package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidParameters indicates a physical parameter outside its valid range.
	ErrInvalidParameters = errors.New("dynamo: invalid physical parameters")

	// ErrIntegrationDivergence indicates the solver could not keep the local error
	// within tolerance.
	ErrIntegrationDivergence = errors.New("dynamo: integration diverged")

	// ErrInvalidState indicates a state vector with invalid dimensions or values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrInvalidTimeGrid indicates a time grid that is too short, unordered or not finite.
	ErrInvalidTimeGrid = errors.New("dynamo: invalid time grid")

	// ErrDimensionMismatch indicates mismatched state/system dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Reason  string
	Wrapped error
}

func (e *SimulationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%v at step %d (t=%.6g)", e.Wrapped, e.Step, e.Time)
	}
	return fmt.Sprintf("%v at step %d (t=%.6g): %s", e.Wrapped, e.Step, e.Time, e.Reason)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
