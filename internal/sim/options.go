package sim

import "fmt"

const (
	MethodDopri5 = "dopri5"
	MethodRK4    = "rk4"
)

const (
	// DefaultTolerance is used for both the relative and absolute tolerance.
	DefaultTolerance = 1.49012e-8
	DefaultMaxSteps  = 500
	DefaultSubsteps  = 20
)

// Options configures a Solver. MaxSteps bounds the internal steps (accepted and
// rejected) taken between two consecutive reporting times.
type Options struct {
	Method      string
	Rtol        float64
	Atol        float64
	MaxSteps    int
	InitialStep float64 // 0 selects one automatically
	MinStep     float64 // 0 only guards against round-off underflow
	MaxStep     float64 // 0 means unbounded
	Substeps    int     // fixed steps per reporting interval for rk4
}

func DefaultOptions() Options {
	return Options{
		Method:   MethodDopri5,
		Rtol:     DefaultTolerance,
		Atol:     DefaultTolerance,
		MaxSteps: DefaultMaxSteps,
		Substeps: DefaultSubsteps,
	}
}

func (o Options) validate() error {
	switch o.Method {
	case MethodDopri5:
		if o.Rtol <= 0 || o.Atol <= 0 {
			return fmt.Errorf("tolerances must be positive, got rtol=%g atol=%g", o.Rtol, o.Atol)
		}
		if o.MaxSteps <= 0 {
			return fmt.Errorf("max steps must be positive, got %d", o.MaxSteps)
		}
		if o.InitialStep < 0 || o.MinStep < 0 || o.MaxStep < 0 {
			return fmt.Errorf("step bounds must not be negative")
		}
		if o.MaxStep > 0 && o.MinStep > o.MaxStep {
			return fmt.Errorf("min step %g exceeds max step %g", o.MinStep, o.MaxStep)
		}
	case MethodRK4:
		if o.Substeps <= 0 {
			return fmt.Errorf("substeps must be positive, got %d", o.Substeps)
		}
	default:
		return fmt.Errorf("unknown method: %s", o.Method)
	}
	return nil
}

// Methods lists the supported integration methods.
func Methods() []string {
	return []string{MethodDopri5, MethodRK4}
}
