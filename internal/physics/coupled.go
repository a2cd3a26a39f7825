package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/springsim/internal/dynamo"
)

// State layout: [x1, x2, v1, v2].
const (
	X1 = iota
	X2
	V1
	V2
	StateDim
)

const (
	DefaultMass      = 1.0
	DefaultStiffness = 1.0
	DefaultDamping   = 0.05
)

// Params are the physical constants of one run. A value is never modified once a
// model has been built from it.
type Params struct {
	M1 float64 `yaml:"m1" json:"m1" validate:"gt=0"`
	M2 float64 `yaml:"m2" json:"m2" validate:"gt=0"`
	K1 float64 `yaml:"k1" json:"k1" validate:"gte=0"`
	K2 float64 `yaml:"k2" json:"k2" validate:"gte=0"`
	C  float64 `yaml:"c" json:"c" validate:"gte=0"`
}

func DefaultParams() Params {
	return Params{
		M1: DefaultMass,
		M2: DefaultMass,
		K1: DefaultStiffness,
		K2: DefaultStiffness,
		C:  DefaultDamping,
	}
}

// Validate reports the first parameter that violates m1, m2 > 0 or k1, k2, c >= 0.
func (p Params) Validate() error {
	checks := []struct {
		name     string
		value    float64
		positive bool
	}{
		{"m1", p.M1, true},
		{"m2", p.M2, true},
		{"k1", p.K1, false},
		{"k2", p.K2, false},
		{"c", p.C, false},
	}
	for _, c := range checks {
		switch {
		case math.IsNaN(c.value) || math.IsInf(c.value, 0):
			return fmt.Errorf("%w: %s is not finite", dynamo.ErrInvalidParameters, c.name)
		case c.positive && c.value <= 0:
			return fmt.Errorf("%w: %s must be positive, got %g", dynamo.ErrInvalidParameters, c.name, c.value)
		case !c.positive && c.value < 0:
			return fmt.Errorf("%w: %s must be non-negative, got %g", dynamo.ErrInvalidParameters, c.name, c.value)
		}
	}
	return nil
}

// ParamNames lists the names accepted by With, in declaration order.
var ParamNames = []string{"m1", "m2", "k1", "k2", "c"}

// With returns a copy of p with the named parameter set to v. It does not
// validate v.
func (p Params) With(name string, v float64) (Params, error) {
	switch name {
	case "m1":
		p.M1 = v
	case "m2":
		p.M2 = v
	case "k1":
		p.K1 = v
	case "k2":
		p.K2 = v
	case "c":
		p.C = v
	default:
		return p, fmt.Errorf("unknown parameter %q (have %v)", name, ParamNames)
	}
	return p, nil
}

// CoupledSprings is two masses on a line. Mass 1 is tied to a fixed anchor by k1 and
// to mass 2 by k2; mass 2 has no anchor. Each mass is damped by c on its own velocity.
type CoupledSprings struct {
	p Params
}

// NewCoupledSprings validates p once and returns the model.
func NewCoupledSprings(p Params) (*CoupledSprings, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &CoupledSprings{p: p}, nil
}

// NewState builds a state vector in the model's layout.
func NewState(x1, x2, v1, v2 float64) dynamo.State {
	return dynamo.State{x1, x2, v1, v2}
}

func (cs *CoupledSprings) StateDim() int { return StateDim }

func (cs *CoupledSprings) Params() Params { return cs.p }

func (cs *CoupledSprings) Derive(x dynamo.State, _ float64) dynamo.State {
	x1, x2, v1, v2 := x[X1], x[X2], x[V1], x[V2]
	p := cs.p

	stretch := x2 - x1
	dx := make(dynamo.State, StateDim)
	dx[X1] = v1
	dx[X2] = v2
	dx[V1] = (-p.K1*x1 + p.K2*stretch - p.C*v1) / p.M1
	dx[V2] = (-p.K2*stretch - p.C*v2) / p.M2
	return dx
}

// Energy is the total mechanical energy: kinetic energy of both masses plus the
// potential energy stored in both springs.
func (cs *CoupledSprings) Energy(x dynamo.State) float64 {
	p := cs.p
	x1, x2, v1, v2 := x[X1], x[X2], x[V1], x[V2]
	stretch := x2 - x1

	ke := 0.5*p.M1*v1*v1 + 0.5*p.M2*v2*v2
	pe := 0.5*p.K1*x1*x1 + 0.5*p.K2*stretch*stretch
	return ke + pe
}

func (cs *CoupledSprings) GetParams() map[string]float64 {
	return map[string]float64{
		"m1": cs.p.M1,
		"m2": cs.p.M2,
		"k1": cs.p.K1,
		"k2": cs.p.K2,
		"c":  cs.p.C,
	}
}
