package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/springsim/internal/dynamo"
)

func TestDormandPrince_Step(t *testing.T) {
	integrator := NewDormandPrince(1e-8, 1e-8)
	dyn := &harmonicOscillator{}

	x := dynamo.State{1.0, 0.0}
	dt := 0.01

	for i := 0; i < 1000; i++ {
		x = integrator.Step(dyn, x, float64(i)*dt, dt)
	}

	if !x.IsValid() {
		t.Fatal("DormandPrince produced invalid state")
	}
	if math.Abs(x[0]-math.Cos(10)) > 1e-10 {
		t.Errorf("expected x=%.12f, got %.12f", math.Cos(10), x[0])
	}
}

func TestDormandPrince_EnergyConservation(t *testing.T) {
	integrator := NewDormandPrince(1e-8, 1e-8)
	dyn := &harmonicOscillator{}
	x0 := dynamo.State{1.0, 0.0}

	initialEnergy := dyn.Energy(x0)
	x := x0.Clone()
	dt := 0.01

	for i := 0; i < 10000; i++ {
		x = integrator.Step(dyn, x, float64(i)*dt, dt)
	}

	drift := math.Abs(dyn.Energy(x)-initialEnergy) / initialEnergy
	if drift > 1e-8 {
		t.Errorf("energy drift too high: %e", drift)
	}
}

func TestDormandPrince_ErrorEstimate(t *testing.T) {
	integrator := NewDormandPrince(1e-6, 1e-6)
	dyn := &harmonicOscillator{}
	x0 := dynamo.State{1.0, 0.0}
	k0 := dyn.Derive(x0, 0)

	_, _, errLarge := integrator.Attempt(dyn, x0, k0, 0, 0.5)
	_, _, errSmall := integrator.Attempt(dyn, x0, k0, 0, 0.05)

	if !(errSmall < errLarge) {
		t.Errorf("error estimate should shrink with the step: h=0.5 -> %e, h=0.05 -> %e", errLarge, errSmall)
	}
	// Fifth power behaviour: a tenfold smaller step cuts the estimate by far more than 10.
	if errLarge/errSmall < 1e3 {
		t.Errorf("error estimate ratio %e lower than expected", errLarge/errSmall)
	}
}

func TestDormandPrince_FSAL(t *testing.T) {
	integrator := NewDormandPrince(1e-8, 1e-8)
	dyn := &harmonicOscillator{}
	x0 := dynamo.State{0.3, -0.7}

	xNew, kNew, _ := integrator.Attempt(dyn, x0, dyn.Derive(x0, 0), 0, 0.1)
	want := dyn.Derive(xNew, 0.1)

	for i := range want {
		if kNew[i] != want[i] {
			t.Errorf("last stage[%d] = %v, want derivative at new state %v", i, kNew[i], want[i])
		}
	}
}

func TestDormandPrince_NextStep(t *testing.T) {
	integrator := NewDormandPrince(1e-6, 1e-6)

	tests := []struct {
		name    string
		errNorm float64
		check   func(h float64) bool
	}{
		{"rejected step shrinks", 4.0, func(h float64) bool { return h < 0.1 && h >= 0.1*0.2 }},
		{"huge error clamps to min scale", 1e12, func(h float64) bool { return math.Abs(h-0.02) < 1e-15 }},
		{"accepted step grows", 1e-3, func(h float64) bool { return h > 0.1 && h <= 1.0 }},
		{"zero error uses max scale", 0, func(h float64) bool { return math.Abs(h-1.0) < 1e-15 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if h := integrator.NextStep(0.1, tt.errNorm); !tt.check(h) {
				t.Errorf("NextStep(0.1, %g) = %g", tt.errNorm, h)
			}
		})
	}
}

func TestDormandPrince_InitialStep(t *testing.T) {
	integrator := NewDormandPrince(1.49012e-8, 1.49012e-8)
	dyn := &harmonicOscillator{}
	x0 := dynamo.State{1.0, 0.0}

	h := integrator.InitialStep(dyn, x0, dyn.Derive(x0, 0), 0, 0.02)
	if h <= 0 || h > 0.02 {
		t.Errorf("initial step %g outside (0, 0.02]", h)
	}

	h = integrator.InitialStep(dyn, dynamo.State{0, 0}, dynamo.State{0, 0}, 0, 5)
	if h <= 0 || h > 5 {
		t.Errorf("initial step at rest %g outside (0, 5]", h)
	}
}
