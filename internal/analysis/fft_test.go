package analysis

import (
	"math"
	"testing"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/physics"
	"github.com/san-kum/springsim/internal/sim"
)

func TestFFT_Impulse(t *testing.T) {
	data := []float64{1, 0, 0, 0, 0, 0, 0, 0}
	for k, c := range FFT(data) {
		if math.Abs(real(c)-1) > 1e-12 || math.Abs(imag(c)) > 1e-12 {
			t.Errorf("bin %d = %v, want 1", k, c)
		}
	}
}

func TestFFT_PanicsOnOddLength(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for length 6")
		}
	}()
	FFT(make([]float64, 6))
}

func TestPowerSpectrum_Pads(t *testing.T) {
	ps := PowerSpectrum(make([]float64, 1000))
	if len(ps) != 512 {
		t.Errorf("expected 512 bins, got %d", len(ps))
	}
}

func TestDominantFrequency_Sine(t *testing.T) {
	const n, dt = 64, 1.0 / 64
	data := make([]float64, n)
	for i := range data {
		data[i] = 3 + math.Sin(2*math.Pi*8*float64(i)*dt)
	}

	f, err := DominantFrequency(data, dt)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(f-8) > 1e-12 {
		t.Errorf("expected 8 Hz, got %f", f)
	}
}

func TestDominantFrequency_Invalid(t *testing.T) {
	if _, err := DominantFrequency([]float64{1, 2}, 0.1); err == nil {
		t.Error("expected error for short series")
	}
	if _, err := DominantFrequency(make([]float64, 16), 0); err == nil {
		t.Error("expected error for zero spacing")
	}
}

func TestDominantFrequency_FastModeOfReferenceRun(t *testing.T) {
	p := physics.DefaultParams()
	p.C = 0
	model, err := physics.NewCoupledSprings(p)
	if err != nil {
		t.Fatal(err)
	}
	grid := dynamo.Linspace(0, 20, 1000)
	tr, err := sim.Integrate(model, physics.NewState(1, 0, 0, 0), grid)
	if err != nil {
		t.Fatal(err)
	}

	dt := grid[1] - grid[0]
	f, err := DominantFrequency(tr.Series(physics.X1), dt)
	if err != nil {
		t.Fatal(err)
	}

	modes, err := NormalModes(p)
	if err != nil {
		t.Fatal(err)
	}
	binWidth := 1 / (1024 * dt)
	if math.Abs(f-modes[1].Frequency) > binWidth {
		t.Errorf("dominant %f Hz not within one bin (%f) of fast mode %f Hz", f, binWidth, modes[1].Frequency)
	}
}
