package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/physics"
)

// DisplacementDecay compares the mean of |x1|+|x2| over the last fraction of
// the samples with the mean over the first fraction. Values below 1 mean the
// motion is dying out.
type DisplacementDecay struct {
	name     string
	fraction float64
	amp      []float64
}

func NewDisplacementDecay(fraction float64) *DisplacementDecay {
	return &DisplacementDecay{
		name:     "displacement_decay",
		fraction: fraction,
	}
}

func (d *DisplacementDecay) Name() string { return d.name }

func (d *DisplacementDecay) Observe(x dynamo.State, t float64) {
	d.amp = append(d.amp, math.Abs(x[physics.X1])+math.Abs(x[physics.X2]))
}

// Windows returns the mean amplitude of the first and last windows.
func (d *DisplacementDecay) Windows() (first, last float64) {
	n := len(d.amp)
	if n == 0 {
		return 0, 0
	}
	w := int(d.fraction * float64(n))
	if w < 1 {
		w = 1
	}
	return stat.Mean(d.amp[:w], nil), stat.Mean(d.amp[n-w:], nil)
}

func (d *DisplacementDecay) Value() float64 {
	first, last := d.Windows()
	if first == 0 {
		return 0
	}
	return last / first
}

func (d *DisplacementDecay) Reset() {
	d.amp = d.amp[:0]
}

// PeakDisplacement is the largest |x1| or |x2| observed.
type PeakDisplacement struct {
	name  string
	peaks []float64
}

func NewPeakDisplacement() *PeakDisplacement {
	return &PeakDisplacement{name: "peak_displacement"}
}

func (p *PeakDisplacement) Name() string { return p.name }

func (p *PeakDisplacement) Observe(x dynamo.State, t float64) {
	p.peaks = append(p.peaks, math.Max(math.Abs(x[physics.X1]), math.Abs(x[physics.X2])))
}

func (p *PeakDisplacement) Value() float64 {
	if len(p.peaks) == 0 {
		return 0
	}
	return floats.Max(p.peaks)
}

func (p *PeakDisplacement) Reset() {
	p.peaks = p.peaks[:0]
}

// Stability is the fraction of samples whose displacements stay within
// [-threshold, threshold].
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(x dynamo.State, t float64) {
	s.samples++
	if math.Abs(x[physics.X1]) > s.threshold || math.Abs(x[physics.X2]) > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
