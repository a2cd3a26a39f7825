package analysis

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/springsim/internal/physics"
)

// Mode is one undamped normal mode of the two-mass chain.
type Mode struct {
	Omega     float64    // angular frequency, rad/s
	Frequency float64    // Hz
	Shape     [2]float64 // relative amplitudes of (x1, x2), largest component is 1
}

// NormalModes solves the undamped eigenproblem K v = ω² M v by symmetrising it
// to M^-1/2 K M^-1/2. Modes are returned slowest first. Damping is ignored.
func NormalModes(p physics.Params) ([]Mode, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	s1 := 1 / math.Sqrt(p.M1)
	s2 := 1 / math.Sqrt(p.M2)
	a := mat.NewSymDense(2, []float64{
		(p.K1 + p.K2) * s1 * s1, -p.K2 * s1 * s2,
		-p.K2 * s1 * s2, p.K2 * s2 * s2,
	})

	var es mat.EigenSym
	if ok := es.Factorize(a, true); !ok {
		return nil, errors.New("analysis: eigen decomposition failed")
	}
	values := es.Values(nil)
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	modes := make([]Mode, len(values))
	for i, lambda := range values {
		omega := math.Sqrt(math.Max(lambda, 0))
		shape := [2]float64{vecs.At(0, i) * s1, vecs.At(1, i) * s2}
		modes[i] = Mode{
			Omega:     omega,
			Frequency: omega / (2 * math.Pi),
			Shape:     normaliseShape(shape),
		}
	}
	return modes, nil
}

func normaliseShape(v [2]float64) [2]float64 {
	ref := v[0]
	if math.Abs(v[1]) > math.Abs(v[0]) {
		ref = v[1]
	}
	if ref == 0 {
		return v
	}
	return [2]float64{v[0] / ref, v[1] / ref}
}
