package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// FFT is a recursive radix-2 transform. len(data) must be a power of two.
func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n&(n-1) != 0 {
		panic("fft requires power of 2 length")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

// PowerSpectrum returns the magnitudes of the non-negative frequency bins.
// The input is zero-padded to the next power of two.
func PowerSpectrum(data []float64) []float64 {
	fft := FFT(padPow2(data))
	ps := make([]float64, len(fft)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}

	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-DC
// component of a series sampled every dt seconds. The series mean is removed
// first. Resolution is one bin, 1/(N*dt) with N the padded length.
func DominantFrequency(series []float64, dt float64) (float64, error) {
	if len(series) < 4 {
		return 0, errors.New("analysis: series too short for a spectrum")
	}
	if !(dt > 0) || math.IsInf(dt, 0) {
		return 0, errors.New("analysis: sample spacing must be positive")
	}

	centred := make([]float64, len(series))
	copy(centred, series)
	floats.AddConst(-stat.Mean(series, nil), centred)

	ps := PowerSpectrum(centred)
	k := 1 + floats.MaxIdx(ps[1:])
	n := 2 * len(ps)
	return float64(k) / (float64(n) * dt), nil
}

func padPow2(data []float64) []float64 {
	n := 1
	for n < len(data) {
		n <<= 1
	}
	if n == len(data) {
		return data
	}
	padded := make([]float64, n)
	copy(padded, data)
	return padded
}
