package integrators

import (
	"math"

	"github.com/san-kum/springsim/internal/dynamo"
)

// Dormand-Prince 5(4) tableau.
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	// Fifth minus fourth order weights.
	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

// StagesPerAttempt is the number of derivative evaluations per Attempt. The
// seventh stage is reused as the first stage of the next step.
const StagesPerAttempt = 6

// DormandPrince is an explicit embedded Runge-Kutta 5(4) pair with local error
// control. It holds only configuration and is safe for concurrent use.
type DormandPrince struct {
	Rtol float64
	Atol float64

	safety   float64
	minScale float64
	maxScale float64
}

func NewDormandPrince(rtol, atol float64) *DormandPrince {
	return &DormandPrince{
		Rtol:     rtol,
		Atol:     atol,
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

// Step takes one step of size dt without error control.
func (d *DormandPrince) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	xNew, _, _ := d.Attempt(dyn, x, dyn.Derive(x, t), t, dt)
	return xNew
}

// Attempt advances x by h given k1 = f(x, t). It returns the fifth order solution,
// the derivative at that solution and the RMS of the local error scaled by
// Atol + Rtol*max(|x|, |xNew|). A norm <= 1 means the step meets the tolerance.
func (d *DormandPrince) Attempt(dyn dynamo.System, x, k1 dynamo.State, t, h float64) (dynamo.State, dynamo.State, float64) {
	n := len(x)
	tmp := make(dynamo.State, n)

	for i := 0; i < n; i++ {
		tmp[i] = x[i] + h*b21*k1[i]
	}
	k2 := dyn.Derive(tmp, t+a2*h)

	for i := 0; i < n; i++ {
		tmp[i] = x[i] + h*(b31*k1[i]+b32*k2[i])
	}
	k3 := dyn.Derive(tmp, t+a3*h)

	for i := 0; i < n; i++ {
		tmp[i] = x[i] + h*(b41*k1[i]+b42*k2[i]+b43*k3[i])
	}
	k4 := dyn.Derive(tmp, t+a4*h)

	for i := 0; i < n; i++ {
		tmp[i] = x[i] + h*(b51*k1[i]+b52*k2[i]+b53*k3[i]+b54*k4[i])
	}
	k5 := dyn.Derive(tmp, t+a5*h)

	for i := 0; i < n; i++ {
		tmp[i] = x[i] + h*(b61*k1[i]+b62*k2[i]+b63*k3[i]+b64*k4[i]+b65*k5[i])
	}
	k6 := dyn.Derive(tmp, t+h)

	xNew := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		xNew[i] = x[i] + h*(c1*k1[i]+c3*k3[i]+c4*k4[i]+c5*k5[i]+c6*k6[i])
	}
	k7 := dyn.Derive(xNew, t+h)

	sum := 0.0
	for i := 0; i < n; i++ {
		errEst := h * (dc1*k1[i] + dc3*k3[i] + dc4*k4[i] + dc5*k5[i] + dc6*k6[i] + dc7*k7[i])
		scale := d.Atol + d.Rtol*math.Max(math.Abs(x[i]), math.Abs(xNew[i]))
		r := errEst / scale
		sum += r * r
	}

	return xNew, k7, math.Sqrt(sum / float64(n))
}

// NextStep proposes the step size to try after a step of size h whose error norm was
// errNorm. After a rejection the step never grows.
func (d *DormandPrince) NextStep(h, errNorm float64) float64 {
	if errNorm > 1 {
		return h * math.Max(d.minScale, d.safety*math.Pow(errNorm, -0.2))
	}
	if errNorm == 0 {
		return h * d.maxScale
	}
	return h * math.Min(d.maxScale, d.safety*math.Pow(errNorm, -0.2))
}

// InitialStep estimates a first step size from the local behaviour of the
// solution at (x, t), following Hairer, Norsett & Wanner, Solving ODEs I, II.4.
// k0 must be f(x, t). The result is never larger than span.
func (d *DormandPrince) InitialStep(dyn dynamo.System, x, k0 dynamo.State, t, span float64) float64 {
	n := len(x)
	scale := make([]float64, n)
	for i := range x {
		scale[i] = d.Atol + d.Rtol*math.Abs(x[i])
	}

	rms := func(v dynamo.State) float64 {
		sum := 0.0
		for i := range v {
			r := v[i] / scale[i]
			sum += r * r
		}
		return math.Sqrt(sum / float64(n))
	}

	d0 := rms(x)
	d1 := rms(k0)

	var h0 float64
	if d0 < 1e-5 || d1 < 1e-5 {
		h0 = 1e-6
	} else {
		h0 = 0.01 * d0 / d1
	}
	h0 = math.Min(h0, span)

	x1 := make(dynamo.State, n)
	for i := range x {
		x1[i] = x[i] + h0*k0[i]
	}
	k1 := dyn.Derive(x1, t+h0)
	d2 := rms(k1.Sub(k0)) / h0

	var h1 float64
	if d1 <= 1e-15 && d2 <= 1e-15 {
		h1 = math.Max(1e-6, h0*1e-3)
	} else {
		h1 = math.Pow(0.01/math.Max(d1, d2), 1.0/5.0)
	}

	return math.Min(math.Min(100*h0, h1), span)
}
