// Package analysis reads finished trajectories and model parameters and
// derives quantities that are not part of the simulation itself:
//
//   - [NormalModes]: undamped mode frequencies and shapes of the chain
//   - [DominantFrequency] and [PowerSpectrum]: spectral content of a series
//   - [Separation]: stretch of the coupling spring over time
//   - [PhasePortrait]: any two state components plotted against each other
//
// For the reference masses and stiffnesses the modes sit at ω = 0.618 and
// 1.618 rad/s:
//
//	modes, _ := analysis.NormalModes(physics.DefaultParams())
//	for _, m := range modes {
//	    fmt.Printf("%.3f Hz %v\n", m.Frequency, m.Shape)
//	}
package analysis
