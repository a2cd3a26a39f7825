package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/springsim/internal/analysis"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/metrics"
	"github.com/san-kum/springsim/internal/physics"
)

// PlotSize bounds the ASCII charts. asciigraph interpolates the series to Width
// columns.
type PlotSize struct {
	Width, Height int
}

var DefaultPlotSize = PlotSize{Width: 80, Height: 12}

// PlotDisplacements draws x1 and x2 against time on one chart.
func PlotDisplacements(tr *dynamo.Trajectory, size PlotSize) string {
	return asciigraph.PlotMany(
		[][]float64{tr.Series(physics.X1), tr.Series(physics.X2)},
		asciigraph.Height(size.Height),
		asciigraph.Width(size.Width),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue),
		asciigraph.Caption(caption("x1 (red), x2 (blue)", tr)),
	)
}

// PlotSeparation draws x1 - x2, the stretch of the coupling spring.
func PlotSeparation(tr *dynamo.Trajectory, size PlotSize) string {
	return asciigraph.Plot(
		analysis.Separation(tr),
		asciigraph.Height(size.Height),
		asciigraph.Width(size.Width),
		asciigraph.Caption(caption("x1 - x2", tr)),
	)
}

func PlotEnergy(h dynamo.Hamiltonian, tr *dynamo.Trajectory, size PlotSize) string {
	return asciigraph.Plot(
		metrics.EnergySeries(h, tr),
		asciigraph.Height(size.Height),
		asciigraph.Width(size.Width),
		asciigraph.Caption(caption("energy", tr)),
	)
}

// PlotSpectrum draws the lowest quarter of the power spectrum, where the mode
// peaks of the reference runs sit.
func PlotSpectrum(series []float64, size PlotSize) string {
	ps := analysis.PowerSpectrum(series)
	return asciigraph.Plot(
		ps[:max(len(ps)/4, 1)],
		asciigraph.Height(size.Height),
		asciigraph.Width(size.Width),
		asciigraph.Caption("power spectrum"),
	)
}

func caption(what string, tr *dynamo.Trajectory) string {
	return fmt.Sprintf("%s, t = %.4g .. %.4g", what, tr.Time(0), tr.Time(tr.Len()-1))
}
