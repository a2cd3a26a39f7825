package main

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/springsim/internal/analysis"
	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/export"
	"github.com/san-kum/springsim/internal/metrics"
	"github.com/san-kum/springsim/internal/optim"
	"github.com/san-kum/springsim/internal/physics"
	"github.com/san-kum/springsim/internal/sim"
	"github.com/san-kum/springsim/internal/viz"
)

// simulate resolves the config for cmd and runs it once.
func simulate(cmd *cobra.Command) (*config.Config, *physics.CoupledSprings, *dynamo.Trajectory, error) {
	cfg, err := resolveConfig(cmd.Flags())
	if err != nil {
		return nil, nil, nil, err
	}
	model, err := physics.NewCoupledSprings(cfg.Params)
	if err != nil {
		return nil, nil, nil, err
	}
	solver, err := newSolver(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	tr, err := solver.Integrate(model, cfg.InitialState(), cfg.TimeGrid())
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, model, tr, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, model, tr, err := simulate(cmd)
	if err != nil {
		return err
	}

	p := cfg.Params
	fmt.Printf("m1=%g m2=%g k1=%g k2=%g c=%g\n", p.M1, p.M2, p.K1, p.K2, p.C)
	fmt.Printf("%d samples over [%g, %g]\n\n", tr.Len(), tr.Time(0), tr.Time(tr.Len()-1))

	st := tr.Stats()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METHOD\tACCEPTED\tREJECTED\tEVALS\tMIN STEP\tMAX STEP")
	fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%.3g\t%.3g\n", st.Method, st.Accepted, st.Rejected, st.Evaluations, st.MinStep, st.MaxStep)
	w.Flush()

	final := tr.Final()
	fmt.Printf("\nfinal state: x1=%+.6f x2=%+.6f v1=%+.6f v2=%+.6f\n\n",
		final[physics.X1], final[physics.X2], final[physics.V1], final[physics.V2])

	values := metrics.Evaluate(tr, metrics.Default(model)...)
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%.6g\n", name, values[name])
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	_, model, tr, err := simulate(cmd)
	if err != nil {
		return err
	}

	size := viz.DefaultPlotSize
	for _, what := range plots {
		var graph string
		switch strings.TrimSpace(what) {
		case "displacement":
			graph = viz.PlotDisplacements(tr, size)
		case "separation":
			graph = viz.PlotSeparation(tr, size)
		case "energy":
			graph = viz.PlotEnergy(model, tr, size)
		case "spectrum":
			graph = viz.PlotSpectrum(tr.Series(physics.X1), size)
		default:
			return fmt.Errorf("unknown chart: %s", what)
		}
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, model, tr, err := simulate(cmd)
	if err != nil {
		return err
	}
	title := "coupled springs"
	if preset != "" {
		title += " / " + preset
	}
	logger.Debug("starting playback", zap.Int("frames", tr.Len()), zap.Duration("interval", viz.FrameInterval), zap.String("method", cfg.Solver.Method))
	return viz.Play(tr, model, title)
}

func exportRun(cmd *cobra.Command, args []string) error {
	cfg, model, tr, err := simulate(cmd)
	if err != nil {
		return err
	}
	switch format {
	case "csv":
		return export.WriteCSV(os.Stdout, tr)
	case "json":
		values := metrics.Evaluate(tr, metrics.Default(model)...)
		return export.WriteJSON(os.Stdout, export.NewExportData(cfg.Params, tr, values))
	case "svg":
		return export.WriteTrajectorySVG(os.Stdout, tr, 960, 320)
	case "svg-scene":
		i := frame
		if i < 0 {
			i = tr.Len() + i
		}
		return export.WriteSceneSVG(os.Stdout, tr, i, 4)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func showModes(cmd *cobra.Command, args []string) error {
	cfg, _, tr, err := simulate(cmd)
	if err != nil {
		return err
	}

	modes, err := analysis.NormalModes(cfg.Params)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODE\tOMEGA (rad/s)\tFREQ (Hz)\tPERIOD (s)\tSHAPE x1:x2")
	for i, m := range modes {
		period := math.Inf(1)
		if m.Frequency > 0 {
			period = 1 / m.Frequency
		}
		fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%.3f\t%+.3f : %+.3f\n", i+1, m.Omega, m.Frequency, period, m.Shape[0], m.Shape[1])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	grid := tr.Times()
	dt := grid.Span() / float64(len(grid)-1)
	fmt.Println()
	for _, j := range []int{physics.X1, physics.X2} {
		f, err := analysis.DominantFrequency(tr.Series(j), dt)
		if err != nil {
			return err
		}
		fmt.Printf("dominant frequency of x%d: %.4f Hz\n", j+1, f)
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	_, _, tr, err := simulate(cmd)
	if err != nil {
		return err
	}
	portrait := analysis.PhasePortrait(tr, xAxis, yAxis)
	if portrait == nil {
		return fmt.Errorf("axis out of range: state has %d components", tr.Dim())
	}

	names := []string{"x1", "x2", "v1", "v2"}
	fmt.Printf("phase portrait: %s vs %s\n\n", names[yAxis], names[xAxis])
	fmt.Print(analysis.PhasePortraitToASCII(portrait, 80, 24))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	if _, err := (physics.Params{}).With(sweepOn, 0); err != nil {
		return err
	}
	set := func(p *physics.Params, v float64) { *p, _ = p.With(sweepOn, v) }
	if steps < 2 {
		return fmt.Errorf("steps must be at least 2, got %d", steps)
	}
	cfg, err := resolveConfig(cmd.Flags())
	if err != nil {
		return err
	}
	solver, err := newSolver(cfg)
	if err != nil {
		return err
	}

	runs := sim.ParamSweep(cfg.Params, set, from, to, steps, cfg.InitialState(), cfg.TimeGrid())
	began := time.Now()
	outcomes, err := solver.Sweep(cmd.Context(), runs, workers)
	if err != nil {
		return err
	}
	logger.Debug("sweep finished", zap.Int("runs", len(runs)), zap.Duration("elapsed", time.Since(began)))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tPEAK\tDECAY\tSTABILITY\tENERGY DRIFT\tFINAL x1\n", strings.ToUpper(sweepOn))
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", o.Run.Name, o.Err)
			continue
		}
		model, err := physics.NewCoupledSprings(o.Run.Params)
		if err != nil {
			return err
		}
		v := metrics.Evaluate(o.Trajectory, metrics.Default(model)...)
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.3f\t%.2e\t%+.5f\n",
			o.Run.Name, v["peak_displacement"], v["displacement_decay"], v["stability"], v["energy_drift"],
			o.Trajectory.Final()[physics.X1])
	}
	return w.Flush()
}

func tuneParams(cmd *cobra.Command, args []string) error {
	objective, ok := optim.Objectives[objectiveName]
	if !ok {
		return fmt.Errorf("unknown objective: %s", objectiveName)
	}
	axes := make([]optim.Axis, 0, len(searchAxes))
	for _, arg := range searchAxes {
		axis, err := parseAxis(arg)
		if err != nil {
			return err
		}
		axes = append(axes, axis)
	}

	cfg, err := resolveConfig(cmd.Flags())
	if err != nil {
		return err
	}
	solver, err := newSolver(cfg)
	if err != nil {
		return err
	}

	res, err := optim.NewGridSearch(axes...).Search(cmd.Context(), solver, cfg.Params, cfg.InitialState(), cfg.TimeGrid(), objective, workers)
	if err != nil {
		return err
	}

	p := res.Params
	fmt.Printf("best %s = %.6g over %d runs (%d failed)\n", objectiveName, res.Score, res.Evaluated, res.Failed)
	fmt.Printf("m1=%g m2=%g k1=%g k2=%g c=%g\n", p.M1, p.M2, p.K1, p.K2, p.C)
	return nil
}

// parseAxis reads name=from:to:n, e.g. k2=0:2:21.
func parseAxis(arg string) (optim.Axis, error) {
	name, rng, ok := strings.Cut(arg, "=")
	if !ok {
		return optim.Axis{}, fmt.Errorf("bad axis %q: want name=from:to:n", arg)
	}
	var lo, hi float64
	var n int
	if _, err := fmt.Sscanf(rng, "%g:%g:%d", &lo, &hi, &n); err != nil {
		return optim.Axis{}, fmt.Errorf("bad axis %q: %w", arg, err)
	}
	if n < 1 {
		return optim.Axis{}, fmt.Errorf("bad axis %q: need at least one value", arg)
	}
	values := []float64{lo}
	if n > 1 {
		values = dynamo.Linspace(lo, hi, n)
	}
	return optim.Axis{Name: strings.TrimSpace(name), Values: values}, nil
}

func compareMethods(cmd *cobra.Command, args []string) error {
	methods := args
	if len(methods) == 0 {
		methods = sim.Methods()
	}
	cfg, err := resolveConfig(cmd.Flags())
	if err != nil {
		return err
	}
	model, err := physics.NewCoupledSprings(cfg.Params)
	if err != nil {
		return err
	}
	x0, grid := cfg.InitialState(), cfg.TimeGrid()

	fmt.Printf("comparing methods (%d samples over [%g, %g])\n\n", len(grid), grid.Start(), grid.End())
	fmt.Printf("%-10s  %-12s  %-12s  %-12s  %-10s  %-10s\n", "method", "final_x1", "energy_drift", "max_diff", "evals", "time_ms")
	fmt.Println(strings.Repeat("-", 76))

	var ref *dynamo.Trajectory
	for _, name := range methods {
		opts := cfg.SolverOptions()
		opts.Method = name
		solver, err := sim.New(opts, logger)
		if err != nil {
			fmt.Printf("%-10s  error: %v\n", name, err)
			continue
		}

		began := time.Now()
		tr, err := solver.Integrate(model, x0, grid)
		elapsed := time.Since(began)
		if err != nil {
			fmt.Printf("%-10s  error: %v\n", name, err)
			continue
		}
		if ref == nil {
			ref = tr
		}

		drift := metrics.Evaluate(tr, metrics.NewEnergyDrift(model))["energy_drift"]
		fmt.Printf("%-10s  %12.6f  %12.2e  %12.2e  %10d  %10.2f\n",
			name, tr.Final()[physics.X1], drift, maxDifference(ref, tr), tr.Stats().Evaluations,
			float64(elapsed.Microseconds())/1000)
	}
	return nil
}

// maxDifference is the largest distance between corresponding states of a and b.
func maxDifference(a, b *dynamo.Trajectory) float64 {
	worst := 0.0
	a.Each(func(i int, _ float64, x dynamo.State) {
		worst = math.Max(worst, x.Sub(b.At(i)).Norm())
	})
	return worst
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tM1\tM2\tK1\tK2\tC\tX0\tTIME")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		p, s := cfg.Params, cfg.InitState
		fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%g\t%g\t(%g, %g, %g, %g)\t[%g, %g]\n",
			name, p.M1, p.M2, p.K1, p.K2, p.C, s.X1, s.X2, s.V1, s.V2, cfg.Grid.Start, cfg.Grid.Stop)
	}
	return w.Flush()
}
