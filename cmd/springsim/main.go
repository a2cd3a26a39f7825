package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/physics"
	"github.com/san-kum/springsim/internal/sim"
)

var (
	configFile string
	preset     string
	verbose    bool

	// physical parameters
	m1, m2, k1, k2, damping float64
	// initial state
	x1, x2, v1, v2 float64
	// grid
	gridStart float64
	gridStop  float64
	samples   int
	// solver
	method   string
	rtol     float64
	atol     float64
	maxSteps int
	substeps int

	format  string
	frame   int
	plots   []string
	xAxis   int
	yAxis   int
	sweepOn string
	from    float64
	to      float64
	steps   int
	workers int

	searchAxes    []string
	objectiveName string

	logger = zap.NewNop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "springsim",
		Short:         "two masses, two springs, one damper",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(verbose)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate and print a summary",
		RunE:  runSimulation,
	}
	addModelFlags(runCmd)

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "simulate and plot displacements, separation and energy",
		RunE:  plotRun,
	}
	addModelFlags(plotCmd)
	plotCmd.Flags().StringSliceVar(&plots, "show", []string{"displacement", "separation", "energy"}, "charts to draw: displacement, separation, energy, spectrum")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "simulate and replay the run as an animation",
		RunE:  runLive,
	}
	addModelFlags(liveCmd)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "simulate and write the trajectory to stdout",
		RunE:  exportRun,
	}
	addModelFlags(exportCmd)
	exportCmd.Flags().StringVar(&format, "format", "csv", "output format: csv, json, svg or svg-scene")
	exportCmd.Flags().IntVar(&frame, "frame", 0, "sample drawn by svg-scene (negative counts from the end)")

	modesCmd := &cobra.Command{
		Use:   "modes",
		Short: "normal modes and the dominant frequency of a run",
		RunE:  showModes,
	}
	addModelFlags(modesCmd)

	phaseCmd := &cobra.Command{
		Use:   "phase",
		Short: "phase space plot of two state components",
		RunE:  phasePlot,
	}
	addModelFlags(phaseCmd)
	phaseCmd.Flags().IntVar(&xAxis, "x-axis", physics.X1, "state index for x-axis (0=x1 1=x2 2=v1 3=v2)")
	phaseCmd.Flags().IntVar(&yAxis, "y-axis", physics.V1, "state index for y-axis")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "vary one parameter and compare the runs",
		RunE:  runSweep,
	}
	addModelFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepOn, "param", "k2", "parameter to vary: "+strings.Join(physics.ParamNames, ", "))
	sweepCmd.Flags().Float64Var(&from, "from", 0, "first value")
	sweepCmd.Flags().Float64Var(&to, "to", 2, "last value")
	sweepCmd.Flags().IntVar(&steps, "steps", 21, "number of values")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (0 = GOMAXPROCS)")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search for the parameters that minimise an objective",
		RunE:  tuneParams,
	}
	addModelFlags(tuneCmd)
	tuneCmd.Flags().StringSliceVar(&searchAxes, "grid", []string{"k2=0:2:21", "c=0:0.5:11"}, "searched axes as name=from:to:n")
	tuneCmd.Flags().StringVar(&objectiveName, "objective", "decay", "score to minimise: decay, peak, peak-x2")
	tuneCmd.Flags().IntVar(&workers, "workers", 0, "concurrent runs (0 = GOMAXPROCS)")

	compareCmd := &cobra.Command{
		Use:   "compare [method]...",
		Short: "compare integration methods on the same run",
		RunE:  compareMethods,
	}
	addModelFlags(compareCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, plotCmd, liveCmd, exportCmd, modesCmd, phaseCmd, sweepCmd, tuneCmd, compareCmd, presetsCmd)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	cancel()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

func addModelFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	f := cmd.Flags()

	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "start from a preset configuration")

	f.Float64Var(&m1, "m1", def.Params.M1, "mass 1")
	f.Float64Var(&m2, "m2", def.Params.M2, "mass 2")
	f.Float64Var(&k1, "k1", def.Params.K1, "anchor spring stiffness")
	f.Float64Var(&k2, "k2", def.Params.K2, "coupling spring stiffness")
	f.Float64Var(&damping, "c", def.Params.C, "damping coefficient")

	f.Float64Var(&x1, "x1", def.InitState.X1, "initial displacement of mass 1")
	f.Float64Var(&x2, "x2", def.InitState.X2, "initial displacement of mass 2")
	f.Float64Var(&v1, "v1", def.InitState.V1, "initial velocity of mass 1")
	f.Float64Var(&v2, "v2", def.InitState.V2, "initial velocity of mass 2")

	f.Float64Var(&gridStart, "start", def.Grid.Start, "first sample time")
	f.Float64Var(&gridStop, "time", def.Grid.Stop, "last sample time")
	f.IntVar(&samples, "samples", def.Grid.Samples, "number of samples")

	f.StringVar(&method, "method", def.Solver.Method, "integration method: dopri5 or rk4")
	f.Float64Var(&rtol, "rtol", def.Solver.Rtol, "relative tolerance (dopri5)")
	f.Float64Var(&atol, "atol", def.Solver.Atol, "absolute tolerance (dopri5)")
	f.IntVar(&maxSteps, "max-steps", def.Solver.MaxSteps, "internal steps allowed per sample interval (dopri5)")
	f.IntVar(&substeps, "substeps", def.Solver.Substeps, "fixed steps per sample interval (rk4)")
}

// resolveConfig applies preset, then config file, then any flag set explicitly.
func resolveConfig(flags *pflag.FlagSet) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (have %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.LoadOver(cfg, configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	overrides := map[string]func(){
		"m1":        func() { cfg.Params.M1 = m1 },
		"m2":        func() { cfg.Params.M2 = m2 },
		"k1":        func() { cfg.Params.K1 = k1 },
		"k2":        func() { cfg.Params.K2 = k2 },
		"c":         func() { cfg.Params.C = damping },
		"x1":        func() { cfg.InitState.X1 = x1 },
		"x2":        func() { cfg.InitState.X2 = x2 },
		"v1":        func() { cfg.InitState.V1 = v1 },
		"v2":        func() { cfg.InitState.V2 = v2 },
		"start":     func() { cfg.Grid.Start = gridStart },
		"time":      func() { cfg.Grid.Stop = gridStop },
		"samples":   func() { cfg.Grid.Samples = samples },
		"method":    func() { cfg.Solver.Method = method },
		"rtol":      func() { cfg.Solver.Rtol = rtol },
		"atol":      func() { cfg.Solver.Atol = atol },
		"max-steps": func() { cfg.Solver.MaxSteps = maxSteps },
		"substeps":  func() { cfg.Solver.Substeps = substeps },
	}
	flags.Visit(func(f *pflag.Flag) {
		if apply, ok := overrides[f.Name]; ok {
			apply()
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("resolved config",
		zap.String("preset", preset),
		zap.String("config", configFile),
		zap.Any("params", cfg.Params),
		zap.Any("grid", cfg.Grid),
		zap.String("method", cfg.Solver.Method),
	)
	return cfg, nil
}

func newSolver(cfg *config.Config) (*sim.Solver, error) {
	return sim.New(cfg.SolverOptions(), logger)
}
