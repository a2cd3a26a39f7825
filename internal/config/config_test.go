package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/physics"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Params != physics.DefaultParams() {
		t.Errorf("unexpected default params %+v", cfg.Params)
	}
	if cfg.Solver.Method != "dopri5" {
		t.Errorf("expected method dopri5, got %s", cfg.Solver.Method)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	grid := cfg.TimeGrid()
	if len(grid) != 1000 || grid[0] != 0 || grid[999] != 20 {
		t.Errorf("unexpected default grid [%f..%f] len %d", grid[0], grid[len(grid)-1], len(grid))
	}

	x0 := cfg.InitialState()
	if len(x0) != physics.StateDim || x0[physics.X1] != 1 || x0[physics.X2] != 0 {
		t.Errorf("unexpected initial state %v", x0)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(c *Config)
		wantParams bool
	}{
		{"zero m1", func(c *Config) { c.Params.M1 = 0 }, true},
		{"negative m2", func(c *Config) { c.Params.M2 = -1 }, true},
		{"negative damping", func(c *Config) { c.Params.C = -0.1 }, true},
		{"infinite stiffness", func(c *Config) { c.Params.K1 = math.Inf(1) }, true},
		{"nan mass", func(c *Config) { c.Params.M1 = math.NaN() }, true},
		{"one sample", func(c *Config) { c.Grid.Samples = 1 }, false},
		{"reversed grid", func(c *Config) { c.Grid.Stop = -1 }, false},
		{"unknown method", func(c *Config) { c.Solver.Method = "euler" }, false},
		{"zero rtol", func(c *Config) { c.Solver.Rtol = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, dynamo.ErrInvalidParameters); got != tt.wantParams {
				t.Errorf("errors.Is(ErrInvalidParameters) = %v, want %v (%v)", got, tt.wantParams, err)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Params.K2 = 2.5
	cfg.InitState.V2 = -0.3
	cfg.Solver.Method = "rk4"
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("params:\n  c: 0\ngrid:\n  samples: 50\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Params.C != 0 || cfg.Params.M1 != 1 {
		t.Errorf("unexpected params %+v", cfg.Params)
	}
	if cfg.Grid.Samples != 50 || cfg.Grid.Stop != 20 {
		t.Errorf("unexpected grid %+v", cfg.Grid)
	}
}

func TestLoadOver_Preset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "over.yaml")
	if err := os.WriteFile(path, []byte("init_state:\n  v2: 0.5\n"), 0644); err != nil {
		t.Fatal(err)
	}

	base := GetPreset("undamped")
	cfg, err := LoadOver(base, path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Params.C != 0 {
		t.Errorf("preset value lost: c = %f", cfg.Params.C)
	}
	if cfg.InitState.V2 != 0.5 || cfg.InitState.X1 != 1 {
		t.Errorf("unexpected initial state %+v", cfg.InitState)
	}
	if base.InitState.V2 != 0 {
		t.Error("LoadOver must not modify base")
	}
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("params:\n  m1: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, dynamo.ErrInvalidParameters) {
		t.Errorf("expected ErrInvalidParameters, got %v", err)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSolverOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Solver.Method = "rk4"
	cfg.Solver.Substeps = 7

	opts := cfg.SolverOptions()
	if opts.Method != "rk4" || opts.Substeps != 7 {
		t.Errorf("unexpected options %+v", opts)
	}
}
