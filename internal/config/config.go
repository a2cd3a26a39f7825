package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/physics"
	"github.com/san-kum/springsim/internal/sim"
)

const (
	DefaultStart   = 0.0
	DefaultStop    = 20.0
	DefaultSamples = 1000
)

var validate = validator.New()

type Config struct {
	Params    physics.Params  `yaml:"params"`
	InitState InitStateConfig `yaml:"init_state"`
	Grid      GridConfig      `yaml:"grid"`
	Solver    SolverConfig    `yaml:"solver"`
}

type InitStateConfig struct {
	X1 float64 `yaml:"x1"`
	X2 float64 `yaml:"x2"`
	V1 float64 `yaml:"v1"`
	V2 float64 `yaml:"v2"`
}

// GridConfig describes an evenly spaced reporting grid with both ends included.
type GridConfig struct {
	Start   float64 `yaml:"start"`
	Stop    float64 `yaml:"stop" validate:"gtfield=Start"`
	Samples int     `yaml:"samples" validate:"min=2"`
}

type SolverConfig struct {
	Method   string  `yaml:"method" validate:"oneof=dopri5 rk4"`
	Rtol     float64 `yaml:"rtol" validate:"gt=0"`
	Atol     float64 `yaml:"atol" validate:"gt=0"`
	MaxSteps int     `yaml:"max_steps" validate:"gt=0"`
	Substeps int     `yaml:"substeps" validate:"gt=0"`
}

// DefaultConfig is the reference run: unit masses and springs, light damping,
// the first mass pulled out by 1 and released, 1000 samples over [0, 20].
func DefaultConfig() *Config {
	opts := sim.DefaultOptions()
	return &Config{
		Params:    physics.DefaultParams(),
		InitState: InitStateConfig{X1: 1},
		Grid: GridConfig{
			Start:   DefaultStart,
			Stop:    DefaultStop,
			Samples: DefaultSamples,
		},
		Solver: SolverConfig{
			Method:   opts.Method,
			Rtol:     opts.Rtol,
			Atol:     opts.Atol,
			MaxSteps: opts.MaxSteps,
			Substeps: opts.Substeps,
		},
	}
}

// Load reads a YAML file on top of the defaults and validates the result.
func Load(path string) (*Config, error) {
	return LoadOver(DefaultConfig(), path)
}

// LoadOver reads a YAML file on top of a copy of base. Keys absent from the
// file keep the value from base.
func LoadOver(base *Config, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks every section. Failures in the physical parameters wrap
// dynamo.ErrInvalidParameters.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		var params, other []string
		for _, fe := range verrs {
			if strings.HasPrefix(fe.Namespace(), "Config.Params.") {
				params = append(params, formatFieldError(fe))
			} else {
				other = append(other, formatFieldError(fe))
			}
		}
		if len(params) > 0 {
			return fmt.Errorf("%w: %s", dynamo.ErrInvalidParameters, strings.Join(params, "; "))
		}
		return fmt.Errorf("invalid config: %s", strings.Join(other, "; "))
	}
	// Catches infinities, which pass the comparison tags.
	if err := c.Params.Validate(); err != nil {
		return err
	}
	return c.TimeGrid().Validate()
}

func formatFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())

	switch fe.Tag() {
	case "gt":
		return fmt.Sprintf("%s must be greater than %s, got %v", field, fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("%s must be at least %s, got %v", field, fe.Param(), fe.Value())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gtfield":
		return fmt.Sprintf("%s must be greater than %s", field, strings.ToLower(fe.Param()))
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func (c *Config) InitialState() dynamo.State {
	s := c.InitState
	return physics.NewState(s.X1, s.X2, s.V1, s.V2)
}

func (c *Config) TimeGrid() dynamo.TimeGrid {
	return dynamo.Linspace(c.Grid.Start, c.Grid.Stop, c.Grid.Samples)
}

func (c *Config) SolverOptions() sim.Options {
	opts := sim.DefaultOptions()
	opts.Method = c.Solver.Method
	opts.Rtol = c.Solver.Rtol
	opts.Atol = c.Solver.Atol
	opts.MaxSteps = c.Solver.MaxSteps
	opts.Substeps = c.Solver.Substeps
	return opts
}
