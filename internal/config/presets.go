package config

import (
	"maps"
	"slices"
)

// Presets are named starting points. Each is a full configuration derived from
// DefaultConfig.
var Presets = map[string]*Config{
	"reference": DefaultConfig(),
	"undamped": withConfig(func(c *Config) {
		c.Params.C = 0
	}),
	"free-anchor": withConfig(func(c *Config) {
		c.Params.K1 = 0
		c.InitState = InitStateConfig{X1: 0.5, X2: -0.5}
	}),
	"stiff-coupling": withConfig(func(c *Config) {
		c.Params.K2 = 25
		c.Grid.Stop = 10
	}),
	"heavy-follower": withConfig(func(c *Config) {
		c.Params.M2 = 5
		c.Grid.Stop = 40
		c.Grid.Samples = 2000
	}),
}

func withConfig(fn func(c *Config)) *Config {
	cfg := DefaultConfig()
	fn(cfg)
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	return slices.Sorted(maps.Keys(Presets))
}
