package config

import (
	"math"
	"sort"
)

// Presets are partial tunings applied over DefaultConfig.
var Presets = map[string]func(*Config){
	"default": func(c *Config) {},
	"comfort": func(c *Config) {
		c.MoveSpeed = 1.5
		c.RotationSpeed = 0.9
		c.DeadZone = 0.15
		c.GrabSmoothing = 0.3
	},
	"snappy": func(c *Config) {
		c.MoveSpeed = 5
		c.RotationSpeed = 3
		c.DeadZone = 0.05
		c.LookSpeed = 0.008
		c.GrabSmoothing = 0.8
	},
	"seated": func(c *Config) {
		c.MoveSpeed = 1
		c.PickRange = 5
		c.Cubes.Count = 30
		c.Cubes.Radius = 1.5
		c.Pendulum.Count = 3
		c.Pendulum.InitialAngle = math.Pi / 8
	},
}

// GetPreset returns a fresh config with the named preset applied, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
