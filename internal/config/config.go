package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/vrlab/internal/grab"
	"github.com/san-kum/vrlab/internal/locomotion"
	"github.com/san-kum/vrlab/internal/physics"
	"github.com/san-kum/vrlab/internal/pick"
	"github.com/san-kum/vrlab/internal/vr"
)

const (
	DefaultLaserLength   = 50.0
	DefaultBobRadius     = 0.3
	DefaultPendulumCount = 5
	DefaultCubeCount     = 100
	DefaultCubeRadius    = 3.0
	DefaultLogLevel      = "info"
)

type Config struct {
	MoveSpeed      float64        `yaml:"move_speed"`
	RotationSpeed  float64        `yaml:"rotation_speed"`
	DeadZone       float64        `yaml:"dead_zone"`
	LookSpeed      float64        `yaml:"look_speed"`
	GrabSmoothing  float64        `yaml:"grab_smoothing"`
	PickRange      float64        `yaml:"pick_range"`
	LaserLength    float64        `yaml:"laser_length"`
	HighlightColor vr.Color       `yaml:"highlight_color"`
	BaseColor      vr.Color       `yaml:"base_color"`
	Pendulum       PendulumConfig `yaml:"pendulum"`
	Cubes          CubeConfig     `yaml:"cubes"`
	Dt             float64        `yaml:"dt"`
	LogLevel       string         `yaml:"log_level"`
}

type PendulumConfig struct {
	Length       float64 `yaml:"length"`
	Gravity      float64 `yaml:"gravity"`
	Damping      float64 `yaml:"damping"`
	InitialAngle float64 `yaml:"initial_angle"`
	BobRadius    float64 `yaml:"bob_radius"`
	Count        int     `yaml:"count"`
}

type CubeConfig struct {
	Count  int     `yaml:"count"`
	Radius float64 `yaml:"radius"`
}

func DefaultConfig() *Config {
	return &Config{
		MoveSpeed:      locomotion.DefaultMoveSpeed,
		RotationSpeed:  locomotion.DefaultRotationSpeed,
		DeadZone:       locomotion.DefaultDeadZone,
		LookSpeed:      locomotion.DefaultLookSpeed,
		GrabSmoothing:  grab.DefaultSmoothing,
		PickRange:      pick.DefaultControllerRange,
		LaserLength:    DefaultLaserLength,
		HighlightColor: vr.White,
		BaseColor:      vr.Grey,
		Pendulum: PendulumConfig{
			Length:       physics.DefaultLength,
			Gravity:      physics.DefaultGravity,
			Damping:      physics.DefaultDamping,
			InitialAngle: physics.DefaultInitialAngle,
			BobRadius:    DefaultBobRadius,
			Count:        DefaultPendulumCount,
		},
		Cubes: CubeConfig{
			Count:  DefaultCubeCount,
			Radius: DefaultCubeRadius,
		},
		Dt:       physics.DefaultDt,
		LogLevel: DefaultLogLevel,
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of base, so keys missing from the file keep
// base's values. base is not modified.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Validate rejects values the core cannot run with. Errors wrap
// vr.ErrParameterBounds.
func (c *Config) Validate() error {
	if err := c.Locomotion().Validate(); err != nil {
		return err
	}
	model := c.Model()
	if err := model.Validate(); err != nil {
		return err
	}
	switch {
	case c.GrabSmoothing <= 0 || c.GrabSmoothing > 1:
		return &vr.BoundsError{Param: "grab_smoothing", Value: c.GrabSmoothing}
	case c.PickRange < 0:
		return &vr.BoundsError{Param: "pick_range", Value: c.PickRange}
	case c.LaserLength <= 0:
		return &vr.BoundsError{Param: "laser_length", Value: c.LaserLength}
	case c.Dt <= 0:
		return &vr.BoundsError{Param: "dt", Value: c.Dt}
	case c.Pendulum.Count < 0:
		return &vr.BoundsError{Param: "pendulum.count", Value: float64(c.Pendulum.Count)}
	case c.Pendulum.BobRadius <= 0:
		return &vr.BoundsError{Param: "pendulum.bob_radius", Value: c.Pendulum.BobRadius}
	case c.Cubes.Count < 0:
		return &vr.BoundsError{Param: "cubes.count", Value: float64(c.Cubes.Count)}
	}
	return nil
}

func (c *Config) Locomotion() locomotion.Config {
	return locomotion.Config{
		MoveSpeed:     c.MoveSpeed,
		RotationSpeed: c.RotationSpeed,
		DeadZone:      c.DeadZone,
		LookSpeed:     c.LookSpeed,
	}
}

func (c *Config) Model() physics.Pendulum {
	return physics.Pendulum{
		Length:  c.Pendulum.Length,
		Gravity: c.Pendulum.Gravity,
		Damping: c.Pendulum.Damping,
	}
}
