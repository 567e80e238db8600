// Package scenario provides a registry of named flight scenarios (ported
// from original_source/projectile/scenarios.py) and a viper-backed
// configuration layer for parameterizing them from the CLI, a config file,
// or environment variables.
package scenario

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the scenario settings Load decodes. The catalog's scenarios
// read OutputDir, Dt, KeepCSV and SurfaceAlt; their mass, launch angles,
// start point and thrust are fixed in each scenario and do not come from
// the other fields. Zero values are filled in by Load from
// sane defaults, then overridden by flags/file/env in that
// order (viper's normal precedence).
type Config struct {
	Mass         float64 `mapstructure:"mass"`
	PitchDegrees float64 `mapstructure:"pitch_degrees"`
	YawDegrees   float64 `mapstructure:"yaw_degrees"`
	Velocity     float64 `mapstructure:"velocity"`
	LatDegrees   float64 `mapstructure:"lat_degrees"`
	LonDegrees   float64 `mapstructure:"lon_degrees"`
	Altitude     float64 `mapstructure:"altitude"`
	Dt           float64 `mapstructure:"dt"`
	OutputDir    string  `mapstructure:"output_dir"`
	KeepCSV      bool    `mapstructure:"keep_csv"`
	SurfaceAlt   float64 `mapstructure:"surface_altitude"`
	LogLevel     string  `mapstructure:"log_level"`
	LogFile      string  `mapstructure:"log_file"`
}

// Load builds a Config from viper's current state (flags bound by the
// caller take precedence over any config file, which takes precedence over
// these defaults).
func Load(v *viper.Viper) (Config, error) {
	v.SetDefault("mass", 10000.0)
	v.SetDefault("pitch_degrees", 45.0)
	v.SetDefault("yaw_degrees", 0.0)
	v.SetDefault("velocity", 0.0)
	v.SetDefault("lat_degrees", 45.0)
	v.SetDefault("lon_degrees", 45.0)
	v.SetDefault("altitude", 80.0)
	v.SetDefault("dt", 0.01)
	v.SetDefault("output_dir", "scenario_data")
	v.SetDefault("keep_csv", true)
	v.SetDefault("surface_altitude", 80.0)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("scenario: decode config: %w", err)
	}
	if !(cfg.Mass > 0) {
		return Config{}, fmt.Errorf("scenario: mass must be positive, got %v", cfg.Mass)
	}
	if !(cfg.Dt > 0) {
		return Config{}, fmt.Errorf("scenario: dt must be positive, got %v", cfg.Dt)
	}
	return cfg, nil
}
