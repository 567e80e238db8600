package scenario

import (
	"testing"

	"github.com/spf13/viper"
)

func TestLoadAppliesDefaults(t *testing.T) {
	v := viper.New()
	cfg, err := Load(v)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mass != 10000 {
		t.Errorf("Mass = %v, want 10000", cfg.Mass)
	}
	if cfg.Dt != 0.01 {
		t.Errorf("Dt = %v, want 0.01", cfg.Dt)
	}
	if cfg.OutputDir != "scenario_data" {
		t.Errorf("OutputDir = %v, want scenario_data", cfg.OutputDir)
	}
	if !cfg.KeepCSV {
		t.Error("KeepCSV default should be true")
	}
}

func TestLoadHonorsExplicitOverride(t *testing.T) {
	v := viper.New()
	v.Set("mass", 500.0)
	v.Set("pitch_degrees", 10.0)
	cfg, err := Load(v)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Mass != 500 {
		t.Errorf("Mass = %v, want 500 (explicit override)", cfg.Mass)
	}
	if cfg.PitchDegrees != 10 {
		t.Errorf("PitchDegrees = %v, want 10", cfg.PitchDegrees)
	}
}

func TestLoadRejectsNonPositiveMass(t *testing.T) {
	v := viper.New()
	v.Set("mass", 0.0)
	if _, err := Load(v); err == nil {
		t.Error("Load should reject a zero mass")
	}
}

func TestLoadRejectsNonPositiveDt(t *testing.T) {
	v := viper.New()
	v.Set("dt", -0.01)
	if _, err := Load(v); err == nil {
		t.Error("Load should reject a negative dt")
	}
}
