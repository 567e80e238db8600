package main

import (
	"math"
	"strings"
	"testing"
)

func TestRadiansMainConvertsDegreesToRadians(t *testing.T) {
	if got := radiansMain(180); math.Abs(got-math.Pi) > 1e-9 {
		t.Errorf("radiansMain(180) = %v, want pi", got)
	}
	if got := radiansMain(0); got != 0 {
		t.Errorf("radiansMain(0) = %v, want 0", got)
	}
}

func TestJoinNamesListsEveryRegisteredScenario(t *testing.T) {
	joined := joinNames()
	for _, name := range []string{"test", "long_distance", "vary_pitch", "vary_yaw", "long_distance_eastward_across_meridian"} {
		if !strings.Contains(joined, name) {
			t.Errorf("joinNames() = %q, missing scenario %q", joined, name)
		}
	}
}

func TestNewAtmosphereCmdRuns(t *testing.T) {
	cmd := newAtmosphereCmd()
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Errorf("atmosphere command failed: %v", err)
	}
}
