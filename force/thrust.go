package force

import (
	"projectilesim/environment"
	"projectilesim/projectile"
)

// DirectionFunc maps a total thrust magnitude into a single axis component,
// given the projectile's current attitude. FollowPath is the default.
type DirectionFunc func(axis int, magnitude float64, p *projectile.Projectile) float64

// FollowPath projects the thrust magnitude along the projectile's current
// (pitch, yaw), i.e. straight down its velocity vector.
func FollowPath(axis int, magnitude float64, p *projectile.Projectile) float64 {
	return projectile.SphericalToPlanar(axis, magnitude, p.Pitch, p.Yaw)
}

// CorrectivePitch follows the current path for the first biasSeconds of
// flight, then biases pitch upward by biasRadians whenever the projectile's
// pitch has dropped below the floor, and falls back to FollowPath
// otherwise. It reproduces the shape of the original source's
// Launcher.default_thrust_direction / scenarios.py thrust_direction
// closures as a reusable, parameterized function instead of one hardcoded
// behavior.
func CorrectivePitch(biasSeconds, pitchFloor, biasRadians float64) DirectionFunc {
	return func(axis int, magnitude float64, p *projectile.Projectile) float64 {
		if p.Time < biasSeconds {
			return projectile.SphericalToPlanar(axis, magnitude, p.Pitch, p.Yaw)
		}
		if p.Pitch < pitchFloor {
			return projectile.SphericalToPlanar(axis, magnitude, p.Pitch+biasRadians, p.Yaw)
		}
		return FollowPath(axis, magnitude, p)
	}
}

// ThrustForce is a stateful force: it burns fuel from a finite reservoir and
// reports the resulting thrust magnitude along a configurable direction.
// Multiple ThrustForces may be attached to the same
// environment/projectile; each tracks its own fuel independently.
type ThrustForce struct {
	TotalFuel      float64
	FuelFlow       func(t float64) float64
	EjectionSpeed  float64
	NozzlePressure float64
	NozzleExitArea float64
	Direction      DirectionFunc

	remainingFuel float64
	lastTime      float64
	lastResult    float64
}

// NewThrustForce builds a ThrustForce with the given reservoir and nozzle
// parameters. direction defaults to FollowPath if nil.
func NewThrustForce(totalFuel float64, fuelFlow func(t float64) float64, ejectionSpeed, nozzlePressure, nozzleExitArea float64, direction DirectionFunc) *ThrustForce {
	if direction == nil {
		direction = FollowPath
	}
	return &ThrustForce{
		TotalFuel:      totalFuel,
		FuelFlow:       fuelFlow,
		EjectionSpeed:  ejectionSpeed,
		NozzlePressure: nozzlePressure,
		NozzleExitArea: nozzleExitArea,
		Direction:      direction,
		remainingFuel:  totalFuel,
		lastTime:       -1,
	}
}

func (t *ThrustForce) Kind() string { return "thrust" }

// RemainingFuel implements projectile.FuelSource.
func (t *ThrustForce) RemainingFuel() float64 { return t.remainingFuel }

// totalIntensity computes (and memoizes on p.Time) the scalar thrust
// magnitude for the current step, applying the documented fuel-burn side
// effect to both this force's reservoir and the projectile's lost mass.
// Memoization avoids double-counting fuel burn
// when GetX/GetY/GetZ are each called separately for the same step.
func (t *ThrustForce) totalIntensity(p *projectile.Projectile, env *environment.Environment) float64 {
	if t.lastTime == p.Time {
		return t.lastResult
	}
	if t.remainingFuel <= 0 {
		return 0
	}
	t.lastTime = p.Time

	flowRate := t.FuelFlow(p.Time)
	burned := flowRate * p.Dt
	if burned > t.remainingFuel {
		burned = t.remainingFuel
		flowRate = burned / p.Dt
	}
	t.remainingFuel -= burned
	p.LostMass += burned

	t.lastResult = t.EjectionSpeed*flowRate + (t.NozzlePressure-env.Pressure(p.Position.Alt))*t.NozzleExitArea
	return t.lastResult
}

func (t *ThrustForce) GetX(p *projectile.Projectile, env *environment.Environment) float64 {
	return t.Direction(projectile.XIndex, t.totalIntensity(p, env), p)
}

func (t *ThrustForce) GetY(p *projectile.Projectile, env *environment.Environment) float64 {
	return t.Direction(projectile.YIndex, t.totalIntensity(p, env), p)
}

func (t *ThrustForce) GetZ(p *projectile.Projectile, env *environment.Environment) float64 {
	return t.Direction(projectile.ZIndex, t.totalIntensity(p, env), p)
}
