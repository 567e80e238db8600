package force

import (
	"math"

	"projectilesim/environment"
	"projectilesim/projectile"
)

// EotvosForce is the vertical component of Coriolis when split out as its
// own force, for the split decomposition. Register this only in place of
// CoriolisForce's built-in vertical term, never alongside the unified
// CoriolisForce, or the vertical deflection is counted twice.
type EotvosForce struct{}

func NewEotvosForce() *EotvosForce { return &EotvosForce{} }

func (e *EotvosForce) Kind() string { return "eotvos" }

func (e *EotvosForce) GetX(p *projectile.Projectile, env *environment.Environment) float64 {
	return 0
}

func (e *EotvosForce) GetY(p *projectile.Projectile, env *environment.Environment) float64 {
	return 0
}

func (e *EotvosForce) GetZ(p *projectile.Projectile, env *environment.Environment) float64 {
	omega := env.EarthAngularVelocity()
	lat := p.Position.LatRad()
	return 2 * projectile.Sgn(p.Velocities[projectile.XIndex]) * omega * p.PlanarVelocity * math.Cos(lat)
}

// CoriolisHorizontalOnly is CoriolisForce with its vertical term removed,
// meant to be paired with EotvosForce for the split decomposition.
type CoriolisHorizontalOnly struct{}

func NewCoriolisHorizontalOnly() *CoriolisHorizontalOnly { return &CoriolisHorizontalOnly{} }

func (c *CoriolisHorizontalOnly) Kind() string { return "coriolis_horizontal" }

func (c *CoriolisHorizontalOnly) GetX(p *projectile.Projectile, env *environment.Environment) float64 {
	omega := env.EarthAngularVelocity()
	m := p.Mass()
	lat := p.Position.LatRad()
	return 2 * omega * m * (p.Velocities[projectile.YIndex]*math.Sin(lat) - p.Velocities[projectile.ZIndex]*math.Cos(lat))
}

func (c *CoriolisHorizontalOnly) GetY(p *projectile.Projectile, env *environment.Environment) float64 {
	omega := env.EarthAngularVelocity()
	m := p.Mass()
	lat := p.Position.LatRad()
	return -2 * omega * m * p.Velocities[projectile.XIndex] * math.Sin(lat)
}

func (c *CoriolisHorizontalOnly) GetZ(p *projectile.Projectile, env *environment.Environment) float64 {
	return 0
}
