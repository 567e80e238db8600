package force

import (
	"math"

	"projectilesim/environment"
	"projectilesim/projectile"
)

// CoriolisForce is the unified Cartesian-vector Coriolis force,
// combining both the horizontal deflection and the vertical (Eötvös)
// term in one force. This is the default decomposition: DO NOT also
// register EotvosForce in the same environment's force list, or the
// vertical term double-counts.
type CoriolisForce struct{}

func NewCoriolisForce() *CoriolisForce { return &CoriolisForce{} }

func (c *CoriolisForce) Kind() string { return "coriolis" }

func (c *CoriolisForce) GetX(p *projectile.Projectile, env *environment.Environment) float64 {
	omega := env.EarthAngularVelocity()
	m := p.Mass()
	lat := p.Position.LatRad()
	return 2 * omega * m * (p.Velocities[projectile.YIndex]*math.Sin(lat) - p.Velocities[projectile.ZIndex]*math.Cos(lat))
}

func (c *CoriolisForce) GetY(p *projectile.Projectile, env *environment.Environment) float64 {
	omega := env.EarthAngularVelocity()
	m := p.Mass()
	lat := p.Position.LatRad()
	return -2 * omega * m * p.Velocities[projectile.XIndex] * math.Sin(lat)
}

func (c *CoriolisForce) GetZ(p *projectile.Projectile, env *environment.Environment) float64 {
	omega := env.EarthAngularVelocity()
	m := p.Mass()
	lat := p.Position.LatRad()
	return 2 * omega * m * p.Velocities[projectile.XIndex] * math.Cos(lat)
}
