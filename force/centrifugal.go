package force

import (
	"math"

	"projectilesim/environment"
	"projectilesim/projectile"
)

// CentrifugalForce pushes toward the equator and outward along local up,
// with magnitude C = m*omega^2*earth_radius*cos(lat).
type CentrifugalForce struct{}

func NewCentrifugalForce() *CentrifugalForce { return &CentrifugalForce{} }

func (c *CentrifugalForce) Kind() string { return "centrifugal" }

func (c *CentrifugalForce) magnitude(p *projectile.Projectile, env *environment.Environment) float64 {
	omega := env.EarthAngularVelocity()
	lat := p.Position.LatRad()
	return p.Mass() * omega * omega * env.EarthRadius() * math.Cos(lat)
}

func (c *CentrifugalForce) GetX(p *projectile.Projectile, env *environment.Environment) float64 {
	return 0
}

func (c *CentrifugalForce) GetY(p *projectile.Projectile, env *environment.Environment) float64 {
	lat := p.Position.LatRad()
	return -c.magnitude(p, env) * math.Sin(lat)
}

func (c *CentrifugalForce) GetZ(p *projectile.Projectile, env *environment.Environment) float64 {
	lat := p.Position.LatRad()
	return c.magnitude(p, env) * math.Cos(lat)
}
