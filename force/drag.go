package force

import (
	"projectilesim/environment"
	"projectilesim/projectile"
)

// DragForce opposes motion axis-wise: F_i = -sign(v_i) * 0.5 * rho * v_i^2 *
// A(i) * C_d(i), using the direction latch computed earlier in the step.
type DragForce struct{}

func NewDragForce() *DragForce { return &DragForce{} }

func (d *DragForce) Kind() string { return "drag" }

func (d *DragForce) intensity(p *projectile.Projectile, env *environment.Environment, v float64, axis int) float64 {
	rho := env.Density(p.Position.Alt)
	area := p.CrossSection(axis, p.Pitch, p.Yaw)
	cd := p.DragCoef(axis, p.Pitch, p.Yaw)
	return 0.5 * rho * v * v * area * cd
}

func (d *DragForce) GetX(p *projectile.Projectile, env *environment.Environment) float64 {
	return -p.Directions[projectile.XIndex] * d.intensity(p, env, p.Velocities[projectile.XIndex], projectile.XIndex)
}

func (d *DragForce) GetY(p *projectile.Projectile, env *environment.Environment) float64 {
	return -p.Directions[projectile.YIndex] * d.intensity(p, env, p.Velocities[projectile.YIndex], projectile.YIndex)
}

func (d *DragForce) GetZ(p *projectile.Projectile, env *environment.Environment) float64 {
	return -p.Directions[projectile.ZIndex] * d.intensity(p, env, p.Velocities[projectile.ZIndex], projectile.ZIndex)
}
