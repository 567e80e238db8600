// Package environment owns the Earth constants, the atmosphere model, and
// the ordered list of forces acting on a projectile.
package environment

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"projectilesim/atmosphere"
	"projectilesim/projectile"
)

// R is the universal gas constant, J/(mol*K).
const R = 8.3144598

// Force is a named source of a 3-vector intensity in the projectile's local
// ENU frame. Concrete forces (gravity, drag, Coriolis, Eötvös, centrifugal,
// thrust) live in package force, which imports both this package and
// projectile; Environment only depends on this interface, so it never has
// to import force (which would cycle back here).
type Force interface {
	GetX(p *projectile.Projectile, env *Environment) float64
	GetY(p *projectile.Projectile, env *Environment) float64
	GetZ(p *projectile.Projectile, env *Environment) float64
	// Kind identifies the force's variant for identity-based RemoveForce.
	Kind() string
}

// SurfaceAltitudeFunc returns the ground altitude under a position; the
// default is a flat surface at 0m.
type SurfaceAltitudeFunc func(projectile.Position) float64

// Environment is read-mostly: only its force list may be mutated, and only
// between steps, never during force evaluation.
type Environment struct {
	earthRadius          float64
	earthAngularVelocity float64
	stdGravity           float64
	surfaceAltitude      SurfaceAltitudeFunc
	atmosphere           atmosphere.Atmosphere
	forces               []Force
	log                  *logrus.Logger
}

// Option configures an Environment at construction time.
type Option func(*Environment)

func WithEarthRadius(r float64) Option { return func(e *Environment) { e.earthRadius = r } }
func WithEarthAngularVelocity(w float64) Option {
	return func(e *Environment) { e.earthAngularVelocity = w }
}
func WithStdGravity(g float64) Option { return func(e *Environment) { e.stdGravity = g } }
func WithSurfaceAltitude(f SurfaceAltitudeFunc) Option {
	return func(e *Environment) { e.surfaceAltitude = f }
}
func WithAtmosphere(a atmosphere.Atmosphere) Option { return func(e *Environment) { e.atmosphere = a } }
func WithForces(forces ...Force) Option {
	return func(e *Environment) { e.forces = append([]Force(nil), forces...) }
}
func WithLogger(log *logrus.Logger) Option { return func(e *Environment) { e.log = log } }

// New builds an Environment with the standard defaults, overridden by
// opts. dt is not configured here (it's a per-Advance parameter);
// non-positive stdGravity/earthRadius and a nil atmosphere are
// configuration errors. The force
// list starts empty unless WithForces is given: concrete forces live in
// package force, which imports this package, so New cannot default to
// force.DefaultForces() without an import cycle, so callers are expected to
// pass environment.WithForces(force.DefaultForces()...) for the
// default list (gravity, drag, Coriolis, centrifugal).
func New(opts ...Option) (*Environment, error) {
	e := &Environment{
		earthRadius:          6378137,
		earthAngularVelocity: 7.2921159e-5,
		stdGravity:           9.80665,
		surfaceAltitude:      func(projectile.Position) float64 { return 0 },
		atmosphere:           atmosphere.StandardAtmosphere{},
		log:                  logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if !(e.earthRadius > 0) {
		return nil, fmt.Errorf("environment: earth radius must be positive, got %v", e.earthRadius)
	}
	if !(e.stdGravity > 0) {
		return nil, fmt.Errorf("environment: standard gravity must be positive, got %v", e.stdGravity)
	}
	if e.atmosphere == nil {
		return nil, fmt.Errorf("environment: atmosphere must not be nil")
	}
	return e, nil
}

func (e *Environment) EarthRadius() float64              { return e.earthRadius }
func (e *Environment) EarthAngularVelocity() float64     { return e.earthAngularVelocity }
func (e *Environment) StdGravity() float64               { return e.stdGravity }
func (e *Environment) Atmosphere() atmosphere.Atmosphere { return e.atmosphere }
func (e *Environment) SurfaceAltitude(pos projectile.Position) float64 {
	return e.surfaceAltitude(pos)
}

// Forces returns the current force list; callers must not mutate the slice.
func (e *Environment) Forces() []Force { return e.forces }

// AddForce appends a force to the evaluation list.
func (e *Environment) AddForce(f Force) {
	e.forces = append(e.forces, f)
}

// RemoveForce removes the first force whose Kind matches f's, logging a
// warning, not an error, if none is registered.
func (e *Environment) RemoveForce(f Force) {
	for i, existing := range e.forces {
		if existing.Kind() == f.Kind() {
			e.forces = append(e.forces[:i], e.forces[i+1:]...)
			return
		}
	}
	e.log.WithField("kind", f.Kind()).Warn("removing non-registered force, no-op")
}

// Density returns the air density (kg/m^3) at altitude h via the barometric
// formula; 0 above 100km where the model stops applying.
func (e *Environment) Density(h float64) float64 {
	if h > 100000 {
		return 0
	}
	rhoB := e.atmosphere.BaseDensity(h)
	t := e.atmosphere.BaseTemperature(h)
	l := e.atmosphere.LapseRate(h)
	hB := e.atmosphere.LayerFloor(h)
	m := e.atmosphere.MolarMass(h)
	g0 := e.stdGravity
	if l == 0 {
		return rhoB * math.Exp((-g0*m*(h-hB))/(R*t))
	}
	return rhoB * math.Pow(t/(t+l*(h-hB)), 1+(g0*m)/(R*l))
}

// Pressure returns the air pressure (Pa) at altitude h.
func (e *Environment) Pressure(h float64) float64 {
	rho := e.Density(h)
	t := e.atmosphere.BaseTemperature(h) + (h-e.atmosphere.LayerFloor(h))*e.atmosphere.LapseRate(h)
	m := e.atmosphere.MolarMass(h)
	return rho / m * R * t
}

// NetForce sums every registered force's 3-vector contribution. It is the
// Environment's half of projectile.Environment: projectile.Projectile calls
// this once per Advance.
func (e *Environment) NetForce(p *projectile.Projectile) [3]float64 {
	var sum [3]float64
	for _, f := range e.forces {
		sum[projectile.XIndex] += f.GetX(p, e)
		sum[projectile.YIndex] += f.GetY(p, e)
		sum[projectile.ZIndex] += f.GetZ(p, e)
	}
	return sum
}

// ForceIntensities evaluates every force independently, returning the
// per-force 3-vector matrix in declaration order, used by the forces.csv
// diagnostic, not by the integrator itself.
func (e *Environment) ForceIntensities(p *projectile.Projectile) [][3]float64 {
	out := make([][3]float64, len(e.forces))
	for i, f := range e.forces {
		out[i] = [3]float64{f.GetX(p, e), f.GetY(p, e), f.GetZ(p, e)}
	}
	return out
}
