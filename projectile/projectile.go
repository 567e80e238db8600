// Package projectile implements the flight state of a single projectile
// and its per-step integration: summing forces, advancing position along
// the sphere, and reprojecting velocities into the new local tangent plane
// (including antimeridian and pole handling).
package projectile

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"projectilesim/trajectory"
)

// CoefficientFunc computes a per-axis scalar (cross-sectional area or drag
// coefficient) as a function of attitude. Scenarios supply these; a
// reasonable constant default is used when none is given.
type CoefficientFunc func(axis int, pitch, yaw float64) float64

// Environment is the subset of environment.Environment the integrator needs.
// It is declared here, not in the environment package, so that projectile
// never has to import environment: environment.Environment satisfies this
// interface structurally, breaking what would otherwise be an import cycle
// (environment needs *Projectile to evaluate forces; projectile needs an
// environment to sum those forces against).
type Environment interface {
	EarthRadius() float64
	SurfaceAltitude(Position) float64
	NetForce(p *Projectile) [3]float64
}

// FuelSource is the weak, read-only view a Projectile keeps of an attached
// thrust force so GetState can report remaining fuel. The environment, not
// the projectile, owns the thrust force's lifecycle.
type FuelSource interface {
	RemainingFuel() float64
}

// Named drag coefficients ported from the original Constants.py catalog, for
// scenarios to reference from their drag_coef callbacks.
const (
	DragCoefSphere              = 0.47
	DragCoefHalfSphere          = 0.42
	DragCoefCone                = 0.5
	DragCoefCube                = 1.05
	DragCoefAngledCube          = 0.8
	DragCoefLongCylinder        = 0.82
	DragCoefShortCylinder       = 1.15
	DragCoefStreamlinedBody     = 0.04
	DragCoefStreamlinedHalfbody = 0.09
)

const (
	defaultVyThreshold    = 0.1
	defaultRollingWindow  = 40
	defaultReadyThreshold = 5
	defaultCrossSection   = 0.25
	defaultDragCoef       = 0.1
)

// Projectile is the sole owner of a flight's translational state. It never
// mutates its Environment; the Environment's forces may only mutate the
// projectile via the documented thrust fuel side effect (applied through
// LostMass, not directly from here).
type Projectile struct {
	InitialMass float64
	LostMass    float64

	Position   Position
	Velocities [3]float64
	Directions [3]float64

	TotalVelocity  float64
	PlanarVelocity float64
	Pitch          float64
	Yaw            float64

	Time              float64
	Dt                float64
	DistanceTravelled float64

	CrossSection CoefficientFunc
	DragCoef     CoefficientFunc

	VyCorrectiveChangeThreshold float64

	Thrust FuelSource

	crossedThePole bool
	distanceStats  *RollingStatistic
	log            *logrus.Logger
}

// Option configures a Projectile at construction time.
type Option func(*Projectile)

// WithCrossSection overrides the default constant cross-section callback.
func WithCrossSection(f CoefficientFunc) Option {
	return func(p *Projectile) { p.CrossSection = f }
}

// WithDragCoef overrides the default constant drag-coefficient callback.
func WithDragCoef(f CoefficientFunc) Option {
	return func(p *Projectile) { p.DragCoef = f }
}

// WithVyThreshold overrides the pole-detection change-ratio threshold.
func WithVyThreshold(threshold float64) Option {
	return func(p *Projectile) { p.VyCorrectiveChangeThreshold = threshold }
}

// WithRollingWindow overrides the distance-rolling-window size and its
// outlier ready-threshold.
func WithRollingWindow(window, ready int) Option {
	return func(p *Projectile) { p.distanceStats = NewRollingStatistic(window, ready, p.log) }
}

// WithLogger attaches a logger used for non-fatal integration warnings.
func WithLogger(log *logrus.Logger) Option {
	return func(p *Projectile) { p.log = log }
}

// New builds a Projectile at rest at initialPosition. mass must be positive
// and initialPosition's components finite.
func New(mass float64, initialPosition Position, opts ...Option) (*Projectile, error) {
	if !(mass > 0) {
		return nil, fmt.Errorf("projectile: initial mass must be positive, got %v", mass)
	}
	if math.IsNaN(initialPosition.LatRad()) || math.IsInf(initialPosition.LatRad(), 0) ||
		math.IsNaN(initialPosition.LonRad()) || math.IsInf(initialPosition.LonRad(), 0) ||
		math.IsNaN(initialPosition.Alt) || math.IsInf(initialPosition.Alt, 0) {
		return nil, fmt.Errorf("projectile: initial position must be finite, got %+v", initialPosition)
	}

	p := &Projectile{
		InitialMass:                 mass,
		Position:                    initialPosition,
		VyCorrectiveChangeThreshold: defaultVyThreshold,
		CrossSection:                func(axis int, pitch, yaw float64) float64 { return defaultCrossSection },
		DragCoef:                    func(axis int, pitch, yaw float64) float64 { return defaultDragCoef },
		log:                         logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.distanceStats == nil {
		p.distanceStats = NewRollingStatistic(defaultRollingWindow, defaultReadyThreshold, p.log)
	}
	return p, nil
}

// LaunchAtAngle sets the initial velocity from a total speed and a
// pitch/yaw direction.
func (p *Projectile) LaunchAtAngle(pitch, yaw, velocity float64) {
	p.Pitch = pitch
	p.Yaw = yaw
	p.Velocities[XIndex] = velocity * math.Cos(yaw) * math.Cos(pitch)
	p.Velocities[YIndex] = velocity * math.Sin(yaw) * math.Cos(pitch)
	p.Velocities[ZIndex] = velocity * math.Sin(pitch)
}

// SetInitialVelocities sets vx/vy/vz directly; pitch and yaw are derived.
func (p *Projectile) SetInitialVelocities(vx, vy, vz float64) {
	p.Velocities[XIndex] = vx
	p.Velocities[YIndex] = vy
	p.Velocities[ZIndex] = vz
	p.Pitch = math.Atan2(vz, math.Sqrt(vx*vx+vy*vy))
	p.Yaw = math.Atan2(vy, vx)
}

// AddThrust attaches a weak reference to a thrust force already registered
// with the environment, used only so GetState can report remaining fuel.
func (p *Projectile) AddThrust(t FuelSource) {
	p.Thrust = t
}

// Mass returns the projectile's current mass (initial minus fuel burned).
func (p *Projectile) Mass() float64 {
	return p.InitialMass - p.LostMass
}

// HasHitGround reports whether the projectile's altitude has reached or
// passed the environment's surface altitude at its current position.
func (p *Projectile) HasHitGround(env Environment) bool {
	return p.Position.Alt <= env.SurfaceAltitude(p.Position)
}

// updateAngles recomputes pitch/yaw from the current velocity components.
func (p *Projectile) updateAngles() {
	p.Pitch = math.Atan2(p.Velocities[ZIndex], math.Sqrt(p.Velocities[XIndex]*p.Velocities[XIndex]+p.Velocities[YIndex]*p.Velocities[YIndex]))
	p.Yaw = math.Atan2(p.Velocities[YIndex], p.Velocities[XIndex])
}

// Advance is the heart of the simulation: it performs one fixed-step update
// summing forces, integrating velocity and position, and
// reprojecting velocities into the new local tangent plane.
func (p *Projectile) Advance(dt float64, env Environment) error {
	if !(dt > 0) {
		return fmt.Errorf("projectile: dt must be positive, got %v", dt)
	}
	p.Dt = dt // forces (thrust, in particular) read this

	forces := env.NetForce(p)
	mass := p.Mass()
	if !(mass > 0) {
		return fmt.Errorf("projectile: non-positive mass %v at t=%v", mass, p.Time)
	}
	for i := range p.Velocities {
		p.Velocities[i] += (forces[i] / mass) * dt
	}
	if err := p.checkFinite("post-force-integration velocities"); err != nil {
		return err
	}

	p.PlanarVelocity = math.Sqrt(p.Velocities[XIndex]*p.Velocities[XIndex] + p.Velocities[YIndex]*p.Velocities[YIndex])
	p.TotalVelocity = math.Sqrt(p.PlanarVelocity*p.PlanarVelocity + p.Velocities[ZIndex]*p.Velocities[ZIndex])
	for i := range p.Velocities {
		p.Directions[i] = Sgn(p.Velocities[i])
	}

	p.updateAngles()

	radius := env.EarthRadius() + p.Position.Alt
	moveX := p.Velocities[XIndex] * dt
	moveY := p.Velocities[YIndex] * dt
	distanceM := math.Sqrt(moveX*moveX + moveY*moveY)
	distanceRad := distanceM / radius

	angle := p.Yaw - math.Pi/2 // true-course angle, north-referenced

	oldLat := p.Position.Lat
	oldLon := p.Position.Lon
	latRad := oldLat.Float64()

	term1 := math.Sin(latRad) * math.Cos(distanceRad)
	term2 := math.Cos(latRad) * math.Sin(distanceRad) * math.Cos(angle)
	argHi, argLo := twoSum(term1, term2)
	newLat := asinRefined(argHi, argLo)
	p.Position.Lat = newLat
	p.Directions[YIndex] = Sgn(newLat.Float64() - latRad)

	if !FPEqual(math.Cos(newLat.Float64()), 0) {
		lonAsin := asinRefined(math.Sin(angle)*math.Sin(distanceRad)/math.Cos(newLat.Float64()), 0)
		newLonVal := pymod(oldLon.Float64()-lonAsin.Float64()+math.Pi, 2*math.Pi) - math.Pi
		p.Position.Lon = NewDD(newLonVal)
	}

	p.Position.Alt += p.Velocities[ZIndex] * dt

	p.Time += dt
	p.DistanceTravelled += distanceM

	p.reprojectVelocities(oldLat, oldLon, radius, distanceM)
	p.updateAngles()

	return p.checkFinite("post-step state")
}

// reprojectVelocities: after the tangent plane has
// rotated under the projectile, vx/vy must be rebuilt from the position
// delta rather than carried forward, with pole-crossing and antimeridian
// handling along the way.
func (p *Projectile) reprojectVelocities(oldLat, oldLon DD, radius, distanceM float64) {
	newLat := p.Position.Lat
	newLon := p.Position.Lon

	oldVy := p.Velocities[YIndex]
	vyCandidate := radius * newLat.Sub(oldLat) / p.Dt
	p.Velocities[YIndex] = vyCandidate

	var changeRatio float64
	if oldVy != 0 {
		changeRatio = math.Abs(vyCandidate/oldVy - 1)
	}

	if changeRatio > p.VyCorrectiveChangeThreshold {
		actualDistance := Haversine(newLat.Float64(), newLon.Float64(), oldLat.Float64(), oldLon.Float64(), radius)
		switch {
		case p.crossedThePole:
			p.log.WithFields(logrus.Fields{"change_ratio": changeRatio, "time": p.Time}).
				Warn("Vy has too extreme oscillations while already past a pole")
		case actualDistance < p.distanceStats.Mean() && p.distanceStats.IsOutlier(actualDistance, 2):
			p.log.WithFields(logrus.Fields{"change_ratio": changeRatio, "time": p.Time}).
				Warn("crossing the pole")
			p.Velocities[YIndex] = -oldVy
			p.crossedThePole = true
			// NOTE: this mirrors the original source exactly, including its
			// asymmetry with the normal (-pi, pi] convention used elsewhere:
			// the flip lands in [0, 2*pi) until the next ordinary step
			// recenters it through the "+pi, mod 2*pi, -pi" longitude update
			// in Advance.
			p.Position.Lon = NewDD(pymod(p.Position.Lon.Float64()+math.Pi, 2*math.Pi))
			p.Velocities[XIndex] = -p.Velocities[XIndex]
			return
		case actualDistance < p.distanceStats.Mean():
			p.log.WithFields(logrus.Fields{"change_ratio": changeRatio, "time": p.Time}).
				Warn("Vy has extreme correction, but far from any pole")
		}
	}

	if p.crossedThePole {
		p.crossedThePole = false
		p.Velocities[YIndex] = oldVy
		return
	}

	p.distanceStats.Update(distanceM)

	lonRadius := radius * math.Cos(newLat.Float64())
	if lonRadius == 0 {
		lonRadius = radius * math.Cos(oldLat.Float64())
	}
	dLon := newLon.Sub(oldLon)
	if math.Abs(dLon) < math.Pi {
		p.Velocities[XIndex] = lonRadius * dLon / p.Dt
	} else {
		p.Velocities[XIndex] = lonRadius * (dLon + 2*math.Pi*Sgn(oldLon.Float64()-newLon.Float64())) / p.Dt
	}
}

// checkFinite fails fast on NaN/Inf in velocity or position, naming the
// offending state as soon as it appears.
func (p *Projectile) checkFinite(stage string) error {
	fields := map[string]float64{
		"vx":  p.Velocities[XIndex],
		"vy":  p.Velocities[YIndex],
		"vz":  p.Velocities[ZIndex],
		"lat": p.Position.LatRad(),
		"lon": p.Position.LonRad(),
		"alt": p.Position.Alt,
	}
	for name, v := range fields {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("projectile: non-finite %s=%v at t=%v (%s)", name, v, p.Time, stage)
		}
	}
	return nil
}

// GetState snapshots the current flight state for downstream writers.
func (p *Projectile) GetState() trajectory.Sample {
	var fuel float64
	if p.Thrust != nil {
		fuel = p.Thrust.RemainingFuel()
	}
	return trajectory.Sample{
		Time:           p.Time,
		PlanarDistance: p.DistanceTravelled,
		Lat:            p.Position.LatRad(),
		Lon:            p.Position.LonRad(),
		Alt:            p.Position.Alt,
		Vx:             p.Velocities[XIndex],
		Vy:             p.Velocities[YIndex],
		Vz:             p.Velocities[ZIndex],
		Pitch:          p.Pitch,
		Yaw:            p.Yaw,
		RemainingFuel:  fuel,
	}
}
