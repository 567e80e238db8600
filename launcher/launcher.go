// Package launcher wires together an Environment and a Projectile, drives
// the step loop to ground impact, and emits the trajectory/forces CSVs and
// the final KMZ, mirroring original_source/projectile/core/Launcher.py.
package launcher

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"projectilesim/environment"
	"projectilesim/force"
	csvio "projectilesim/io/csv"
	"projectilesim/io/kml"
	"projectilesim/projectile"
	"projectilesim/trajectory"
)

// Launcher holds everything constant across a single flight: the firing
// solution, step size, output paths, and the Environment the projectile
// flies through.
type Launcher struct {
	Pitch, Yaw float64
	Dt         float64

	CSVFilename       string
	KMZFilename       string
	ForcesCSVFilename string
	KeepCSV           bool

	Environment *environment.Environment
	Thrust      []*force.ThrustForce

	Log *logrus.Logger
}

// Option configures a Launcher at construction time.
type Option func(*Launcher)

func WithDt(dt float64) Option                      { return func(l *Launcher) { l.Dt = dt } }
func WithForcesCSV(filename string) Option          { return func(l *Launcher) { l.ForcesCSVFilename = filename } }
func WithKeepCSV(keep bool) Option                  { return func(l *Launcher) { l.KeepCSV = keep } }
func WithEnvironment(e *environment.Environment) Option {
	return func(l *Launcher) { l.Environment = e }
}
func WithThrust(t ...*force.ThrustForce) Option { return func(l *Launcher) { l.Thrust = t } }
func WithLogger(log *logrus.Logger) Option      { return func(l *Launcher) { l.Log = log } }

// New builds a Launcher. environment.New()'s zero-force default applies if
// WithEnvironment is not given; callers wanting the standard default
// force list must pass an Environment built with
// environment.WithForces(force.DefaultForces()...).
func New(pitch, yaw float64, csvFilename, kmzFilename string, opts ...Option) (*Launcher, error) {
	l := &Launcher{
		Pitch:       pitch,
		Yaw:         yaw,
		Dt:          0.01,
		CSVFilename: csvFilename,
		KMZFilename: kmzFilename,
		KeepCSV:     true,
		Log:         logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if !(l.Dt > 0) {
		return nil, fmt.Errorf("launcher: dt must be positive, got %v", l.Dt)
	}
	if l.Environment == nil {
		env, err := environment.New()
		if err != nil {
			return nil, fmt.Errorf("launcher: build default environment: %w", err)
		}
		l.Environment = env
	}
	return l, nil
}

// Launch builds a Projectile at position with the given mass and initial
// speed, registers each configured thrust force with the environment (so
// it contributes to NetForce) and attaches it to the projectile for fuel
// reporting, then flies it to ground impact, writing trajectory.csv, an
// optional forces.csv, and finally a KMZ. The projectile holds a single
// fuel source, so with several thrust forces the trajectory's fuel column
// is the last one's remaining fuel.
func (l *Launcher) Launch(mass float64, position projectile.Position, velocity float64, projOpts ...projectile.Option) (*projectile.Projectile, error) {
	allOpts := append([]projectile.Option{projectile.WithLogger(l.Log)}, projOpts...)
	p, err := projectile.New(mass, position, allOpts...)
	if err != nil {
		return nil, fmt.Errorf("launcher: build projectile: %w", err)
	}
	p.LaunchAtAngle(l.Pitch, l.Yaw, velocity)

	for _, t := range l.Thrust {
		p.AddThrust(t)
		l.Environment.AddForce(t)
	}

	trajWriter, err := csvio.NewTrajectoryWriter(l.CSVFilename)
	if err != nil {
		return nil, err
	}

	var forcesWriter *csvio.ForcesWriter
	if l.ForcesCSVFilename != "" {
		names := make([]string, len(l.Environment.Forces()))
		for i, f := range l.Environment.Forces() {
			names[i] = f.Kind()
		}
		forcesWriter, err = csvio.NewForcesWriter(l.ForcesCSVFilename, names)
		if err != nil {
			trajWriter.Close()
			return nil, err
		}
	}

	for {
		if forcesWriter != nil {
			// Captured before Advance so it reflects the same instant
			// Advance's own NetForce call will see; ThrustForce memoizes
			// its fuel burn per p.Time, so this does not double-burn.
			sample := trajectory.ForceSample{
				Time:   p.Time,
				Mass:   p.Mass(),
				Forces: l.Environment.ForceIntensities(p),
			}
			if err := forcesWriter.WriteSample(sample); err != nil {
				trajWriter.Close()
				forcesWriter.Close()
				return nil, err
			}
		}

		if err := p.Advance(l.Dt, l.Environment); err != nil {
			trajWriter.Close()
			if forcesWriter != nil {
				forcesWriter.Close()
			}
			return nil, fmt.Errorf("launcher: advance: %w", err)
		}

		if err := trajWriter.WriteSample(p.GetState()); err != nil {
			if forcesWriter != nil {
				forcesWriter.Close()
			}
			return nil, err
		}

		if p.HasHitGround(l.Environment) {
			break
		}
	}

	if err := trajWriter.Close(); err != nil {
		return nil, err
	}
	if forcesWriter != nil {
		if err := forcesWriter.Close(); err != nil {
			return nil, err
		}
	}

	kmlTemp := l.KMZFilename + ".kml"
	if err := kml.ConvertToKMZ(l.CSVFilename, kmlTemp, l.KMZFilename+".kmz", "flight", 10, false); err != nil {
		return nil, fmt.Errorf("launcher: convert to kmz: %w", err)
	}
	if !l.KeepCSV {
		if err := os.Remove(l.CSVFilename); err != nil {
			return nil, fmt.Errorf("launcher: remove csv: %w", err)
		}
	}

	return p, nil
}
