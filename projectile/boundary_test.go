package projectile

import (
	"math"
	"testing"

	"github.com/sirupsen/logrus"
)

// TestAntimeridianWrapPreservesVelocityWithinOnePercent exercises the
// antimeridian boundary: an eastward launch just short of the antimeridian,
// fast enough to cross lon=pi within a single one-second step, should wrap
// longitude exactly once and reconstruct the same eastward velocity to
// within 1%.
func TestAntimeridianWrapPreservesVelocityWithinOnePercent(t *testing.T) {
	const (
		epsilonDeg = 0.1
		v          = 50000.0 // m/s; unrealistically fast, but isolates the wrap within one step
		dt         = 1.0
	)
	lon0 := math.Pi - epsilonDeg*math.Pi/180

	p, err := New(1, NewPosition(0, lon0, 1000))
	if err != nil {
		t.Fatal(err)
	}
	p.SetInitialVelocities(v, 0, 0)

	env := constantForceEnv{radius: 6378137, surface: -1e6}
	if err := p.Advance(dt, env); err != nil {
		t.Fatalf("Advance: %v", err)
	}

	gotLon := p.Position.LonRad()
	if gotLon > 0 {
		t.Fatalf("longitude after an eastward antimeridian crossing should have wrapped negative, got %v", gotLon)
	}

	radius := 6378137.0 + 1000
	distanceRad := v * dt / radius
	wantLon := pymod(lon0+distanceRad+math.Pi, 2*math.Pi) - math.Pi
	if !approxEqual(gotLon, wantLon, 1e-4) {
		t.Errorf("Lon after wrap = %v, want %v", gotLon, wantLon)
	}

	if relErr := math.Abs(p.Velocities[XIndex]-v) / v; relErr > 0.01 {
		t.Errorf("Vx after antimeridian wrap changed by %.4f%%, want within 1%% of %v, got %v", relErr*100, v, p.Velocities[XIndex])
	}
}

// TestGroundHitTerminatesOnFirstStepAtOrBelowSurface drives a straight
// vertical drop into a raised surface and checks that HasHitGround first
// reports true on the step that reaches or passes the surface altitude,
// never before.
func TestGroundHitTerminatesOnFirstStepAtOrBelowSurface(t *testing.T) {
	p, err := New(1, NewPosition(0, 0, 50))
	if err != nil {
		t.Fatal(err)
	}
	p.Velocities[ZIndex] = -10
	env := constantForceEnv{radius: 6378137, surface: 10, force: [3]float64{0, 0, 0}}

	steps := 0
	for !p.HasHitGround(env) {
		if err := p.Advance(0.1, env); err != nil {
			t.Fatalf("Advance: %v", err)
		}
		steps++
		if steps > 1000 {
			t.Fatal("projectile never reached the surface altitude")
		}
	}
	if p.Position.Alt > 10 {
		t.Errorf("loop stopped at altitude %v, want <= surface altitude 10", p.Position.Alt)
	}
}

// TestPoleCrossingFlipsVelocitySignOnceThenClearsLatch exercises
// reprojectVelocities directly: when the rolling statistic judges the
// actual per-step displacement anomalously small while the naive Vy
// reconstruction swings wildly, the step is recognized as a pole crossing,
// vx/vy are sign-flipped, and the latch clears on the very next call
// regardless of that step's own Vy behavior.
func TestPoleCrossingFlipsVelocitySignOnceThenClearsLatch(t *testing.T) {
	p := &Projectile{
		InitialMass:                 1,
		Dt:                          0.01,
		VyCorrectiveChangeThreshold: 0.1,
		distanceStats:               NewRollingStatistic(40, 5, logrus.StandardLogger()),
		log:                         logrus.StandardLogger(),
	}
	// Prime the rolling window with five identical "normal" step
	// distances so Mean()=100 and StdDev()=0, making any other value an
	// outlier relative to it.
	for i := 0; i < 5; i++ {
		p.distanceStats.Update(100)
	}

	oldLat := NewDD(1.48) // ~84.8 degrees, near the pole
	oldLon := NewDD(0)
	newLat := NewDD(1.48 - 1e-5)
	newLon := NewDD(0)
	radius := 6378137.0

	p.Position.Lat = newLat
	p.Position.Lon = newLon
	p.Velocities[XIndex] = 20
	p.Velocities[YIndex] = 10 // the "old" Vy reprojectVelocities will compare against

	p.reprojectVelocities(oldLat, oldLon, radius, 0)

	if !p.crossedThePole {
		t.Fatal("an anomalously small displacement with a wildly inconsistent Vy should latch crossedThePole")
	}
	if p.Velocities[YIndex] != -10 {
		t.Errorf("Vy after pole-crossing latch = %v, want -10 (sign-flipped)", p.Velocities[YIndex])
	}
	if p.Velocities[XIndex] != -20 {
		t.Errorf("Vx after pole-crossing latch = %v, want -20 (sign-flipped)", p.Velocities[XIndex])
	}

	// A second, ordinary step (small, consistent lat delta) should clear
	// the latch and leave Vy as carried over from the flipped step.
	secondOldLat := p.Position.Lat
	secondOldLon := p.Position.Lon
	p.Position.Lat = secondOldLat.Add(1e-6)
	p.Position.Lon = secondOldLon
	p.reprojectVelocities(secondOldLat, secondOldLon, radius, 0)

	if p.crossedThePole {
		t.Error("crossedThePole latch should clear on the step following a pole crossing")
	}
	if p.Velocities[YIndex] != -10 {
		t.Errorf("Vy after the latch-clearing step = %v, want unchanged -10", p.Velocities[YIndex])
	}
}
