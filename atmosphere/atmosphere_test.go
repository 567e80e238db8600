package atmosphere

import "testing"

func approxEqual(a, b, eps float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < eps
}

func TestStandardAtmosphereLayerBreakpoints(t *testing.T) {
	var sa StandardAtmosphere

	cases := []struct {
		name            string
		h               float64
		wantBaseDensity float64
		wantBaseTemp    float64
		wantLapseRate   float64
		wantLayerFloor  float64
	}{
		{"sea level", 0, 1.2250, 288.15, -0.0065, Layer0},
		{"just below tropopause", Layer1 - 1, 1.2250, 288.15, -0.0065, Layer0},
		{"tropopause", Layer1, 0.36391, 216.65, 0, Layer1},
		{"stratosphere 1", Layer2, 0.08803, 216.65, 0.001, Layer2},
		{"stratosphere 2", Layer3, 0.01322, 228.65, 0.0028, Layer3},
		{"stratopause", Layer4, 0.00143, 270.65, 0, Layer4},
		{"mesosphere 1", Layer5, 0.00086, 270.65, -0.0028, Layer5},
		{"mesosphere 2", Layer6, 0.000064, 214.65, -0.002, Layer6},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := sa.BaseDensity(c.h); !approxEqual(got, c.wantBaseDensity, 1e-9) {
				t.Errorf("BaseDensity(%v) = %v, want %v", c.h, got, c.wantBaseDensity)
			}
			if got := sa.BaseTemperature(c.h); !approxEqual(got, c.wantBaseTemp, 1e-9) {
				t.Errorf("BaseTemperature(%v) = %v, want %v", c.h, got, c.wantBaseTemp)
			}
			if got := sa.LapseRate(c.h); !approxEqual(got, c.wantLapseRate, 1e-9) {
				t.Errorf("LapseRate(%v) = %v, want %v", c.h, got, c.wantLapseRate)
			}
			if got := sa.LayerFloor(c.h); got != c.wantLayerFloor {
				t.Errorf("LayerFloor(%v) = %v, want %v", c.h, got, c.wantLayerFloor)
			}
		})
	}
}

func TestStandardAtmosphereMolarMassConstant(t *testing.T) {
	var sa StandardAtmosphere
	for _, h := range []float64{0, 20000, 90000} {
		if got := sa.MolarMass(h); got != MolarMass {
			t.Errorf("MolarMass(%v) = %v, want constant %v", h, got, MolarMass)
		}
	}
}
