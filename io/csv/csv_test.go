package csv

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"projectilesim/trajectory"
)

func approxEqual(a, b, eps float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < eps
}

func TestTrajectoryWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trajectory.csv")

	tw, err := NewTrajectoryWriter(path)
	if err != nil {
		t.Fatal(err)
	}
	samples := []trajectory.Sample{
		{Time: 0, PlanarDistance: 0, Lat: 0.123456789012345, Lon: -1.1, Alt: 1000, Vx: 10, Vy: 0, Vz: 5, Pitch: 0.5, Yaw: 0.1, RemainingFuel: 42.5},
		{Time: 0.1, PlanarDistance: 1.5, Lat: 0.124, Lon: -1.09, Alt: 995, Vx: 10.1, Vy: 0.1, Vz: 4.9, Pitch: 0.49, Yaw: 0.11, RemainingFuel: 40},
	}
	for _, s := range samples {
		if err := tw.WriteSample(s); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}

	tr, closeFile, err := NewTrajectoryReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer closeFile()

	for i, want := range samples {
		got, err := tr.Read()
		if err != nil {
			t.Fatalf("Read() row %d: %v", i, err)
		}
		if !approxEqual(got.Lat, want.Lat, 1e-12) {
			t.Errorf("row %d Lat = %v, want %v", i, got.Lat, want.Lat)
		}
		if !approxEqual(got.Time, want.Time, 1e-9) {
			t.Errorf("row %d Time = %v, want %v", i, got.Time, want.Time)
		}
		if !approxEqual(got.RemainingFuel, want.RemainingFuel, 1e-9) {
			t.Errorf("row %d RemainingFuel = %v, want %v", i, got.RemainingFuel, want.RemainingFuel)
		}
	}

	if _, err := tr.Read(); err != io.EOF {
		t.Errorf("Read() past last row = %v, want io.EOF", err)
	}
}

func TestForcesWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forces.csv")
	names := []string{"gravity", "drag"}

	fw, err := NewForcesWriter(path, names)
	if err != nil {
		t.Fatal(err)
	}
	samples := []trajectory.ForceSample{
		{Time: 0, Mass: 10000, Forces: [][3]float64{{0, 0, -98066.5}, {-1.2, 0, 0}}},
		{Time: 0.1, Mass: 9999, Forces: [][3]float64{{0, 0, -98055}, {-1.25, 0.1, 0}}},
	}
	for _, s := range samples {
		if err := fw.WriteSample(s); err != nil {
			t.Fatal(err)
		}
	}
	if err := fw.Close(); err != nil {
		t.Fatal(err)
	}

	got, err := ReadForcesCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(samples) {
		t.Fatalf("ReadForcesCSV returned %d rows, want %d", len(got), len(samples))
	}
	for i, want := range samples {
		if len(got[i].Forces) != len(want.Forces) {
			t.Fatalf("row %d has %d force entries, want %d", i, len(got[i].Forces), len(want.Forces))
		}
		for j := range want.Forces {
			for k := 0; k < 3; k++ {
				if !approxEqual(got[i].Forces[j][k], want.Forces[j][k], 1e-6) {
					t.Errorf("row %d force %d axis %d = %v, want %v", i, j, k, got[i].Forces[j][k], want.Forces[j][k])
				}
			}
		}
	}
}

func TestForcesWriterEmitsOneRowPerForcePerStep(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forces.csv")
	names := []string{"gravity", "drag"}

	fw, err := NewForcesWriter(path, names)
	if err != nil {
		t.Fatal(err)
	}
	samples := []trajectory.ForceSample{
		{Time: 0, Mass: 10000, Forces: [][3]float64{{0, 0, -98066.5}, {-1.2, 0, 0}}},
		{Time: 0.1, Mass: 9999, Forces: [][3]float64{{0, 0, -98055}, {-1.25, 0.1, 0}}},
	}
	for _, s := range samples {
		if err := fw.WriteSample(s); err != nil {
			t.Fatal(err)
		}
	}
	if err := fw.Close(); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	if lines[0] != ForcesHeader {
		t.Fatalf("header = %q, want %q", lines[0], ForcesHeader)
	}
	// one row per force per step: 2 steps * 2 forces = 4 data rows.
	if len(lines)-1 != 4 {
		t.Fatalf("wrote %d data rows, want 4", len(lines)-1)
	}
	wantIDs := []string{"gravity", "drag", "gravity", "drag"}
	for i, line := range lines[1:] {
		fields := strings.Split(line, ",")
		if len(fields) != 6 {
			t.Fatalf("row %d has %d fields, want 6 (time,mass,force_id,Fx,Fy,Fz)", i, len(fields))
		}
		if fields[2] != wantIDs[i] {
			t.Errorf("row %d force_id = %q, want %q", i, fields[2], wantIDs[i])
		}
	}
}

func TestForcesWriterRejectsMismatchedForceCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forces.csv")
	fw, err := NewForcesWriter(path, []string{"gravity", "drag"})
	if err != nil {
		t.Fatal(err)
	}
	defer fw.Close()

	err = fw.WriteSample(trajectory.ForceSample{Time: 0, Mass: 1, Forces: [][3]float64{{0, 0, 0}}})
	if err == nil {
		t.Error("WriteSample should reject a sample whose force count doesn't match the writer's names")
	}
}
