package plot

import (
	"os"
	"path/filepath"
	"testing"

	csvio "projectilesim/io/csv"
	"projectilesim/trajectory"
)

func approxEqual(a, b, eps float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < eps
}

func writeTestForcesCSV(t *testing.T, path string) {
	t.Helper()
	fw, err := csvio.NewForcesWriter(path, []string{"gravity", "drag"})
	if err != nil {
		t.Fatal(err)
	}
	samples := []trajectory.ForceSample{
		{Time: 0, Mass: 10, Forces: [][3]float64{{0, 0, -98.0665}, {-2, 0, 0}}},
		{Time: 1, Mass: 10, Forces: [][3]float64{{0, 0, -98.0665}, {-2.5, 0, 0}}},
	}
	for _, s := range samples {
		if err := fw.WriteSample(s); err != nil {
			t.Fatal(err)
		}
	}
	if err := fw.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestReadForceRowsComputesAccelerationFromMass(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forces.csv")
	writeTestForcesCSV(t, path)

	rows, err := readForceRows(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("readForceRows returned %d rows, want 2", len(rows))
	}
	wantZ := -98.0665 / 10
	if !approxEqual(rows[0].accel[2], wantZ, 1e-6) {
		t.Errorf("rows[0].accel[2] = %v, want %v", rows[0].accel[2], wantZ)
	}
	if rows[1].time != 1 {
		t.Errorf("rows[1].time = %v, want 1", rows[1].time)
	}
}

func TestReadForceRowsRejectsOutOfRangeIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forces.csv")
	writeTestForcesCSV(t, path)

	if _, err := readForceRows(path, 5); err == nil {
		t.Error("readForceRows should reject a force index beyond the registered force list")
	}
}

func TestForceAccelerationWritesPNG(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "forces.csv")
	pngPath := filepath.Join(dir, "drag.png")
	writeTestForcesCSV(t, csvPath)

	if err := ForceAcceleration(csvPath, 1, "drag acceleration", pngPath); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(pngPath)
	if err != nil {
		t.Fatalf("expected PNG output at %s: %v", pngPath, err)
	}
	if info.Size() == 0 {
		t.Error("PNG output should not be empty")
	}
}
