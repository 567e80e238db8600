package csv

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"projectilesim/trajectory"
)

// ForcesHeader is the fixed header row of a forces diagnostic CSV: one row
// per registered force per simulation step, grouped by (time, mass).
const ForcesHeader = "time,mass,force_id,Fx,Fy,Fz"

// ForcesWriter writes the per-force diagnostic CSV: len(names) rows per
// step, one per registered force, each carrying that force's own (x,y,z)
// intensity and the step's shared time/mass. The force_id column is
// supplied at construction time since the force list is only known once
// the Environment is assembled.
type ForcesWriter struct {
	file  *os.File
	w     *bufio.Writer
	names []string
}

// NewForcesWriter creates (or truncates) filename and writes the
// "time,mass,force_id,Fx,Fy,Fz" header. names gives each force's force_id
// in the order WriteSample's Forces slice will supply them.
func NewForcesWriter(filename string, names []string) (*ForcesWriter, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("csv: create forces file: %w", err)
	}
	fw := &ForcesWriter{file: f, w: bufio.NewWriter(f), names: names}
	if _, err := fw.w.WriteString(ForcesHeader + "\n"); err != nil {
		f.Close()
		return nil, fmt.Errorf("csv: write forces header: %w", err)
	}
	return fw, nil
}

// WriteSample appends one row per force in sample.Forces, in the same
// order as the names passed to NewForcesWriter.
func (fw *ForcesWriter) WriteSample(sample trajectory.ForceSample) error {
	if len(sample.Forces) != len(fw.names) {
		return fmt.Errorf("csv: forces sample has %d entries, writer expects %d", len(sample.Forces), len(fw.names))
	}
	t := fmt.Sprintf("%.4f", sample.Time)
	mass := fullPrecision(sample.Mass)
	for i, triple := range sample.Forces {
		row := strings.Join([]string{
			t, mass, fw.names[i],
			fullPrecision(triple[0]), fullPrecision(triple[1]), fullPrecision(triple[2]),
		}, ",")
		if _, err := fw.w.WriteString(row + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes and closes the underlying file.
func (fw *ForcesWriter) Close() error {
	if err := fw.w.Flush(); err != nil {
		fw.file.Close()
		return fmt.Errorf("csv: flush forces file: %w", err)
	}
	return fw.file.Close()
}

// ReadForcesCSV loads an entire forces diagnostic CSV into memory, regrouping
// the per-force rows sharing a (time, mass) step back into one ForceSample
// per step, in the order the force rows appear. Used by the plotting
// collaborator, which needs the full time series at once.
func ReadForcesCSV(filename string) ([]trajectory.ForceSample, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("csv: open forces file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return nil, fmt.Errorf("csv: forces file missing header")
	}

	parse := func(s string) float64 {
		v, _ := strconv.ParseFloat(s, 64)
		return v
	}

	var out []trajectory.ForceSample
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), ",")
		if len(fields) != 6 {
			return nil, fmt.Errorf("csv: malformed forces row %q", scanner.Text())
		}
		t := parse(fields[0])
		mass := parse(fields[1])
		triple := [3]float64{parse(fields[3]), parse(fields[4]), parse(fields[5])}

		if len(out) == 0 || out[len(out)-1].Time != t || out[len(out)-1].Mass != mass {
			out = append(out, trajectory.ForceSample{Time: t, Mass: mass})
		}
		last := &out[len(out)-1]
		last.Forces = append(last.Forces, triple)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("csv: scan forces file: %w", err)
	}
	return out, nil
}
