// Package csv implements the trajectory.csv and forces.csv writers, and a
// trajectory reader for the KML conversion path.
package csv

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"projectilesim/trajectory"
)

// TrajectoryHeader is the fixed header row of a trajectory CSV.
const TrajectoryHeader = "time,distance,latitude,longitude,altitude,Vx,Vy,Vz,pitch,yaw,fuel"

// TrajectoryWriter writes one row per simulation step to a trajectory CSV
// file: time/distance/fuel are fixed-decimal, everything else is
// full-precision text.
type TrajectoryWriter struct {
	file *os.File
	w    *bufio.Writer
}

// NewTrajectoryWriter creates (or truncates) filename and writes the header.
func NewTrajectoryWriter(filename string) (*TrajectoryWriter, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("csv: create trajectory file: %w", err)
	}
	tw := &TrajectoryWriter{file: f, w: bufio.NewWriter(f)}
	if _, err := tw.w.WriteString(TrajectoryHeader + "\n"); err != nil {
		f.Close()
		return nil, fmt.Errorf("csv: write trajectory header: %w", err)
	}
	return tw, nil
}

func fullPrecision(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// WriteSample appends one trajectory row.
func (tw *TrajectoryWriter) WriteSample(s trajectory.Sample) error {
	_, err := fmt.Fprintf(tw.w, "%.4f,%.2f,%s,%s,%s,%s,%s,%s,%s,%s,%.2f\n",
		s.Time, s.PlanarDistance,
		fullPrecision(s.Lat), fullPrecision(s.Lon), fullPrecision(s.Alt),
		fullPrecision(s.Vx), fullPrecision(s.Vy), fullPrecision(s.Vz),
		fullPrecision(s.Pitch), fullPrecision(s.Yaw),
		s.RemainingFuel)
	return err
}

// Close flushes and closes the underlying file.
func (tw *TrajectoryWriter) Close() error {
	if err := tw.w.Flush(); err != nil {
		tw.file.Close()
		return fmt.Errorf("csv: flush trajectory file: %w", err)
	}
	return tw.file.Close()
}

// TrajectoryReader reads trajectory CSV rows back into Samples, used by the
// KML conversion path.
type TrajectoryReader struct {
	r *bufio.Scanner
}

// NewTrajectoryReader opens filename and skips its header row.
func NewTrajectoryReader(filename string) (*TrajectoryReader, func() error, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("csv: open trajectory file: %w", err)
	}
	scanner := bufio.NewScanner(f)
	if scanner.Scan() {
		// discard header
	}
	return &TrajectoryReader{r: scanner}, f.Close, nil
}

// Read returns the next Sample, or io.EOF once exhausted.
func (tr *TrajectoryReader) Read() (trajectory.Sample, error) {
	if !tr.r.Scan() {
		if err := tr.r.Err(); err != nil {
			return trajectory.Sample{}, fmt.Errorf("csv: read trajectory row: %w", err)
		}
		return trajectory.Sample{}, io.EOF
	}
	fields := strings.Split(tr.r.Text(), ",")
	if len(fields) != 11 {
		return trajectory.Sample{}, fmt.Errorf("csv: malformed trajectory row %q", tr.r.Text())
	}
	parse := func(s string) float64 {
		v, _ := strconv.ParseFloat(s, 64)
		return v
	}
	return trajectory.Sample{
		Time:           parse(fields[0]),
		PlanarDistance: parse(fields[1]),
		Lat:            parse(fields[2]),
		Lon:            parse(fields[3]),
		Alt:            parse(fields[4]),
		Vx:             parse(fields[5]),
		Vy:             parse(fields[6]),
		Vz:             parse(fields[7]),
		Pitch:          parse(fields[8]),
		Yaw:            parse(fields[9]),
		RemainingFuel:  parse(fields[10]),
	}, nil
}
