// Package plot renders a force's (x,y,z)/mass time series from a forces.csv
// file to a PNG, replacing the original source's matplotlib collaborator
// (original_source/projectile/data/Plotter.py) with gonum.org/v1/plot.
package plot

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	csvio "projectilesim/io/csv"
)

func axisColor(axis int) color.Color {
	switch axis {
	case 0:
		return color.RGBA{R: 220, A: 255}
	case 1:
		return color.RGBA{G: 150, A: 255}
	default:
		return color.RGBA{B: 220, A: 255}
	}
}

// ForceAcceleration plots one registered force's per-axis specific force
// (force/mass, i.e. the acceleration that force alone contributes) over
// time. forceIndex selects which force within each step's group of rows,
// in the order the forces were registered with the environment.
func ForceAcceleration(forcesCSVPath string, forceIndex int, title, outPNG string) error {
	rows, err := readForceRows(forcesCSVPath, forceIndex)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = "acceleration (m/s^2)"

	colors := []struct {
		label string
		idx   int
	}{{"X", 0}, {"Y", 1}, {"Z", 2}}

	for _, c := range colors {
		pts := make(plotter.XYs, len(rows))
		for i, r := range rows {
			pts[i].X = r.time
			pts[i].Y = r.accel[c.idx]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("plot: build %s line: %w", c.label, err)
		}
		line.Color = axisColor(c.idx)
		p.Add(line)
		p.Legend.Add(c.label, line)
	}

	if err := p.Save(8*vg.Inch, 4*vg.Inch, outPNG); err != nil {
		return fmt.Errorf("plot: save %s: %w", outPNG, err)
	}
	return nil
}

type forceRow struct {
	time  float64
	accel [3]float64
}

func readForceRows(path string, forceIndex int) ([]forceRow, error) {
	samples, err := csvio.ReadForcesCSV(path)
	if err != nil {
		return nil, err
	}
	rows := make([]forceRow, 0, len(samples))
	for _, s := range samples {
		if forceIndex >= len(s.Forces) {
			return nil, fmt.Errorf("plot: force index %d out of range (%d forces)", forceIndex, len(s.Forces))
		}
		triple := s.Forces[forceIndex]
		rows = append(rows, forceRow{
			time: s.Time,
			accel: [3]float64{
				triple[0] / s.Mass,
				triple[1] / s.Mass,
				triple[2] / s.Mass,
			},
		})
	}
	return rows, nil
}
