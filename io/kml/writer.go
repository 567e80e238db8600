// Package kml renders a trajectory CSV as a KML ground track, styling the
// apex and burnout segments distinctly, and compresses it into a KMZ
// archive.
package kml

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"time"

	csvio "projectilesim/io/csv"
	"projectilesim/trajectory"
)

// Writer streams a trajectory as KML Placemark LineString segments, one per
// consecutive pair of retained samples.
type Writer struct {
	file         *os.File
	w            *bufio.Writer
	epoch        time.Time
	peakBand     float64
	fuelBand     float64
	altitudeMode string
	wrotePeak    bool
	wroteFuel    bool
	previous     *trajectory.Sample
}

// Option configures a Writer at construction time.
type Option func(*Writer)

// WithPeakBand sets the |Vz| threshold (m/s) under which a segment is
// tagged as apex. Default 10.
func WithPeakBand(v float64) Option { return func(w *Writer) { w.peakBand = v } }

// WithFuelBand sets the remaining-fuel threshold under which a segment is
// tagged as burnout. Default 60.
func WithFuelBand(v float64) Option { return func(w *Writer) { w.fuelBand = v } }

// WithAltitudeMode overrides the KML altitudeMode (default "absolute").
func WithAltitudeMode(m string) Option { return func(w *Writer) { w.altitudeMode = m } }

// WithEpoch overrides the reference time that Sample.Time offsets are added
// to; defaults to the time NewWriter is called.
func WithEpoch(t time.Time) Option { return func(w *Writer) { w.epoch = t } }

// NewWriter creates (or truncates) filename and writes the KML header.
func NewWriter(filename, docName string, opts ...Option) (*Writer, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("kml: create file: %w", err)
	}
	w := &Writer{
		file:         f,
		w:            bufio.NewWriter(f),
		epoch:        time.Now(),
		peakBand:     10,
		fuelBand:     60,
		altitudeMode: "absolute",
	}
	for _, opt := range opts {
		opt(w)
	}
	if err := w.writeHeader(docName); err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

func (w *Writer) writeHeader(name string) error {
	_, err := fmt.Fprintf(w.w,
		"<?xml version='1.0' encoding='UTF-8'?>\n"+
			"<kml xmlns='http://earth.google.com/kml/2.2'>\n"+
			"<Document>\n"+
			"   <name>%s</name>\n"+
			"<Style id=\"peak\"><PolyStyle><color>ff0080ff</color></PolyStyle></Style>\n"+
			"<Style id=\"fuel\"><PolyStyle><color>ff0000ff</color></PolyStyle></Style>\n",
		name)
	return err
}

// WriteSample emits the Placemark segment joining the previously written
// sample to s; the very first call only primes the previous pointer.
func (w *Writer) WriteSample(s trajectory.Sample) error {
	if w.previous == nil {
		prev := s
		w.previous = &prev
		return nil
	}
	prev := *w.previous
	ts := w.epoch.Add(time.Duration(s.Time * float64(time.Second)))

	style := ""
	if (s.Vz < w.peakBand && s.Vz > -w.peakBand) || (s.Vz <= 0 && !w.wrotePeak) {
		style += "<styleUrl>#peak</styleUrl>"
		w.wrotePeak = true
	}
	if (s.RemainingFuel > 0 && s.RemainingFuel <= w.fuelBand) || (s.RemainingFuel == 0 && !w.wroteFuel) {
		style += "<styleUrl>#fuel</styleUrl>"
		w.wroteFuel = true
	}

	_, err := fmt.Fprintf(w.w,
		"<Placemark><TimeSpan><begin>%s</begin></TimeSpan>%s"+
			"<LineString><extrude>1</extrude><altitudeMode>%s</altitudeMode>"+
			"<coordinates>%g,%g,%g %g,%g,%g</coordinates></LineString></Placemark>\n",
		ts.Format(time.RFC3339),
		style,
		w.altitudeMode,
		degrees(prev.Lon), degrees(prev.Lat), prev.Alt,
		degrees(s.Lon), degrees(s.Lat), s.Alt,
	)
	if err != nil {
		return fmt.Errorf("kml: write placemark: %w", err)
	}
	w.previous = &s
	return nil
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

// Close writes the closing document tags and flushes the file.
func (w *Writer) Close() error {
	if _, err := w.w.WriteString("</Document>\n</kml>\n"); err != nil {
		w.file.Close()
		return fmt.Errorf("kml: write footer: %w", err)
	}
	if err := w.w.Flush(); err != nil {
		w.file.Close()
		return fmt.Errorf("kml: flush file: %w", err)
	}
	return w.file.Close()
}

// Convert reads a trajectory CSV, retains the first sample and then each
// sample at least 1/sampleRate seconds (simulated time) after the previously
// retained one, and emits one KML segment per consecutive pair of retained
// samples.
func Convert(csvPath, kmlPath, docName string, sampleRate float64, opts ...Option) error {
	reader, closeCSV, err := csvio.NewTrajectoryReader(csvPath)
	if err != nil {
		return err
	}
	defer closeCSV()

	w, err := NewWriter(kmlPath, docName, opts...)
	if err != nil {
		return err
	}

	dt := 1 / sampleRate
	current, err := reader.Read()
	if err != nil {
		w.Close()
		return fmt.Errorf("kml: read first sample: %w", err)
	}
	if err := w.WriteSample(current); err != nil {
		w.Close()
		return err
	}

	for {
		next, err := reader.Read()
		if err != nil {
			break
		}
		for next.Time < current.Time+dt {
			next, err = reader.Read()
			if err != nil {
				break
			}
		}
		if err != nil {
			break
		}
		current = next
		if err := w.WriteSample(current); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}
