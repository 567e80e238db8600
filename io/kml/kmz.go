package kml

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
)

// Compress writes a KMZ (a ZIP archive containing a single "doc.kml" entry)
// to output, reading its contents from filename. No third-party ZIP
// library fits this better than the standard library, and archive/zip
// already implements the Deflate compression the original source
// requests, so this stays on the standard library (see DESIGN.md).
func Compress(filename, output string) error {
	src, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("kmz: open source kml: %w", err)
	}
	defer src.Close()

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("kmz: create archive: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	entry, err := zw.Create("doc.kml")
	if err != nil {
		zw.Close()
		return fmt.Errorf("kmz: create archive entry: %w", err)
	}
	if _, err := io.Copy(entry, src); err != nil {
		zw.Close()
		return fmt.Errorf("kmz: write archive entry: %w", err)
	}
	return zw.Close()
}

// ConvertToKMZ runs Convert to produce an intermediate .kml file at kmlPath,
// compresses it to kmzPath, and (unless keepKML is set) removes the
// intermediate file, mirroring convert_csv_to_kmz in the original source.
func ConvertToKMZ(csvPath, kmlPath, kmzPath, docName string, sampleRate float64, keepKML bool, opts ...Option) error {
	if err := Convert(csvPath, kmlPath, docName, sampleRate, opts...); err != nil {
		return err
	}
	if err := Compress(kmlPath, kmzPath); err != nil {
		return err
	}
	if !keepKML {
		if err := os.Remove(kmlPath); err != nil {
			return fmt.Errorf("kmz: remove intermediate kml: %w", err)
		}
	}
	return nil
}
