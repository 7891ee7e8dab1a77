// Package fixtures generates stateair-style CSV export files for tests.
package fixtures

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Header is the column list of a real hourly export.
var Header = []string{
	"Site", "Parameter", "Date (LST)", "Year", "Month", "Day", "Hour",
	"Value", "Unit", "Duration", "QC Name",
}

// Preamble mimics the free-text lines real exports carry before the header.
var Preamble = []string{
	"Hourly air quality data from the embassy monitor",
	"These data are not fully verified or validated,",
	"",
}

// Row is one raw export line.
type Row struct {
	Site      string
	Parameter string
	Year      int
	Month     int
	Day       int
	Hour      int
	Value     float64
	Unit      string
	Duration  string
	QC        string
}

// ValidRow returns a well-formed Beijing/PM2.5 row for the given hour.
func ValidRow(ts time.Time, value float64) Row {
	return Row{
		Site:      "Beijing",
		Parameter: "PM2.5",
		Year:      ts.Year(),
		Month:     int(ts.Month()),
		Day:       ts.Day(),
		Hour:      ts.Hour(),
		Value:     value,
		Unit:      "µg/m³",
		Duration:  "1 Hr",
		QC:        "Valid",
	}
}

// MissingRow returns a row whose measurement failed quality control.
func MissingRow(ts time.Time) Row {
	r := ValidRow(ts, -999)
	r.QC = "Missing"
	return r
}

// HourlyRows builds consecutive valid rows starting at start. A negative
// value marks the hour as QC-missing, matching the raw export convention.
func HourlyRows(start time.Time, values []float64) []Row {
	rows := make([]Row, 0, len(values))
	for i, v := range values {
		ts := start.Add(time.Duration(i) * time.Hour)
		if v < 0 {
			rows = append(rows, MissingRow(ts))
		} else {
			rows = append(rows, ValidRow(ts, v))
		}
	}
	return rows
}

// TestDataGenerator writes export files under a base directory.
type TestDataGenerator struct {
	baseDir string
}

// NewTestDataGenerator creates a new test data generator.
func NewTestDataGenerator(baseDir string) *TestDataGenerator {
	return &TestDataGenerator{baseDir: baseDir}
}

// WriteExport writes one export file with the standard preamble and header.
// Returns the full path of the written file.
func (g *TestDataGenerator) WriteExport(filename string, rows []Row) (string, error) {
	if err := os.MkdirAll(g.baseDir, 0755); err != nil {
		return "", err
	}

	var b strings.Builder
	for _, line := range Preamble {
		b.WriteString(line + "\n")
	}
	b.WriteString(strings.Join(Header, ",") + "\n")

	for _, r := range rows {
		ts := time.Date(r.Year, time.Month(r.Month), r.Day, r.Hour, 0, 0, 0, time.UTC)
		b.WriteString(fmt.Sprintf("%s,%s,%s,%d,%d,%d,%d,%g,%s,%s,%s\n",
			r.Site, r.Parameter, ts.Format("2006-01-02 15:04"),
			r.Year, r.Month, r.Day, r.Hour,
			r.Value, r.Unit, r.Duration, r.QC))
	}

	path := filepath.Join(g.baseDir, filename)
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", err
	}
	return path, nil
}
