package model

import (
	"time"
)

// DataPoint is a single hourly measurement slot in the dense series.
// A missing measurement is represented by Valid == false; the Value field
// never participates in arithmetic while Valid is false.
type DataPoint struct {
	Timestamp   time.Time `json:"timestamp"`
	Value       float64   `json:"value"`
	Valid       bool      `json:"valid"`
	Uncertainty float64   `json:"uncertainty"`
}

// Missing reports whether the slot holds no usable measurement.
func (p DataPoint) Missing() bool {
	return !p.Valid
}

// MissingPoint returns a missing-valued DataPoint for the given hour.
func MissingPoint(ts time.Time) DataPoint {
	return DataPoint{Timestamp: ts}
}

// Observation is a normalized raw row: timestamp plus value-or-missing,
// carrying the source Site and Parameter so the analyzer can filter before
// the timeline repair step.
type Observation struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
	Valid     bool      `json:"valid"`
	Site      string    `json:"site"`
	Parameter string    `json:"parameter"`
}

// Calibration holds the learned uncertainty attached to interpolated fills.
// FillUncertainty is the sample standard deviation of the residual between a
// value and the midpoint of its two hourly neighbors.
type Calibration struct {
	FillUncertainty float64 `json:"fillUncertainty"`
}

// FileEvent describes a change to a source file detected in watch mode.
type FileEvent struct {
	Path      string
	Operation string
}
