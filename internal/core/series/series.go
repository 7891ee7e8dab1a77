// Package series holds the dense hourly time series and its windowed views.
//
// A Series is built once after timeline repair and is never resorted or
// resized. The only mutation it permits is filling the value slot of an
// existing hour, which is how the patcher writes its estimates back.
package series

import (
	"fmt"
	"time"

	"github.com/pzhong/go-aqi-monitor/internal/core/model"
)

// Series is the hour-indexed system of record for all downstream consumers.
type Series struct {
	points []model.DataPoint
}

// New builds a Series from repaired points and verifies the density
// invariant: strictly increasing timestamps with a fixed one-hour step.
func New(points []model.DataPoint) (*Series, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("cannot build a series from zero points")
	}

	first := points[0].Timestamp
	for i, p := range points {
		expected := first.Add(time.Duration(i) * time.Hour)
		if !p.Timestamp.Equal(expected) {
			return nil, fmt.Errorf("series is not dense at index %d: got %s, want %s",
				i, p.Timestamp.Format(time.RFC3339), expected.Format(time.RFC3339))
		}
	}

	return &Series{points: points}, nil
}

// Len returns the number of hourly slots.
func (s *Series) Len() int {
	return len(s.points)
}

// First returns the timestamp of the earliest slot.
func (s *Series) First() time.Time {
	return s.points[0].Timestamp
}

// Last returns the timestamp of the latest slot.
func (s *Series) Last() time.Time {
	return s.points[len(s.points)-1].Timestamp
}

// At returns the point at absolute index i. The index must be in bounds;
// windowed access with synthesized out-of-range points goes through Range.
func (s *Series) At(i int) model.DataPoint {
	return s.points[i]
}

// Fill overwrites the value slot at absolute index i with an estimated
// value. It is the single mutation the series supports: slots are never
// inserted or removed, and no other writer may run during a fill pass.
func (s *Series) Fill(i int, value, uncertainty float64) {
	s.points[i].Value = value
	s.points[i].Valid = true
	s.points[i].Uncertainty = uncertainty
}

// MissingCount returns the number of slots without a usable measurement.
func (s *Series) MissingCount() int {
	count := 0
	for _, p := range s.points {
		if p.Missing() {
			count++
		}
	}
	return count
}
