// Package patcher estimates missing hours in a dense series by linear
// interpolation, attaching an uncertainty learned from the existing data.
package patcher

import (
	"fmt"
	"math"

	"github.com/pzhong/go-aqi-monitor/internal/core/model"
	"github.com/pzhong/go-aqi-monitor/internal/core/series"
	"github.com/pzhong/go-aqi-monitor/internal/util"
)

// MinResidualSamples is the smallest residual population that yields a
// sample standard deviation.
const MinResidualSamples = 2

// Patcher fills isolated single-hour gaps using a previously computed
// calibration. The calibration must be derived from the same or a
// compatible series; nothing enforces that here.
type Patcher struct {
	calibration model.Calibration
}

// New creates a Patcher from a loaded calibration.
func New(calibration model.Calibration) *Patcher {
	return &Patcher{calibration: calibration}
}

// Calibrate learns the expected local-interpolation error from the existing
// data. For every interior hour whose two neighbors and itself are all
// valid, the residual is the difference between the neighbor midpoint and
// the actual value; FillUncertainty is the sample standard deviation of
// those residuals about their mean.
func Calibrate(s *series.Series) (model.Calibration, error) {
	var residuals []float64

	for i := 1; i < s.Len()-1; i++ {
		prev, cur, next := s.At(i-1), s.At(i), s.At(i+1)
		if prev.Missing() || cur.Missing() || next.Missing() {
			continue
		}
		residuals = append(residuals, (prev.Value+next.Value)/2-cur.Value)
	}

	if len(residuals) < MinResidualSamples {
		return model.Calibration{}, fmt.Errorf(
			"calibration needs at least %d residual samples, got %d", MinResidualSamples, len(residuals))
	}

	util.LogDebugf("Calibrating on %d residual samples", len(residuals))

	return model.Calibration{FillUncertainty: sampleStdDev(residuals)}, nil
}

// sampleStdDev computes the sample standard deviation about the sample mean.
func sampleStdDev(values []float64) float64 {
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	sumSquares := 0.0
	for _, v := range values {
		d := v - mean
		sumSquares += d * d
	}
	return math.Sqrt(sumSquares / float64(len(values)-1))
}

// EstimateMissing fills every isolated single-hour gap bounded by two valid
// neighbors with the neighbor midpoint and the calibrated uncertainty,
// mutating the series in place. Gaps of two or more consecutive hours and
// gaps at the series edges are left missing. Returns the number of hours
// filled; running it again on the result fills nothing.
func (p *Patcher) EstimateMissing(s *series.Series) int {
	filled := 0

	for i := 0; i <= s.Len()-3; {
		if s.At(i+1).Missing() && !s.At(i).Missing() && !s.At(i+2).Missing() {
			value := (s.At(i).Value + s.At(i+2).Value) / 2
			s.Fill(i+1, value, p.calibration.FillUncertainty)
			filled++
			// Skip past the slot we just filled so it is not reused as a
			// neighbor for the next gap.
			i += 2
		} else {
			i++
		}
	}

	if filled > 0 {
		util.LogInfof("Filled %d isolated single-hour gaps", filled)
	}

	return filled
}
