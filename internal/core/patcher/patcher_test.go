package patcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pzhong/go-aqi-monitor/internal/core/model"
	"github.com/pzhong/go-aqi-monitor/internal/core/series"
)

func buildSeries(t *testing.T, values []float64) *series.Series {
	t.Helper()
	start := time.Date(2014, 3, 9, 0, 0, 0, 0, time.UTC)
	points := make([]model.DataPoint, 0, len(values))
	for i, v := range values {
		p := model.DataPoint{Timestamp: start.Add(time.Duration(i) * time.Hour)}
		if v >= 0 {
			p.Value = v
			p.Valid = true
		}
		points = append(points, p)
	}
	s, err := series.New(points)
	require.NoError(t, err)
	return s
}

func TestCalibrate(t *testing.T) {
	// Residuals: (100+110)/2-120 = -15, (120+130)/2-110 = 15, (110+140)/2-130 = -5
	// Sample stddev about their mean (-5/3) is sqrt(4200/9/2) ≈ 15.27525
	s := buildSeries(t, []float64{100, 120, 110, 130, 140})

	calibration, err := Calibrate(s)
	require.NoError(t, err)
	assert.InDelta(t, 15.27525, calibration.FillUncertainty, 0.0001)
}

func TestCalibrateSkipsTriplesWithMissing(t *testing.T) {
	// The missing hour removes the three triples it participates in,
	// leaving residuals only at the two ends.
	s := buildSeries(t, []float64{100, 120, 110, -1, 130, 150, 140})

	calibration, err := Calibrate(s)
	require.NoError(t, err)

	// Residuals: (100+110)/2-120 = -15 and (130+140)/2-150 = -15
	assert.InDelta(t, 0.0, calibration.FillUncertainty, 1e-12)
}

func TestCalibrateIsDeterministic(t *testing.T) {
	s := buildSeries(t, []float64{87, 120, 110, 95, 140, 133, 128})

	first, err := Calibrate(s)
	require.NoError(t, err)
	second, err := Calibrate(s)
	require.NoError(t, err)

	assert.Equal(t, first.FillUncertainty, second.FillUncertainty)
}

func TestCalibrateRequiresTwoResiduals(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
	}{
		{"too short", []float64{100, 120}},
		{"single residual", []float64{100, 120, 140}},
		{"all missing", []float64{-1, -1, -1, -1}},
		{"gaps break every triple", []float64{100, -1, 120, -1, 140}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calibrate(buildSeries(t, tt.values))
			assert.Error(t, err)
		})
	}
}

func TestEstimateMissingFillsIsolatedGap(t *testing.T) {
	s := buildSeries(t, []float64{100, 120, -1, 160})

	p := New(model.Calibration{FillUncertainty: 10.0})
	filled := p.EstimateMissing(s)

	assert.Equal(t, 1, filled)
	point := s.At(2)
	assert.False(t, point.Missing())
	assert.Equal(t, 140.0, point.Value)
	assert.Equal(t, 10.0, point.Uncertainty)

	// Neighbors are untouched
	assert.Equal(t, 0.0, s.At(1).Uncertainty)
}

func TestEstimateMissingLeavesWiderGaps(t *testing.T) {
	s := buildSeries(t, []float64{100, -1, -1, 160, 180})

	filled := New(model.Calibration{FillUncertainty: 10.0}).EstimateMissing(s)

	assert.Equal(t, 0, filled)
	assert.True(t, s.At(1).Missing())
	assert.True(t, s.At(2).Missing())
}

func TestEstimateMissingLeavesEdgeGaps(t *testing.T) {
	s := buildSeries(t, []float64{-1, 120, 140, -1})

	filled := New(model.Calibration{FillUncertainty: 10.0}).EstimateMissing(s)

	assert.Equal(t, 0, filled)
	assert.True(t, s.At(0).Missing())
	assert.True(t, s.At(3).Missing())
}

func TestEstimateMissingIsIdempotent(t *testing.T) {
	s := buildSeries(t, []float64{100, -1, 140, 150, -1, 170})
	p := New(model.Calibration{FillUncertainty: 5.0})

	assert.Equal(t, 2, p.EstimateMissing(s))
	assert.Equal(t, 0, p.EstimateMissing(s))
	assert.Equal(t, 0, s.MissingCount())
}

func TestEstimateMissingMultipleIsolatedGaps(t *testing.T) {
	s := buildSeries(t, []float64{100, -1, 120, -1, 140})

	filled := New(model.Calibration{FillUncertainty: 2.5}).EstimateMissing(s)

	assert.Equal(t, 2, filled)
	assert.Equal(t, 110.0, s.At(1).Value)
	assert.Equal(t, 130.0, s.At(3).Value)
	assert.Equal(t, 2.5, s.At(1).Uncertainty)
}
