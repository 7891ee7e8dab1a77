package series

import (
	"fmt"
	"time"

	"github.com/pzhong/go-aqi-monitor/internal/core/model"
	"github.com/pzhong/go-aqi-monitor/internal/util"
)

// RangeView is a non-owning window over a Series addressed by a half-open
// [begin, end) interval. Construction is O(1): only the integer hour offset
// and the length are computed, no data is copied. The view stays valid
// because the backing series is never structurally resized.
type RangeView struct {
	series *Series
	begin  time.Time
	offset int
	length int
}

// Range returns a view over [begin, end). A zero begin defaults to the first
// stored timestamp; a zero end defaults to one hour past the last, so the
// zero-value pair covers the whole series. Callers pass bare dates as
// midnight instants.
func (s *Series) Range(begin, end time.Time) *RangeView {
	if begin.IsZero() {
		begin = s.First()
	}
	if end.IsZero() {
		end = s.Last().Add(time.Hour)
	}

	length := util.HoursBetween(begin, end)
	if length < 0 {
		length = 0
	}

	return &RangeView{
		series: s,
		begin:  begin,
		offset: util.HoursBetween(s.First(), begin),
		length: length,
	}
}

// Len returns the number of hourly slots the view spans.
func (v *RangeView) Len() int {
	return v.length
}

// Begin returns the inclusive start of the view's interval.
func (v *RangeView) Begin() time.Time {
	return v.begin
}

// At returns the point at view index k. Negative indices count from the end.
// Indices outside [-Len, Len) are a caller error. A view index that maps
// outside the backing series yields a missing-valued point at the
// arithmetically correct timestamp, never an error: the view is total over
// its own index space.
func (v *RangeView) At(k int) (model.DataPoint, error) {
	if k < 0 {
		k += v.length
	}
	if k < 0 || k >= v.length {
		return model.DataPoint{}, fmt.Errorf("range index %d out of bounds for view of length %d", k, v.length)
	}

	abs := v.offset + k
	if abs >= 0 && abs < v.series.Len() {
		return v.series.At(abs), nil
	}

	return model.MissingPoint(v.series.First().Add(time.Duration(abs) * time.Hour)), nil
}

// ValidCount returns the number of points in the view with a usable value.
// It is recomputed on every call: the view is a thin lens over backing data
// that a fill pass may have mutated since the last call.
func (v *RangeView) ValidCount() int {
	count := 0
	for k := 0; k < v.length; k++ {
		p, _ := v.At(k)
		if !p.Missing() {
			count++
		}
	}
	return count
}
