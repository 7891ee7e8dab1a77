// Package repairer turns the merged, unsorted observations from all source
// files into a dense, duplicate-free hourly sequence.
package repairer

import (
	"fmt"
	"sort"
	"time"

	"github.com/pzhong/go-aqi-monitor/internal/core/model"
	"github.com/pzhong/go-aqi-monitor/internal/util"
)

// Repair sorts the observations chronologically, corrects the known
// seasonal duplicate-timestamp anomaly, fails on any other duplicate, and
// inserts missing-marked placeholders so the result has exactly one entry
// per hour with no gaps.
func Repair(rows []model.Observation) ([]model.DataPoint, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no observations to repair")
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Timestamp.Before(rows[j].Timestamp)
	})

	fixSeasonalDuplicates(rows)

	points := make([]model.DataPoint, 0, len(rows))
	added := 0

	for i, r := range rows {
		if i > 0 {
			prev := rows[i-1].Timestamp
			if prev.Equal(r.Timestamp) {
				return nil, fmt.Errorf("duplicate data for hour %s", util.FormatHour(r.Timestamp))
			}

			for ts := prev.Add(time.Hour); ts.Before(r.Timestamp); ts = ts.Add(time.Hour) {
				points = append(points, model.MissingPoint(ts))
				added++
			}
		}

		points = append(points, model.DataPoint{
			Timestamp: r.Timestamp,
			Value:     r.Value,
			Valid:     r.Valid,
		})
	}

	if added > 0 {
		util.LogInfof("Added %d empty elements where there were gaps", added)
	}

	return points, nil
}

// fixSeasonalDuplicates corrects a bug in the upstream recording software
// that produces one duplicate 3am entry in March (the source region has no
// DST, which makes the artifact all the stranger). At most one adjacent
// duplicate per year is shifted back an hour; anything left over is caught
// by the hard duplicate check. Rows must already be sorted.
func fixSeasonalDuplicates(rows []model.Observation) {
	firstYear := rows[0].Timestamp.Year()
	lastYear := rows[len(rows)-1].Timestamp.Year()

	for year := firstYear; year <= lastYear; year++ {
		marchBegin := util.HourOf(year, 3, 1, 0)
		marchEnd := util.HourOf(year, 4, 1, 0)

		// Empty when there is no March data for this year.
		first := sort.Search(len(rows), func(i int) bool {
			return !rows[i].Timestamp.Before(marchBegin)
		})
		last := sort.Search(len(rows), func(i int) bool {
			return !rows[i].Timestamp.Before(marchEnd)
		})

		for i := first; i < last-1; i++ {
			if rows[i].Timestamp.Equal(rows[i+1].Timestamp) && rows[i].Timestamp.Hour() == 3 {
				rows[i].Timestamp = rows[i].Timestamp.Add(-time.Hour)
				util.LogInfof("Fixed seasonal duplicate at %s", util.FormatHour(rows[i].Timestamp))
				break
			}
		}
	}
}
