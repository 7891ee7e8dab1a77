package analyzer

import (
	"time"

	"github.com/pzhong/go-aqi-monitor/internal/core/series"
	"github.com/pzhong/go-aqi-monitor/internal/presentation/formatter"
	"github.com/pzhong/go-aqi-monitor/internal/util"
)

// BuildAvailabilityReport computes the per-month valid-hour fraction over
// the requested interval, one row per calendar year. Every month is read
// through a range view, so months that reach past the stored data simply
// count the synthesized hours as missing.
func BuildAvailabilityReport(s *series.Series, site, parameter string, begin, end time.Time) *formatter.Report {
	whole := s.Range(begin, end)
	if begin.IsZero() {
		begin = s.First()
	}
	if end.IsZero() {
		end = s.Last().Add(time.Hour)
	}

	report := &formatter.Report{
		Site:       site,
		Parameter:  parameter,
		Begin:      begin,
		End:        end,
		TotalHours: whole.Len(),
		ValidHours: whole.ValidCount(),
	}
	report.MissingHours = report.TotalHours - report.ValidHours

	// end is half-open; the last covered hour decides the final year.
	lastYear := end.Add(-time.Hour).Year()
	for year := begin.Year(); year <= lastYear; year++ {
		row := formatter.AvailabilityRow{Year: year}

		for month := 1; month <= 12; month++ {
			monthBegin := util.HourOf(year, month, 1, 0)
			monthEnd := monthBegin.AddDate(0, 1, 0)

			view := s.Range(monthBegin, monthEnd)
			valid := view.ValidCount()

			hasData := monthBegin.Before(s.Last().Add(time.Hour)) && monthEnd.After(s.First())
			coverage := 0.0
			if view.Len() > 0 {
				coverage = float64(valid) / float64(view.Len())
			}

			row.Months[month-1] = formatter.MonthAvailability{
				Coverage: coverage,
				HasData:  hasData,
			}
			row.ValidHours += valid
			row.TotalHours += view.Len()
		}

		report.Rows = append(report.Rows, row)
	}

	return report
}
