package formatter

import (
	"fmt"

	"github.com/pzhong/go-aqi-monitor/internal/util"
)

// SummaryFormatter is responsible for formatting and outputting summary reports.
type SummaryFormatter struct{}

// NewSummaryFormatter creates a new instance of SummaryFormatter.
func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{}
}

// Format outputs the headline numbers of the report plus a per-year line.
func (f *SummaryFormatter) Format(report *Report) error {
	fmt.Printf("Site:         %s\n", report.Site)
	fmt.Printf("Parameter:    %s\n", report.Parameter)
	fmt.Printf("Interval:     %s to %s\n", util.FormatHour(report.Begin), util.FormatHour(report.End))
	fmt.Printf("Total hours:  %s\n", util.FormatNumber(report.TotalHours))
	fmt.Printf("Valid hours:  %s\n", util.FormatNumber(report.ValidHours))
	fmt.Printf("Missing:      %s (%s)\n",
		util.FormatNumber(report.MissingHours),
		util.FormatPercent(missingFraction(report)))

	if len(report.Rows) > 0 {
		fmt.Println()
		for _, row := range report.Rows {
			fraction := 0.0
			if row.TotalHours > 0 {
				fraction = float64(row.ValidHours) / float64(row.TotalHours)
			}
			fmt.Printf("  %d: %s of %s hours valid (%s)\n",
				row.Year,
				util.FormatNumber(row.ValidHours),
				util.FormatNumber(row.TotalHours),
				util.FormatPercent(fraction))
		}
	}

	return nil
}

func missingFraction(report *Report) float64 {
	if report.TotalHours == 0 {
		return 0
	}
	return float64(report.MissingHours) / float64(report.TotalHours)
}
