package util

import (
	"fmt"
	"time"
)

// Helper functions
func FormatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	} else if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	} else {
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	}
}

// FormatPercent renders a 0..1 fraction as a percentage with one decimal.
func FormatPercent(fraction float64) string {
	return fmt.Sprintf("%.1f%%", fraction*100)
}

// FormatCoverage renders a 0..1 availability fraction for report cells.
// A month with no data at all renders as a dash.
func FormatCoverage(fraction float64, hasData bool) string {
	if !hasData {
		return "-"
	}
	return fmt.Sprintf("%.2f", fraction)
}

// FormatHour renders an hour-resolution timestamp.
func FormatHour(t time.Time) string {
	return t.Format(HourLayout)
}
