package formatter

import (
	"fmt"
	"time"
)

// MonthAvailability is one cell of the availability report: the fraction of
// hours in a calendar month that carry a valid measurement.
type MonthAvailability struct {
	Coverage float64 `json:"coverage"`
	HasData  bool    `json:"hasData"`
}

// AvailabilityRow aggregates one calendar year of the report.
type AvailabilityRow struct {
	Year       int                   `json:"year"`
	Months     [12]MonthAvailability `json:"months"`
	ValidHours int                   `json:"validHours"`
	TotalHours int                   `json:"totalHours"`
}

// Report is the data-availability report over a requested interval.
type Report struct {
	Site         string            `json:"site"`
	Parameter    string            `json:"parameter"`
	Begin        time.Time         `json:"begin"`
	End          time.Time         `json:"end"`
	TotalHours   int               `json:"totalHours"`
	ValidHours   int               `json:"validHours"`
	MissingHours int               `json:"missingHours"`
	Rows         []AvailabilityRow `json:"rows"`
}

// Formatter renders a report to stdout.
type Formatter interface {
	Format(report *Report) error
}

// New returns the formatter for the requested output format.
func New(format string) (Formatter, error) {
	switch format {
	case "table", "":
		return NewTableFormatter(), nil
	case "csv":
		return NewCSVFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	case "summary":
		return NewSummaryFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s (expected table, csv, json or summary)", format)
	}
}
