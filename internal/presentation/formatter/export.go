package formatter

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/pzhong/go-aqi-monitor/internal/core/series"
	"github.com/pzhong/go-aqi-monitor/internal/util"
)

// WriteSeriesCSV writes the dense series to a CSV file, one row per hour.
// Filled estimates are distinguishable by a non-zero uncertainty column.
func WriteSeriesCSV(path string, s *series.Series) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if err := w.Write([]string{"Timestamp", "Value", "Uncertainty", "Valid"}); err != nil {
		return err
	}

	for i := 0; i < s.Len(); i++ {
		p := s.At(i)
		record := []string{util.FormatHour(p.Timestamp), "", "", "false"}
		if !p.Missing() {
			record[1] = fmt.Sprintf("%g", p.Value)
			record[2] = fmt.Sprintf("%g", p.Uncertainty)
			record[3] = "true"
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	util.LogInfof("Wrote %d rows to %s", s.Len(), path)
	return nil
}
