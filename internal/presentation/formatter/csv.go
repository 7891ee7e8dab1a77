package formatter

import (
	"encoding/csv"
	"fmt"
	"os"
)

type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

func (f *CSVFormatter) Format(report *Report) error {
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	headers := []string{"Year"}
	for month := 1; month <= 12; month++ {
		headers = append(headers, fmt.Sprintf("%d", month))
	}
	if err := w.Write(headers); err != nil {
		return err
	}

	for _, row := range report.Rows {
		record := []string{fmt.Sprintf("%d", row.Year)}
		for _, m := range row.Months {
			if m.HasData {
				record = append(record, fmt.Sprintf("%.4f", m.Coverage))
			} else {
				record = append(record, "")
			}
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	return nil
}
