package formatter

import (
	"fmt"
	"strings"

	"github.com/pzhong/go-aqi-monitor/internal/util"
)

type TableFormatter struct {
	headers []string
}

func NewTableFormatter() *TableFormatter {
	headers := []string{"Year"}
	for _, m := range []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"} {
		headers = append(headers, m)
	}
	return &TableFormatter{headers: headers}
}

func (f *TableFormatter) Format(report *Report) error {
	fmt.Printf("Data availability for %s / %s, %s to %s\n",
		report.Site, report.Parameter,
		util.FormatHour(report.Begin), util.FormatHour(report.End))

	rows := make([][]string, 0, len(report.Rows))
	for _, row := range report.Rows {
		record := []string{fmt.Sprintf("%d", row.Year)}
		for _, m := range row.Months {
			record = append(record, util.FormatCoverage(m.Coverage, m.HasData))
		}
		rows = append(rows, record)
	}

	widths := f.calculateColumnWidths(rows)

	f.printBorder(widths, "top")
	f.printRow(f.headers, widths)
	f.printBorder(widths, "middle")
	for _, record := range rows {
		f.printRow(record, widths)
	}
	f.printBorder(widths, "bottom")

	fmt.Printf("Valid hours: %s of %s (%s)\n",
		util.FormatNumber(report.ValidHours),
		util.FormatNumber(report.TotalHours),
		util.FormatPercent(availability(report)))

	return nil
}

func availability(report *Report) float64 {
	if report.TotalHours == 0 {
		return 0
	}
	return float64(report.ValidHours) / float64(report.TotalHours)
}

// calculateColumnWidths sizes every column to its widest cell, clamped so
// the whole table still fits the terminal.
func (f *TableFormatter) calculateColumnWidths(rows [][]string) []int {
	widths := make([]int, len(f.headers))
	for i, h := range f.headers {
		widths[i] = util.GetDisplayWidth(h)
	}
	for _, record := range rows {
		for i, cell := range record {
			if i < len(widths) && util.GetDisplayWidth(cell) > widths[i] {
				widths[i] = util.GetDisplayWidth(cell)
			}
		}
	}

	// 3 chars of separator per column plus the closing border.
	total := 1
	for _, w := range widths {
		total += w + 3
	}
	termWidth := util.TerminalWidth(120)
	for i := len(widths) - 1; i >= 1 && total > termWidth; i-- {
		if widths[i] > 4 {
			total -= widths[i] - 4
			widths[i] = 4
		}
	}

	return widths
}

func (f *TableFormatter) printBorder(widths []int, position string) {
	var left, mid, right string
	switch position {
	case "top":
		left, mid, right = "┌", "┬", "┐"
	case "middle":
		left, mid, right = "├", "┼", "┤"
	default:
		left, mid, right = "└", "┴", "┘"
	}

	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("─", w+2)
	}
	fmt.Println(left + strings.Join(parts, mid) + right)
}

func (f *TableFormatter) printRow(cells []string, widths []int) {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		pad := widths[i] - util.GetDisplayWidth(cell)
		if pad < 0 {
			cell = cell[:widths[i]]
			pad = 0
		}
		parts[i] = " " + cell + strings.Repeat(" ", pad) + " "
	}
	fmt.Println("│" + strings.Join(parts, "│") + "│")
}
