// Package parser reads raw stateair-style CSV exports and normalizes each
// row into a canonical (timestamp, value-or-missing) observation.
package parser

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pzhong/go-aqi-monitor/internal/core/model"
	"github.com/pzhong/go-aqi-monitor/internal/util"
)

const (
	expectedUnit = "µg/m³"
	// The 2008 export writes the unit with a historical typo.
	unitTypo         = "µg/mg³"
	expectedDuration = "1 Hr"
	qcValid          = "Valid"
)

// Parser is a struct for parsing raw CSV export files.
type Parser struct {
	concurrency int
}

// ParseResult represents the result of parsing a single file.
type ParseResult struct {
	File    string
	Rows    []model.Observation
	Dropped int
	Error   error
}

// NewParser creates a new Parser instance.
func NewParser(concurrency int) *Parser {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Parser{concurrency: concurrency}
}

// ParseFile parses the export at the specified path and returns the
// normalized observations plus the number of rows dropped by the unit and
// duration hard filters.
func (p *Parser) ParseFile(filepath string) ([]model.Observation, int, error) {
	util.LogDebugf("Start parsing file: %s", filepath)

	file, err := os.Open(filepath)
	if err != nil {
		return nil, 0, err
	}
	defer file.Close()

	skipLines, found := locateHeader(file)
	if !found {
		util.LogWarnf("Couldn't find CSV header in file '%s'", filepath)
		return nil, 0, nil
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, 0, err
	}

	reader := bufio.NewReader(file)
	for i := 0; i < skipLines; i++ {
		if _, err := reader.ReadString('\n'); err != nil {
			return nil, 0, err
		}
	}

	cr := csv.NewReader(reader)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read CSV header of %s: %w", filepath, err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	var rows []model.Observation
	dropped := 0
	lineNo := skipLines + 1

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		lineNo++
		if err != nil {
			util.LogWarnf("Skip malformed CSV line %s:%d - %v", filepath, lineNo, err)
			dropped++
			continue
		}

		row, ok := normalizeRow(record, columns)
		if !ok {
			dropped++
			continue
		}
		rows = append(rows, row)
	}

	return rows, dropped, nil
}

// locateHeader returns the number of preamble lines before the CSV header.
// A header line is the first line with more than one comma-separated field
// where every field is non-empty and carries no surrounding whitespace.
func locateHeader(file *os.File) (int, bool) {
	skipLines := 0
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		fields := strings.Split(strings.TrimRight(scanner.Text(), "\r\n"), ",")
		if len(fields) > 1 && allValidFieldNames(fields) {
			return skipLines, true
		}
		skipLines++
	}

	return skipLines, false
}

func allValidFieldNames(fields []string) bool {
	for _, f := range fields {
		if len(f) == 0 || f != strings.TrimSpace(f) {
			return false
		}
	}
	return true
}

// normalizeRow converts one raw record into an Observation, or rejects the
// row entirely. An unexpected unit or duration disqualifies the row no
// matter what the value looks like; an invalid or negative measurement is a
// missing value, not a rejection.
func normalizeRow(record []string, columns map[string]int) (model.Observation, bool) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	year, errY := strconv.Atoi(field("Year"))
	month, errM := strconv.Atoi(field("Month"))
	day, errD := strconv.Atoi(field("Day"))
	hour, errH := strconv.Atoi(field("Hour"))
	if errY != nil || errM != nil || errD != nil || errH != nil {
		util.LogWarnf("Row with unparsable date fields: %v", record)
		return model.Observation{}, false
	}
	ts := util.HourOf(year, month, day, hour)

	if unit := field("Unit"); unit != expectedUnit && unit != unitTypo {
		util.LogWarnf("Weird unit at %s: '%s'", util.FormatHour(ts), unit)
		return model.Observation{}, false
	}

	if duration := field("Duration"); duration != expectedDuration {
		util.LogWarnf("Weird duration at %s: '%s'", util.FormatHour(ts), duration)
		return model.Observation{}, false
	}

	row := model.Observation{
		Timestamp: ts,
		Site:      field("Site"),
		Parameter: field("Parameter"),
	}

	if field("QC Name") == qcValid {
		value, err := strconv.ParseFloat(field("Value"), 64)
		if err != nil {
			util.LogWarnf("Unparsable value at %s: '%s'", util.FormatHour(ts), field("Value"))
		} else if value >= 0 {
			row.Value = value
			row.Valid = true
		}
	}

	return row, true
}

// ParseFiles parses multiple files concurrently and returns a channel of ParseResult.
func (p *Parser) ParseFiles(files []string) <-chan ParseResult {
	start := time.Now()
	results := make(chan ParseResult, len(files))
	var wg sync.WaitGroup

	util.LogDebugf("Start concurrent parsing of %d files, concurrency: %d", len(files), p.concurrency)

	semaphore := make(chan struct{}, p.concurrency)

	for _, file := range files {
		wg.Add(1)
		go func(f string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			rows, dropped, err := p.ParseFile(f)
			if err != nil {
				util.LogWarnf("File parsing failed: %s - %v", f, err)
			}

			results <- ParseResult{
				File:    f,
				Rows:    rows,
				Dropped: dropped,
				Error:   err,
			}
		}(file)
	}

	go func() {
		wg.Wait()
		close(results)
		util.LogDebugf("Concurrent parsing completed, total duration: %v", time.Since(start))
	}()

	return results
}
