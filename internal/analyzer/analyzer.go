// Package analyzer orchestrates the load pipeline: discover CSV exports,
// parse and normalize rows (through the cache), filter to the configured
// site and parameter, repair the timeline, and report on the result.
package analyzer

import (
	"fmt"
	"runtime"
	"time"

	"github.com/pzhong/go-aqi-monitor/internal/core/model"
	"github.com/pzhong/go-aqi-monitor/internal/core/series"
	"github.com/pzhong/go-aqi-monitor/internal/data/cache"
	"github.com/pzhong/go-aqi-monitor/internal/data/parser"
	"github.com/pzhong/go-aqi-monitor/internal/data/repairer"
	"github.com/pzhong/go-aqi-monitor/internal/data/scanner"
	"github.com/pzhong/go-aqi-monitor/internal/presentation/formatter"
	"github.com/pzhong/go-aqi-monitor/internal/util"
)

type Config struct {
	DataDir      string
	CacheDir     string
	Site         string
	Parameter    string
	OutputFormat string
	Begin        string
	End          string
	Concurrency  int
	NoCache      bool
}

type Analyzer struct {
	config  *Config
	cache   cache.Cache
	scanner *scanner.FileScanner
	parser  *parser.Parser
}

func New(config *Config) *Analyzer {
	if config.Concurrency == 0 {
		config.Concurrency = runtime.NumCPU()
	}

	fileCache, err := cache.NewFileCache(config.CacheDir)
	if err != nil {
		util.LogWarnf("Failed to create file cache at %s: %v", config.CacheDir, err)
	}

	a := &Analyzer{
		config:  config,
		scanner: scanner.NewFileScanner(config.DataDir),
		parser:  parser.NewParser(config.Concurrency),
	}
	if fileCache != nil {
		a.cache = fileCache
	}
	return a
}

// LoadSeries runs the load pipeline and returns the repaired dense series.
func (a *Analyzer) LoadSeries() (*series.Series, error) {
	startTime := time.Now()

	// Phase 1: Preload cache into memory
	if a.cache != nil && !a.config.NoCache {
		preloadStart := time.Now()
		if err := a.cache.Preload(); err != nil {
			util.LogWarnf("Cache preload failed: %v", err)
		}
		util.LogDebugf("Phase 1 - Cache preload duration: %v", time.Since(preloadStart))
	}

	// Phase 2: Scan files
	scanStart := time.Now()
	files, err := a.scanner.Scan()
	if err != nil {
		return nil, fmt.Errorf("failed to scan files: %w", err)
	}
	util.LogDebugf("Phase 2 - File scan duration: %v, found %d files", time.Since(scanStart), len(files))
	util.LogInfof("Preparing to parse %d AQI files", len(files))

	// Phase 3: Parse files, going through the cache where possible
	parseStart := time.Now()
	rows, err := a.parseAll(files)
	if err != nil {
		return nil, err
	}
	util.LogDebugf("Phase 3 - Parsing duration: %v, normalized rows: %d", time.Since(parseStart), len(rows))

	// Phase 4: Filter to the configured site and parameter
	filtered := a.filterRows(rows)
	if len(filtered) == 0 {
		return nil, fmt.Errorf("no rows matched site %q and parameter %q", a.config.Site, a.config.Parameter)
	}

	// Phase 5: Repair the timeline and build the dense store
	repairStart := time.Now()
	points, err := repairer.Repair(filtered)
	if err != nil {
		return nil, err
	}
	s, err := series.New(points)
	if err != nil {
		return nil, err
	}
	util.LogDebugf("Phase 5 - Timeline repair duration: %v", time.Since(repairStart))

	missing := s.MissingCount()
	util.LogInfof("Loaded AQI data with %d rows", s.Len())
	util.LogInfof("    Start: %s", util.FormatHour(s.First()))
	util.LogInfof("    End:   %s", util.FormatHour(s.Last()))
	util.LogInfof("    Missing: %d (%s)", missing, util.FormatPercent(float64(missing)/float64(s.Len())))

	util.LogDebugf("Load completed in %v", time.Since(startTime))
	return s, nil
}

// parseAll returns the normalized rows of every file, consulting the cache
// first and writing fresh parses back to it.
func (a *Analyzer) parseAll(files []string) ([]model.Observation, error) {
	var rows []model.Observation
	var filesToParse []string
	cacheHits := 0
	dropped := 0

	for _, file := range files {
		if a.cache == nil || a.config.NoCache {
			filesToParse = append(filesToParse, file)
			continue
		}

		result := a.cache.Get(file)
		if result.Found && result.Data != nil {
			rows = append(rows, result.Data.Rows...)
			dropped += result.Data.Dropped
			cacheHits++
		} else {
			util.LogDebugf("Cache miss for %s (reason %d)", file, result.MissReason)
			filesToParse = append(filesToParse, file)
		}
	}

	util.LogDebugf("Cache hit for %d files, need to parse %d files", cacheHits, len(filesToParse))

	if len(filesToParse) > 0 {
		for result := range a.parser.ParseFiles(filesToParse) {
			if result.Error != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", result.File, result.Error)
			}

			rows = append(rows, result.Rows...)
			dropped += result.Dropped

			if a.cache != nil && !a.config.NoCache {
				if err := a.cache.Set(result.File, result.Rows, result.Dropped); err != nil {
					util.LogWarnf("Failed to save cache for %s: %v", result.File, err)
				}
			}
		}
	}

	if dropped > 0 {
		util.LogWarnf("Dropped %d rows with unexpected unit or duration", dropped)
	}

	return rows, nil
}

// filterRows retains only rows matching the configured site and parameter.
func (a *Analyzer) filterRows(rows []model.Observation) []model.Observation {
	filtered := rows[:0]
	for _, r := range rows {
		if r.Site == a.config.Site && r.Parameter == a.config.Parameter {
			filtered = append(filtered, r)
		}
	}

	if removed := len(rows) - len(filtered); removed > 0 {
		util.LogWarnf("Removed %d rows that weren't %s / %s", removed, a.config.Site, a.config.Parameter)
	}

	return filtered
}

// Run loads the series and renders the data-availability report.
func (a *Analyzer) Run() error {
	s, err := a.LoadSeries()
	if err != nil {
		return err
	}

	begin, end, err := a.reportInterval()
	if err != nil {
		return err
	}

	report := BuildAvailabilityReport(s, a.config.Site, a.config.Parameter, begin, end)

	f, err := formatter.New(a.config.OutputFormat)
	if err != nil {
		return err
	}
	return f.Format(report)
}

// reportInterval parses the optional --begin/--end flags. Zero values keep
// the series defaults (full range).
func (a *Analyzer) reportInterval() (time.Time, time.Time, error) {
	var begin, end time.Time
	var err error

	if a.config.Begin != "" {
		if begin, err = util.ParseInstant(a.config.Begin); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --begin: %w", err)
		}
	}
	if a.config.End != "" {
		if end, err = util.ParseInstant(a.config.End); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --end: %w", err)
		}
	}

	return begin, end, nil
}
