package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pzhong/go-aqi-monitor/internal/analyzer"
	"github.com/pzhong/go-aqi-monitor/internal/data/cache"
	"github.com/pzhong/go-aqi-monitor/internal/util"
	"github.com/pzhong/go-aqi-monitor/internal/watch"
)

var (
	// Logging related
	debug bool

	// Data path
	dataDir string

	// Row filtering
	site      string
	parameter string

	// Output related
	outputFormat string
	beginArg     string
	endArg       string

	// Cache control
	noCache bool
	reset   bool

	// Watch mode
	watchMode bool

	rootCmd = &cobra.Command{
		Use:   "go-aqi-monitor [flags]",
		Short: "Hourly air-quality data repair and reporting tool",
		Long: `go-aqi-monitor reads hourly air-quality CSV exports, repairs them into a
single gap-free hourly time series, and reports data availability.

The raw exports are irregular: they contain gaps, a known duplicate-timestamp
artifact, and rows that fail validation. The tool normalizes all of it into a
dense series where every hour exists and a measurement is either present or
explicitly missing.

Examples:
  go-aqi-monitor                                  # Availability report with default settings
  go-aqi-monitor --dir /path/to/exports           # Analyze the specified directory
  go-aqi-monitor --output csv                     # Availability report as CSV on stdout
  go-aqi-monitor --begin 2013-01-01 --end 2015-01-01
  go-aqi-monitor --watch                          # Re-run the report when exports change
  go-aqi-monitor calibrate                        # Learn the fill uncertainty from the data
  go-aqi-monitor fill --export patched.csv        # Fill isolated gaps and export the result`,
		RunE: runReport,
	}
)

const (
	defaultLogFile  = "~/.go-aqi-monitor/logs/app.log"
	defaultCacheDir = "~/.go-aqi-monitor/cache"
	defaultDataDir  = "./data"
)

func init() {
	// Input data configuration
	rootCmd.PersistentFlags().StringVar(&dataDir, "dir", defaultDataDir,
		"Directory containing the raw CSV exports")
	rootCmd.PersistentFlags().StringVar(&site, "site", "Beijing",
		"Site name to retain")
	rootCmd.PersistentFlags().StringVar(&parameter, "parameter", "PM2.5",
		"Pollutant parameter to retain")

	// Reporting window
	rootCmd.Flags().StringVar(&beginArg, "begin", "",
		"Report interval start (e.g. 2014-03-09; a bare date means midnight)")
	rootCmd.Flags().StringVar(&endArg, "end", "",
		"Report interval end, exclusive")

	// Output configuration
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", "table",
		"Output format (table, csv, json, summary)")

	// System and debugging
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false,
		"Bypass the parse cache")
	rootCmd.Flags().BoolVarP(&reset, "reset", "r", false,
		"Clear cache before analysis")

	// Watch mode
	rootCmd.Flags().BoolVarP(&watchMode, "watch", "w", false,
		"Keep running and re-report when exports change")
}

// initRuntime sets up logging and the cache directory; shared by every
// command.
func initRuntime() (string, error) {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}

	logFile := expandPath(defaultLogFile)
	if err := ensureDir(filepath.Dir(logFile)); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}
	util.InitLogger(logLevel, logFile, debug)

	dataDir = expandPath(dataDir)
	cacheDir := expandPath(defaultCacheDir)
	if err := ensureDir(cacheDir); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	return cacheDir, nil
}

func newConfig(cacheDir string) *analyzer.Config {
	return &analyzer.Config{
		DataDir:      dataDir,
		CacheDir:     cacheDir,
		Site:         site,
		Parameter:    parameter,
		OutputFormat: outputFormat,
		Begin:        beginArg,
		End:          endArg,
		Concurrency:  runtime.NumCPU(),
		NoCache:      noCache,
	}
}

func runReport(cmd *cobra.Command, args []string) error {
	cacheDir, err := initRuntime()
	if err != nil {
		return err
	}

	if reset {
		if err := clearCache(cacheDir); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		util.LogInfo("Cache cleared")
	}

	a := analyzer.New(newConfig(cacheDir))
	if !watchMode {
		return a.Run()
	}

	if err := a.Run(); err != nil {
		return err
	}
	return watchLoop(cacheDir)
}

// watchLoop blocks, re-running the report whenever the export directory
// changes. Bursts of events within the debounce window collapse into one
// re-run.
func watchLoop(cacheDir string) error {
	fw, err := watch.NewFileWatcher([]string{dataDir})
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", dataDir, err)
	}
	defer fw.Close()

	util.LogInfof("Watching %s for changes", dataDir)

	const debounce = 500 * time.Millisecond
	for event := range fw.Events() {
		util.LogDebugf("Change detected: %s (%s)", event.Path, event.Operation)

		timer := time.NewTimer(debounce)
	drain:
		for {
			select {
			case <-fw.Events():
				if !timer.Stop() {
					<-timer.C
				}
				timer.Reset(debounce)
			case <-timer.C:
				break drain
			}
		}

		fmt.Println()
		a := analyzer.New(newConfig(cacheDir))
		if err := a.Run(); err != nil {
			util.LogErrorf("Report failed: %v", err)
		}
	}

	return nil
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

func clearCache(cacheDir string) error {
	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == cache.CalibrationFileName {
			continue
		}
		if filepath.Ext(entry.Name()) == ".json" {
			path := filepath.Join(cacheDir, entry.Name())
			if err := os.Remove(path); err != nil {
				return err
			}
		}
	}

	return nil
}
