package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pzhong/go-aqi-monitor/internal/analyzer"
	"github.com/pzhong/go-aqi-monitor/internal/core/patcher"
	"github.com/pzhong/go-aqi-monitor/internal/data/cache"
	"github.com/pzhong/go-aqi-monitor/internal/presentation/formatter"
)

var exportPath string

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Estimate isolated missing hours using a saved calibration",
	Long: `fill loads and repairs the series, then fills every isolated
single-hour gap with the midpoint of its two valid neighbors, attaching the
uncertainty learned by a previous 'calibrate' run. Longer gaps and gaps at
the edges of the series are left missing.`,
	RunE: runFill,
}

func init() {
	fillCmd.Flags().StringVar(&exportPath, "export", "",
		"Write the patched dense series to this CSV file")
	rootCmd.AddCommand(fillCmd)
}

func runFill(cmd *cobra.Command, args []string) error {
	cacheDir, err := initRuntime()
	if err != nil {
		return err
	}

	store := cache.NewCalibrationStore(cacheDir)
	calibration, err := store.Load()
	if err != nil {
		return err
	}

	a := analyzer.New(newConfig(cacheDir))
	s, err := a.LoadSeries()
	if err != nil {
		return err
	}

	missingBefore := s.MissingCount()
	filled := patcher.New(calibration).EstimateMissing(s)

	fmt.Printf("Filled %d of %d missing hours (uncertainty %.3f); %d remain missing\n",
		filled, missingBefore, calibration.FillUncertainty, s.MissingCount())

	if exportPath != "" {
		if err := formatter.WriteSeriesCSV(expandPath(exportPath), s); err != nil {
			return fmt.Errorf("failed to export patched series: %w", err)
		}
		fmt.Printf("Patched series written to %s\n", expandPath(exportPath))
	}

	return nil
}
