package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pzhong/go-aqi-monitor/internal/analyzer"
	"github.com/pzhong/go-aqi-monitor/internal/core/patcher"
	"github.com/pzhong/go-aqi-monitor/internal/data/cache"
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Learn the interpolation uncertainty from the existing data",
	Long: `calibrate loads and repairs the series, then measures how far each
measurement strays from the straight line between its two hourly neighbors.
The standard deviation of that residual becomes the uncertainty attached to
every value the fill pass estimates. The result is persisted in the cache
directory for a later 'fill' run.`,
	RunE: runCalibrate,
}

func init() {
	rootCmd.AddCommand(calibrateCmd)
}

func runCalibrate(cmd *cobra.Command, args []string) error {
	cacheDir, err := initRuntime()
	if err != nil {
		return err
	}

	a := analyzer.New(newConfig(cacheDir))
	s, err := a.LoadSeries()
	if err != nil {
		return err
	}

	calibration, err := patcher.Calibrate(s)
	if err != nil {
		return err
	}

	store := cache.NewCalibrationStore(cacheDir)
	if err := store.Save(calibration); err != nil {
		return err
	}

	fmt.Printf("Fill uncertainty: %.3f (saved to %s)\n", calibration.FillUncertainty, store.Path())
	return nil
}
