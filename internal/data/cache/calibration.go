package cache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"

	"github.com/pzhong/go-aqi-monitor/internal/core/model"
	"github.com/pzhong/go-aqi-monitor/internal/util"
)

// CalibrationFileName is the calibration document's name inside the cache
// directory. It shares the directory with parse-cache entries but is never
// treated as one.
const CalibrationFileName = "calibration.json"

// CalibrationStore persists the calibration between the calibrate pass and
// a later fill pass. The round-trip is exact up to standard floating-point
// JSON encoding.
type CalibrationStore struct {
	baseDir string
}

func NewCalibrationStore(baseDir string) *CalibrationStore {
	return &CalibrationStore{baseDir: baseDir}
}

// Path returns the on-disk location of the calibration document.
func (s *CalibrationStore) Path() string {
	return filepath.Join(s.baseDir, CalibrationFileName)
}

// Save writes the calibration, creating the directory if needed.
func (s *CalibrationStore) Save(cal model.Calibration) error {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return err
	}

	raw, err := sonic.MarshalIndent(cal, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.Path(), raw, 0644); err != nil {
		return err
	}

	util.LogInfof("Saved calibration to %s", s.Path())
	return nil
}

// Load reads a previously saved calibration. A missing file is an error:
// the fill pass must not run without a calibration.
func (s *CalibrationStore) Load() (model.Calibration, error) {
	raw, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return model.Calibration{}, fmt.Errorf("no calibration found at %s (run 'calibrate' first)", s.Path())
		}
		return model.Calibration{}, err
	}

	var cal model.Calibration
	if err := sonic.Unmarshal(raw, &cal); err != nil {
		return model.Calibration{}, fmt.Errorf("failed to decode calibration at %s: %w", s.Path(), err)
	}

	return cal, nil
}
