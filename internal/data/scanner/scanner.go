package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pzhong/go-aqi-monitor/internal/util"
)

// FileScanner scans files in the specified directory
type FileScanner struct {
	baseDir string
}

// NewFileScanner creates a new FileScanner instance
func NewFileScanner(baseDir string) *FileScanner {
	return &FileScanner{
		baseDir: baseDir,
	}
}

// Scan walks the data directory and returns all .csv export paths. Finding
// no exports at all is an error: there is nothing to analyze.
func (s *FileScanner) Scan() ([]string, error) {
	start := time.Now()
	var files []string
	dirCount := 0
	totalCount := 0

	util.LogDebugf("Start scanning directory: %s", s.baseDir)

	err := filepath.Walk(s.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			util.LogDebugf("Skip path (error): %s - %v", path, err)
			return nil
		}

		if info.IsDir() {
			dirCount++
			return nil
		}

		totalCount++
		if strings.HasSuffix(strings.ToLower(path), ".csv") {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	util.LogDebugf("File scan completed: duration %v, scanned %d directories, %d files, found %d CSV files",
		time.Since(start), dirCount, totalCount, len(files))

	if len(files) == 0 {
		return nil, fmt.Errorf("no .csv files found in %s", s.baseDir)
	}

	return files, nil
}
