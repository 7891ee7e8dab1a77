package formatter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pzhong/go-aqi-monitor/internal/core/model"
	"github.com/pzhong/go-aqi-monitor/internal/core/series"
)

func TestWriteSeriesCSV(t *testing.T) {
	start := time.Date(2014, 3, 9, 0, 0, 0, 0, time.UTC)
	points := []model.DataPoint{
		{Timestamp: start, Value: 100, Valid: true},
		model.MissingPoint(start.Add(time.Hour)),
		{Timestamp: start.Add(2 * time.Hour), Value: 120.5, Valid: true, Uncertainty: 33.5},
	}
	s, err := series.New(points)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "series.csv")
	require.NoError(t, WriteSeriesCSV(path, s))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, []string{"Timestamp", "Value", "Uncertainty", "Valid"}, records[0])
	assert.Equal(t, []string{"2014-03-09 00:00", "100", "0", "true"}, records[1])
	assert.Equal(t, []string{"2014-03-09 01:00", "", "", "false"}, records[2])
	assert.Equal(t, []string{"2014-03-09 02:00", "120.5", "33.5", "true"}, records[3])
}

func TestWriteSeriesCSVBadPath(t *testing.T) {
	s, err := series.New([]model.DataPoint{
		{Timestamp: time.Date(2014, 3, 9, 0, 0, 0, 0, time.UTC), Value: 1, Valid: true},
	})
	require.NoError(t, err)

	assert.Error(t, WriteSeriesCSV(filepath.Join(t.TempDir(), "no", "such", "dir.csv"), s))
}
