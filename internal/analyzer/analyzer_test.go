package analyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pzhong/go-aqi-monitor/internal/testing/fixtures"
)

func hour(y, m, d, h int) time.Time {
	return time.Date(y, time.Month(m), d, h, 0, 0, 0, time.UTC)
}

// writeTestData writes two exports that together cover 2014-03-09 00:00
// through 15:00 and exercise every normalization and repair rule: the
// seasonal duplicate, rows for the wrong site/parameter, a bad unit, a bad
// duration and a QC failure.
func writeTestData(t *testing.T, dir string) {
	t.Helper()
	gen := fixtures.NewTestDataGenerator(dir)

	first := []fixtures.Row{
		fixtures.ValidRow(hour(2014, 3, 9, 0), 100),
		fixtures.ValidRow(hour(2014, 3, 9, 1), 105),
		// The duplicate-hour artifact: two 03:00 rows, no 02:00 row.
		fixtures.ValidRow(hour(2014, 3, 9, 3), 112),
		fixtures.ValidRow(hour(2014, 3, 9, 3), 120),
		fixtures.ValidRow(hour(2014, 3, 9, 4), 125),
		fixtures.ValidRow(hour(2014, 3, 9, 5), 130),
		fixtures.ValidRow(hour(2014, 3, 9, 6), 135),
		fixtures.ValidRow(hour(2014, 3, 9, 7), 140),
	}

	wrongSite := fixtures.ValidRow(hour(2014, 3, 9, 10), 155)
	wrongSite.Site = "Shanghai"
	wrongParameter := fixtures.ValidRow(hour(2014, 3, 9, 11), 160)
	wrongParameter.Parameter = "PM10"
	wrongUnit := fixtures.ValidRow(hour(2014, 3, 9, 12), 165)
	wrongUnit.Unit = "ppb"
	wrongDuration := fixtures.ValidRow(hour(2014, 3, 9, 13), 170)
	wrongDuration.Duration = "24 Hr"

	second := []fixtures.Row{
		fixtures.ValidRow(hour(2014, 3, 9, 8), 145),
		fixtures.ValidRow(hour(2014, 3, 9, 9), 150),
		wrongSite,
		wrongParameter,
		wrongUnit,
		wrongDuration,
		fixtures.MissingRow(hour(2014, 3, 9, 14)),
		fixtures.ValidRow(hour(2014, 3, 9, 15), 175),
	}

	_, err := gen.WriteExport("Beijing_2014_part1.csv", first)
	require.NoError(t, err)
	_, err = gen.WriteExport("Beijing_2014_part2.csv", second)
	require.NoError(t, err)
}

func newTestConfig(t *testing.T, dataDir string) *Config {
	t.Helper()
	return &Config{
		DataDir:      dataDir,
		CacheDir:     t.TempDir(),
		Site:         "Beijing",
		Parameter:    "PM2.5",
		OutputFormat: "summary",
		Concurrency:  2,
	}
}

func TestLoadSeries(t *testing.T) {
	dataDir := t.TempDir()
	writeTestData(t, dataDir)

	a := New(newTestConfig(t, dataDir))
	s, err := a.LoadSeries()
	require.NoError(t, err)

	assert.Equal(t, 16, s.Len())
	assert.Equal(t, hour(2014, 3, 9, 0), s.First())
	assert.Equal(t, hour(2014, 3, 9, 15), s.Last())

	// Hours 10-13 fell to filtering/rejection, hour 14 failed QC.
	assert.Equal(t, 5, s.MissingCount())

	// The corrected duplicate landed on the absent 02:00 slot.
	corrected := s.At(2)
	assert.Equal(t, hour(2014, 3, 9, 2), corrected.Timestamp)
	assert.Equal(t, 112.0, corrected.Value)
	assert.Equal(t, 120.0, s.At(3).Value)

	for _, idx := range []int{10, 11, 12, 13, 14} {
		assert.True(t, s.At(idx).Missing(), "hour %d", idx)
	}
}

func TestLoadSeriesFromCacheSecondRun(t *testing.T) {
	dataDir := t.TempDir()
	writeTestData(t, dataDir)

	config := newTestConfig(t, dataDir)

	first := New(config)
	s1, err := first.LoadSeries()
	require.NoError(t, err)

	// A fresh analyzer over the same cache dir must produce the identical
	// series without reparsing.
	second := New(config)
	s2, err := second.LoadSeries()
	require.NoError(t, err)

	require.Equal(t, s1.Len(), s2.Len())
	for i := 0; i < s1.Len(); i++ {
		assert.True(t, s1.At(i).Timestamp.Equal(s2.At(i).Timestamp), "hour %d", i)
		assert.Equal(t, s1.At(i).Valid, s2.At(i).Valid, "hour %d", i)
		assert.Equal(t, s1.At(i).Value, s2.At(i).Value, "hour %d", i)
	}
}

func TestLoadSeriesNoMatchingRows(t *testing.T) {
	dataDir := t.TempDir()
	writeTestData(t, dataDir)

	config := newTestConfig(t, dataDir)
	config.Site = "Chengdu"

	_, err := New(config).LoadSeries()
	assert.ErrorContains(t, err, "no rows matched")
}

func TestLoadSeriesEmptyDirectory(t *testing.T) {
	config := newTestConfig(t, t.TempDir())

	_, err := New(config).LoadSeries()
	assert.ErrorContains(t, err, "failed to scan files")
}

func TestBuildAvailabilityReport(t *testing.T) {
	dataDir := t.TempDir()
	writeTestData(t, dataDir)

	s, err := New(newTestConfig(t, dataDir)).LoadSeries()
	require.NoError(t, err)

	report := BuildAvailabilityReport(s, "Beijing", "PM2.5", time.Time{}, time.Time{})

	assert.Equal(t, 16, report.TotalHours)
	assert.Equal(t, 11, report.ValidHours)
	assert.Equal(t, 5, report.MissingHours)

	require.Len(t, report.Rows, 1)
	row := report.Rows[0]
	assert.Equal(t, 2014, row.Year)
	assert.Equal(t, 11, row.ValidHours)
	assert.Equal(t, 8760, row.TotalHours) // every month is a full view

	march := row.Months[2]
	assert.True(t, march.HasData)
	assert.InDelta(t, 11.0/744.0, march.Coverage, 1e-9)

	// Months with no overlap are marked as such
	assert.False(t, row.Months[6].HasData)
	assert.Equal(t, 0.0, row.Months[6].Coverage)
}

func TestRunRendersReport(t *testing.T) {
	dataDir := t.TempDir()
	writeTestData(t, dataDir)

	config := newTestConfig(t, dataDir)
	config.OutputFormat = "json"
	assert.NoError(t, New(config).Run())
}

func TestRunRejectsBadInterval(t *testing.T) {
	dataDir := t.TempDir()
	writeTestData(t, dataDir)

	config := newTestConfig(t, dataDir)
	config.Begin = "not-a-date"
	assert.ErrorContains(t, New(config).Run(), "invalid --begin")
}
