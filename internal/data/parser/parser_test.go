package parser

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pzhong/go-aqi-monitor/internal/testing/fixtures"
)

func hour(y, m, d, h int) time.Time {
	return time.Date(y, time.Month(m), d, h, 0, 0, 0, time.UTC)
}

func TestParseFileSkipsPreamble(t *testing.T) {
	gen := fixtures.NewTestDataGenerator(t.TempDir())
	path, err := gen.WriteExport("Beijing_2014.csv", fixtures.HourlyRows(hour(2014, 3, 9, 0), []float64{100, 120, 140}))
	require.NoError(t, err)

	p := NewParser(1)
	rows, dropped, err := p.ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0, dropped)
	require.Len(t, rows, 3)

	assert.Equal(t, hour(2014, 3, 9, 0), rows[0].Timestamp)
	assert.Equal(t, 100.0, rows[0].Value)
	assert.True(t, rows[0].Valid)
	assert.Equal(t, "Beijing", rows[0].Site)
	assert.Equal(t, "PM2.5", rows[0].Parameter)
}

func TestParseFileWithoutHeader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.csv")
	require.NoError(t, os.WriteFile(path, []byte("just some text\nno header here\n"), 0644))

	p := NewParser(1)
	rows, dropped, err := p.ParseFile(path)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, 0, dropped)
}

func TestNormalizeRowValidation(t *testing.T) {
	base := fixtures.ValidRow(hour(2014, 3, 9, 0), 100)

	tests := []struct {
		name        string
		mutate      func(*fixtures.Row)
		wantRows    int
		wantDropped int
		wantValid   bool
	}{
		{
			name:      "valid row",
			mutate:    func(r *fixtures.Row) {},
			wantRows:  1,
			wantValid: true,
		},
		{
			name:      "historical unit typo is tolerated",
			mutate:    func(r *fixtures.Row) { r.Unit = "µg/mg³" },
			wantRows:  1,
			wantValid: true,
		},
		{
			name:        "unexpected unit rejects the row",
			mutate:      func(r *fixtures.Row) { r.Unit = "ppb" },
			wantDropped: 1,
		},
		{
			name:        "unexpected duration rejects the row",
			mutate:      func(r *fixtures.Row) { r.Duration = "24 Hr" },
			wantDropped: 1,
		},
		{
			name:      "QC missing yields a missing value",
			mutate:    func(r *fixtures.Row) { r.QC = "Missing" },
			wantRows:  1,
			wantValid: false,
		},
		{
			name:      "negative value yields a missing value",
			mutate:    func(r *fixtures.Row) { r.Value = -999 },
			wantRows:  1,
			wantValid: false,
		},
		{
			name: "bad unit beats a valid value",
			mutate: func(r *fixtures.Row) {
				r.Unit = "ppb"
				r.Value = 42
			},
			wantDropped: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := base
			tt.mutate(&row)

			gen := fixtures.NewTestDataGenerator(t.TempDir())
			path, err := gen.WriteExport("one_row.csv", []fixtures.Row{row})
			require.NoError(t, err)

			rows, dropped, err := NewParser(1).ParseFile(path)
			require.NoError(t, err)
			assert.Len(t, rows, tt.wantRows)
			assert.Equal(t, tt.wantDropped, dropped)
			if tt.wantRows == 1 {
				assert.Equal(t, tt.wantValid, rows[0].Valid)
			}
		})
	}
}

func TestParseFilesConcurrently(t *testing.T) {
	gen := fixtures.NewTestDataGenerator(t.TempDir())

	var files []string
	for i := 0; i < 4; i++ {
		start := hour(2014, 3, 9, 0).AddDate(0, 0, i)
		path, err := gen.WriteExport(
			filepath.Base(start.Format("Beijing_2006_01_02.csv")),
			fixtures.HourlyRows(start, []float64{100, 110, 120}))
		require.NoError(t, err)
		files = append(files, path)
	}

	total := 0
	for result := range NewParser(2).ParseFiles(files) {
		require.NoError(t, result.Error)
		total += len(result.Rows)
	}

	assert.Equal(t, 12, total)
}
