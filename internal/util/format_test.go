package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "999", FormatNumber(999))
	assert.Equal(t, "8.8K", FormatNumber(8760))
	assert.Equal(t, "1.5M", FormatNumber(1500000))
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "0.0%", FormatPercent(0))
	assert.Equal(t, "12.5%", FormatPercent(0.125))
	assert.Equal(t, "100.0%", FormatPercent(1))
}

func TestFormatCoverage(t *testing.T) {
	assert.Equal(t, "-", FormatCoverage(0.5, false))
	assert.Equal(t, "0.00", FormatCoverage(0, true))
	assert.Equal(t, "0.97", FormatCoverage(0.974, true))
}

func TestFormatHour(t *testing.T) {
	assert.Equal(t, "2014-03-09 03:00", FormatHour(HourOf(2014, 3, 9, 3)))
}
