package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingCode(t *testing.T) {
	code, err := BookingCode(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^MT-20250310-[A-Z2-9]{6}$`), code)

	other, err := BookingCode(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.NotEqual(t, code, other)
}

func TestDurationLabel(t *testing.T) {
	assert.Equal(t, "12 Days 11 Nights", DurationLabel(12))
	assert.Equal(t, "2 Days 1 Night", DurationLabel(2))
	assert.Equal(t, "1 Day 0 Nights", DurationLabel(1))
	assert.Equal(t, "", DurationLabel(0))
}

func TestFormatRupiah(t *testing.T) {
	assert.Equal(t, "Rp 35.000.000", FormatRupiah(decimal.NewFromInt(35000000)))
	assert.Equal(t, "Rp 999", FormatRupiah(decimal.NewFromInt(999)))
	assert.Equal(t, "Rp 1.000", FormatRupiah(decimal.RequireFromString("999.5")))
	assert.Equal(t, "-Rp 1.500", FormatRupiah(decimal.NewFromInt(-1500)))
}
