// Package utils contains small helpers shared by the services.
package utils

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const bookingCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// BookingCode returns MT-YYYYMMDD-XXXXXX for the given day.
func BookingCode(day time.Time) (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate booking code: %w", err)
	}
	for i, b := range buf {
		buf[i] = bookingCodeAlphabet[int(b)%len(bookingCodeAlphabet)]
	}
	return fmt.Sprintf("MT-%s-%s", day.Format("20060102"), buf), nil
}

// DurationLabel renders a trip length, e.g. "12 Days 11 Nights".
func DurationLabel(days int) string {
	if days < 1 {
		return ""
	}
	return plural(days, "Day") + " " + plural(days-1, "Night")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// FormatRupiah formats an amount as "Rp 35.000.000". Fractions are rounded.
func FormatRupiah(amount decimal.Decimal) string {
	digits := amount.Round(0).Abs().String()

	var sb strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte('.')
		}
		sb.WriteRune(r)
	}

	sign := ""
	if amount.Round(0).IsNegative() {
		sign = "-"
	}
	return sign + "Rp " + sb.String()
}
