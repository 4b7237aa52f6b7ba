// Package utils provides formatting and parsing helpers shared by the CLI,
// the API server and the text renderer.
package utils

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// RoundCents rounds v half away from zero to two decimal places using
// decimal arithmetic, so 2.675 becomes 2.68 rather than 2.67.
func RoundCents(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// FormatAmount formats a currency amount with thousands grouping and
// two decimals, e.g. 1234567.891 → "1,234,567.89", -50 → "-50.00".
func FormatAmount(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Sprint(amount)
	}
	d := decimal.NewFromFloat(amount).Round(2)
	if d.IsZero() {
		return "0.00"
	}
	f, _ := d.Float64()
	return humanize.FormatFloat("#,###.##", f)
}

// FormatAmountCompact formats an amount with a K/M/B/T suffix.
// e.g., 1500 → "1.5K", 2500000 → "2.5M", -120 → "-120.00"
func FormatAmountCompact(amount float64) string {
	negative := amount < 0
	abs := math.Abs(amount)

	prefix := ""
	if negative {
		prefix = "-"
	}

	switch {
	case abs >= 1e12:
		return prefix + formatWithDecimals(abs/1e12) + "T"
	case abs >= 1e9:
		return prefix + formatWithDecimals(abs/1e9) + "B"
	case abs >= 1e6:
		return prefix + formatWithDecimals(abs/1e6) + "M"
	case abs >= 1e3:
		return prefix + formatWithDecimals(abs/1e3) + "K"
	default:
		return fmt.Sprintf("%s%.2f", prefix, abs)
	}
}

// FormatPct formats a percentage value with sign and suffix.
// e.g., 2.45 → "+2.45%", -1.23 → "-1.23%"
func FormatPct(pct float64) string {
	if pct >= 0 {
		return fmt.Sprintf("+%.2f%%", pct)
	}
	return fmt.Sprintf("%.2f%%", pct)
}

// FormatRate formats a fractional rate as a percentage, e.g. 0.1234 → "12.34%".
func FormatRate(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate*100)
}

// FormatCount groups an integer count, e.g. 100000 → "100,000".
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// formatWithDecimals formats a number with up to 2 decimal places,
// removing trailing zeros.
func formatWithDecimals(n float64) string {
	s := fmt.Sprintf("%.2f", n)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}
