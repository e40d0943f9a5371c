package utils

import (
	"fmt"
	"math"
)

// FormatFloat renders a factor value with the given precision, using "-" for
// the NaN fallback so tables stay readable.
func FormatFloat(v float64, precision int) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.*f", precision, v)
}

// FormatMarketCap renders a market capitalization in a compact human form.
func FormatMarketCap(v float64) string {
	if math.IsNaN(v) || v <= 0 {
		return "-"
	}
	switch {
	case v >= 1e12:
		return fmt.Sprintf("%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}
