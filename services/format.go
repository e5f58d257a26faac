package services

import (
	"fmt"
	"math"
	"strings"
)

// FormatSAR formats an amount in Saudi riyals with thousands separators and
// exactly 2 decimal places, e.g. "1,234.50 SAR".
func FormatSAR(amount float64) string {
	negative := false
	if amount < 0 {
		negative = true
		amount = -amount
	}

	raw := fmt.Sprintf("%.2f", amount)
	parts := strings.SplitN(raw, ".", 2)

	result := applyThousandsGrouping(parts[0]) + "." + parts[1] + " SAR"
	if negative && raw != "0.00" {
		result = "-" + result
	}
	return result
}

// applyThousandsGrouping inserts a comma every 3 digits from the right.
func applyThousandsGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	head := n % 3
	var b strings.Builder
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatLength renders a billed length: whole centimeters below one meter,
// otherwise meters with 2 decimals.
func FormatLength(meters float64) string {
	if meters < 1 {
		return fmt.Sprintf("%.0f cm", math.Round(meters*100))
	}
	return fmt.Sprintf("%.2f m", meters)
}

// FormatPercent renders a discount percentage without trailing zeros.
func FormatPercent(pct float64) string {
	return formatQty(pct) + "%"
}

// formatQty prints whole numbers without decimals and everything else with 2.
func formatQty(qty float64) string {
	if qty == math.Trunc(qty) {
		return fmt.Sprintf("%.0f", qty)
	}
	return fmt.Sprintf("%.2f", qty)
}
