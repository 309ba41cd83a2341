package money

import (
	"fmt"
	"math"
	"strings"
)

// Format formats an amount as Indonesian rupiah, e.g. 120000 -> "Rp 120.000".
// Amounts are rounded to whole rupiah; IDR has no commonly used subunit.
func Format(amount float64) string {
	neg := amount < 0
	n := int64(math.Round(math.Abs(amount)))

	digits := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}

	if neg {
		return "-Rp " + b.String()
	}
	return "Rp " + b.String()
}
