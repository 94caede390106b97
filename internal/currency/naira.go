// Package currency formats naira amounts for customer-facing surfaces,
// matching the storefront's display convention (whole naira, grouped
// thousands).
package currency

import (
	"math"
	"strconv"
	"strings"
)

// FormatNaira renders an amount as e.g. ₦9,100. Amounts are rounded to the
// nearest whole naira; negatives keep the sign ahead of the symbol.
func FormatNaira(amount float64) string {
	rounded := int64(math.Round(amount))
	sign := ""
	if rounded < 0 {
		sign = "-"
		rounded = -rounded
	}
	return sign + "₦" + groupThousands(rounded)
}

// ToKobo converts a naira amount to the gateway's minor unit.
func ToKobo(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func groupThousands(n int64) string {
	digits := strconv.FormatInt(n, 10)
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
