package utils

import (
	"strconv"
)

// FormatCurrencyKRW formats an amount of won with thousands separators.
// Example: 21000 -> "21,000원"
func FormatCurrencyKRW(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	out := make([]byte, 0, len(digits)+len(digits)/3)
	for i := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, digits[i])
	}
	return sign + string(out) + "원"
}
