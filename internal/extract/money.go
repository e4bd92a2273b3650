package extract

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseMoney normalizes a currency-shaped substring into a decimal.
// Handles both separator conventions:
//
//	"1,234.56" -> 1234.56   "1.234,56" -> 1234.56
//	"12,30"    -> 12.30     "53.000"   -> 53000
func parseMoney(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "$£€¥ ")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Decimal{}, false
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		// Both present: the later separator is the decimal point.
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if decimalTail(s, lastComma) {
			s = strings.ReplaceAll(s[:lastComma], ",", "") + "." + s[lastComma+1:]
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastDot >= 0:
		if !decimalTail(s, lastDot) {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// decimalTail reports whether the digits after the last separator look like
// cents (1-2 digits) rather than a thousands group.
func decimalTail(s string, sep int) bool {
	tail := len(s) - sep - 1
	return tail >= 1 && tail <= 2
}
