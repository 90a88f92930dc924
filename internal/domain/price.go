package domain

import (
	"math"
	"strconv"
	"strings"
)

// ParseCents converts a decimal price string ("19.99") to cents (1999).
// Empty or unparsable input yields 0; remote catalogs routinely contain
// blank price fields and those must not abort a sync.
func ParseCents(s string) int64 {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0
	}
	amount, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0
	}
	return int64(math.Round(amount * 100))
}

// FormatCents converts cents (1999) back to a decimal string ("19.99").
func FormatCents(cents int64) string {
	whole := cents / 100
	fraction := cents % 100
	if fraction < 0 {
		fraction = -fraction
	}
	return strconv.FormatInt(whole, 10) + "." + pad2(fraction)
}

// ParseMoney parses a decimal price string into Money with the given currency.
func ParseMoney(s, currency string) Money {
	return Money{AmountCents: ParseCents(s), Currency: currency}
}

func pad2(n int64) string {
	s := strconv.FormatInt(n, 10)
	if len(s) < 2 {
		return "0" + s
	}
	return s
}
