package utils

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// ParseAmount parses a salary bound or rate, accepting a decimal comma
func ParseAmount(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

// FormatSalary renders a salary with comma separators, e.g. 120000 -> "120,000 ₽"
func FormatSalary(value int) string {
	return humanize.Comma(int64(value)) + " ₽"
}

// FormatThousands renders an amount with space separated thousands, e.g. "10000" -> "10 000".
// Fractions are floored. Strings that do not parse are returned unchanged.
func FormatThousands(amount string) string {
	v, err := ParseAmount(amount)
	if err != nil {
		return amount
	}
	return strings.ReplaceAll(humanize.Comma(int64(math.Floor(v))), ",", " ")
}

// FormatShare renders a share in [0,1] as a percentage with two decimals
func FormatShare(share float64) string {
	return strconv.FormatFloat(share*100, 'f', 2, 64) + "%"
}

// MatchesTitle reports whether the title contains the keyword. Matching is case sensitive.
func MatchesTitle(title, keyword string) bool {
	return strings.Contains(title, keyword)
}
