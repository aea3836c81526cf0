// Package currency holds the exchange rate tables used to normalize salaries.
package currency

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/fr4nk3nst1ner/salarystats/internal/utils"
)

// BaseCurrency is the code every salary is converted into
const BaseCurrency = "RUR"

var (
	// ErrBlankRate is returned when a rate cell holds the blank placeholder
	ErrBlankRate = errors.New("blank rate")

	// ErrUnknownCurrency is returned when a code is not present in a table
	ErrUnknownCurrency = errors.New("unknown currency")
)

// Table resolves a conversion rate into the base currency.
// month has the form YYYY-MM. A false result means the rate is unknown.
type Table interface {
	Rate(month, code string) (float64, bool)
}

// DefaultRates returns a fresh copy of the fixed conversion table
func DefaultRates() map[string]float64 {
	return map[string]float64{
		"AZN": 35.68,
		"BYR": 23.91,
		"EUR": 59.90,
		"GEL": 21.74,
		"KGS": 0.76,
		"KZT": 0.13,
		"RUR": 1,
		"UAH": 1.64,
		"USD": 60.66,
		"UZS": 0.0055,
	}
}

// StaticTable serves the same rates for every month
type StaticTable struct {
	rates map[string]float64
}

var _ Table = (*StaticTable)(nil)

// NewStaticTable copies rates into a read-only table
func NewStaticTable(rates map[string]float64) *StaticTable {
	cp := make(map[string]float64, len(rates))
	for code, rate := range rates {
		cp[strings.ToUpper(code)] = rate
	}
	return &StaticTable{rates: cp}
}

// Rate ignores the month
func (t *StaticTable) Rate(_ string, code string) (float64, bool) {
	rate, ok := t.rates[code]
	return rate, ok
}

// Lookup is Rate with an error for unknown codes
func (t *StaticTable) Lookup(code string) (float64, error) {
	rate, ok := t.rates[code]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCurrency, code)
	}
	return rate, nil
}

// Codes returns the known currency codes in lexical order
func (t *StaticTable) Codes() []string {
	codes := make([]string, 0, len(t.rates))
	for code := range t.rates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// ParseRate parses a rate that may use a decimal comma.
// Blank or whitespace-only input is the placeholder and yields ErrBlankRate.
func ParseRate(s string) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, ErrBlankRate
	}
	v, err := utils.ParseAmount(s)
	if err != nil {
		return 0, fmt.Errorf("parse rate %q: %w", s, err)
	}
	return v, nil
}
