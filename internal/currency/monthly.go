package currency

import "sort"

// MonthTable holds one rate per (month, currency) pair. A cell can hold the
// blank placeholder, which resolves to unknown. Populate it before sharing;
// concurrent readers are safe once construction is done.
type MonthTable struct {
	codes  []string
	months []string
	rates  map[string]map[string]float64
}

var _ Table = (*MonthTable)(nil)

// NewMonthTable creates an empty table with the given currency columns
func NewMonthTable(codes []string) *MonthTable {
	return &MonthTable{
		codes: append([]string(nil), codes...),
		rates: make(map[string]map[string]float64),
	}
}

// AddMonth registers a month row. Cells stay blank until Set is called.
func (t *MonthTable) AddMonth(month string) {
	if _, ok := t.rates[month]; ok {
		return
	}
	t.rates[month] = make(map[string]float64)
	t.months = append(t.months, month)
	sort.Strings(t.months)
}

// Set stores a rate, registering the month and currency as needed
func (t *MonthTable) Set(month, code string, rate float64) {
	t.AddMonth(month)
	if !t.hasCode(code) {
		t.codes = append(t.codes, code)
	}
	t.rates[month][code] = rate
}

// Rate returns the rate for a month. Missing months, missing codes and
// blank cells all resolve to unknown.
func (t *MonthTable) Rate(month, code string) (float64, bool) {
	row, ok := t.rates[month]
	if !ok {
		return 0, false
	}
	rate, ok := row[code]
	return rate, ok
}

// Months returns the registered months in ascending order
func (t *MonthTable) Months() []string {
	return append([]string(nil), t.months...)
}

// Codes returns the currency columns in insertion order
func (t *MonthTable) Codes() []string {
	return append([]string(nil), t.codes...)
}

func (t *MonthTable) hasCode(code string) bool {
	for _, c := range t.codes {
		if c == code {
			return true
		}
	}
	return false
}
