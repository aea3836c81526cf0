package currency

// Frequency counts currency codes, remembering the order they first appeared in
type Frequency struct {
	order  []string
	counts map[string]int
}

// CountCurrencies counts the codes found in column col. Empty cells and
// short rows are ignored.
func CountCurrencies(rows [][]string, col int) Frequency {
	f := Frequency{counts: make(map[string]int)}
	for _, row := range rows {
		if col < 0 || col >= len(row) || row[col] == "" {
			continue
		}
		code := row[col]
		if _, seen := f.counts[code]; !seen {
			f.order = append(f.order, code)
		}
		f.counts[code]++
	}
	return f
}

// Count returns how many rows used the code
func (f Frequency) Count(code string) int {
	return f.counts[code]
}

// Codes returns every code seen, in first-seen order
func (f Frequency) Codes() []string {
	return append([]string(nil), f.order...)
}

// Frequent returns the codes used by more than threshold rows, base excluded,
// in first-seen order
func (f Frequency) Frequent(threshold int, base string) []string {
	var out []string
	for _, code := range f.order {
		if code == base {
			continue
		}
		if f.counts[code] > threshold {
			out = append(out, code)
		}
	}
	return out
}

// SelectRows keeps the rows whose currency is the base or one of keep
func SelectRows(rows [][]string, col int, keep []string, base string) [][]string {
	allowed := make(map[string]bool, len(keep)+1)
	for _, code := range keep {
		allowed[code] = true
	}
	allowed[base] = true

	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		if col < 0 || col >= len(row) {
			continue
		}
		if allowed[row[col]] {
			out = append(out, row)
		}
	}
	return out
}
