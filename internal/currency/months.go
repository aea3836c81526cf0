package currency

import (
	"time"

	"github.com/fr4nk3nst1ner/salarystats/internal/models"
	"github.com/fr4nk3nst1ner/salarystats/internal/utils"
)

const monthLayout = "2006-01"

// MonthKey formats a time as YYYY-MM
func MonthKey(t time.Time) string {
	return t.Format(monthLayout)
}

// MonthsBetween returns the first day of every calendar month from the month
// of from to the month of to, both included
func MonthsBetween(from, to time.Time) []time.Time {
	start := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, time.UTC)

	var months []time.Time
	for m := start; !m.After(end); m = m.AddDate(0, 1, 0) {
		months = append(months, m)
	}
	return months
}

// DateRange returns the first days of the earliest and latest publication
// months found in column col. Months are taken from the YYYY-MM prefix as
// written, the same key rates are looked up by. Cells that do not parse are
// ignored; ok is false when none parsed.
func DateRange(rows [][]string, col int) (first, last time.Time, ok bool) {
	for _, row := range rows {
		if col < 0 || col >= len(row) {
			continue
		}
		if _, err := utils.ParsePublished(row[col]); err != nil {
			continue
		}
		ts, err := time.Parse(monthLayout, models.MonthOf(row[col]))
		if err != nil {
			continue
		}
		if !ok || ts.Before(first) {
			first = ts
		}
		if !ok || ts.After(last) {
			last = ts
		}
		ok = true
	}
	return first, last, ok
}
