package currency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fr4nk3nst1ner/salarystats/internal/logger"
)

// RateSource returns the rates published for a day as code -> decimal string.
// Values may use a decimal comma.
type RateSource interface {
	DailyRates(ctx context.Context, day time.Time) (map[string]string, error)
}

// BuildMonthTable queries src once per month and records a rate for every
// code. Codes missing from a response become blank cells. onMonth, when
// set, is called after each month is recorded.
func BuildMonthTable(ctx context.Context, src RateSource, months []time.Time, codes []string, onMonth func()) (*MonthTable, error) {
	log := logger.GetLogger().WithComponent("currency")
	table := NewMonthTable(codes)

	for _, month := range months {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		key := MonthKey(month)
		rates, err := src.DailyRates(ctx, month)
		if err != nil {
			return nil, fmt.Errorf("fetch rates for %s: %w", key, err)
		}

		table.AddMonth(key)
		blanks := 0
		for _, code := range codes {
			raw, ok := rates[code]
			if !ok {
				blanks++
				continue
			}
			rate, err := ParseRate(raw)
			if errors.Is(err, ErrBlankRate) {
				blanks++
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("rates for %s, %s: %w", key, code, err)
			}
			table.Set(key, code, rate)
		}

		log.WithFields(logger.Fields{
			"month":  key,
			"codes":  len(codes),
			"blanks": blanks,
		}).Debug("month rates recorded")

		if onMonth != nil {
			onMonth()
		}
	}

	return table, nil
}
