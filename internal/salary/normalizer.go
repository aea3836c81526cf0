// Package salary converts raw salary ranges into a single amount in the base currency.
package salary

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/fr4nk3nst1ner/salarystats/internal/currency"
	"github.com/fr4nk3nst1ner/salarystats/internal/models"
	"github.com/fr4nk3nst1ner/salarystats/internal/utils"
)

// ErrInvalidBound is returned when a salary bound is not a number
var ErrInvalidBound = errors.New("invalid salary bound")

// Mode selects how a range is reduced and converted
type Mode int

const (
	// ModeStatic floors the midpoint and applies a fixed rate
	ModeStatic Mode = iota
	// ModeMonthly averages the bounds and applies the rate of the publication month
	ModeMonthly
)

func (m Mode) String() string {
	switch m {
	case ModeStatic:
		return "static"
	case ModeMonthly:
		return "monthly"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts "static" (or "legacy") and "monthly"
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "static", "legacy":
		return ModeStatic, nil
	case "monthly":
		return ModeMonthly, nil
	default:
		return 0, fmt.Errorf("unknown normalization mode %q", s)
	}
}

// Normalizer turns a salary range into one base-currency amount
type Normalizer struct {
	mode  Mode
	table currency.Table
	base  string
}

// NewNormalizer creates a normalizer. An empty base means currency.BaseCurrency.
func NewNormalizer(mode Mode, table currency.Table, base string) *Normalizer {
	if base == "" {
		base = currency.BaseCurrency
	}
	return &Normalizer{mode: mode, table: table, base: base}
}

// Mode returns the normalization mode
func (n *Normalizer) Mode() Mode {
	return n.mode
}

// Normalize converts the range published in month (YYYY-MM).
//
// Both bounds empty gives unknown. A single empty bound takes the value of
// the other one. The base currency is never looked up. A currency with no
// rate for the month is unknown, as is any result that is not a finite,
// non-negative number.
func (n *Normalizer) Normalize(month, from, to, code string) (models.Salary, error) {
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if from == "" && to == "" {
		return models.UnknownSalary(), nil
	}
	if from == "" {
		from = to
	}
	if to == "" {
		to = from
	}

	lo, err := utils.ParseAmount(from)
	if err != nil {
		return models.UnknownSalary(), fmt.Errorf("%w: %q", ErrInvalidBound, from)
	}
	hi, err := utils.ParseAmount(to)
	if err != nil {
		return models.UnknownSalary(), fmt.Errorf("%w: %q", ErrInvalidBound, to)
	}

	mid := (lo + hi) / 2
	if n.mode == ModeStatic {
		mid = math.Floor(mid)
	}

	amount := mid
	if code != n.base {
		rate, ok := n.table.Rate(month, code)
		if !ok {
			return models.UnknownSalary(), nil
		}
		amount = mid * rate
	}

	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return models.UnknownSalary(), nil
	}
	return models.KnownSalary(amount), nil
}
