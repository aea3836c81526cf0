package salary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fr4nk3nst1ner/salarystats/internal/currency"
)

func TestNormalize_Static(t *testing.T) {
	n := NewNormalizer(ModeStatic, currency.NewStaticTable(currency.DefaultRates()), "")

	tests := []struct {
		name          string
		from, to, cur string
		want          float64
	}{
		{"dollars", "10", "20", "USD", 909.9},
		{"floored midpoint", "10.2", "40.2", "RUR", 25.0},
		{"odd sum floors", "10", "11", "RUR", 10},
		{"single bound", "", "100", "EUR", 5990},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.Normalize("2022-01", tt.from, tt.to, tt.cur)
			require.NoError(t, err)
			v, ok := got.Value()
			require.True(t, ok)
			assert.InDelta(t, tt.want, v, 1e-9)
		})
	}
}

func TestNormalize_Monthly(t *testing.T) {
	table := currency.NewMonthTable([]string{"USD", "EUR"})
	table.Set("2022-01", "USD", 75.5)
	table.AddMonth("2022-02")
	n := NewNormalizer(ModeMonthly, table, currency.BaseCurrency)

	tests := []struct {
		name          string
		month         string
		from, to, cur string
		want          float64
		known         bool
	}{
		{"true average in base", "2022-01", "10", "11", "RUR", 10.5, true},
		{"converted", "2022-01", "100", "200", "USD", 11325, true},
		{"lower bound only", "2022-01", "100", "", "USD", 7550, true},
		{"both empty", "2022-01", "", "", "USD", 0, false},
		{"blank cell", "2022-01", "100", "200", "EUR", 0, false},
		{"blank month", "2022-02", "100", "200", "USD", 0, false},
		{"missing month", "2019-05", "100", "200", "USD", 0, false},
		{"base is never looked up", "2019-05", "100", "200", "RUR", 150, true},
		{"unknown code", "2022-01", "100", "200", "XYZ", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.Normalize(tt.month, tt.from, tt.to, tt.cur)
			require.NoError(t, err)
			v, ok := got.Value()
			assert.Equal(t, tt.known, ok)
			if tt.known {
				assert.InDelta(t, tt.want, v, 1e-9)
			}
		})
	}
}

func TestNormalize_CommaBounds(t *testing.T) {
	n := NewNormalizer(ModeMonthly, currency.NewStaticTable(currency.DefaultRates()), "")
	got, err := n.Normalize("2022-01", "100,5", "200,5", "RUR")
	require.NoError(t, err)
	v, _ := got.Value()
	assert.InDelta(t, 150.5, v, 1e-9)
}

func TestNormalize_InvalidBound(t *testing.T) {
	n := NewNormalizer(ModeStatic, currency.NewStaticTable(currency.DefaultRates()), "")
	_, err := n.Normalize("2022-01", "abc", "10", "RUR")
	assert.ErrorIs(t, err, ErrInvalidBound)
}

func TestNormalize_NegativeIsUnknown(t *testing.T) {
	n := NewNormalizer(ModeMonthly, currency.NewStaticTable(currency.DefaultRates()), "")
	got, err := n.Normalize("2022-01", "-10", "-20", "RUR")
	require.NoError(t, err)
	assert.False(t, got.IsKnown())
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Monthly")
	require.NoError(t, err)
	assert.Equal(t, ModeMonthly, m)

	m, err = ParseMode("legacy")
	require.NoError(t, err)
	assert.Equal(t, ModeStatic, m)
	assert.Equal(t, "static", m.String())

	_, err = ParseMode("weekly")
	assert.Error(t, err)
}
