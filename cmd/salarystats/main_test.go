package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fr4nk3nst1ner/salarystats/internal/analysis"
	"github.com/fr4nk3nst1ner/salarystats/internal/config"
	"github.com/fr4nk3nst1ner/salarystats/internal/currency"
	"github.com/fr4nk3nst1ner/salarystats/internal/reader"
	"github.com/fr4nk3nst1ner/salarystats/internal/salary"
)

func TestApplyFlags(t *testing.T) {
	cfg := config.Default()
	err := applyFlags(cfg, flags{
		file:        "vacancies.csv",
		job:         "Аналитик",
		rates:       "rates.csv",
		parallel:    true,
		workers:     8,
		formats:     " markdown, ,xlsx ",
		shardFormat: "parquet",
	})
	require.NoError(t, err)

	assert.Equal(t, "vacancies.csv", cfg.Input)
	assert.Equal(t, "Аналитик", cfg.Analysis.Job)
	assert.Equal(t, salary.ModeMonthly, cfg.Mode(), "a rate file switches to monthly mode")
	assert.Equal(t, "rates.csv", cfg.Currency.RatesFile)
	assert.False(t, cfg.Currency.Fetch)
	assert.True(t, cfg.Analysis.Parallel)
	assert.Equal(t, 8, cfg.Analysis.Workers)
	assert.Equal(t, []string{"markdown", "xlsx"}, cfg.Output.Formats)
	assert.Equal(t, "parquet", cfg.Output.ShardFormat)
}

func TestApplyFlags_ExplicitModeWins(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, applyFlags(cfg, flags{file: "v.csv", mode: "static", fetchRates: true}))
	assert.Equal(t, salary.ModeStatic, cfg.Mode())
	assert.True(t, cfg.Currency.Fetch)
}

func TestApplyFlags_Errors(t *testing.T) {
	assert.ErrorIs(t, applyFlags(config.Default(), flags{}), reader.ErrNoPath)
	assert.ErrorIs(t, applyFlags(config.Default(), flags{file: "v.csv", formats: "pdf"}), config.ErrInvalidFormat)
	assert.ErrorIs(t, applyFlags(config.Default(), flags{file: "v.csv", mode: "daily"}), config.ErrInvalidMode)
}

func TestRateSyncSummary(t *testing.T) {
	table := currency.NewMonthTable([]string{"USD"})
	table.AddMonth("2022-01")
	table.AddMonth("2022-02")

	msg, saved := rateSyncSummary(&analysis.Result{Rates: table, Currencies: []string{"USD"}}, "rates.csv")
	assert.True(t, saved)
	assert.Equal(t, "Saved 2 months of USD rates to rates.csv", msg)

	for _, res := range []*analysis.Result{
		{Rates: currency.NewMonthTable([]string{"USD"})},
		{},
	} {
		msg, saved = rateSyncSummary(res, "rates.csv")
		assert.False(t, saved)
		assert.Contains(t, msg, "rates.csv was not written")
	}
}
