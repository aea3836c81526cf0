// Package analysis runs the full statistics pipeline over a vacancy export.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/fr4nk3nst1ner/salarystats/internal/currency"
	"github.com/fr4nk3nst1ner/salarystats/internal/logger"
	"github.com/fr4nk3nst1ner/salarystats/internal/models"
	"github.com/fr4nk3nst1ner/salarystats/internal/observability"
	"github.com/fr4nk3nst1ner/salarystats/internal/reader"
	"github.com/fr4nk3nst1ner/salarystats/internal/salary"
	"github.com/fr4nk3nst1ner/salarystats/internal/shard"
	"github.com/fr4nk3nst1ner/salarystats/internal/stats"
	"github.com/fr4nk3nst1ner/salarystats/internal/vacancy"
)

// DefaultFrequencyThreshold is the posting count a currency must exceed to be kept
const DefaultFrequencyThreshold = 5000

// ShardFormatParquet selects parquet copies of the year shards
const ShardFormatParquet = "parquet"

// ErrNoRates is returned in monthly mode when neither a table, a rate file nor a source is set
var ErrNoRates = errors.New("monthly mode needs a rate table, a rate file or a rate source")

// Options configures a pipeline run
type Options struct {
	Job  string
	Mode salary.Mode

	// StaticRates is the table used in static mode; nil means currency.DefaultRates
	StaticRates map[string]float64

	// Rates is a prebuilt month table. When nil, RatesFile is loaded if it
	// exists and Source is nil; otherwise Source builds the table and the
	// result is saved to RatesFile.
	Rates     *currency.MonthTable
	RatesFile string
	Source    currency.RateSource

	Base               string
	FrequencyThreshold int

	Workers  int
	ShardDir string
	// ShardFormat "parquet" also writes a parquet copy of every year shard
	ShardFormat string

	// OnMonth is called after each month of rates is fetched
	OnMonth func()

	Logger  *logger.Log
	Metrics *observability.Metrics
}

func (o *Options) defaults() {
	if o.Base == "" {
		o.Base = currency.BaseCurrency
	}
	if o.FrequencyThreshold <= 0 {
		o.FrequencyThreshold = DefaultFrequencyThreshold
	}
	if o.StaticRates == nil {
		o.StaticRates = currency.DefaultRates()
	}
	if o.Workers <= 0 {
		o.Workers = 1
	}
	if o.Logger == nil {
		o.Logger = logger.GetLogger()
	}
}

// Result is the outcome of a run
type Result struct {
	Years   models.YearStatistics
	Cities  models.CityStatistics
	Records []models.Vacancy
	Header  []string
	// Rates is the month table used in monthly mode
	Rates *currency.MonthTable
	// Currencies lists the codes kept by the frequency filter in monthly mode
	Currencies []string
	// Shards lists the per-year files written by RunSharded
	Shards []string
}

// prepared holds everything computed before records are built
type prepared struct {
	header     []string
	cols       vacancy.Columns
	width      int
	rows       [][]string
	normalizer *salary.Normalizer
	rates      *currency.MonthTable
	currencies []string
	// empty is set when the export has no header
	empty bool
}

func emptyResult() *Result {
	return &Result{
		Years:   models.NewYearStatistics(),
		Cities:  models.CityStatistics{},
		Records: []models.Vacancy{},
	}
}

// Run reads the export at path and computes year and city statistics.
//
// In monthly mode currencies are selected by frequency over every row,
// malformed ones included, before the malformed rows are dropped. In
// static mode the well-formed rows are used as they are.
func Run(ctx context.Context, path string, opts Options) (*Result, error) {
	opts.defaults()
	log := opts.Logger.WithComponent("analysis")
	started := time.Now()

	res, err := run(ctx, path, opts)
	opts.Metrics.RecordStatus(err)
	opts.Metrics.RecordPhase("total", started)
	if err != nil {
		return nil, err
	}

	logger.LogDuration(log, "run", started, logger.Fields{
		"mode":    opts.Mode.String(),
		"records": len(res.Records),
		"years":   len(res.Years.Years),
	})
	return res, nil
}

func run(ctx context.Context, path string, opts Options) (*Result, error) {
	p, err := prepare(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	if p.empty {
		return emptyResult(), nil
	}

	started := time.Now()
	records, err := buildRecords(p, p.rows, opts.Metrics)
	if err != nil {
		return nil, err
	}
	opts.Metrics.RecordPhase("build", started)

	started = time.Now()
	res := &Result{
		Years:      stats.YearStatistics(records, opts.Job),
		Cities:     stats.CityStatistics(records),
		Records:    records,
		Header:     p.header,
		Rates:      p.rates,
		Currencies: p.currencies,
	}
	opts.Metrics.RecordPhase("aggregate", started)
	return res, nil
}

func prepare(ctx context.Context, path string, opts Options) (*prepared, error) {
	log := opts.Logger.WithComponent("analysis")

	started := time.Now()
	table, err := reader.ReadFile(path)
	if err != nil {
		return nil, err
	}
	opts.Metrics.RecordPhase("read", started)

	if len(table.Header) == 0 {
		log.WithFields(logger.Fields{"file": path}).Warn("export is empty")
		return &prepared{empty: true}, nil
	}

	cols, err := vacancy.ResolveColumns(table.Header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	p := &prepared{header: table.Header, cols: cols, width: table.Width()}

	switch opts.Mode {
	case salary.ModeMonthly:
		freq := currency.CountCurrencies(table.AllRows, cols.Currency)
		p.currencies = freq.Frequent(opts.FrequencyThreshold, opts.Base)
		selected := currency.SelectRows(table.AllRows, cols.Currency, p.currencies, opts.Base)

		log.WithFields(logger.Fields{
			"currencies": p.currencies,
			"selected":   len(selected),
			"rows":       len(table.AllRows),
		}).Debug("currencies selected")

		p.rates, err = resolveRates(ctx, opts, selected, cols, p.currencies)
		if err != nil {
			return nil, err
		}

		p.rows = reader.WellFormed(p.width, selected)
		p.normalizer = salary.NewNormalizer(salary.ModeMonthly, p.rates, opts.Base)
		opts.Metrics.RecordRows(len(table.AllRows), len(table.AllRows)-len(selected), "currency")
		opts.Metrics.RecordDropped(len(selected)-len(p.rows), "malformed")

	default:
		p.rows = table.Rows
		p.normalizer = salary.NewNormalizer(salary.ModeStatic, currency.NewStaticTable(opts.StaticRates), opts.Base)
		opts.Metrics.RecordRows(len(table.AllRows), len(table.AllRows)-len(table.Rows), "malformed")
	}

	return p, nil
}

// resolveRates returns the month table for the selected rows
func resolveRates(ctx context.Context, opts Options, rows [][]string, cols vacancy.Columns, codes []string) (*currency.MonthTable, error) {
	log := opts.Logger.WithComponent("analysis")

	if opts.Rates != nil {
		return opts.Rates, nil
	}

	if opts.Source == nil {
		if opts.RatesFile == "" {
			return nil, ErrNoRates
		}
		table, err := currency.LoadMonthTable(opts.RatesFile)
		if err != nil {
			return nil, err
		}
		log.WithFields(logger.Fields{
			"file":   opts.RatesFile,
			"months": len(table.Months()),
		}).Info("rate file loaded")
		return table, nil
	}

	first, last, ok := currency.DateRange(rows, cols.PublishedAt)
	if !ok {
		return currency.NewMonthTable(codes), nil
	}

	onMonth := func() {
		opts.Metrics.RecordRateFetched()
		if opts.OnMonth != nil {
			opts.OnMonth()
		}
	}

	started := time.Now()
	table, err := currency.BuildMonthTable(ctx, opts.Source, currency.MonthsBetween(first, last), codes, onMonth)
	if err != nil {
		return nil, err
	}
	opts.Metrics.RecordPhase("rates", started)

	if opts.RatesFile != "" {
		if err := currency.SaveMonthTable(opts.RatesFile, table); err != nil {
			return nil, err
		}
		log.WithFields(logger.Fields{"file": opts.RatesFile}).Info("rate file saved")
	}
	return table, nil
}

// buildRecords builds every row and drops the records without a known salary
func buildRecords(p *prepared, rows [][]string, m *observability.Metrics) ([]models.Vacancy, error) {
	all, err := vacancy.NewBuilder(p.cols, p.normalizer).BuildAll(rows)
	if err != nil {
		return nil, err
	}

	known := make([]models.Vacancy, 0, len(all))
	for _, v := range all {
		if v.Salary().IsKnown() {
			known = append(known, v)
		}
	}
	m.RecordVacancies(len(all), len(all)-len(known))
	return known, nil
}

// RunSharded computes the same statistics as Run, but writes the selected
// rows into per-year CSV shards under opts.ShardDir and lets a bounded pool
// of workers read and aggregate one shard each. City statistics come from
// the union of all shards.
func RunSharded(ctx context.Context, path string, opts Options) (*Result, error) {
	opts.defaults()
	log := opts.Logger.WithComponent("analysis")
	started := time.Now()

	res, err := runSharded(ctx, path, opts)
	opts.Metrics.RecordStatus(err)
	opts.Metrics.RecordPhase("total", started)
	if err != nil {
		return nil, err
	}

	logger.LogDuration(log, "run_sharded", started, logger.Fields{
		"mode":    opts.Mode.String(),
		"shards":  len(res.Shards),
		"workers": opts.Workers,
	})
	return res, nil
}

func runSharded(ctx context.Context, path string, opts Options) (*Result, error) {
	if opts.ShardDir == "" {
		dir, err := os.MkdirTemp("", "salarystats-shards-")
		if err != nil {
			return nil, fmt.Errorf("create shard directory: %w", err)
		}
		defer os.RemoveAll(dir)
		opts.ShardDir = dir
	}

	p, err := prepare(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	if p.empty {
		return emptyResult(), nil
	}

	parts := shard.PartitionByYear(p.rows, p.cols.PublishedAt)
	paths, err := shard.WriteCSV(opts.ShardDir, p.header, parts)
	if err != nil {
		return nil, err
	}
	if opts.ShardFormat == ShardFormatParquet {
		pq, err := shard.WriteParquet(opts.ShardDir, shardColumns(p.cols), parts)
		if err != nil {
			return nil, err
		}
		paths = append(paths, pq...)
	}
	opts.Metrics.RecordShards(len(paths))

	keys := parts.Years()
	years := make([]int, len(keys))
	slot := make(map[int]int, len(keys))
	for i, key := range keys {
		year, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", vacancy.ErrInvalidDate, key)
		}
		years[i] = year
		slot[year] = i
	}

	// each worker writes only its own slot
	loaded := make([][]models.Vacancy, len(years))
	load := func(_ context.Context, year int) ([]models.Vacancy, error) {
		table, err := reader.ReadFile(shard.CSVPath(opts.ShardDir, keys[slot[year]]))
		if err != nil {
			return nil, err
		}
		records, err := buildRecords(p, table.Rows, opts.Metrics)
		if err != nil {
			return nil, fmt.Errorf("shard %d: %w", year, err)
		}
		loaded[slot[year]] = records
		return records, nil
	}

	started := time.Now()
	yearStats, err := stats.ParallelLoad(ctx, years, load, opts.Job, opts.Workers)
	if err != nil {
		return nil, err
	}
	opts.Metrics.RecordPhase("build", started)

	var records []models.Vacancy
	for _, part := range loaded {
		records = append(records, part...)
	}

	return &Result{
		Years:      yearStats,
		Cities:     stats.CityStatistics(records),
		Records:    records,
		Header:     p.header,
		Rates:      p.rates,
		Currencies: p.currencies,
		Shards:     paths,
	}, nil
}

func shardColumns(cols vacancy.Columns) shard.Columns {
	return shard.Columns{
		Name:        cols.Name,
		SalaryFrom:  cols.SalaryFrom,
		SalaryTo:    cols.SalaryTo,
		Currency:    cols.Currency,
		Area:        cols.Area,
		PublishedAt: cols.PublishedAt,
	}
}
