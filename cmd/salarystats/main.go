package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/pterm/pterm"

	"github.com/fr4nk3nst1ner/salarystats/internal/analysis"
	"github.com/fr4nk3nst1ner/salarystats/internal/client"
	"github.com/fr4nk3nst1ner/salarystats/internal/config"
	"github.com/fr4nk3nst1ner/salarystats/internal/currency"
	"github.com/fr4nk3nst1ner/salarystats/internal/logger"
	"github.com/fr4nk3nst1ner/salarystats/internal/observability"
	"github.com/fr4nk3nst1ner/salarystats/internal/reader"
	"github.com/fr4nk3nst1ner/salarystats/internal/report"
	"github.com/fr4nk3nst1ner/salarystats/internal/salary"
	"github.com/fr4nk3nst1ner/salarystats/internal/scraper"
	"github.com/fr4nk3nst1ner/salarystats/internal/shard"
	"github.com/fr4nk3nst1ner/salarystats/internal/storage"
	filestore "github.com/fr4nk3nst1ner/salarystats/internal/storage/file"
	"github.com/fr4nk3nst1ner/salarystats/internal/storage/migrations"
	"github.com/fr4nk3nst1ner/salarystats/internal/storage/postgres"
	"github.com/fr4nk3nst1ner/salarystats/internal/ui"
	"github.com/fr4nk3nst1ner/salarystats/internal/vacancy"
)

// printExamples displays usage examples for the program
func printExamples() {
	fmt.Println("\n📋 SalaryStats Usage Examples 📋")
	fmt.Println("\n1. Print year and city statistics for \"Программист\" with the static rate table:")
	fmt.Println("   salarystats -file vacancies.csv -job \"Программист\"")

	fmt.Println("\n2. Use the monthly rate file and write markdown and spreadsheet reports:")
	fmt.Println("   salarystats -file vacancies.csv -mode monthly -rates data/currency.csv -formats markdown,xlsx")

	fmt.Println("\n3. Fetch missing monthly rates from the Central Bank feed and save them:")
	fmt.Println("   salarystats -file vacancies.csv -sync-rates -rates data/currency.csv")

	fmt.Println("\n4. Split the export into per-year shards and aggregate them with 8 workers:")
	fmt.Println("   salarystats -file vacancies.csv -parallel -workers 8 -shards out/years -shard-format parquet")

	fmt.Println("\n5. Show rows 10 to 20 of the vacancy table for Moscow sorted by salary:")
	fmt.Println("   salarystats -file vacancies.csv -table -filter \"Название региона: Москва\" -sort Оклад -range \"10 20\"")

	fmt.Println("\n6. Download one day of hh.ru vacancies into a CSV export:")
	fmt.Println("   salarystats -download-hh 2022-12-15 -file hh_2022-12-15.csv")

	fmt.Println("\nFor more information, visit: https://github.com/fr4nk3nst1ner/salarystats")
	os.Exit(0)
}

type flags struct {
	configPath  string
	file        string
	job         string
	mode        string
	rates       string
	fetchRates  bool
	parallel    bool
	workers     int
	out         string
	formats     string
	shards      string
	shardFormat string
	table       bool
	filter      string
	sort        string
	reverse     bool
	rowRange    string
	columns     string
	downloadHH  string
	syncRates   bool
	silence     bool
	debug       bool
}

func main() {
	var f flags
	flag.StringVar(&f.configPath, "config", "", "Path to the YAML config file")
	flag.StringVar(&f.file, "file", "", "Vacancy export (CSV)")
	flag.StringVar(&f.job, "job", "", "Job title to compare against all vacancies")
	flag.StringVar(&f.mode, "mode", "", "Salary normalization: static or monthly")
	flag.StringVar(&f.rates, "rates", "", "Monthly rate file (CSV)")
	flag.BoolVar(&f.fetchRates, "fetch-rates", false, "Fetch monthly rates from the Central Bank feed")
	flag.BoolVar(&f.parallel, "parallel", false, "Split the export by year and aggregate the shards in parallel")
	flag.IntVar(&f.workers, "workers", 0, "Number of shard workers")
	flag.StringVar(&f.out, "out", "", "Output directory for report files")
	flag.StringVar(&f.formats, "formats", "", "Comma separated outputs: console, markdown, xlsx, json")
	flag.StringVar(&f.shards, "shards", "", "Directory for the per-year shards")
	flag.StringVar(&f.shardFormat, "shard-format", "", "Shard format: csv or parquet")
	flag.BoolVar(&f.table, "table", false, "Show the vacancy table instead of statistics")
	flag.StringVar(&f.filter, "filter", "", "Table filter as 'field: value'")
	flag.StringVar(&f.sort, "sort", "", "Table sort field")
	flag.BoolVar(&f.reverse, "reverse", false, "Reverse the table sort order")
	flag.StringVar(&f.rowRange, "range", "", "Table rows to show as 'from' or 'from to'")
	flag.StringVar(&f.columns, "columns", "", "Comma separated table columns")
	flag.StringVar(&f.downloadHH, "download-hh", "", "Download one day (YYYY-MM-DD) of hh.ru vacancies into -file")
	flag.BoolVar(&f.syncRates, "sync-rates", false, "Fetch and save the monthly rate file for -file, then exit")
	examples := flag.Bool("examples", false, "Show usage examples")
	flag.BoolVar(&f.debug, "debug", false, "Enable debug logging")

	// Banner control flags (two aliases for the same functionality)
	silence := flag.Bool("silence", false, "Silence the banner and progress bars")
	noBanner := flag.Bool("nobanner", false, "Silence the banner (alias for -silence)")

	flag.Parse()
	f.silence = *silence || *noBanner

	ui.PrintBanner(f.silence)

	if *examples {
		printExamples()
		return
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Error loading .env: %v", err)
	}

	cfg, err := config.Load(f.configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	if err := applyFlags(cfg, f); err != nil {
		log.Fatalf("Invalid arguments: %v", err)
	}

	level := cfg.Logging.Level
	if f.debug {
		level = "debug"
	}
	if err := logger.GetLogger().Configure(level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		log.Fatalf("Error configuring logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch {
	case f.downloadHH != "":
		err = downloadHH(ctx, cfg, f)
	case f.syncRates:
		err = syncRates(ctx, cfg, f)
	case f.table:
		err = showTable(cfg, f)
	default:
		err = runStatistics(ctx, cfg, f)
	}
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// applyFlags lays the command line over the loaded configuration
func applyFlags(cfg *config.Config, f flags) error {
	if f.file != "" {
		cfg.Input = f.file
	}
	if f.job != "" {
		cfg.Analysis.Job = f.job
	}
	if f.rates != "" {
		cfg.Currency.RatesFile = f.rates
	}
	if f.fetchRates || f.syncRates {
		cfg.Currency.Fetch = true
	}
	switch {
	case f.mode != "":
		cfg.Analysis.Mode = f.mode
	case f.rates != "" || f.fetchRates || f.syncRates:
		cfg.Analysis.Mode = salary.ModeMonthly.String()
	}
	if f.parallel {
		cfg.Analysis.Parallel = true
	}
	if f.workers > 0 {
		cfg.Analysis.Workers = f.workers
	}
	if f.out != "" {
		cfg.Output.Dir = f.out
	}
	if f.formats != "" {
		cfg.Output.Formats = splitList(f.formats)
	}
	if f.shards != "" {
		cfg.Output.ShardsDir = f.shards
	}
	if f.shardFormat != "" {
		cfg.Output.ShardFormat = f.shardFormat
	}
	if cfg.Input == "" {
		return reader.ErrNoPath
	}
	return cfg.Validate()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func httpClient(cfg *config.Config) *http.Client {
	if cfg.Scraper.Proxy != "" {
		return client.CreateProxyHTTPClient(cfg.Scraper.Proxy)
	}
	return client.CreateHTTPClient()
}

// analysisOptions builds the pipeline options from the configuration
func analysisOptions(cfg *config.Config, metrics *observability.Metrics, progress *ui.Progress) analysis.Options {
	opts := analysis.Options{
		Job:                cfg.Analysis.Job,
		Mode:               cfg.Mode(),
		StaticRates:        cfg.Currency.StaticRates,
		RatesFile:          cfg.Currency.RatesFile,
		Base:               cfg.Analysis.BaseCurrency,
		FrequencyThreshold: cfg.Analysis.FrequencyThreshold,
		Workers:            cfg.Analysis.Workers,
		ShardDir:           cfg.Output.ShardsDir,
		ShardFormat:        cfg.Output.ShardFormat,
		Metrics:            metrics,
		OnMonth: func() {
			progress.AddTotal(1)
			progress.Increment()
		},
	}
	if cfg.Currency.Fetch {
		opts.Source = scraper.NewCBRSource(cfg.Currency.SourceURL, httpClient(cfg), cfg.Currency.RequestsPerSecond)
	}
	return opts
}

func runStatistics(ctx context.Context, cfg *config.Config, f flags) error {
	log := logger.GetLogger().WithComponent("cli")
	runID := uuid.NewString()
	metrics := observability.NewMetrics(cfg.Metrics.Namespace)

	progress := ui.NewProgress(0, f.silence || !cfg.Currency.Fetch)
	opts := analysisOptions(cfg, metrics, progress)

	var res *analysis.Result
	var err error
	if cfg.Analysis.Parallel {
		res, err = analysis.RunSharded(ctx, cfg.Input, opts)
	} else {
		res, err = analysis.Run(ctx, cfg.Input, opts)
	}
	progress.Finish()
	if err != nil {
		writeMetrics(cfg, metrics)
		return err
	}

	rep := report.Assemble(runID, cfg.Analysis.Job, res.Years, res.Cities)
	log.WithFields(logger.Fields{
		"run_id":  runID,
		"records": len(res.Records),
		"mode":    opts.Mode.String(),
	}).Info("statistics computed")

	if err := writeOutputs(cfg, rep); err != nil {
		return err
	}
	if err := uploadShards(ctx, cfg, runID, res.Shards); err != nil {
		return err
	}
	if err := saveReport(ctx, cfg, rep); err != nil {
		return err
	}
	writeMetrics(cfg, metrics)
	return nil
}

func writeOutputs(cfg *config.Config, rep *report.Report) error {
	for _, format := range cfg.Output.Formats {
		var err error
		var path string
		switch format {
		case config.FormatConsole:
			err = report.RenderConsole(os.Stdout, rep)
		case config.FormatMarkdown:
			path = filepath.Join(cfg.Output.Dir, "report.md")
			err = writeFile(path, func(w *os.File) error { return report.RenderMarkdown(w, rep) })
		case config.FormatXLSX:
			path = filepath.Join(cfg.Output.Dir, "report.xlsx")
			err = report.WriteXLSX(path, rep)
		case config.FormatJSON:
			path = filepath.Join(cfg.Output.Dir, "report.json")
			err = report.SaveJSON(path, rep)
		}
		if err != nil {
			return fmt.Errorf("write %s output: %w", format, err)
		}
		if path != "" {
			pterm.Success.Printfln("Report saved to %s", path)
		}
	}
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func uploadShards(ctx context.Context, cfg *config.Config, runID string, files []string) error {
	if !cfg.Storage.S3.Enabled || len(files) == 0 {
		return nil
	}
	uploader, err := shard.NewUploader(ctx, cfg.S3Options())
	if err != nil {
		return err
	}
	keys, err := uploader.Upload(ctx, runID, files)
	if err != nil {
		return err
	}
	pterm.Success.Printfln("Uploaded %d shards to s3://%s", len(keys), cfg.Storage.S3.Bucket)
	return nil
}

func saveReport(ctx context.Context, cfg *config.Config, rep *report.Report) error {
	var stores []storage.StatisticsStore

	if cfg.Storage.File.Enabled {
		stores = append(stores, filestore.NewStatisticsStore(cfg.Storage.File.Path))
	}
	if cfg.Storage.Postgres.Enabled {
		pool, err := postgres.NewPool(ctx, cfg.Storage.Postgres.DSN)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return err
		}
		stores = append(stores, postgres.NewStatisticsStore(pool))
	}

	for _, store := range stores {
		if err := store.Save(ctx, rep); err != nil {
			return fmt.Errorf("save report %s: %w", rep.RunID, err)
		}
	}
	return nil
}

func writeMetrics(cfg *config.Config, metrics *observability.Metrics) {
	if cfg.Metrics.Textfile == "" {
		return
	}
	if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		logger.GetLogger().WithError(err).Warn("failed to write metrics textfile")
	}
}

func syncRates(ctx context.Context, cfg *config.Config, f flags) error {
	if cfg.Currency.RatesFile == "" {
		return analysis.ErrNoRates
	}
	progress := ui.NewProgress(0, f.silence)
	opts := analysisOptions(cfg, nil, progress)
	opts.Mode = salary.ModeMonthly

	res, err := analysis.Run(ctx, cfg.Input, opts)
	progress.Finish()
	if err != nil {
		return err
	}
	if msg, saved := rateSyncSummary(res, cfg.Currency.RatesFile); saved {
		pterm.Success.Println(msg)
	} else {
		pterm.Warning.Println(msg)
	}
	return nil
}

// rateSyncSummary describes the outcome of a rate sync. saved is false when
// the export had no publication dates and no file was written.
func rateSyncSummary(res *analysis.Result, file string) (msg string, saved bool) {
	if res.Rates == nil || len(res.Rates.Months()) == 0 {
		return fmt.Sprintf("No publication dates found, %s was not written", file), false
	}
	return fmt.Sprintf("Saved %d months of %s rates to %s",
		len(res.Rates.Months()), strings.Join(res.Currencies, ", "), file), true
}

func showTable(cfg *config.Config, f flags) error {
	naming := vacancy.DefaultNaming()

	table, err := reader.ReadFile(cfg.Input)
	if err != nil {
		return err
	}
	if len(table.Header) == 0 {
		fmt.Println("Пустой файл")
		return nil
	}
	if len(table.AllRows) == 0 {
		fmt.Println("Нет данных")
		return nil
	}
	cols, err := vacancy.ResolveColumns(table.Header)
	if err != nil {
		return err
	}

	rates := cfg.Currency.StaticRates
	if rates == nil {
		rates = currency.DefaultRates()
	}
	normalizer := salary.NewNormalizer(salary.ModeStatic, currency.NewStaticTable(rates), cfg.Analysis.BaseCurrency)
	records, err := vacancy.NewBuilder(cols, normalizer).BuildAll(table.Rows)
	if err != nil {
		return err
	}

	query := vacancy.NewQuery(naming, normalizer)
	if f.filter != "" {
		field, value, err := vacancy.ParseFilter(f.filter, naming)
		if err != nil {
			return err
		}
		if records, err = query.Filter(records, field, value); err != nil {
			return err
		}
	}
	if len(records) == 0 {
		fmt.Println("Ничего не найдено")
		return nil
	}
	if f.sort != "" {
		field, err := vacancy.ParseField(f.sort, naming)
		if err != nil {
			return err
		}
		if err := query.Sort(records, field, f.reverse); err != nil {
			return err
		}
	}

	start, end, err := report.ParseRange(f.rowRange)
	if err != nil {
		return err
	}
	columns, err := report.ParseColumns(f.columns, naming)
	if err != nil {
		return err
	}
	return report.RenderVacancyTable(os.Stdout, records, naming, report.TableOptions{
		Start:   start,
		End:     end,
		Columns: columns,
	})
}

func downloadHH(ctx context.Context, cfg *config.Config, f flags) error {
	day, err := time.Parse("2006-01-02", f.downloadHH)
	if err != nil {
		return fmt.Errorf("invalid day %q: %w", f.downloadHH, err)
	}

	progress, err := ui.StartDownloadProgress(scraper.HHWindows, f.silence)
	if err != nil {
		return err
	}
	downloader := scraper.NewHHDownloader(cfg.Scraper.HHURL, httpClient(cfg), cfg.Scraper.RequestsPerSecond, progress)
	rows, err := downloader.Download(ctx, day)
	progress.Stop()
	if err != nil {
		return err
	}

	if err := writeFile(cfg.Input, func(w *os.File) error { return scraper.WriteCSV(w, rows) }); err != nil {
		return fmt.Errorf("write %s: %w", cfg.Input, err)
	}
	pterm.Success.Printfln("Saved %d vacancies to %s", len(rows), cfg.Input)
	return nil
}
