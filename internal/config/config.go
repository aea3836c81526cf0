// Package config loads the YAML configuration of salarystats.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fr4nk3nst1ner/salarystats/internal/salary"
	"github.com/fr4nk3nst1ner/salarystats/internal/shard"
)

// Validation errors
var (
	ErrNoJob            = errors.New("analysis.job must be set")
	ErrInvalidMode      = errors.New("analysis.mode must be static or monthly")
	ErrInvalidWorkers   = errors.New("analysis.workers must be positive")
	ErrInvalidThreshold = errors.New("analysis.frequency_threshold must be positive")
	ErrInvalidFormat    = errors.New("unknown output format")
	ErrInvalidShard     = errors.New("output.shard_format must be csv or parquet")
	ErrMissingDSN       = errors.New("storage.postgres.dsn must be set when postgres is enabled")
	ErrMissingBucket    = errors.New("storage.s3.bucket must be set when s3 is enabled")
	ErrMissingStoreFile = errors.New("storage.file.path must be set when the file store is enabled")
)

// Env variables that override the file
const (
	EnvPostgresDSN     = "SALARYSTATS_PG_DSN"
	EnvAccessKeyID     = "AWS_ACCESS_KEY_ID"
	EnvSecretAccessKey = "AWS_SECRET_ACCESS_KEY"
)

// Output formats
const (
	FormatConsole  = "console"
	FormatMarkdown = "markdown"
	FormatXLSX     = "xlsx"
	FormatJSON     = "json"
)

// Config is the application configuration
type Config struct {
	Input    string         `yaml:"input"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Currency CurrencyConfig `yaml:"currency"`
	Output   OutputConfig   `yaml:"output"`
	Storage  StorageConfig  `yaml:"storage"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Scraper  ScraperConfig  `yaml:"scraper"`
}

type AnalysisConfig struct {
	Job                string `yaml:"job"`
	Mode               string `yaml:"mode"`
	BaseCurrency       string `yaml:"base_currency"`
	FrequencyThreshold int    `yaml:"frequency_threshold"`
	Workers            int    `yaml:"workers"`
	Parallel           bool   `yaml:"parallel"`
}

type CurrencyConfig struct {
	RatesFile         string             `yaml:"rates_file"`
	StaticRates       map[string]float64 `yaml:"static_rates"`
	SourceURL         string             `yaml:"source_url"`
	RequestsPerSecond float64            `yaml:"requests_per_second"`
	Fetch             bool               `yaml:"fetch"`
}

type OutputConfig struct {
	Dir         string   `yaml:"dir"`
	Formats     []string `yaml:"formats"`
	ShardsDir   string   `yaml:"shards_dir"`
	ShardFormat string   `yaml:"shard_format"`
}

type StorageConfig struct {
	Postgres PostgresConfig `yaml:"postgres"`
	S3       S3Config       `yaml:"s3"`
	File     FileConfig     `yaml:"file"`
}

type PostgresConfig struct {
	Enabled bool   `yaml:"enabled"`
	DSN     string `yaml:"dsn"` // Prefer SALARYSTATS_PG_DSN env var
}

type S3Config struct {
	Enabled         bool   `yaml:"enabled"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	PathStyle       bool   `yaml:"path_style"`
	Prefix          string `yaml:"prefix"`
	AccessKeyID     string `yaml:"access_key_id"`     // Prefer AWS_ACCESS_KEY_ID env var
	SecretAccessKey string `yaml:"secret_access_key"` // Prefer AWS_SECRET_ACCESS_KEY env var
}

type FileConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
	MaxAge int    `yaml:"max_age"`
}

type MetricsConfig struct {
	Textfile  string `yaml:"textfile"`
	Namespace string `yaml:"namespace"`
}

type ScraperConfig struct {
	HHURL             string  `yaml:"hh_url"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Proxy             string  `yaml:"proxy"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Job:                "Программист",
			Mode:               "static",
			BaseCurrency:       "RUR",
			FrequencyThreshold: 5000,
			Workers:            4,
		},
		Currency: CurrencyConfig{
			RatesFile:         "data/currency.csv",
			RequestsPerSecond: 5,
		},
		Output: OutputConfig{
			Dir:         "out",
			Formats:     []string{FormatConsole},
			ShardsDir:   "out/years",
			ShardFormat: "csv",
		},
		Storage: StorageConfig{
			S3: S3Config{
				Region: "us-east-1",
				Prefix: "salarystats",
			},
			File: FileConfig{
				Path: "data/reports.json",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Metrics: MetricsConfig{
			Namespace: "salarystats",
		},
		Scraper: ScraperConfig{
			RequestsPerSecond: 2,
		},
	}
}

// Load reads the file at path over Default, applies env overrides and
// validates the result. An empty path gives the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv copies credentials from the environment over the file values
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvPostgresDSN); v != "" {
		c.Storage.Postgres.DSN = v
	}
	if v := os.Getenv(EnvAccessKeyID); v != "" {
		c.Storage.S3.AccessKeyID = v
	}
	if v := os.Getenv(EnvSecretAccessKey); v != "" {
		c.Storage.S3.SecretAccessKey = v
	}
}

// Validate checks the configuration for values the pipeline cannot run with
func (c *Config) Validate() error {
	if c.Analysis.Job == "" {
		return ErrNoJob
	}
	if _, err := salary.ParseMode(c.Analysis.Mode); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidMode, c.Analysis.Mode)
	}
	if c.Analysis.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if c.Analysis.FrequencyThreshold <= 0 {
		return ErrInvalidThreshold
	}
	for _, f := range c.Output.Formats {
		switch f {
		case FormatConsole, FormatMarkdown, FormatXLSX, FormatJSON:
		default:
			return fmt.Errorf("%w: %q", ErrInvalidFormat, f)
		}
	}
	switch c.Output.ShardFormat {
	case "", "csv", "parquet":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidShard, c.Output.ShardFormat)
	}
	if c.Storage.Postgres.Enabled && c.Storage.Postgres.DSN == "" {
		return ErrMissingDSN
	}
	if c.Storage.S3.Enabled && c.Storage.S3.Bucket == "" {
		return ErrMissingBucket
	}
	if c.Storage.File.Enabled && c.Storage.File.Path == "" {
		return ErrMissingStoreFile
	}
	return nil
}

// Mode returns the parsed normalization mode
func (c *Config) Mode() salary.Mode {
	mode, err := salary.ParseMode(c.Analysis.Mode)
	if err != nil {
		return salary.ModeStatic
	}
	return mode
}

// S3Options converts the S3 section for the shard uploader
func (c *Config) S3Options() shard.S3Options {
	s := c.Storage.S3
	return shard.S3Options{
		Bucket:          s.Bucket,
		Region:          s.Region,
		Endpoint:        s.Endpoint,
		PathStyle:       s.PathStyle,
		Prefix:          s.Prefix,
		AccessKeyID:     s.AccessKeyID,
		SecretAccessKey: s.SecretAccessKey,
	}
}

// HasFormat reports whether format is among the configured outputs
func (c *Config) HasFormat(format string) bool {
	for _, f := range c.Output.Formats {
		if f == format {
			return true
		}
	}
	return false
}
