package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fr4nk3nst1ner/salarystats/internal/salary"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Analysis, cfg.Analysis)
	assert.Equal(t, salary.ModeStatic, cfg.Mode())
	assert.True(t, cfg.HasFormat(FormatConsole))
}

func TestLoad_FileOverDefaults(t *testing.T) {
	path := writeConfig(t, `
input: vacancies.csv
analysis:
  job: Аналитик
  mode: monthly
  parallel: true
currency:
  fetch: true
  static_rates:
    USD: 60.66
output:
  formats: [markdown, xlsx]
  shard_format: parquet
storage:
  s3:
    enabled: true
    bucket: exports
    endpoint: http://localhost:9000
    path_style: true
logging:
  format: json
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "vacancies.csv", cfg.Input)
	assert.Equal(t, "Аналитик", cfg.Analysis.Job)
	assert.Equal(t, salary.ModeMonthly, cfg.Mode())
	assert.True(t, cfg.Analysis.Parallel)
	assert.Equal(t, 5000, cfg.Analysis.FrequencyThreshold, "unset keys keep their defaults")
	assert.Equal(t, 4, cfg.Analysis.Workers)
	assert.Equal(t, map[string]float64{"USD": 60.66}, cfg.Currency.StaticRates)
	assert.False(t, cfg.HasFormat(FormatConsole))
	assert.True(t, cfg.HasFormat(FormatXLSX))
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "stderr", cfg.Logging.Output)

	opts := cfg.S3Options()
	assert.Equal(t, "exports", opts.Bucket)
	assert.Equal(t, "us-east-1", opts.Region)
	assert.True(t, opts.PathStyle)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvPostgresDSN, "postgres://env@localhost/db")
	t.Setenv(EnvAccessKeyID, "AKIA")
	t.Setenv(EnvSecretAccessKey, "secret")

	path := writeConfig(t, `
storage:
  postgres:
    enabled: true
    dsn: postgres://file@localhost/db
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://env@localhost/db", cfg.Storage.Postgres.DSN)
	assert.Equal(t, "AKIA", cfg.S3Options().AccessKeyID)
	assert.Equal(t, "secret", cfg.S3Options().SecretAccessKey)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "analysis: [not, a, map]"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"empty job", func(c *Config) { c.Analysis.Job = "" }, ErrNoJob},
		{"bad mode", func(c *Config) { c.Analysis.Mode = "daily" }, ErrInvalidMode},
		{"zero workers", func(c *Config) { c.Analysis.Workers = 0 }, ErrInvalidWorkers},
		{"zero threshold", func(c *Config) { c.Analysis.FrequencyThreshold = 0 }, ErrInvalidThreshold},
		{"bad format", func(c *Config) { c.Output.Formats = []string{"pdf"} }, ErrInvalidFormat},
		{"bad shard format", func(c *Config) { c.Output.ShardFormat = "avro" }, ErrInvalidShard},
		{"postgres without dsn", func(c *Config) { c.Storage.Postgres.Enabled = true }, ErrMissingDSN},
		{"s3 without bucket", func(c *Config) { c.Storage.S3.Enabled = true }, ErrMissingBucket},
		{"file store without path", func(c *Config) {
			c.Storage.File.Enabled = true
			c.Storage.File.Path = ""
		}, ErrMissingStoreFile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}

	assert.NoError(t, Default().Validate())
}
