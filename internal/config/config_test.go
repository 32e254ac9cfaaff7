package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Dataset.Path = "data/2019.csv"
	cfg.Report.Merchant = "Bakery"

	path := filepath.Join(t.TempDir(), "txnalyze.yaml")
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Dataset, got.Dataset)
	assert.Equal(t, "Bakery", got.Report.Merchant)
	assert.InDelta(t, cfg.Report.MinAmount, got.Report.MinAmount, 0.001)
	assert.InDelta(t, cfg.Report.MaxAmount, got.Report.MaxAmount, 0.001)
	assert.Equal(t, cfg.Report, got.Report)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "transactions.json", cfg.Dataset.Path)
	assert.Empty(t, cfg.Dataset.Format)
	assert.Equal(t, "sqlite3", cfg.Dataset.SQL.Driver)
	assert.Equal(t, 2019, cfg.Report.Year)
	assert.Equal(t, "2019-01-10", cfg.Report.RangeEnd)
	assert.Equal(t, "SuperMart", cfg.Report.Merchant)
	assert.Equal(t, "1", cfg.Report.FindID)
	assert.NoError(t, cfg.Validate())
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "txnalyze.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dataset:\n  path: other.csv\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "other.csv", cfg.Dataset.Path)
	assert.Equal(t, "SuperMart", cfg.Report.Merchant)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "txnalyze.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dataset: [unclosed"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "txnalyze.yaml")
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "path: transactions.json")
	assert.Contains(t, contents, "range_start:")
	assert.Contains(t, contents, "2019-01-10")
	assert.Contains(t, contents, "merchant: SuperMart")
}

func TestApplyEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("TXNALYZE_SQL_TABLE=ledger\n"), 0o644))

	t.Setenv(EnvDataset, "override.csv")
	t.Setenv(EnvFormat, "sql")
	t.Setenv(EnvSQLDSN, "file:test.db")
	t.Cleanup(func() { os.Unsetenv(EnvSQLTable) })

	cfg := Default()
	require.NoError(t, ApplyEnv(cfg, envFile))

	assert.Equal(t, "override.csv", cfg.Dataset.Path)
	assert.Equal(t, FormatSQL, cfg.Dataset.Format)
	assert.Equal(t, "file:test.db", cfg.Dataset.SQL.DSN)
	assert.Equal(t, "sqlite3", cfg.Dataset.SQL.Driver)
	assert.Equal(t, "ledger", cfg.Dataset.SQL.Table)
}

func TestApplyEnv_MissingFile(t *testing.T) {
	err := ApplyEnv(Default(), filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Dataset.Path = ""
	cfg.Report.Month = 13
	cfg.Report.Before = "tomorrow"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset.path is required")
	assert.Contains(t, err.Error(), "report.month 13")
	assert.Contains(t, err.Error(), "report.before")

	cfg = Default()
	cfg.Dataset.Format = FormatSQL
	assert.ErrorContains(t, cfg.Validate(), "driver and dsn")
	cfg.Dataset.SQL.DSN = "file:x.db"
	assert.NoError(t, cfg.Validate())
}
