package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/txnalyze/internal/model"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "txnalyze.yaml"

// Environment variables that override the dataset section.
const (
	EnvDataset   = "TXNALYZE_DATASET"
	EnvFormat    = "TXNALYZE_FORMAT"
	EnvSQLDriver = "TXNALYZE_SQL_DRIVER"
	EnvSQLDSN    = "TXNALYZE_SQL_DSN"
	EnvSQLTable  = "TXNALYZE_SQL_TABLE"
)

// FormatSQL selects the SQL source instead of a file parser.
const FormatSQL = "sql"

// Config represents the top-level txnalyze.yaml configuration.
type Config struct {
	Dataset DatasetConfig `yaml:"dataset"`
	Report  ReportConfig  `yaml:"report"`
}

// DatasetConfig says where transactions are loaded from.
type DatasetConfig struct {
	Path   string    `yaml:"path,omitempty"`
	Format string    `yaml:"format,omitempty"` // json, csv, chase or sql; empty = by extension
	SQL    SQLConfig `yaml:"sql,omitempty"`
}

// SQLConfig configures the database source.
type SQLConfig struct {
	Driver string `yaml:"driver,omitempty"` // sqlite3 or postgres
	DSN    string `yaml:"dsn,omitempty"`
	Table  string `yaml:"table,omitempty"`
}

// ReportConfig holds the parameters used by the report command.
type ReportConfig struct {
	Year       int     `yaml:"year"`
	Month      int     `yaml:"month"`
	Day        int     `yaml:"day"`
	RangeStart string  `yaml:"range_start"`
	RangeEnd   string  `yaml:"range_end"`
	Merchant   string  `yaml:"merchant"`
	MinAmount  float64 `yaml:"min_amount"`
	MaxAmount  float64 `yaml:"max_amount"`
	Before     string  `yaml:"before"`
	FindID     string  `yaml:"find_id"`
}

// Load reads a txnalyze.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault reads path, falling back to Default when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config matching the sample dataset.
func Default() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Path: "transactions.json",
			SQL: SQLConfig{
				Driver: "sqlite3",
				Table:  "transactions",
			},
		},
		Report: ReportConfig{
			Year:       2019,
			Month:      1,
			Day:        1,
			RangeStart: "2019-01-01",
			RangeEnd:   "2019-01-10",
			Merchant:   "SuperMart",
			MinAmount:  50,
			MaxAmount:  150,
			Before:     "2019-01-02",
			FindID:     "1",
		},
	}
}

// ApplyEnv loads envFile (or .env when empty, ignoring a missing file) and
// overrides the dataset section from TXNALYZE_* variables.
func ApplyEnv(cfg *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("loading env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	override := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	override(&cfg.Dataset.Path, EnvDataset)
	override(&cfg.Dataset.Format, EnvFormat)
	override(&cfg.Dataset.SQL.Driver, EnvSQLDriver)
	override(&cfg.Dataset.SQL.DSN, EnvSQLDSN)
	override(&cfg.Dataset.SQL.Table, EnvSQLTable)
	return nil
}

// Validate checks that a dataset source is configured and the report dates parse.
func (c *Config) Validate() error {
	var errs []error
	if c.Dataset.Format == FormatSQL {
		if c.Dataset.SQL.Driver == "" || c.Dataset.SQL.DSN == "" {
			errs = append(errs, errors.New("dataset.sql requires driver and dsn"))
		}
	} else if c.Dataset.Path == "" {
		errs = append(errs, errors.New("dataset.path is required"))
	}

	if c.Report.Month < 0 || c.Report.Month > 12 {
		errs = append(errs, fmt.Errorf("report.month %d out of range", c.Report.Month))
	}
	for name, v := range map[string]string{
		"report.range_start": c.Report.RangeStart,
		"report.range_end":   c.Report.RangeEnd,
		"report.before":      c.Report.Before,
	} {
		if _, ok := model.ParseDate(v); !ok {
			errs = append(errs, fmt.Errorf("%s: invalid date %q", name, v))
		}
	}
	return errors.Join(errs...)
}
