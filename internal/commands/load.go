package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cleared-dev/txnalyze/internal/config"
	"github.com/cleared-dev/txnalyze/internal/importer"
	"github.com/cleared-dev/txnalyze/internal/model"
	"github.com/cleared-dev/txnalyze/internal/sqlsource"
	"github.com/cleared-dev/txnalyze/internal/store"
)

// loadConfig resolves the config file, env overrides and flags, in that order.
func loadConfig(opts *options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.Load(opts.configPath)
	} else {
		cfg, err = config.LoadOrDefault(config.DefaultFile)
	}
	if err != nil {
		return nil, err
	}

	if err := config.ApplyEnv(cfg, opts.envFile); err != nil {
		return nil, err
	}
	if opts.dataset != "" {
		cfg.Dataset.Path = opts.dataset
	}
	if opts.format != "" {
		cfg.Dataset.Format = opts.format
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadTransactions reads the configured dataset.
func loadTransactions(ctx context.Context, ds config.DatasetConfig) ([]model.Transaction, error) {
	if ds.Format != config.FormatSQL {
		return importer.DefaultRegistry().LoadFile(ds.Path, ds.Format)
	}

	src, err := sqlsource.Open(ctx, ds.SQL.Driver, ds.SQL.DSN)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return src.Load(ctx, ds.SQL.Table)
}

// openStore loads the config and dataset and builds a Store over it.
func openStore(ctx context.Context, opts *options) (*store.Store, *config.Config, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, nil, err
	}

	txns, err := loadTransactions(ctx, cfg.Dataset)
	if err != nil {
		return nil, nil, fmt.Errorf("loading dataset: %w", err)
	}
	slog.Info("loaded transactions", "count", len(txns), "format", cfg.Dataset.Format)

	return store.New(txns), cfg, nil
}
