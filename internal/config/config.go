// Package config loads application configuration from YAML with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Storage struct {
		// Backend selects the bar store: memory, postgres, clickhouse.
		Backend       string `yaml:"backend"`
		PostgresDSN   string `yaml:"postgres_dsn"`
		ClickhouseDSN string `yaml:"clickhouse_dsn"`
	} `yaml:"storage"`
	Backtest struct {
		Ticker       string  `yaml:"ticker"`
		InitialCash  float64 `yaml:"initial_cash"`
		ShortWindow  int     `yaml:"short_window"`
		LongWindow   int     `yaml:"long_window"`
		Quantity     int64   `yaml:"quantity"`
		RiskFreeRate float64 `yaml:"risk_free_rate"`
		Confidence   float64 `yaml:"confidence"`
	} `yaml:"backtest"`
	Ingest struct {
		Source  string `yaml:"source"` // yahoo or csv
		CSVPath string `yaml:"csv_path"`
	} `yaml:"ingest"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides. A missing file is not an error; defaults still apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Storage.PostgresDSN = v
	}
	if v := os.Getenv("CLICKHOUSE_DSN"); v != "" {
		cfg.Storage.ClickhouseDSN = v
	}
	if v := os.Getenv("BACKTEST_TICKER"); v != "" {
		cfg.Backtest.Ticker = v
	}
	if v := os.Getenv("BACKTEST_INITIAL_CASH"); v != "" {
		if cash, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Backtest.InitialCash = cash
		}
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}

	// Defaults
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "memory"
	}
	if cfg.Backtest.InitialCash == 0 {
		cfg.Backtest.InitialCash = 10_000
	}
	if cfg.Backtest.ShortWindow == 0 {
		cfg.Backtest.ShortWindow = 10
	}
	if cfg.Backtest.LongWindow == 0 {
		cfg.Backtest.LongWindow = 30
	}
	if cfg.Backtest.Quantity == 0 {
		cfg.Backtest.Quantity = 10
	}
	if cfg.Backtest.RiskFreeRate == 0 {
		cfg.Backtest.RiskFreeRate = 0.02
	}
	if cfg.Backtest.Confidence == 0 {
		cfg.Backtest.Confidence = 0.95
	}
	if cfg.Ingest.Source == "" {
		cfg.Ingest.Source = "yahoo"
	}

	return cfg, nil
}

// Validate checks field combinations that Load cannot default away.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "memory":
	case "postgres":
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("storage.postgres_dsn is required for postgres backend")
		}
	case "clickhouse":
		if c.Storage.ClickhouseDSN == "" {
			return fmt.Errorf("storage.clickhouse_dsn is required for clickhouse backend")
		}
	default:
		return fmt.Errorf("unknown storage backend: %s", c.Storage.Backend)
	}

	if c.Backtest.InitialCash <= 0 {
		return fmt.Errorf("backtest.initial_cash must be positive")
	}
	if c.Backtest.ShortWindow >= c.Backtest.LongWindow {
		return fmt.Errorf("backtest.short_window must be less than long_window")
	}
	if c.Ingest.Source == "csv" && c.Ingest.CSVPath == "" {
		return fmt.Errorf("ingest.csv_path is required for csv source")
	}

	return nil
}
