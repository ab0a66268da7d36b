// Command ingest fetches daily bars from a market data source, cleans
// them, and loads them into storage.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock-backtest-lab/internal/config"
	"stock-backtest-lab/internal/domain"
	"stock-backtest-lab/internal/marketdata"
	"stock-backtest-lab/internal/observability"
	"stock-backtest-lab/internal/storage"
	chstore "stock-backtest-lab/internal/storage/clickhouse"
	"stock-backtest-lab/internal/storage/migrations"
	pgstore "stock-backtest-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Path to YAML config file")
	ticker := flag.String("ticker", "", "Ticker to ingest (required)")
	startDate := flag.String("start", "", "Start date YYYY-MM-DD (required for yahoo)")
	endDate := flag.String("end", "", "End date YYYY-MM-DD, inclusive (default today)")
	source := flag.String("source", "", "Data source: yahoo, csv")
	csvPath := flag.String("csv", "", "CSV file path for csv source")

	// Storage
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string")

	// Observability
	metricsAddr := flag.String("metrics-addr", "", "Prometheus metrics HTTP address (empty to disable)")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[ingest] ", log.LstdFlags)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	// Flags override config
	if *ticker != "" {
		cfg.Backtest.Ticker = *ticker
	}
	if *source != "" {
		cfg.Ingest.Source = *source
	}
	if *csvPath != "" {
		cfg.Ingest.Source = "csv"
		cfg.Ingest.CSVPath = *csvPath
	}
	if *postgresDSN != "" {
		cfg.Storage.Backend = "postgres"
		cfg.Storage.PostgresDSN = *postgresDSN
	}
	if *clickhouseDSN != "" {
		cfg.Storage.Backend = "clickhouse"
		cfg.Storage.ClickhouseDSN = *clickhouseDSN
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}

	if cfg.Backtest.Ticker == "" {
		logger.Fatal("--ticker is required")
	}
	if cfg.Storage.Backend == "memory" {
		logger.Fatal("ingest requires --postgres-dsn or --clickhouse-dsn")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	// Start metrics server if enabled
	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
			logger.Printf("Starting metrics server on %s", cfg.MetricsAddr)
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("metrics server: %v", err)
			}
		}()
	}

	// Create the bar store
	var barStore storage.BarStore

	switch cfg.Storage.Backend {
	case "postgres":
		pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			logger.Fatalf("connect to postgres: %v", err)
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			logger.Fatalf("run postgres migrations: %v", err)
		}
		barStore = pgstore.NewBarStore(pool)

	case "clickhouse":
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.Storage.ClickhouseDSN)
		if err != nil {
			logger.Fatalf("run clickhouse migrations: %v", err)
		}
		defer conn.Close()
		barStore = chstore.NewBarStore(conn)
	}

	// Fetch raw bars
	raw, err := fetchBars(ctx, logger, cfg, *startDate, *endDate)
	if err != nil {
		observability.RecordFetchError(cfg.Ingest.Source)
		logger.Fatalf("fetch bars: %v", err)
	}
	observability.RecordBarsFetched(cfg.Ingest.Source, len(raw))

	// Clean before storage
	cleaned, err := marketdata.Clean(raw)
	if err != nil {
		logger.Fatalf("clean bars: %v", err)
	}
	if dropped := len(raw) - len(cleaned); dropped > 0 {
		observability.DefaultMetrics.BarsDroppedDirty.Add(float64(dropped))
		logger.Printf("Dropped %d unusable bars", dropped)
	}

	// Store
	if err := barStore.InsertBulk(ctx, cleaned); err != nil {
		logger.Fatalf("store bars: %v", err)
	}
	observability.RecordBarsStored(len(cleaned))

	logger.Printf("Ingested %d bars for %s (%s to %s)",
		len(cleaned), cfg.Backtest.Ticker,
		cleaned[0].Date.Format("2006-01-02"),
		cleaned[len(cleaned)-1].Date.Format("2006-01-02"))
}

// fetchBars loads raw bars from the configured source.
func fetchBars(ctx context.Context, logger *log.Logger, cfg *config.Config, startDate, endDate string) ([]*domain.PriceBar, error) {
	switch cfg.Ingest.Source {
	case "csv":
		logger.Printf("Loading bars from %s", cfg.Ingest.CSVPath)
		return marketdata.LoadCSVFile(cfg.Ingest.CSVPath, cfg.Backtest.Ticker)

	case "yahoo":
		if startDate == "" {
			return nil, fmt.Errorf("--start is required for yahoo source")
		}
		start, err := time.ParseInLocation("2006-01-02", startDate, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse --start: %w", err)
		}
		end := time.Now().UTC()
		if endDate != "" {
			end, err = time.ParseInLocation("2006-01-02", endDate, time.UTC)
			if err != nil {
				return nil, fmt.Errorf("parse --end: %w", err)
			}
		}

		logger.Printf("Fetching %s from yahoo (%s to %s)",
			cfg.Backtest.Ticker, start.Format("2006-01-02"), end.Format("2006-01-02"))

		fetcher := marketdata.NewYahooFetcher()
		fetchStart := time.Now()
		bars, err := fetcher.FetchDailyBars(ctx, cfg.Backtest.Ticker, start, end)
		observability.RecordFetchLatency(fetcher.Name(), time.Since(fetchStart).Seconds())
		return bars, err

	default:
		return nil, fmt.Errorf("unknown source: %s", cfg.Ingest.Source)
	}
}
