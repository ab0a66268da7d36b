// Command report renders a stored backtest run as Markdown, CSV, or JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"stock-backtest-lab/internal/config"
	"stock-backtest-lab/internal/observability"
	"stock-backtest-lab/internal/reporting"
	"stock-backtest-lab/internal/storage/migrations"
	pgstore "stock-backtest-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Path to YAML config file")
	runID := flag.String("run-id", "", "Run to report on")
	listRuns := flag.Bool("list", false, "List stored run IDs and exit")
	format := flag.String("format", "markdown", "Output format: markdown, csv-equity, csv-trades, json")
	outPath := flag.String("out", "", "Write output to file instead of stdout")
	riskFreeRate := flag.Float64("risk-free-rate", -1, "Annual risk-free rate for Sharpe")
	confidence := flag.Float64("confidence", 0, "VaR confidence level")

	// Storage
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[report] ", log.LstdFlags)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if *postgresDSN != "" {
		cfg.Storage.Backend = "postgres"
		cfg.Storage.PostgresDSN = *postgresDSN
	}
	if *riskFreeRate >= 0 {
		cfg.Backtest.RiskFreeRate = *riskFreeRate
	}
	if *confidence > 0 {
		cfg.Backtest.Confidence = *confidence
	}

	if cfg.Storage.PostgresDSN == "" {
		logger.Fatal("--postgres-dsn is required (runs are stored in postgres)")
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	// Connect storage
	pool, err := pgstore.NewPool(ctx, cfg.Storage.PostgresDSN)
	if err != nil {
		logger.Fatalf("connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		logger.Fatalf("run postgres migrations: %v", err)
	}

	tradeStore := pgstore.NewTradeStore(pool)
	snapshotStore := pgstore.NewSnapshotStore(pool)

	if *listRuns {
		ids, err := snapshotStore.ListRunIDs(ctx)
		if err != nil {
			logger.Fatalf("list runs: %v", err)
		}
		if len(ids) == 0 {
			logger.Print("No stored runs")
			return
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return
	}

	if *runID == "" {
		logger.Fatal("--run-id is required (or use --list)")
	}

	// Generate the report
	generator := reporting.NewGenerator(tradeStore, snapshotStore)
	report, err := generator.Generate(ctx, *runID, cfg.Backtest.RiskFreeRate, cfg.Backtest.Confidence)
	if err != nil {
		logger.Fatalf("generate report: %v", err)
	}
	observability.RecordReportGenerated()

	// Render
	var output string
	switch *format {
	case "markdown":
		output = reporting.RenderMarkdown(report)
	case "csv-equity":
		output = reporting.RenderEquityCSV(report.EquityCurve)
	case "csv-trades":
		output = reporting.RenderTradesCSV(report.Trades)
	case "json":
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			logger.Fatalf("marshal report: %v", err)
		}
		output = string(data) + "\n"
	default:
		logger.Fatalf("unknown format: %s", *format)
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, []byte(output), 0o644); err != nil {
			logger.Fatalf("write output: %v", err)
		}
		logger.Printf("Wrote %s report to %s", *format, *outPath)
		return
	}
	fmt.Print(output)
}
