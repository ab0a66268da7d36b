// Command backtest replays stored daily bars through a moving-average
// crossover strategy and prints the run results.
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
	"time"

	"stock-backtest-lab/internal/backtest"
	"stock-backtest-lab/internal/config"
	"stock-backtest-lab/internal/domain"
	"stock-backtest-lab/internal/marketdata"
	"stock-backtest-lab/internal/observability"
	"stock-backtest-lab/internal/storage"
	chstore "stock-backtest-lab/internal/storage/clickhouse"
	"stock-backtest-lab/internal/storage/memory"
	"stock-backtest-lab/internal/storage/migrations"
	pgstore "stock-backtest-lab/internal/storage/postgres"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Path to YAML config file")
	ticker := flag.String("ticker", "", "Ticker to backtest (required unless set in config)")
	initialCash := flag.Float64("initial-cash", 0, "Starting cash balance")
	shortWindow := flag.Int("short-window", 0, "Short moving average window (days)")
	longWindow := flag.Int("long-window", 0, "Long moving average window (days)")
	quantity := flag.Int64("quantity", 0, "Fixed order size (shares)")
	riskFreeRate := flag.Float64("risk-free-rate", -1, "Annual risk-free rate for Sharpe")
	confidence := flag.Float64("confidence", 0, "VaR confidence level")

	// Storage
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string (bars only)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage")
	csvPath := flag.String("csv", "", "Load bars from a CSV file (implies --use-memory)")

	// Output
	outputJSON := flag.Bool("json", false, "Output as JSON")
	persistResult := flag.Bool("persist", false, "Persist trades and snapshots to storage")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[backtest] ", log.LstdFlags)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	// Flags override config
	if *ticker != "" {
		cfg.Backtest.Ticker = *ticker
	}
	if *initialCash > 0 {
		cfg.Backtest.InitialCash = *initialCash
	}
	if *shortWindow > 0 {
		cfg.Backtest.ShortWindow = *shortWindow
	}
	if *longWindow > 0 {
		cfg.Backtest.LongWindow = *longWindow
	}
	if *quantity > 0 {
		cfg.Backtest.Quantity = *quantity
	}
	if *riskFreeRate >= 0 {
		cfg.Backtest.RiskFreeRate = *riskFreeRate
	}
	if *confidence > 0 {
		cfg.Backtest.Confidence = *confidence
	}
	if *postgresDSN != "" {
		cfg.Storage.Backend = "postgres"
		cfg.Storage.PostgresDSN = *postgresDSN
	}
	if *clickhouseDSN != "" {
		cfg.Storage.ClickhouseDSN = *clickhouseDSN
	}
	if *useMemory || *csvPath != "" {
		cfg.Storage.Backend = "memory"
	}

	if cfg.Backtest.Ticker == "" {
		logger.Fatal("--ticker is required")
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

	// Create stores
	var barStore storage.BarStore = memory.NewBarStore()
	var tradeStore storage.TradeStore = memory.NewTradeStore()
	var snapshotStore storage.SnapshotStore = memory.NewSnapshotStore()

	switch cfg.Storage.Backend {
	case "memory":
		if *csvPath == "" {
			logger.Fatal("--csv is required with in-memory storage")
		}
		bars, err := marketdata.LoadCSVFile(*csvPath, cfg.Backtest.Ticker)
		if err != nil {
			logger.Fatalf("load csv: %v", err)
		}
		cleaned, err := marketdata.Clean(bars)
		if err != nil {
			logger.Fatalf("clean bars: %v", err)
		}
		if err := barStore.InsertBulk(ctx, cleaned); err != nil {
			logger.Fatalf("load bars into memory store: %v", err)
		}
		logger.Printf("Loaded %d bars from %s", len(cleaned), *csvPath)

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
		tradeStore = pgstore.NewTradeStore(pool)
		snapshotStore = pgstore.NewSnapshotStore(pool)

		// When ClickHouse is configured the bars come from there instead.
		if cfg.Storage.ClickhouseDSN != "" {
			conn, err := chstore.NewConn(ctx, cfg.Storage.ClickhouseDSN)
			if err != nil {
				logger.Fatalf("connect to clickhouse: %v", err)
			}
			defer conn.Close()
			barStore = chstore.NewBarStore(conn)
		}

	case "clickhouse":
		conn, err := chstore.NewConn(ctx, cfg.Storage.ClickhouseDSN)
		if err != nil {
			logger.Fatalf("connect to clickhouse: %v", err)
		}
		defer conn.Close()
		barStore = chstore.NewBarStore(conn)
	}

	// Create runner; persistence stays off unless requested.
	opts := backtest.RunnerOptions{BarStore: barStore}
	if *persistResult {
		opts.TradeStore = tradeStore
		opts.SnapshotStore = snapshotStore
	}
	runner := backtest.NewRunner(opts)

	strategyConfig := domain.StrategyConfig{
		StrategyType: domain.StrategyTypeMACrossover,
		ShortWindow:  &cfg.Backtest.ShortWindow,
		LongWindow:   &cfg.Backtest.LongWindow,
		Quantity:     &cfg.Backtest.Quantity,
	}

	logger.Printf("Running backtest: ticker=%s short=%d long=%d quantity=%d cash=%.2f",
		cfg.Backtest.Ticker, cfg.Backtest.ShortWindow, cfg.Backtest.LongWindow,
		cfg.Backtest.Quantity, cfg.Backtest.InitialCash)

	start := time.Now()
	report, err := runner.Run(ctx, backtest.RunRequest{
		Ticker:       cfg.Backtest.Ticker,
		InitialCash:  cfg.Backtest.InitialCash,
		Strategy:     strategyConfig,
		RiskFreeRate: cfg.Backtest.RiskFreeRate,
		Confidence:   cfg.Backtest.Confidence,
	})
	if err != nil {
		observability.RecordRun("error", time.Since(start).Seconds())
		logger.Fatalf("backtest failed: %v", err)
	}
	observability.RecordRun("success", time.Since(start).Seconds())
	recordRunMetrics(report.Results)

	// Output result
	if *outputJSON {
		output, _ := json.MarshalIndent(report, "", "  ")
		fmt.Println(string(output))
	} else {
		printReport(report)
	}
}

// recordRunMetrics feeds the run counters into the default metrics.
func recordRunMetrics(results *backtest.Results) {
	observability.DefaultMetrics.BarsReplayed.Add(float64(results.BarCount))
	for _, snap := range results.Snapshots {
		observability.RecordSignal(string(snap.Signal.Action))
	}
	for _, trade := range results.Trades {
		observability.RecordOrderExecuted(string(trade.Action))
	}
	for i := 0; i < results.RejectedOrders; i++ {
		observability.RecordOrderRejected("ledger")
	}
}

// printReport outputs a human-readable run summary.
func printReport(report *backtest.RunReport) {
	r := report.Results

	fmt.Println()
	fmt.Println("=== Backtest Result ===")
	fmt.Printf("Run ID:           %s\n", r.RunID)
	fmt.Printf("Strategy:         %s\n", r.StrategyID)
	fmt.Printf("Ticker:           %s\n", r.Ticker)
	fmt.Printf("Trading Days:     %d\n", r.BarCount)
	fmt.Printf("Signals:          %d\n", r.SignalCount)
	fmt.Printf("Executed Orders:  %d\n", r.ExecutedOrders)
	fmt.Printf("Rejected Orders:  %d\n", r.RejectedOrders)
	fmt.Printf("Final Cash:       %.2f\n", r.FinalCash)
	fmt.Printf("Final Value:      %.2f\n", r.FinalValue)

	if report.Risk != nil {
		fmt.Println()
		fmt.Println("=== Risk ===")
		fmt.Printf("Annualized Return:     %.4f\n", report.Risk.AnnualizedReturn)
		fmt.Printf("Annualized Volatility: %.4f\n", report.Risk.AnnualizedVolatility)
		fmt.Printf("Sharpe Ratio:          %.4f\n", report.Risk.SharpeRatio)
		fmt.Printf("Max Drawdown:          %.4f\n", report.Risk.MaxDrawdown)
		fmt.Printf("Value at Risk:         %.4f\n", report.Risk.ValueAtRisk)
	}

	if len(r.Trades) > 0 {
		fmt.Println()
		fmt.Println("=== Trades ===")
		for _, t := range r.Trades {
			fmt.Printf("%3d  %s  %-4s %6d @ %10.4f  cash %+.2f\n",
				t.Seq, t.Date.Format("2006-01-02"), t.Action, t.Quantity, t.Price, t.CashDelta)
		}
	}
}
