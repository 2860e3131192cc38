package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"swingbot/config"
	"swingbot/internal/adapters/binanceclient"
	"swingbot/internal/adapters/logger"
	"swingbot/internal/marketdata/csvstore"
)

func main() {
	symbol := flag.String("symbol", "ETHUSDT", "symbol to fetch")
	interval := flag.String("interval", "1h", "kline interval (1m, 5m, 1h, 1d, ...)")
	months := flag.Int("months", 3, "how many months of history to fetch")
	out := flag.String("out", "", "output CSV path (default data/<symbol>_<interval>_<range>.csv)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	appLogger := logger.NewStdLogger(cfg.LogLevel)
	ctx := context.Background()

	client, err := binanceclient.New(binanceclient.Config{
		APIKey:     cfg.APIKey,
		SecretKey:  cfg.SecretKey,
		UseTestnet: cfg.IsTestnet,
		Logger:     appLogger,
	})
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize Binance client")
		os.Exit(1)
	}

	if err := client.Ping(ctx); err != nil {
		appLogger.Error(ctx, err, "FATAL: Exchange unreachable")
		os.Exit(1)
	}

	end := time.Now()
	start := end.AddDate(0, -*months, 0)

	appLogger.Info(ctx, "Fetching klines", map[string]interface{}{
		"symbol": *symbol, "interval": *interval,
		"start": start.Format(time.RFC3339), "end": end.Format(time.RFC3339),
	})
	klines, err := client.GetKlinesRange(ctx, *symbol, *interval, start, end)
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Error fetching klines")
		os.Exit(1)
	}

	filename := *out
	if filename == "" {
		filename = fmt.Sprintf("data/%s_%s_%s_to_%s.csv",
			*symbol, *interval, start.Format("20060102"), end.Format("20060102"))
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		appLogger.Error(ctx, err, "FATAL: Error creating output directory")
		os.Exit(1)
	}
	if err := csvstore.WriteKlines(klines, filename); err != nil {
		appLogger.Error(ctx, err, "FATAL: Error writing CSV")
		os.Exit(1)
	}

	appLogger.Info(ctx, "Saved klines", map[string]interface{}{
		"filename": filename, "count": len(klines),
	})
}
