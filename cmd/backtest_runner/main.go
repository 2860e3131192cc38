package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"swingbot/config"
	"swingbot/internal/adapters/logger"
	"swingbot/internal/adapters/sqlite"
	"swingbot/internal/app"
	"swingbot/internal/ports"
)

func main() {
	scenarioPath := flag.String("scenario", "", "path to the YAML scenario (overrides SCENARIO_PATH)")
	jsonLogs := flag.Bool("json", false, "emit structured JSON logs instead of plain text")
	noPersist := flag.Bool("no-persist", false, "skip writing results to the database")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	var appLogger ports.Logger
	if *jsonLogs {
		appLogger = logger.NewZeroLogger(os.Stderr, cfg.LogLevel.String())
	} else {
		appLogger = logger.NewStdLogger(cfg.LogLevel)
	}

	path := cfg.ScenarioPath
	if *scenarioPath != "" {
		path = *scenarioPath
	}
	scenario, err := config.LoadScenario(path)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to load scenario")
		os.Exit(1)
	}

	var repo ports.ResultRepository
	if !*noPersist {
		sqliteRepo, err := sqlite.NewRepository(sqlite.Config{DBPath: cfg.DBPath, Logger: appLogger})
		if err != nil {
			appLogger.Error(context.Background(), err, "FATAL: Failed to open results database")
			os.Exit(1)
		}
		defer sqliteRepo.Close()
		repo = sqliteRepo
	}

	service, err := app.NewBatchService(cfg, appLogger, repo)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to build batch service")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLogger.Info(ctx, "Received shutdown signal", map[string]interface{}{"signal": sig.String()})
		cancel()
	}()

	report, err := service.Run(ctx, scenario)
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Batch failed")
		os.Exit(1)
	}

	printReport(report)
	if report.Succeeded == 0 {
		os.Exit(1)
	}
}

func printReport(report *app.BatchReport) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "Asset\tTrades\tWinRate\tReturn\tProfitFactor\tMaxDD\tSharpe\t")
	for _, res := range report.Results {
		if res.Err != nil {
			fmt.Fprintf(w, "%s\tSKIPPED: %v\t\t\t\t\t\t\n", res.Asset, res.Err)
			continue
		}
		s := res.Run.Summary
		fmt.Fprintf(w, "%s\t%d\t%.1f%%\t%.2f%%\t%.2f\t%.2f%%\t%.3f\t\n",
			res.Asset,
			s.TotalTrades,
			s.WinRate*100,
			s.TotalReturn*100,
			s.ProfitFactor,
			s.MaxDrawdown*100,
			s.SharpeLike,
		)
	}
	w.Flush()
	fmt.Printf("\n%d succeeded, %d skipped\n", report.Succeeded, report.Skipped)
}
