package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"swingbot/config"
	"swingbot/internal/adapters/logger"
	"swingbot/internal/adapters/sqlite"
)

func main() {
	tradesFor := flag.Int64("trades", 0, "print the trades of the given run ID instead of the run table")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	appLogger := logger.NewStdLogger(logger.LevelWarn)
	ctx := context.Background()

	repo, err := sqlite.NewRepository(sqlite.Config{DBPath: cfg.DBPath, Logger: appLogger})
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to open results database")
		os.Exit(1)
	}
	defer repo.Close()

	if *tradesFor > 0 {
		printTrades(ctx, repo, *tradesFor)
		return
	}
	printRuns(ctx, repo)
}

func printRuns(ctx context.Context, repo *sqlite.Repository) {
	runs, err := repo.FindRuns(ctx)
	if err != nil {
		log.Fatalf("Error loading runs: %v", err)
	}
	if len(runs) == 0 {
		fmt.Println("No stored runs. Run the backtest runner first.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "ID\tAsset\tWhen\tTrades\tWinRate\tReturn\tProfitFactor\tMaxDD\tSharpe\t")
	for _, run := range runs {
		s := run.Summary
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%.1f%%\t%.2f%%\t%.2f\t%.2f%%\t%.3f\t\n",
			run.ID,
			run.Asset,
			run.CreatedAt.Format("2006-01-02 15:04"),
			s.TotalTrades,
			s.WinRate*100,
			s.TotalReturn*100,
			s.ProfitFactor,
			s.MaxDrawdown*100,
			s.SharpeLike,
		)
	}
	w.Flush()
}

func printTrades(ctx context.Context, repo *sqlite.Repository, runID int64) {
	trades, err := repo.FindTradesByRun(ctx, runID)
	if err != nil {
		log.Fatalf("Error loading trades for run %d: %v", runID, err)
	}
	if len(trades) == 0 {
		fmt.Printf("No trades stored for run %d.\n", runID)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "Entry\tExit\tQty\tEntryPx\tExitPx\tPnL\tPnL%\tReason\t")
	for _, t := range trades {
		fmt.Fprintf(w, "%s\t%s\t%.0f\t%.2f\t%.2f\t%.2f\t%.2f%%\t%s\t\n",
			t.EntryTime.Format(time.DateTime),
			t.ExitTime.Format(time.DateTime),
			t.Quantity,
			t.EntryPrice,
			t.ExitPrice,
			t.PNL,
			t.PNLPct*100,
			t.CloseReason,
		)
	}
	w.Flush()
}
