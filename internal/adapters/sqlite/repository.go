package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"swingbot/internal/domain"
	"swingbot/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements ports.ResultRepository using SQLite.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository opens (or creates) the results database and verifies the schema.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("%w: logger is required for SQLite repository", ports.ErrConfigurationError)
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/backtests.db"
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// WAL mode for better concurrency between the batch writers.
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		err = fmt.Errorf("%w: failed to open database at '%s': %w", ports.ErrDBConnection, dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("%w: failed to ping database at '%s': %w", ports.ErrDBConnection, dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// The Go driver benefits from a single connection; SQLite serializes anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	repo := &Repository{db: db, logger: cfg.Logger}
	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	cfg.Logger.Info(context.Background(), "SQLite results database ready", map[string]interface{}{"path": dbPath})
	return repo, nil
}

func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS backtest_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		asset TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		initial_capital REAL NOT NULL,
		final_equity REAL NOT NULL,
		total_return REAL NOT NULL,
		total_trades INTEGER NOT NULL,
		winning_trades INTEGER NOT NULL,
		losing_trades INTEGER NOT NULL,
		win_rate REAL NOT NULL,
		gross_profit REAL NOT NULL,
		gross_loss REAL NOT NULL,
		profit_factor REAL NOT NULL,
		average_win REAL NOT NULL,
		average_loss REAL NOT NULL,
		max_drawdown REAL NOT NULL,
		sharpe_like REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS backtest_trades (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES backtest_runs(id),
		position_id INTEGER NOT NULL,
		symbol TEXT NOT NULL,
		entry_time TIMESTAMP NOT NULL,
		exit_time TIMESTAMP NOT NULL,
		entry_price REAL NOT NULL,
		exit_price REAL NOT NULL,
		quantity REAL NOT NULL,
		pnl REAL NOT NULL,
		pnl_pct REAL NOT NULL,
		close_reason TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_backtest_runs_asset ON backtest_runs (asset, created_at);
	CREATE INDEX IF NOT EXISTS idx_backtest_trades_run ON backtest_trades (run_id, entry_time);
	`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%w: schema initialization: %w", ports.ErrQueryFailed, err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Info(context.Background(), "Closing SQLite database connection")
		return r.db.Close()
	}
	return nil
}

// SaveRun persists the run summary and all its trades in one transaction, so
// a run is either fully stored or not at all.
func (r *Repository) SaveRun(ctx context.Context, run *domain.BacktestRun) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: begin transaction: %w", ports.ErrQueryFailed, err)
	}
	defer tx.Rollback()

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	const runQuery = `
	INSERT INTO backtest_runs (asset, created_at, initial_capital, final_equity, total_return,
	                           total_trades, winning_trades, losing_trades, win_rate,
	                           gross_profit, gross_loss, profit_factor, average_win, average_loss,
	                           max_drawdown, sharpe_like)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	s := run.Summary
	result, err := tx.ExecContext(ctx, runQuery,
		run.Asset, createdAt, s.InitialCapital, s.FinalEquity, s.TotalReturn,
		s.TotalTrades, s.WinningTrades, s.LosingTrades, s.WinRate,
		s.GrossProfit, s.GrossLoss, s.ProfitFactor, s.AverageWin, s.AverageLoss,
		s.MaxDrawdown, s.SharpeLike)
	if err != nil {
		return 0, fmt.Errorf("%w: insert run for asset %s: %w", ports.ErrQueryFailed, run.Asset, err)
	}
	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: last insert ID for asset %s: %w", ports.ErrQueryFailed, run.Asset, err)
	}

	const tradeQuery = `
	INSERT INTO backtest_trades (run_id, position_id, symbol, entry_time, exit_time,
	                             entry_price, exit_price, quantity, pnl, pnl_pct, close_reason)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	for _, trade := range run.Trades {
		if _, err := tx.ExecContext(ctx, tradeQuery,
			runID, trade.PositionID, trade.Symbol, trade.EntryTime, trade.ExitTime,
			trade.EntryPrice, trade.ExitPrice, trade.Quantity, trade.PNL, trade.PNLPct,
			string(trade.CloseReason)); err != nil {
			return 0, fmt.Errorf("%w: insert trade for run %d: %w", ports.ErrQueryFailed, runID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit run for asset %s: %w", ports.ErrQueryFailed, run.Asset, err)
	}

	run.ID = runID
	run.CreatedAt = createdAt
	r.logger.Debug(ctx, "Backtest run persisted", map[string]interface{}{
		"runID": runID, "asset": run.Asset, "trades": len(run.Trades),
	})
	return runID, nil
}

// FindRuns retrieves stored run summaries, newest first. Trades are not
// loaded; use FindTradesByRun for a specific run.
func (r *Repository) FindRuns(ctx context.Context) ([]*domain.BacktestRun, error) {
	const query = `
	SELECT id, asset, created_at, initial_capital, final_equity, total_return,
	       total_trades, winning_trades, losing_trades, win_rate,
	       gross_profit, gross_loss, profit_factor, average_win, average_loss,
	       max_drawdown, sharpe_like
	FROM backtest_runs
	ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: query runs: %w", ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	runs := make([]*domain.BacktestRun, 0)
	for rows.Next() {
		run := &domain.BacktestRun{}
		s := &run.Summary
		if err := rows.Scan(
			&run.ID, &run.Asset, &run.CreatedAt, &s.InitialCapital, &s.FinalEquity, &s.TotalReturn,
			&s.TotalTrades, &s.WinningTrades, &s.LosingTrades, &s.WinRate,
			&s.GrossProfit, &s.GrossLoss, &s.ProfitFactor, &s.AverageWin, &s.AverageLoss,
			&s.MaxDrawdown, &s.SharpeLike); err != nil {
			return nil, fmt.Errorf("%w: scan run: %w", ports.ErrQueryFailed, err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate runs: %w", ports.ErrQueryFailed, err)
	}
	return runs, nil
}

// FindTradesByRun retrieves the trades of one run in entry-time order.
func (r *Repository) FindTradesByRun(ctx context.Context, runID int64) ([]*domain.Trade, error) {
	const query = `
	SELECT id, position_id, symbol, entry_time, exit_time,
	       entry_price, exit_price, quantity, pnl, pnl_pct, close_reason
	FROM backtest_trades
	WHERE run_id = ?
	ORDER BY entry_time ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("%w: query trades for run %d: %w", ports.ErrQueryFailed, runID, err)
	}
	defer rows.Close()

	trades := make([]*domain.Trade, 0)
	for rows.Next() {
		trade := &domain.Trade{}
		var closeReason string
		if err := rows.Scan(
			&trade.ID, &trade.PositionID, &trade.Symbol, &trade.EntryTime, &trade.ExitTime,
			&trade.EntryPrice, &trade.ExitPrice, &trade.Quantity, &trade.PNL, &trade.PNLPct,
			&closeReason); err != nil {
			return nil, fmt.Errorf("%w: scan trade: %w", ports.ErrQueryFailed, err)
		}
		trade.CloseReason = domain.CloseReason(closeReason)
		trades = append(trades, trade)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate trades: %w", ports.ErrQueryFailed, err)
	}
	return trades, nil
}
