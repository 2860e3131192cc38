package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"swingbot/internal/adapters/logger" // For LogLevel parsing
)

// Config holds all application configuration.
type Config struct {
	// Simulation Parameters
	InitialCapital      float64 // Starting cash per asset run
	FeeRate             float64 // Per-side transaction fee (e.g., 0.001 for 0.1%)
	StopLossPct         float64 // Stop distance below entry (e.g., 0.05 for 5%)
	TakeProfitPct       float64 // Target distance above entry (e.g., 0.10 for 10%)
	MaxPositions        int     // Concurrent open positions per asset
	ConfidenceThreshold float64 // Entry requires confidence strictly above this
	WarmupWindow        int     // Steps before signals are consulted

	// Pivot Parameters
	ZigzagDeviationPct float64 // Reversal threshold in percent units (3.0 = 3%)

	// Crossover Signal Parameters
	SignalFastPeriod    int
	SignalSlowPeriod    int
	SignalRSIPeriod     int
	SignalRSIOverbought float64
	SignalRSIOversold   float64

	// Batch
	ScenarioPath string // YAML scenario describing the asset batch
	Workers      int    // Concurrent asset runs; scenario value wins if set

	// Binance API (fetch command only; kline endpoints are public)
	APIKey    string
	SecretKey string
	IsTestnet bool

	// Database
	DBPath string

	// Logging
	LogLevel logger.LogLevel
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var err error
	var errs []string // Collect validation errors

	// Simulation Parameters
	cfg.InitialCapital, err = getEnvAsFloatRequired("INITIAL_CAPITAL", 10000.0)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid INITIAL_CAPITAL: %v", err))
	} else if cfg.InitialCapital <= 0 {
		errs = append(errs, "INITIAL_CAPITAL must be positive")
	}

	cfg.FeeRate, err = getEnvAsFloatRequired("FEE_RATE", 0.001)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid FEE_RATE: %v", err))
	} else if cfg.FeeRate < 0 || cfg.FeeRate >= 1.0 {
		errs = append(errs, "FEE_RATE must be in [0.0, 1.0)")
	}

	cfg.StopLossPct, err = getEnvAsFloatRequired("STOP_LOSS", 0.05)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid STOP_LOSS: %v", err))
	} else if cfg.StopLossPct <= 0 || cfg.StopLossPct >= 1.0 {
		errs = append(errs, "STOP_LOSS must be between 0.0 and 1.0 (exclusive)")
	}

	cfg.TakeProfitPct, err = getEnvAsFloatRequired("TAKE_PROFIT", 0.10)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid TAKE_PROFIT: %v", err))
	} else if cfg.TakeProfitPct <= 0 {
		errs = append(errs, "TAKE_PROFIT must be positive")
	}

	cfg.MaxPositions, err = getEnvAsIntRequired("MAX_POSITIONS", 4)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid MAX_POSITIONS: %v", err))
	} else if cfg.MaxPositions <= 0 {
		errs = append(errs, "MAX_POSITIONS must be positive")
	}

	cfg.ConfidenceThreshold, err = getEnvAsFloatRequired("CONFIDENCE_THRESHOLD", 0.6)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid CONFIDENCE_THRESHOLD: %v", err))
	} else if cfg.ConfidenceThreshold <= 0 || cfg.ConfidenceThreshold > 1.0 {
		errs = append(errs, "CONFIDENCE_THRESHOLD must be in (0.0, 1.0]")
	}

	cfg.WarmupWindow, err = getEnvAsIntRequired("WARMUP_WINDOW", 5)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid WARMUP_WINDOW: %v", err))
	} else if cfg.WarmupWindow < 0 {
		errs = append(errs, "WARMUP_WINDOW cannot be negative")
	}

	// Pivot Parameters
	cfg.ZigzagDeviationPct, err = getEnvAsFloatRequired("ZIGZAG_DEVIATION", 3.0)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid ZIGZAG_DEVIATION: %v", err))
	} else if cfg.ZigzagDeviationPct <= 0 {
		errs = append(errs, "ZIGZAG_DEVIATION must be positive")
	}

	// Crossover Signal Parameters (using defaults if not set)
	cfg.SignalFastPeriod = getEnvAsInt("SIGNAL_FAST_PERIOD", 8)
	cfg.SignalSlowPeriod = getEnvAsInt("SIGNAL_SLOW_PERIOD", 21)
	cfg.SignalRSIPeriod = getEnvAsInt("SIGNAL_RSI_PERIOD", 14)
	cfg.SignalRSIOverbought = getEnvAsFloat("SIGNAL_RSI_OVERBOUGHT", 70.0)
	cfg.SignalRSIOversold = getEnvAsFloat("SIGNAL_RSI_OVERSOLD", 30.0)

	if cfg.SignalFastPeriod <= 0 || cfg.SignalSlowPeriod <= 0 || cfg.SignalRSIPeriod <= 0 {
		errs = append(errs, "signal periods must be positive")
	}
	if cfg.SignalFastPeriod >= cfg.SignalSlowPeriod {
		errs = append(errs, "SIGNAL_FAST_PERIOD must be less than SIGNAL_SLOW_PERIOD")
	}
	if cfg.SignalRSIOverbought <= cfg.SignalRSIOversold || cfg.SignalRSIOverbought > 100 || cfg.SignalRSIOversold < 0 {
		errs = append(errs, "invalid RSI thresholds (Overbought must be > Oversold, between 0-100)")
	}

	// Batch
	cfg.ScenarioPath = getEnv("SCENARIO_PATH", "./scenarios/default.yaml")
	cfg.Workers = getEnvAsInt("WORKERS", 4)
	if cfg.Workers <= 0 {
		errs = append(errs, "WORKERS must be positive")
	}

	// Binance API
	cfg.APIKey = getEnv("BINANCE_API_KEY", "")
	cfg.SecretKey = getEnv("BINANCE_API_SECRET", "")
	cfg.IsTestnet = getEnvAsBool("IS_TESTNET", false)

	// Database
	cfg.DBPath = getEnv("DB_PATH", "./data/backtests.db")
	if cfg.DBPath == "" {
		errs = append(errs, "DB_PATH must be set")
	}

	// Logging
	logLevelStr := getEnv("LOG_LEVEL", "INFO")
	cfg.LogLevel = logger.ParseLevel(logLevelStr)

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsIntRequired(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloatRequired(key string, defaultValue float64) (float64, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
