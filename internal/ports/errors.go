package ports

import "errors"

// Standard application-level errors.
// Adapters should wrap underlying infrastructure errors with these standard errors.
//
// Business rejections (position cap reached, insufficient cash) are NOT
// errors: the ledger reports them as result values and the simulation
// continues. The sentinels below cover the error taxonomy proper: per-asset
// input-data problems, fatal configuration problems, and infrastructure
// failures.
var (
	// General Errors
	ErrUnknown            = errors.New("unknown error occurred")
	ErrNotFound           = errors.New("resource not found")
	ErrTimeout            = errors.New("operation timed out")
	ErrContextCanceled    = errors.New("operation canceled via context")
	ErrConfigurationError = errors.New("invalid or missing configuration")

	// Input-data errors: reported per asset, skip that asset, never fatal to a batch.
	ErrInsufficientData = errors.New("price series too short for simulation")
	ErrUnorderedSeries  = errors.New("price series timestamps are not strictly increasing")

	// Market-data retrieval errors
	ErrExchangeUnavailable = errors.New("exchange API is unavailable")
	ErrConnectionFailed    = errors.New("failed to connect to the exchange")
	ErrRateLimited         = errors.New("API rate limit exceeded")
	ErrInvalidRequest      = errors.New("invalid request parameters or format")

	// Database Specific Errors
	ErrDBConnection = errors.New("database connection error")
	ErrQueryFailed  = errors.New("database query failed")
)
