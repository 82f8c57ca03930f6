package apperrors

import "errors"

// Domain entity errors represent missing entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrUserNotFound indicates that a user with the given ID does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrProfileNotFound indicates that a user has no profile record.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrHoldingNotFound indicates that a holding does not exist or belongs to a different user.
	ErrHoldingNotFound = errors.New("holding not found")

	// ErrTickerNotFound indicates that the provider reports the ticker as unknown.
	// This is a normal negative result, not a system failure.
	ErrTickerNotFound = errors.New("ticker not found")

	// ErrTranscriptNotFound indicates no transcript exists for the requested
	// quarter or any quarter within the fallback window.
	ErrTranscriptNotFound = errors.New("transcript not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors are rejected before any I/O and are never retried.
var (
	// ErrInvalidTicker indicates a ticker that fails the format gate
	// (empty, non-alphanumeric, or longer than 10 characters).
	ErrInvalidTicker = errors.New("invalid ticker format")

	// ErrInvalidQuarter indicates a quarter label that is not "YYYYQ[1-4]".
	ErrInvalidQuarter = errors.New("invalid quarter format")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// Provider errors represent failures reported by the market-data provider.
// ErrProviderRateLimited must stay distinguishable from ErrTickerNotFound so
// callers can surface a retry signal instead of rejecting a valid ticker.
var (
	// ErrProviderRateLimited indicates the provider rejected the call because
	// its own rate limit was exceeded. Retryable by the caller; never retried here.
	ErrProviderRateLimited = errors.New("provider rate limit exceeded")

	// ErrProviderKeyMissing indicates the provider API key is not configured.
	// Fatal for the current operation, reported at first use.
	ErrProviderKeyMissing = errors.New("provider API key not configured")
)

// Operation failure errors represent system-level failures when retrieving or
// processing data. These indicate that an operation failed, but not due to
// missing entities or validation issues.
var (
	ErrFailedToRetrieveHoldings  = errors.New("failed to retrieve holdings")
	ErrFailedToRetrieveQuote     = errors.New("failed to retrieve quote")
	ErrFailedToRetrieveProfile   = errors.New("failed to retrieve profile")
	ErrFailedToAnalyzePortfolio  = errors.New("failed to analyze portfolio")
	ErrFailedToValidateTicker    = errors.New("failed to validate ticker")
	ErrFailedToSummarize         = errors.New("failed to summarize transcript")
	ErrFailedToRetrieveUniverse  = errors.New("failed to load ticker universe")
	ErrFailedToPersistAnalysis   = errors.New("failed to persist analysis")
	ErrFailedToRetrieveAssetType = errors.New("failed to retrieve asset type")
)
