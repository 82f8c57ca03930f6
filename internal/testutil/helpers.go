package testutil

import (
	"database/sql"
	"testing"

	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/repository"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/service"
)

// NewTestMarketDataService wires a market data service against the test
// database and the given mock provider.
func NewTestMarketDataService(t *testing.T, db *sql.DB, provider *MockProviderClient) *service.MarketDataService {
	t.Helper()

	quoteRepo := repository.NewStockQuoteRepository(db)
	return service.NewMarketDataService(quoteRepo, provider)
}

// NewTestTickerService wires a ticker validation service with no universe
// file, so validation falls through to the mock provider.
func NewTestTickerService(t *testing.T, db *sql.DB, provider *MockProviderClient) *service.TickerService {
	t.Helper()

	return service.NewTickerService(NewTestMarketDataService(t, db, provider), "", service.UniverseModeEnforce)
}

// NewTestHoldingsService wires a holdings service against the test database.
func NewTestHoldingsService(t *testing.T, db *sql.DB, provider *MockProviderClient) *service.HoldingsService {
	t.Helper()

	holdingRepo := repository.NewHoldingRepository(db)
	return service.NewHoldingsService(holdingRepo, NewTestTickerService(t, db, provider))
}

// NewTestSystemService wires a system service against the test database.
func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// NewTestProfileService wires a profile service against the test database.
func NewTestProfileService(t *testing.T, db *sql.DB) *service.ProfileService {
	t.Helper()

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	return service.NewProfileService(userRepo, profileRepo)
}

// NewTestAnalysisService wires an analysis service against the test database
// and the given mock provider.
func NewTestAnalysisService(t *testing.T, db *sql.DB, provider *MockProviderClient) *service.AnalysisService {
	t.Helper()

	holdingRepo := repository.NewHoldingRepository(db)
	quoteRepo := repository.NewStockQuoteRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	return service.NewAnalysisService(holdingRepo, quoteRepo, profileRepo, NewTestMarketDataService(t, db, provider))
}

// NewTestTranscriptService wires a transcript service against the test
// database and the given mock provider.
func NewTestTranscriptService(t *testing.T, db *sql.DB, provider *MockProviderClient) *service.TranscriptService {
	t.Helper()

	transcriptRepo := repository.NewTranscriptRepository(db)
	holdingRepo := repository.NewHoldingRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	return service.NewTranscriptService(transcriptRepo, holdingRepo, profileRepo, provider)
}
