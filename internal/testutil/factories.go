package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/model"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/repository"
)

// MakeID generates a UUID string for test entities.
func MakeID() string {
	return uuid.New().String()
}

// UserBuilder provides a fluent interface for creating test users with their
// profile row.
//
// Example usage:
//
//	user := testutil.NewUser().WithAge(60).Build(t, db)
type UserBuilder struct {
	ID                 string
	Age                int
	Income             float64
	RiskTolerance      string
	RiskAssessmentMode string
	RetirementYears    int
	ObligationsAmount  float64
	AIAnalysis         string
}

// NewUser creates a UserBuilder with sensible defaults: a 35-year-old
// moderate manual-mode investor, 30 years from retirement.
func NewUser() *UserBuilder {
	return &UserBuilder{
		ID:                 MakeID(),
		Age:                35,
		Income:             85000,
		RiskTolerance:      "moderate",
		RiskAssessmentMode: "manual",
		RetirementYears:    30,
		ObligationsAmount:  1500,
		AIAnalysis:         "test profile narrative",
	}
}

// WithID sets a custom ID.
func (b *UserBuilder) WithID(id string) *UserBuilder {
	b.ID = id
	return b
}

// WithAge sets a custom age.
func (b *UserBuilder) WithAge(age int) *UserBuilder {
	b.Age = age
	return b
}

// WithIncome sets a custom income.
func (b *UserBuilder) WithIncome(income float64) *UserBuilder {
	b.Income = income
	return b
}

// WithRiskTolerance sets a custom risk tolerance.
func (b *UserBuilder) WithRiskTolerance(tolerance string) *UserBuilder {
	b.RiskTolerance = tolerance
	return b
}

// WithRiskAssessmentMode sets a custom risk assessment mode.
func (b *UserBuilder) WithRiskAssessmentMode(mode string) *UserBuilder {
	b.RiskAssessmentMode = mode
	return b
}

// WithRetirementYears sets custom years until retirement.
func (b *UserBuilder) WithRetirementYears(years int) *UserBuilder {
	b.RetirementYears = years
	return b
}

// WithObligationsAmount sets custom monthly obligations.
func (b *UserBuilder) WithObligationsAmount(amount float64) *UserBuilder {
	b.ObligationsAmount = amount
	return b
}

// Build persists the user and an associated profile row.
func (b *UserBuilder) Build(t *testing.T, db *sql.DB) model.User {
	t.Helper()

	now := time.Now().UTC()
	user := model.User{
		ID:                 b.ID,
		Age:                b.Age,
		Income:             b.Income,
		RiskTolerance:      b.RiskTolerance,
		RiskAssessmentMode: b.RiskAssessmentMode,
		RetirementYears:    b.RetirementYears,
		ObligationsAmount:  b.ObligationsAmount,
		CreatedAt:          now,
	}

	userRepo := repository.NewUserRepository(db)
	if err := userRepo.InsertUser(context.Background(), &user); err != nil {
		t.Fatalf("Failed to insert test user: %v", err)
	}

	profileRepo := repository.NewProfileRepository(db)
	profile := model.UserProfile{
		UserID:     user.ID,
		AIAnalysis: b.AIAnalysis,
		CreatedAt:  now,
	}
	if err := profileRepo.Insert(context.Background(), &profile); err != nil {
		t.Fatalf("Failed to insert test profile: %v", err)
	}

	return user
}

// HoldingBuilder provides a fluent interface for creating test holdings.
type HoldingBuilder struct {
	ID        string
	UserID    string
	Ticker    string
	Shares    float64
	AvgPrice  float64
	AssetType string
}

// NewHolding creates a HoldingBuilder with sensible defaults.
func NewHolding(userID string) *HoldingBuilder {
	return &HoldingBuilder{
		ID:       MakeID(),
		UserID:   userID,
		Ticker:   "AAPL",
		Shares:   10,
		AvgPrice: 150,
	}
}

// WithTicker sets a custom ticker.
func (b *HoldingBuilder) WithTicker(ticker string) *HoldingBuilder {
	b.Ticker = ticker
	return b
}

// WithShares sets a custom share count.
func (b *HoldingBuilder) WithShares(shares float64) *HoldingBuilder {
	b.Shares = shares
	return b
}

// WithAvgPrice sets a custom average price.
func (b *HoldingBuilder) WithAvgPrice(price float64) *HoldingBuilder {
	b.AvgPrice = price
	return b
}

// WithAssetType sets a custom asset type.
func (b *HoldingBuilder) WithAssetType(assetType string) *HoldingBuilder {
	b.AssetType = assetType
	return b
}

// Build persists the holding.
func (b *HoldingBuilder) Build(t *testing.T, db *sql.DB) model.Holding {
	t.Helper()

	holding := model.Holding{
		ID:        b.ID,
		UserID:    b.UserID,
		Ticker:    b.Ticker,
		Shares:    b.Shares,
		AvgPrice:  b.AvgPrice,
		AssetType: b.AssetType,
	}

	repo := repository.NewHoldingRepository(db)
	if err := repo.Insert(context.Background(), &holding); err != nil {
		t.Fatalf("Failed to insert test holding: %v", err)
	}

	return holding
}

// QuoteBuilder provides a fluent interface for creating cached quote rows.
type QuoteBuilder struct {
	Ticker      string
	Price       *float64
	Sector      string
	AssetType   string
	LastUpdated *time.Time
}

// NewQuote creates a QuoteBuilder with a recently refreshed default quote.
func NewQuote(ticker string) *QuoteBuilder {
	price := 100.0
	updated := time.Now().UTC()
	return &QuoteBuilder{
		Ticker:      ticker,
		Price:       &price,
		Sector:      "Technology",
		AssetType:   "Common Stock",
		LastUpdated: &updated,
	}
}

// WithPrice sets a custom price.
func (b *QuoteBuilder) WithPrice(price float64) *QuoteBuilder {
	b.Price = &price
	return b
}

// WithSector sets a custom sector.
func (b *QuoteBuilder) WithSector(sector string) *QuoteBuilder {
	b.Sector = sector
	return b
}

// WithAssetType sets a custom asset type.
func (b *QuoteBuilder) WithAssetType(assetType string) *QuoteBuilder {
	b.AssetType = assetType
	return b
}

// WithLastUpdated sets a custom refresh timestamp.
func (b *QuoteBuilder) WithLastUpdated(at time.Time) *QuoteBuilder {
	b.LastUpdated = &at
	return b
}

// Build persists the quote row.
func (b *QuoteBuilder) Build(t *testing.T, db *sql.DB) model.StockQuote {
	t.Helper()

	quote := model.StockQuote{
		Ticker:       b.Ticker,
		CurrentPrice: b.Price,
		Sector:       b.Sector,
		AssetType:    b.AssetType,
		LastUpdated:  b.LastUpdated,
	}

	repo := repository.NewStockQuoteRepository(db)
	if err := repo.Upsert(context.Background(), &quote); err != nil {
		t.Fatalf("Failed to insert test quote: %v", err)
	}

	return quote
}
