package service_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/api/request"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/apperrors"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/service"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/testutil"
)

// TestHoldingsService_AddOrMerge tests holding creation and merge semantics.
//
// WHY: The ledger invariant is one row per (user, ticker) with a
// shares-weighted cost basis. A wrong merge silently corrupts every later
// gain/loss figure, so the arithmetic and the asset-type preservation rule
// both need pinning down.
func TestHoldingsService_AddOrMerge(t *testing.T) {
	t.Run("creates a new holding with normalized ticker", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		provider := testutil.NewMockProviderClient()
		svc := testutil.NewTestHoldingsService(t, db, provider)
		user := testutil.NewUser().Build(t, db)

		holding, err := svc.AddOrMerge(context.Background(), user.ID, request.HoldingRequest{
			Ticker:   "aapl",
			Shares:   10,
			AvgPrice: 150,
		})
		if err != nil {
			t.Fatalf("AddOrMerge() returned unexpected error: %v", err)
		}

		if holding.Ticker != "AAPL" {
			t.Errorf("Expected normalized ticker AAPL, got %q", holding.Ticker)
		}
		if holding.Shares != 10 || holding.AvgPrice != 150 {
			t.Errorf("Expected 10 shares at 150, got %v at %v", holding.Shares, holding.AvgPrice)
		}
	})

	t.Run("merges into existing position with weighted average", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		provider := testutil.NewMockProviderClient()
		svc := testutil.NewTestHoldingsService(t, db, provider)
		user := testutil.NewUser().Build(t, db)

		ctx := context.Background()
		if _, err := svc.AddOrMerge(ctx, user.ID, request.HoldingRequest{Ticker: "AAPL", Shares: 10, AvgPrice: 100, AssetType: "Common Stock"}); err != nil {
			t.Fatalf("First AddOrMerge() failed: %v", err)
		}
		merged, err := svc.AddOrMerge(ctx, user.ID, request.HoldingRequest{Ticker: "AAPL", Shares: 30, AvgPrice: 200, AssetType: "ETF"})
		if err != nil {
			t.Fatalf("Second AddOrMerge() failed: %v", err)
		}

		// (10*100 + 30*200) / 40 = 175
		if merged.Shares != 40 {
			t.Errorf("Expected 40 shares, got %v", merged.Shares)
		}
		if math.Abs(merged.AvgPrice-175) > 1e-9 {
			t.Errorf("Expected weighted average 175, got %v", merged.AvgPrice)
		}
		if merged.AssetType != "Common Stock" {
			t.Errorf("Expected stored asset type to be preserved, got %q", merged.AssetType)
		}

		// Still one row
		holdings, err := svc.ListHoldings(ctx, user.ID)
		if err != nil {
			t.Fatalf("ListHoldings() failed: %v", err)
		}
		if len(holdings) != 1 {
			t.Errorf("Expected 1 holding after merge, got %d", len(holdings))
		}
	})

	t.Run("merge order does not change the result", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		provider := testutil.NewMockProviderClient()
		svc := testutil.NewTestHoldingsService(t, db, provider)
		userA := testutil.NewUser().Build(t, db)
		userB := testutil.NewUser().Build(t, db)

		ctx := context.Background()
		lots := []request.HoldingRequest{
			{Ticker: "MSFT", Shares: 5, AvgPrice: 310},
			{Ticker: "MSFT", Shares: 12, AvgPrice: 280},
		}

		for _, lot := range lots {
			if _, err := svc.AddOrMerge(ctx, userA.ID, lot); err != nil {
				t.Fatalf("AddOrMerge() failed: %v", err)
			}
		}
		for i := len(lots) - 1; i >= 0; i-- {
			if _, err := svc.AddOrMerge(ctx, userB.ID, lots[i]); err != nil {
				t.Fatalf("AddOrMerge() failed: %v", err)
			}
		}

		a, _ := svc.ListHoldings(ctx, userA.ID)
		b, _ := svc.ListHoldings(ctx, userB.ID)
		if math.Abs(a[0].AvgPrice-b[0].AvgPrice) > 1e-9 || a[0].Shares != b[0].Shares {
			t.Errorf("Expected order-independent merge, got %+v vs %+v", a[0], b[0])
		}
	})

	t.Run("rejects unknown ticker before writing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		provider := testutil.NewMockProviderClient().WithQuoteError(apperrors.ErrTickerNotFound)
		svc := testutil.NewTestHoldingsService(t, db, provider)
		user := testutil.NewUser().Build(t, db)

		ctx := context.Background()
		_, err := svc.AddOrMerge(ctx, user.ID, request.HoldingRequest{Ticker: "ZZZZZ", Shares: 1, AvgPrice: 1})
		if !errors.Is(err, apperrors.ErrInvalidTicker) {
			t.Fatalf("Expected ErrInvalidTicker, got %v", err)
		}

		holdings, _ := svc.ListHoldings(ctx, user.ID)
		if len(holdings) != 0 {
			t.Errorf("Expected no holdings after rejected add, got %d", len(holdings))
		}
	})

	t.Run("propagates provider rate limiting instead of rejecting", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		provider := testutil.NewMockProviderClient().WithQuoteError(apperrors.ErrProviderRateLimited)
		svc := testutil.NewTestHoldingsService(t, db, provider)
		user := testutil.NewUser().Build(t, db)

		_, err := svc.AddOrMerge(context.Background(), user.ID, request.HoldingRequest{Ticker: "AAPL", Shares: 1, AvgPrice: 1})
		if !errors.Is(err, apperrors.ErrProviderRateLimited) {
			t.Fatalf("Expected ErrProviderRateLimited, got %v", err)
		}
	})

	t.Run("rejects non-positive shares and price", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		provider := testutil.NewMockProviderClient()
		svc := testutil.NewTestHoldingsService(t, db, provider)
		user := testutil.NewUser().Build(t, db)

		if _, err := svc.AddOrMerge(context.Background(), user.ID, request.HoldingRequest{Ticker: "AAPL", Shares: 0, AvgPrice: 10}); err == nil {
			t.Error("Expected error for zero shares")
		}
		if _, err := svc.AddOrMerge(context.Background(), user.ID, request.HoldingRequest{Ticker: "AAPL", Shares: 1, AvgPrice: -5}); err == nil {
			t.Error("Expected error for negative price")
		}
		if provider.QuoteCalls != 0 {
			t.Errorf("Expected no provider calls for invalid payloads, got %d", provider.QuoteCalls)
		}
	})
}

// TestHoldingsService_ReplaceHoldings tests the bulk replacement path.
//
// WHY: Replacement is the bulk-import path; duplicate tickers in one payload
// must collapse exactly as sequential merges would, and the operation must be
// idempotent so a retried import cannot double positions.
func TestHoldingsService_ReplaceHoldings(t *testing.T) {
	t.Run("merges duplicate tickers in the payload", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		provider := testutil.NewMockProviderClient()
		svc := testutil.NewTestHoldingsService(t, db, provider)
		user := testutil.NewUser().Build(t, db)

		ctx := context.Background()
		holdings, err := svc.ReplaceHoldings(ctx, user.ID, request.ReplaceHoldingsRequest{
			Holdings: []request.HoldingRequest{
				{Ticker: "aapl", Shares: 10, AvgPrice: 100},
				{Ticker: "MSFT", Shares: 2, AvgPrice: 300},
				{Ticker: "AAPL", Shares: 30, AvgPrice: 200},
			},
		})
		if err != nil {
			t.Fatalf("ReplaceHoldings() returned unexpected error: %v", err)
		}

		if len(holdings) != 2 {
			t.Fatalf("Expected 2 holdings after merge, got %d", len(holdings))
		}
		if holdings[0].Ticker != "AAPL" || holdings[0].Shares != 40 || math.Abs(holdings[0].AvgPrice-175) > 1e-9 {
			t.Errorf("Expected merged AAPL 40@175, got %+v", holdings[0])
		}
	})

	t.Run("replacement is idempotent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		provider := testutil.NewMockProviderClient()
		svc := testutil.NewTestHoldingsService(t, db, provider)
		user := testutil.NewUser().Build(t, db)

		ctx := context.Background()
		payload := request.ReplaceHoldingsRequest{
			Holdings: []request.HoldingRequest{
				{Ticker: "AAPL", Shares: 10, AvgPrice: 100},
				{Ticker: "AAPL", Shares: 30, AvgPrice: 200},
			},
		}

		if _, err := svc.ReplaceHoldings(ctx, user.ID, payload); err != nil {
			t.Fatalf("First ReplaceHoldings() failed: %v", err)
		}
		if _, err := svc.ReplaceHoldings(ctx, user.ID, payload); err != nil {
			t.Fatalf("Second ReplaceHoldings() failed: %v", err)
		}

		holdings, _ := svc.ListHoldings(ctx, user.ID)
		if len(holdings) != 1 {
			t.Fatalf("Expected 1 holding, got %d", len(holdings))
		}
		if holdings[0].Shares != 40 || math.Abs(holdings[0].AvgPrice-175) > 1e-9 {
			t.Errorf("Expected 40@175 after repeated replacement, got %+v", holdings[0])
		}
	})

	t.Run("rejects whole payload when one ticker is unknown", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		provider := testutil.NewMockProviderClient()
		svc := testutil.NewTestHoldingsService(t, db, provider)
		user := testutil.NewUser().Build(t, db)

		ctx := context.Background()
		if _, err := svc.ReplaceHoldings(ctx, user.ID, request.ReplaceHoldingsRequest{
			Holdings: []request.HoldingRequest{{Ticker: "AAPL", Shares: 1, AvgPrice: 1}},
		}); err != nil {
			t.Fatalf("Seed ReplaceHoldings() failed: %v", err)
		}

		provider.WithQuoteError(apperrors.ErrTickerNotFound)
		_, err := svc.ReplaceHoldings(ctx, user.ID, request.ReplaceHoldingsRequest{
			Holdings: []request.HoldingRequest{{Ticker: "ZZZZ", Shares: 1, AvgPrice: 1}},
		})
		if !errors.Is(err, apperrors.ErrInvalidTicker) {
			t.Fatalf("Expected ErrInvalidTicker, got %v", err)
		}

		// Prior ledger untouched
		holdings, _ := svc.ListHoldings(ctx, user.ID)
		if len(holdings) != 1 || holdings[0].Ticker != "AAPL" {
			t.Errorf("Expected original ledger to survive failed replacement, got %+v", holdings)
		}
	})
}

// TestNormalizeBulkHoldings tests the pure payload normalization.
//
// WHY: Normalization runs before any validation I/O, so its output defines
// which tickers get validated; it must be stable under repeated application.
func TestNormalizeBulkHoldings(t *testing.T) {
	t.Run("is idempotent", func(t *testing.T) {
		input := []request.HoldingRequest{
			{Ticker: "aapl", Shares: 10, AvgPrice: 100},
			{Ticker: "AAPL", Shares: 30, AvgPrice: 200, AssetType: "Common Stock"},
			{Ticker: "msft", Shares: 1, AvgPrice: 300},
		}

		once := service.NormalizeBulkHoldings(input)
		twice := service.NormalizeBulkHoldings(once)

		if len(once) != 2 || len(twice) != 2 {
			t.Fatalf("Expected 2 entries, got %d and %d", len(once), len(twice))
		}
		for i := range once {
			if once[i] != twice[i] {
				t.Errorf("Expected idempotent normalization, entry %d differs: %+v vs %+v", i, once[i], twice[i])
			}
		}
		if once[0].AssetType != "Common Stock" {
			t.Errorf("Expected first non-empty asset type to win, got %q", once[0].AssetType)
		}
	})

	t.Run("preserves first-appearance order", func(t *testing.T) {
		out := service.NormalizeBulkHoldings([]request.HoldingRequest{
			{Ticker: "MSFT", Shares: 1, AvgPrice: 1},
			{Ticker: "AAPL", Shares: 1, AvgPrice: 1},
			{Ticker: "MSFT", Shares: 1, AvgPrice: 1},
		})
		if out[0].Ticker != "MSFT" || out[1].Ticker != "AAPL" {
			t.Errorf("Expected MSFT then AAPL, got %+v", out)
		}
	})
}

// TestHoldingsService_UpdateDelete tests per-user scoping of mutations.
//
// WHY: Holding IDs are globally unique but operations are user-scoped; a
// user must not be able to touch another user's row by guessing its ID.
func TestHoldingsService_UpdateDelete(t *testing.T) {
	t.Run("update preserves stored asset type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		provider := testutil.NewMockProviderClient()
		svc := testutil.NewTestHoldingsService(t, db, provider)
		user := testutil.NewUser().Build(t, db)
		holding := testutil.NewHolding(user.ID).WithAssetType("ETF").Build(t, db)

		updated, err := svc.UpdateHolding(context.Background(), user.ID, holding.ID, request.HoldingRequest{
			Ticker:   "AAPL",
			Shares:   99,
			AvgPrice: 10,
		})
		if err != nil {
			t.Fatalf("UpdateHolding() returned unexpected error: %v", err)
		}
		if updated.Shares != 99 {
			t.Errorf("Expected 99 shares, got %v", updated.Shares)
		}
		if updated.AssetType != "ETF" {
			t.Errorf("Expected asset type preserved on update, got %q", updated.AssetType)
		}
	})

	t.Run("cannot touch another user's holding", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		provider := testutil.NewMockProviderClient()
		svc := testutil.NewTestHoldingsService(t, db, provider)
		owner := testutil.NewUser().Build(t, db)
		intruder := testutil.NewUser().Build(t, db)
		holding := testutil.NewHolding(owner.ID).Build(t, db)

		ctx := context.Background()
		_, err := svc.UpdateHolding(ctx, intruder.ID, holding.ID, request.HoldingRequest{Ticker: "AAPL", Shares: 1, AvgPrice: 1})
		if !errors.Is(err, apperrors.ErrHoldingNotFound) {
			t.Errorf("Expected ErrHoldingNotFound on cross-user update, got %v", err)
		}

		if err := svc.DeleteHolding(ctx, intruder.ID, holding.ID); !errors.Is(err, apperrors.ErrHoldingNotFound) {
			t.Errorf("Expected ErrHoldingNotFound on cross-user delete, got %v", err)
		}

		if err := svc.DeleteHolding(ctx, owner.ID, holding.ID); err != nil {
			t.Errorf("Expected owner delete to succeed, got %v", err)
		}
	})
}
