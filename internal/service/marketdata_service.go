package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/alphavantage"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/apperrors"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/model"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/repository"
)

// MarketDataService owns the shared per-ticker quote cache and all access to
// the market data provider. Quote rows are shared across users, so refreshes
// of the same ticker are collapsed via singleflight: concurrent callers get
// the result of a single provider round-trip.
type MarketDataService struct {
	quoteRepo *repository.StockQuoteRepository
	provider  alphavantage.Client
	group     singleflight.Group
}

// NewMarketDataService creates a new market data service.
func NewMarketDataService(quoteRepo *repository.StockQuoteRepository, provider alphavantage.Client) *MarketDataService {
	return &MarketDataService{
		quoteRepo: quoteRepo,
		provider:  provider,
	}
}

// GetQuote returns the quote for a ticker, serving from the cache when the
// supplied validity policy accepts the cached row and refreshing through the
// throttled provider otherwise. The second return reports a cache hit.
//
// On refresh, sector and asset type are backfilled from the overview endpoint
// only when the cached row does not already know them; a known classification
// is never spent on a second provider call.
func (s *MarketDataService) GetQuote(ctx context.Context, ticker string, now time.Time, cacheValid CacheValidFunc) (model.StockQuote, bool, error) {
	cached, err := s.quoteRepo.Get(ticker)
	if err != nil {
		return model.StockQuote{}, false, err
	}

	if cached != nil && cached.CurrentPrice != nil && cached.LastUpdated != nil &&
		cacheValid(*cached.LastUpdated, now) {
		return *cached, true, nil
	}

	result, err, _ := s.group.Do(ticker, func() (any, error) {
		return s.refresh(ctx, ticker, cached, now)
	})
	if err != nil {
		return model.StockQuote{}, false, err
	}

	return result.(model.StockQuote), false, nil
}

// refresh performs the provider round-trip and writes the cache row. cached
// may be nil when the ticker has never been quoted.
func (s *MarketDataService) refresh(ctx context.Context, ticker string, cached *model.StockQuote, now time.Time) (model.StockQuote, error) {
	quote, err := s.provider.GetQuote(ctx, ticker)
	if err != nil {
		return model.StockQuote{}, err
	}

	sector := ""
	assetType := ""
	if cached != nil {
		sector = cached.Sector
		assetType = cached.AssetType
	}

	if sector == "" || sector == model.UnknownValue || assetType == "" || assetType == model.UnknownValue {
		overview, err := s.provider.GetOverview(ctx, ticker)
		if err != nil {
			return model.StockQuote{}, fmt.Errorf("failed to fetch overview for %s: %w", ticker, err)
		}
		if overview.Sector != "" {
			sector = overview.Sector
		}
		if overview.AssetType != "" {
			assetType = overview.AssetType
		}
	}

	updated := model.StockQuote{
		Ticker:       ticker,
		CurrentPrice: &quote.CurrentPrice,
		Sector:       sector,
		AssetType:    assetType,
		LastUpdated:  &now,
	}
	if err := s.quoteRepo.Upsert(ctx, &updated); err != nil {
		return model.StockQuote{}, err
	}

	return updated, nil
}

// ValidateTicker reports whether the provider recognizes a ticker. A cached
// price short-circuits without any provider call. A not-found answer from the
// provider returns (false, nil); rate limiting and transport failures return
// an error so the caller can distinguish "unknown ticker" from "try again".
func (s *MarketDataService) ValidateTicker(ctx context.Context, ticker string) (bool, error) {
	cached, err := s.quoteRepo.Get(ticker)
	if err != nil {
		return false, err
	}
	if cached != nil && cached.CurrentPrice != nil {
		return true, nil
	}

	if _, err := s.provider.GetQuote(ctx, ticker); err != nil {
		if errors.Is(err, apperrors.ErrTickerNotFound) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// GetAssetType returns the asset type for a ticker, consulting the overview
// endpoint only when the cache does not already know it. Price and refresh
// timestamp on the cached row are preserved untouched.
func (s *MarketDataService) GetAssetType(ctx context.Context, ticker string) (string, error) {
	cached, err := s.quoteRepo.Get(ticker)
	if err != nil {
		return "", err
	}
	if cached != nil && cached.AssetTypeKnown() {
		return cached.AssetType, nil
	}

	overview, err := s.provider.GetOverview(ctx, ticker)
	if err != nil {
		return "", err
	}

	assetType := overview.AssetType
	if assetType == "" {
		assetType = model.UnknownValue
	}

	updated := model.StockQuote{
		Ticker:    ticker,
		Sector:    overview.Sector,
		AssetType: assetType,
	}
	if cached != nil {
		updated.CurrentPrice = cached.CurrentPrice
		updated.LastUpdated = cached.LastUpdated
		if overview.Sector == "" {
			updated.Sector = cached.Sector
		}
	}
	if err := s.quoteRepo.Upsert(ctx, &updated); err != nil {
		return "", err
	}

	return assetType, nil
}

// RefreshAllQuotes walks every cached ticker and refreshes the ones whose
// quotes are no longer valid under the dual validity rule. Per-ticker
// failures are logged and skipped so one bad ticker cannot stall the sweep.
// Returns the number of tickers actually refreshed.
func (s *MarketDataService) RefreshAllQuotes(ctx context.Context, now time.Time) (int, error) {
	tickers, err := s.quoteRepo.ListTickers()
	if err != nil {
		return 0, err
	}

	refreshed := 0
	for _, ticker := range tickers {
		_, hit, err := s.GetQuote(ctx, ticker, now, QuoteCacheValid)
		if err != nil {
			log.Printf("quote warmer: could not refresh %s: %v", ticker, err)
			continue
		}
		if !hit {
			refreshed++
		}
	}

	return refreshed, nil
}
