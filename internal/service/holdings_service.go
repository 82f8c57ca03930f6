package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/api/request"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/apperrors"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/model"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/repository"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/validation"
)

// HoldingsService owns the per-user holdings ledger. The ledger guarantees at
// most one row per (user, ticker): adding an existing ticker merges into the
// stored position using a shares-weighted average cost basis.
//
// Mutations on the same user are serialized with a per-user lock so two
// concurrent adds of the same ticker cannot both observe "no existing row"
// and insert twice.
type HoldingsService struct {
	holdingRepo *repository.HoldingRepository
	tickers     *TickerService

	mu        sync.Mutex
	userLocks map[string]*sync.Mutex
}

// NewHoldingsService creates a new holdings service.
func NewHoldingsService(holdingRepo *repository.HoldingRepository, tickers *TickerService) *HoldingsService {
	return &HoldingsService{
		holdingRepo: holdingRepo,
		tickers:     tickers,
		userLocks:   map[string]*sync.Mutex{},
	}
}

// ListHoldings returns all holdings of a user ordered by ticker.
func (s *HoldingsService) ListHoldings(ctx context.Context, userID string) ([]model.Holding, error) {
	return s.holdingRepo.ListByUser(userID)
}

// AddOrMerge creates a holding or merges it into the user's existing position
// for the same ticker. On merge, shares are summed, the average price becomes
// the shares-weighted mean of both cost bases, and the stored asset type is
// preserved. The ticker is validated before anything is written.
func (s *HoldingsService) AddOrMerge(ctx context.Context, userID string, req request.HoldingRequest) (model.Holding, error) {
	if err := validation.ValidateHolding(req); err != nil {
		return model.Holding{}, err
	}

	ticker := validation.NormalizeTicker(req.Ticker)
	if err := s.requireValidTicker(ctx, ticker); err != nil {
		return model.Holding{}, err
	}

	unlock := s.lockUser(userID)
	defer unlock()

	existing, err := s.holdingRepo.GetByTicker(userID, ticker)
	if err == nil {
		totalShares := existing.Shares + req.Shares
		existing.AvgPrice = (existing.Shares*existing.AvgPrice + req.Shares*req.AvgPrice) / totalShares
		existing.Shares = totalShares
		if err := s.holdingRepo.Update(ctx, &existing); err != nil {
			return model.Holding{}, err
		}
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrHoldingNotFound) {
		return model.Holding{}, err
	}

	holding := model.Holding{
		ID:        uuid.New().String(),
		UserID:    userID,
		Ticker:    ticker,
		Shares:    req.Shares,
		AvgPrice:  req.AvgPrice,
		AssetType: req.AssetType,
	}
	if err := s.holdingRepo.Insert(ctx, &holding); err != nil {
		return model.Holding{}, err
	}

	return holding, nil
}

// ReplaceHoldings atomically replaces the user's whole ledger with the given
// list. Duplicate tickers in the input are merged first, so the stored ledger
// always honors the one-row-per-ticker invariant. Every ticker is validated
// before any row is touched.
func (s *HoldingsService) ReplaceHoldings(ctx context.Context, userID string, req request.ReplaceHoldingsRequest) ([]model.Holding, error) {
	if err := validation.ValidateReplaceHoldings(req); err != nil {
		return nil, err
	}

	normalized := NormalizeBulkHoldings(req.Holdings)
	for _, h := range normalized {
		if err := s.requireValidTicker(ctx, h.Ticker); err != nil {
			return nil, err
		}
	}

	holdings := make([]model.Holding, 0, len(normalized))
	for _, h := range normalized {
		holdings = append(holdings, model.Holding{
			ID:        uuid.New().String(),
			UserID:    userID,
			Ticker:    h.Ticker,
			Shares:    h.Shares,
			AvgPrice:  h.AvgPrice,
			AssetType: h.AssetType,
		})
	}

	unlock := s.lockUser(userID)
	defer unlock()

	if err := s.holdingRepo.ReplaceAll(ctx, userID, holdings); err != nil {
		return nil, err
	}

	return holdings, nil
}

// UpdateHolding overwrites ticker, shares, and average price of an existing
// holding. The stored asset type is preserved.
func (s *HoldingsService) UpdateHolding(ctx context.Context, userID, holdingID string, req request.HoldingRequest) (model.Holding, error) {
	if err := validation.ValidateHolding(req); err != nil {
		return model.Holding{}, err
	}

	ticker := validation.NormalizeTicker(req.Ticker)
	if err := s.requireValidTicker(ctx, ticker); err != nil {
		return model.Holding{}, err
	}

	unlock := s.lockUser(userID)
	defer unlock()

	holding, err := s.holdingRepo.GetByID(userID, holdingID)
	if err != nil {
		return model.Holding{}, err
	}

	holding.Ticker = ticker
	holding.Shares = req.Shares
	holding.AvgPrice = req.AvgPrice
	if err := s.holdingRepo.Update(ctx, &holding); err != nil {
		return model.Holding{}, err
	}

	return holding, nil
}

// DeleteHolding removes a holding, scoped to the owning user.
func (s *HoldingsService) DeleteHolding(ctx context.Context, userID, holdingID string) error {
	unlock := s.lockUser(userID)
	defer unlock()

	return s.holdingRepo.Delete(ctx, userID, holdingID)
}

// NormalizeBulkHoldings merges duplicate tickers in a bulk payload into one
// entry each: tickers are uppercased, shares summed, and the average price is
// the shares-weighted mean, exactly as a sequence of AddOrMerge calls would
// produce. The first non-empty asset type in the group wins. Input order of
// first appearance is preserved, so the operation is idempotent.
func NormalizeBulkHoldings(holdings []request.HoldingRequest) []request.HoldingRequest {
	order := []string{}
	merged := map[string]request.HoldingRequest{}

	for _, h := range holdings {
		ticker := validation.NormalizeTicker(h.Ticker)
		existing, ok := merged[ticker]
		if !ok {
			order = append(order, ticker)
			merged[ticker] = request.HoldingRequest{
				Ticker:    ticker,
				Shares:    h.Shares,
				AvgPrice:  h.AvgPrice,
				AssetType: h.AssetType,
			}
			continue
		}

		totalShares := existing.Shares + h.Shares
		existing.AvgPrice = (existing.Shares*existing.AvgPrice + h.Shares*h.AvgPrice) / totalShares
		existing.Shares = totalShares
		if existing.AssetType == "" {
			existing.AssetType = h.AssetType
		}
		merged[ticker] = existing
	}

	result := make([]request.HoldingRequest, 0, len(order))
	for _, ticker := range order {
		result = append(result, merged[ticker])
	}
	return result
}

// requireValidTicker runs the layered ticker validation and maps a
// well-formed but unknown ticker to ErrInvalidTicker. Retryable provider
// failures propagate unchanged.
func (s *HoldingsService) requireValidTicker(ctx context.Context, ticker string) error {
	ok, err := s.tickers.Validate(ctx, ticker)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: %w", ticker, apperrors.ErrInvalidTicker)
	}
	return nil
}

// lockUser acquires the mutation lock for one user, creating it on first use.
func (s *HoldingsService) lockUser(userID string) func() {
	s.mu.Lock()
	lock, ok := s.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[userID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
