package service

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/apperrors"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/validation"
)

// Universe enforcement modes.
const (
	UniverseModeEnforce  = "enforce"
	UniverseModeAdvisory = "advisory"
)

// TickerService validates ticker symbols ahead of ledger writes. Validation
// is layered cheapest-first: the format gate runs before any I/O, then an
// optional on-disk allow-list, and only then the throttled provider.
type TickerService struct {
	marketData   *MarketDataService
	universePath string
	universeMode string

	mu       sync.Mutex
	universe map[string]struct{}
	mtime    time.Time
}

// NewTickerService creates a new ticker validation service. universePath may
// be empty, in which case every format-valid ticker goes to the provider.
func NewTickerService(marketData *MarketDataService, universePath, universeMode string) *TickerService {
	if universeMode == "" {
		universeMode = UniverseModeEnforce
	}
	return &TickerService{
		marketData:   marketData,
		universePath: universePath,
		universeMode: universeMode,
	}
}

// Validate reports whether a ticker is acceptable for the ledger. The input
// must already be normalized. Returns (false, nil) for a well-formed but
// unknown ticker; provider rate limiting propagates as an error so callers
// can surface a retryable failure instead of silently rejecting the ticker.
func (s *TickerService) Validate(ctx context.Context, ticker string) (bool, error) {
	if err := validation.ValidateTickerFormat(ticker); err != nil {
		return false, nil
	}

	universe, err := s.loadUniverse()
	if err != nil {
		return false, err
	}
	if universe != nil {
		if _, ok := universe[ticker]; ok {
			return true, nil
		}
		if s.universeMode == UniverseModeEnforce {
			return false, nil
		}
		// advisory mode: a miss falls through to the provider
	}

	return s.marketData.ValidateTicker(ctx, ticker)
}

// loadUniverse returns the allow-list, reloading the file only when its
// mtime has changed since the last read. Returns (nil, nil) when no universe
// file is configured or the file does not exist.
func (s *TickerService) loadUniverse() (map[string]struct{}, error) {
	if s.universePath == "" {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(s.universePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: stat %s: %v", apperrors.ErrFailedToRetrieveUniverse, s.universePath, err)
	}

	if s.universe != nil && info.ModTime().Equal(s.mtime) {
		return s.universe, nil
	}

	file, err := os.Open(s.universePath)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", apperrors.ErrFailedToRetrieveUniverse, s.universePath, err)
	}
	defer file.Close()

	universe := map[string]struct{}{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		ticker := validation.NormalizeTicker(scanner.Text())
		if validation.ValidateTickerFormat(ticker) != nil {
			continue
		}
		universe[ticker] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", apperrors.ErrFailedToRetrieveUniverse, s.universePath, err)
	}

	s.universe = universe
	s.mtime = info.ModTime()
	return universe, nil
}
