package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/apperrors"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/model"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/repository"
)

// AnalysisService derives portfolio analyses: numeric metrics recomputed on
// every run, and a narrative that is regenerated at most once per cooldown
// window and served from the profile cache in between.
type AnalysisService struct {
	holdingRepo *repository.HoldingRepository
	quoteRepo   *repository.StockQuoteRepository
	profileRepo *repository.ProfileRepository
	marketData  *MarketDataService
}

// NewAnalysisService creates a new analysis service.
func NewAnalysisService(
	holdingRepo *repository.HoldingRepository,
	quoteRepo *repository.StockQuoteRepository,
	profileRepo *repository.ProfileRepository,
	marketData *MarketDataService,
) *AnalysisService {
	return &AnalysisService{
		holdingRepo: holdingRepo,
		quoteRepo:   quoteRepo,
		profileRepo: profileRepo,
		marketData:  marketData,
	}
}

// Analyze runs the full portfolio analysis for a user.
//
// Each holding is priced through the quote cache; a holding whose quote
// cannot be fetched is logged and skipped rather than failing the run.
// Metrics are always recomputed and persisted. The narrative is served from
// the profile cache while the cooldown window is open and regenerated (and
// persisted with a fresh timestamp) once it has elapsed.
func (s *AnalysisService) Analyze(ctx context.Context, user model.User, now time.Time, cooldown time.Duration) (model.AnalysisResult, error) {
	profile, err := s.profileRepo.Get(user.ID)
	if err != nil {
		return model.AnalysisResult{}, err
	}

	holdings, err := s.holdingRepo.ListByUser(user.ID)
	if err != nil {
		return model.AnalysisResult{}, err
	}

	if len(holdings) == 0 {
		return model.AnalysisResult{
			TotalValue: 0,
			Holdings:   []model.HoldingSummary{},
			AIAnalysis: EmptyPortfolioMessage,
			Metrics:    model.EmptyMetrics(),
			Cached:     false,
			Cooldown:   cooldownInfo(profile, now, cooldown),
		}, nil
	}

	summaries := make([]model.HoldingSummary, 0, len(holdings))
	totalValue := 0.0
	for _, holding := range holdings {
		quote, _, err := s.marketData.GetQuote(ctx, holding.Ticker, now, QuoteCacheValid)
		if err != nil {
			log.Printf("analysis: could not fetch data for %s: %v", holding.Ticker, err)
			continue
		}
		if quote.CurrentPrice == nil {
			continue
		}

		currentValue := holding.Shares * *quote.CurrentPrice
		costBasis := holding.Shares * holding.AvgPrice
		gainLoss := currentValue - costBasis
		gainLossPct := 0.0
		if costBasis > 0 {
			gainLossPct = gainLoss / costBasis * 100
		}

		sector := quote.Sector
		if sector == "" {
			sector = model.UnknownValue
		}

		summaries = append(summaries, model.HoldingSummary{
			Ticker:       holding.Ticker,
			Shares:       holding.Shares,
			AvgPrice:     holding.AvgPrice,
			CurrentPrice: *quote.CurrentPrice,
			CurrentValue: currentValue,
			GainLoss:     gainLoss,
			GainLossPct:  gainLossPct,
			Sector:       sector,
		})
		totalValue += currentValue
	}

	cached := narrativeFresh(profile, now, cooldown)

	var narrative string
	if cached {
		narrative = *profile.PortfolioAnalysis
	} else {
		narrative = BuildPortfolioNarrative(user, summaries)
		if err := s.profileRepo.SaveAnalysis(ctx, user.ID, narrative, now); err != nil {
			return model.AnalysisResult{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToPersistAnalysis, err)
		}
	}

	metrics := computeMetrics(summaries, totalValue)
	if err := s.persistMetrics(ctx, user.ID, metrics); err != nil {
		return model.AnalysisResult{}, err
	}

	info := model.CooldownInfo{}
	lastAt := now
	if cached {
		lastAt = *profile.PortfolioAnalysisAt
	}
	nextAt := lastAt.Add(cooldown)
	info.LastAnalysisAt = &lastAt
	info.NextAvailableAt = &nextAt
	if remaining := nextAt.Sub(now); remaining > 0 {
		info.RemainingSeconds = int64(remaining.Seconds())
	}

	return model.AnalysisResult{
		TotalValue: totalValue,
		Holdings:   summaries,
		AIAnalysis: narrative,
		Metrics:    metrics,
		Cached:     cached,
		Cooldown:   info,
	}, nil
}

// ComputeMetricsOnly recomputes and persists portfolio metrics from cached
// quotes alone. No provider calls are made; holdings whose tickers have never
// been priced are skipped.
func (s *AnalysisService) ComputeMetricsOnly(ctx context.Context, userID string) (model.MetricsSnapshot, error) {
	holdings, err := s.holdingRepo.ListByUser(userID)
	if err != nil {
		return model.MetricsSnapshot{}, err
	}

	summaries := []model.HoldingSummary{}
	totalValue := 0.0
	for _, holding := range holdings {
		quote, err := s.quoteRepo.Get(holding.Ticker)
		if err != nil {
			return model.MetricsSnapshot{}, err
		}
		if quote == nil || quote.CurrentPrice == nil {
			continue
		}

		currentValue := holding.Shares * *quote.CurrentPrice
		sector := quote.Sector
		if sector == "" {
			sector = model.UnknownValue
		}
		summaries = append(summaries, model.HoldingSummary{
			Ticker:       holding.Ticker,
			CurrentValue: currentValue,
			Sector:       sector,
		})
		totalValue += currentValue
	}

	metrics := computeMetrics(summaries, totalValue)
	if err := s.persistMetrics(ctx, userID, metrics); err != nil {
		return model.MetricsSnapshot{}, err
	}

	return metrics, nil
}

// BuildSnapshot assembles a point-in-time view of the portfolio from cached
// data: holdings with whatever prices the cache knows, fresh metrics, and the
// cached transcript digest if one exists.
func (s *AnalysisService) BuildSnapshot(ctx context.Context, user model.User, now time.Time) (model.PortfolioSnapshot, error) {
	holdings, err := s.holdingRepo.ListByUser(user.ID)
	if err != nil {
		return model.PortfolioSnapshot{}, err
	}

	snapshotHoldings := make([]model.SnapshotHolding, 0, len(holdings))
	for _, holding := range holdings {
		quote, err := s.quoteRepo.Get(holding.Ticker)
		if err != nil {
			return model.PortfolioSnapshot{}, err
		}

		entry := model.SnapshotHolding{
			Ticker:    holding.Ticker,
			Shares:    holding.Shares,
			AvgPrice:  holding.AvgPrice,
			Sector:    model.UnknownValue,
			AssetType: holding.AssetType,
		}
		if quote != nil {
			if quote.SectorKnown() {
				entry.Sector = quote.Sector
			}
			if quote.CurrentPrice != nil {
				price := *quote.CurrentPrice
				value := holding.Shares * price
				entry.CurrentPrice = &price
				entry.CurrentValue = &value
			}
		}
		snapshotHoldings = append(snapshotHoldings, entry)
	}

	metrics, err := s.ComputeMetricsOnly(ctx, user.ID)
	if err != nil {
		return model.PortfolioSnapshot{}, err
	}

	snapshot := model.PortfolioSnapshot{
		GeneratedAt: now,
		Holdings:    snapshotHoldings,
		Metrics:     metrics,
	}

	profile, err := s.profileRepo.Get(user.ID)
	if err != nil {
		return model.PortfolioSnapshot{}, err
	}
	if profile != nil && profile.PortfolioTranscripts != nil {
		digest := map[string]string{}
		if err := json.Unmarshal([]byte(*profile.PortfolioTranscripts), &digest); err != nil {
			return model.PortfolioSnapshot{}, fmt.Errorf("failed to decode transcript digest: %w", err)
		}
		snapshot.Transcripts = digest
		if profile.PortfolioTranscriptsQuarter != nil {
			snapshot.TranscriptsQuarter = *profile.PortfolioTranscriptsQuarter
		}
	}

	return snapshot, nil
}

// persistMetrics stores the metrics snapshot as a JSON blob on the profile.
func (s *AnalysisService) persistMetrics(ctx context.Context, userID string, metrics model.MetricsSnapshot) error {
	encoded, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("failed to encode metrics: %w", err)
	}
	if err := s.profileRepo.SaveMetrics(ctx, userID, string(encoded)); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrFailedToPersistAnalysis, err)
	}
	return nil
}

// narrativeFresh reports whether the cached narrative is still inside its
// cooldown window.
func narrativeFresh(profile *model.UserProfile, now time.Time, cooldown time.Duration) bool {
	if profile == nil || profile.PortfolioAnalysis == nil || profile.PortfolioAnalysisAt == nil {
		return false
	}
	return now.Sub(*profile.PortfolioAnalysisAt) < cooldown
}

// cooldownInfo derives cooldown metadata from the stored cache state alone,
// used when a run does not touch the narrative.
func cooldownInfo(profile *model.UserProfile, now time.Time, cooldown time.Duration) model.CooldownInfo {
	info := model.CooldownInfo{}
	if profile == nil || profile.PortfolioAnalysisAt == nil {
		return info
	}
	lastAt := *profile.PortfolioAnalysisAt
	nextAt := lastAt.Add(cooldown)
	info.LastAnalysisAt = &lastAt
	info.NextAvailableAt = &nextAt
	if remaining := nextAt.Sub(now); remaining > 0 {
		info.RemainingSeconds = int64(remaining.Seconds())
	}
	return info
}

// computeMetrics derives the numeric metrics snapshot from analyzed holdings.
// Sector allocation is ordered by descending value; ties break on sector name
// so the output is deterministic.
func computeMetrics(holdings []model.HoldingSummary, totalValue float64) model.MetricsSnapshot {
	metrics := model.EmptyMetrics()
	if len(holdings) == 0 {
		return metrics
	}

	sectorTotals := map[string]float64{}
	for _, h := range holdings {
		sectorTotals[h.Sector] += h.CurrentValue
	}
	for sector, value := range sectorTotals {
		entry := model.SectorAllocationEntry{Sector: sector, Value: value}
		if totalValue > 0 {
			entry.Pct = value / totalValue * 100
		}
		metrics.SectorAllocation = append(metrics.SectorAllocation, entry)
	}
	sort.Slice(metrics.SectorAllocation, func(i, j int) bool {
		a, b := metrics.SectorAllocation[i], metrics.SectorAllocation[j]
		if a.Value != b.Value {
			return a.Value > b.Value
		}
		return a.Sector < b.Sector
	})

	byValue := make([]model.HoldingSummary, len(holdings))
	copy(byValue, holdings)
	sort.SliceStable(byValue, func(i, j int) bool {
		return byValue[i].CurrentValue > byValue[j].CurrentValue
	})

	for i, h := range byValue {
		if i >= 5 {
			break
		}
		entry := model.TopHoldingEntry{Ticker: h.Ticker, Value: h.CurrentValue}
		if totalValue > 0 {
			entry.Pct = h.CurrentValue / totalValue * 100
		}
		metrics.TopHoldings = append(metrics.TopHoldings, entry)
	}

	top3 := 0.0
	for i, h := range byValue {
		if i >= 3 {
			break
		}
		top3 += h.CurrentValue
	}
	if totalValue > 0 {
		metrics.ConcentrationTop3Pct = top3 / totalValue * 100
	}

	score := 100 - metrics.ConcentrationTop3Pct
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	metrics.DiversificationScore = score

	return metrics
}
