package model

// SectorAllocationEntry is one sector's share of the current portfolio value.
type SectorAllocationEntry struct {
	Sector string  `json:"sector"`
	Value  float64 `json:"value"`
	Pct    float64 `json:"pct"`
}

// TopHoldingEntry is one of the largest positions by current value.
type TopHoldingEntry struct {
	Ticker string  `json:"ticker"`
	Value  float64 `json:"value"`
	Pct    float64 `json:"pct"`
}

// MetricsSnapshot is the derived-metrics payload persisted on the profile
// after every analysis run, independent of the narrative cache state.
type MetricsSnapshot struct {
	SectorAllocation     []SectorAllocationEntry `json:"sector_allocation"`
	TopHoldings          []TopHoldingEntry       `json:"top_holdings"`
	ConcentrationTop3Pct float64                 `json:"concentration_top3_pct"`
	DiversificationScore float64                 `json:"diversification_score"`
}

// EmptyMetrics is the snapshot recorded for a portfolio with no priced holdings.
func EmptyMetrics() MetricsSnapshot {
	return MetricsSnapshot{
		SectorAllocation: []SectorAllocationEntry{},
		TopHoldings:      []TopHoldingEntry{},
	}
}
