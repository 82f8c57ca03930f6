package model

import "time"

// HoldingSummary is one analyzed position within a portfolio analysis.
// Positions whose quote fetch failed are omitted from the result entirely.
type HoldingSummary struct {
	Ticker       string  `json:"ticker"`
	Shares       float64 `json:"shares"`
	AvgPrice     float64 `json:"avgPrice"`
	CurrentPrice float64 `json:"currentPrice"`
	CurrentValue float64 `json:"currentValue"`
	GainLoss     float64 `json:"gainLoss"`
	GainLossPct  float64 `json:"gainLossPct"`
	Sector       string  `json:"sector"`
}

// AnalysisResult is the full portfolio analysis returned to the API layer.
// Cached reports whether the narrative was served from the profile cache.
type AnalysisResult struct {
	TotalValue float64          `json:"totalValue"`
	Holdings   []HoldingSummary `json:"holdings"`
	AIAnalysis string           `json:"aiAnalysis"`
	Metrics    MetricsSnapshot  `json:"metrics"`
	Cached     bool             `json:"cached"`
	Cooldown   CooldownInfo     `json:"cooldown"`
}

// CooldownInfo describes when the narrative may next be regenerated.
type CooldownInfo struct {
	LastAnalysisAt   *time.Time `json:"lastAnalysisAt"`
	NextAvailableAt  *time.Time `json:"nextAvailableAt"`
	RemainingSeconds int64      `json:"cooldownRemainingSeconds"`
}

// PortfolioSnapshot is a point-in-time view of holdings, metrics, and the
// cached transcript digest, used by the snapshot endpoint.
type PortfolioSnapshot struct {
	GeneratedAt        time.Time         `json:"generatedAt"`
	Holdings           []SnapshotHolding `json:"holdings"`
	Metrics            MetricsSnapshot   `json:"metrics"`
	Transcripts        map[string]string `json:"transcripts,omitempty"`
	TranscriptsQuarter string            `json:"transcriptsQuarter,omitempty"`
}

// SnapshotHolding is one position in a snapshot; price fields are nil when
// the ticker has never been quoted.
type SnapshotHolding struct {
	Ticker       string   `json:"ticker"`
	Shares       float64  `json:"shares"`
	AvgPrice     float64  `json:"avgPrice"`
	CurrentPrice *float64 `json:"currentPrice"`
	CurrentValue *float64 `json:"currentValue"`
	Sector       string   `json:"sector"`
	AssetType    string   `json:"assetType,omitempty"`
}
