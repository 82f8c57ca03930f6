package model

import "time"

// UserProfile holds the per-user narrative caches. AIAnalysis is the
// profile-creation narrative and is immutable after creation.
// PortfolioAnalysis and PortfolioAnalysisAt are set and cleared together:
// populated when a narrative is regenerated, cleared whenever a profile
// field changes.
type UserProfile struct {
	UserID                      string     `json:"userId"`
	AIAnalysis                  string     `json:"aiAnalysis"`
	PortfolioAnalysis           *string    `json:"portfolioAnalysis"`
	PortfolioAnalysisAt         *time.Time `json:"portfolioAnalysisAt"`
	PortfolioMetrics            *string    `json:"-"` // JSON-encoded MetricsSnapshot
	PortfolioTranscripts        *string    `json:"-"` // JSON-encoded map of ticker -> summary
	PortfolioTranscriptsQuarter *string    `json:"portfolioTranscriptsQuarter,omitempty"`
	CreatedAt                   time.Time  `json:"createdAt"`
}
