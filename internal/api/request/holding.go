package request

// HoldingRequest is the payload for creating, merging, or updating a holding.
type HoldingRequest struct {
	Ticker    string  `json:"ticker"`
	Shares    float64 `json:"shares"`
	AvgPrice  float64 `json:"avgPrice"`
	AssetType string  `json:"assetType,omitempty"`
}

// ReplaceHoldingsRequest is the payload for the bulk replace endpoint.
// Duplicate tickers within the list are merged before reaching the ledger.
type ReplaceHoldingsRequest struct {
	Holdings []HoldingRequest `json:"holdings"`
}
