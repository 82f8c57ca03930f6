package model

// Holding represents one position per (user, ticker).
// AvgPrice is the shares-weighted cost basis per share after merges.
type Holding struct {
	ID        string  `json:"id"`
	UserID    string  `json:"userId"`
	Ticker    string  `json:"ticker"`
	Shares    float64 `json:"shares"`
	AvgPrice  float64 `json:"avgPrice"`
	AssetType string  `json:"assetType,omitempty"`
}
