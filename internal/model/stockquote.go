package model

import "time"

// UnknownValue is the placeholder the provider returns for sector and asset
// type it cannot classify. For refresh decisions both NULL and "Unknown" count
// as not-yet-known; for cache validity only a NULL price counts as not-cached.
const UnknownValue = "Unknown"

// StockQuote is one cached quote row per ticker, shared across all users.
// CurrentPrice and LastUpdated are nil until the first successful fetch.
type StockQuote struct {
	Ticker       string     `json:"ticker"`
	CurrentPrice *float64   `json:"currentPrice"`
	Sector       string     `json:"sector"`
	AssetType    string     `json:"assetType"`
	LastUpdated  *time.Time `json:"lastUpdated"`
}

// SectorKnown reports whether the cached sector carries real information.
func (q StockQuote) SectorKnown() bool {
	return q.Sector != "" && q.Sector != UnknownValue
}

// AssetTypeKnown reports whether the cached asset type carries real information.
func (q StockQuote) AssetTypeKnown() bool {
	return q.AssetType != "" && q.AssetType != UnknownValue
}
