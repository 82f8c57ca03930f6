package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/model"
)

// StockQuoteRepository provides data access methods for the stock_quote table.
// The table is a global cache keyed by ticker, shared across all users, so
// writes go through a single-statement upsert: concurrent refreshes of the
// same ticker cannot lose updates.
type StockQuoteRepository struct {
	db *sql.DB
}

// NewStockQuoteRepository creates a new StockQuoteRepository with the provided database connection.
func NewStockQuoteRepository(db *sql.DB) *StockQuoteRepository {
	return &StockQuoteRepository{db: db}
}

// Get retrieves the cached quote for a ticker.
// Returns (nil, nil) when the ticker has never been cached; a row with a
// NULL price still counts as cached metadata, not a cached quote.
func (r *StockQuoteRepository) Get(ticker string) (*model.StockQuote, error) {
	query := `
		SELECT ticker, current_price, sector, asset_type, last_updated
		FROM stock_quote
		WHERE ticker = ?
	`

	var q model.StockQuote
	var price sql.NullFloat64
	var sector, assetType, lastUpdated sql.NullString

	err := r.db.QueryRow(query, ticker).Scan(
		&q.Ticker,
		&price,
		&sector,
		&assetType,
		&lastUpdated,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query stock_quote table: %w", err)
	}

	if price.Valid {
		q.CurrentPrice = &price.Float64
	}
	if sector.Valid {
		q.Sector = sector.String
	}
	if assetType.Valid {
		q.AssetType = assetType.String
	}
	if lastUpdated.Valid {
		parsed, err := ParseTime(lastUpdated.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse last_updated: %w", err)
		}
		q.LastUpdated = &parsed
	}

	return &q, nil
}

// Upsert writes a quote refresh in one atomic statement keyed by ticker.
// Sector and asset_type are partial updates: an incoming empty or "Unknown"
// value never overwrites a previously known one.
func (r *StockQuoteRepository) Upsert(ctx context.Context, q *model.StockQuote) error {
	query := `
		INSERT INTO stock_quote (ticker, current_price, sector, asset_type, last_updated)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(ticker) DO UPDATE SET
			current_price = excluded.current_price,
			sector = CASE
				WHEN excluded.sector IS NOT NULL AND excluded.sector != '' AND excluded.sector != 'Unknown'
					THEN excluded.sector
				ELSE stock_quote.sector
			END,
			asset_type = CASE
				WHEN excluded.asset_type IS NOT NULL AND excluded.asset_type != '' AND excluded.asset_type != 'Unknown'
					THEN excluded.asset_type
				ELSE stock_quote.asset_type
			END,
			last_updated = excluded.last_updated
	`

	var lastUpdated any
	if q.LastUpdated != nil {
		lastUpdated = FormatTime(*q.LastUpdated)
	}
	var price any
	if q.CurrentPrice != nil {
		price = *q.CurrentPrice
	}

	_, err := r.db.ExecContext(ctx, query,
		q.Ticker,
		price,
		nullableString(q.Sector),
		nullableString(q.AssetType),
		lastUpdated,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert stock_quote: %w", err)
	}

	return nil
}

// ListTickers returns every ticker present in the cache, ordered.
// Used by the background warmer to walk the cache.
func (r *StockQuoteRepository) ListTickers() ([]string, error) {
	rows, err := r.db.Query(`SELECT ticker FROM stock_quote ORDER BY ticker ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock_quote tickers: %w", err)
	}
	defer rows.Close()

	tickers := []string{}
	for rows.Next() {
		var ticker string
		if err := rows.Scan(&ticker); err != nil {
			return nil, fmt.Errorf("failed to scan ticker: %w", err)
		}
		tickers = append(tickers, ticker)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stock_quote tickers: %w", err)
	}

	return tickers, nil
}
