package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/apperrors"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/model"
)

// HoldingRepository provides data access methods for the holding table.
// Every method is scoped by user: a holding owned by a different user is
// indistinguishable from an absent one.
type HoldingRepository struct {
	db *sql.DB
}

// NewHoldingRepository creates a new HoldingRepository with the provided database connection.
func NewHoldingRepository(db *sql.DB) *HoldingRepository {
	return &HoldingRepository{db: db}
}

// ListByUser retrieves all holdings for a user, ordered by ticker.
// Returns an empty slice if the user has no holdings.
func (r *HoldingRepository) ListByUser(userID string) ([]model.Holding, error) {
	query := `
		SELECT id, user_id, ticker, shares, avg_price, asset_type
		FROM holding
		WHERE user_id = ?
		ORDER BY ticker ASC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query holding table: %w", err)
	}
	defer rows.Close()

	holdings := []model.Holding{}

	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, h)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holding table: %w", err)
	}

	return holdings, nil
}

// GetByTicker retrieves the single holding a user has for a ticker.
// Returns apperrors.ErrHoldingNotFound if the user holds no such position.
func (r *HoldingRepository) GetByTicker(userID, ticker string) (model.Holding, error) {
	query := `
		SELECT id, user_id, ticker, shares, avg_price, asset_type
		FROM holding
		WHERE user_id = ? AND ticker = ?
	`

	return r.getOne(query, userID, ticker)
}

// GetByID retrieves a holding by ID, scoped to the owning user.
// Returns apperrors.ErrHoldingNotFound if absent or owned by another user.
func (r *HoldingRepository) GetByID(userID, holdingID string) (model.Holding, error) {
	query := `
		SELECT id, user_id, ticker, shares, avg_price, asset_type
		FROM holding
		WHERE user_id = ? AND id = ?
	`

	return r.getOne(query, userID, holdingID)
}

func (r *HoldingRepository) getOne(query string, args ...any) (model.Holding, error) {
	var h model.Holding
	var assetType sql.NullString

	err := r.db.QueryRow(query, args...).Scan(
		&h.ID,
		&h.UserID,
		&h.Ticker,
		&h.Shares,
		&h.AvgPrice,
		&assetType,
	)
	if err == sql.ErrNoRows {
		return model.Holding{}, apperrors.ErrHoldingNotFound
	}
	if err != nil {
		return model.Holding{}, fmt.Errorf("failed to query holding table: %w", err)
	}

	if assetType.Valid {
		h.AssetType = assetType.String
	}

	return h, nil
}

// Insert creates a new holding row. The (user_id, ticker) unique constraint
// maps to apperrors.ErrDuplicateEntry so callers can detect merge races.
func (r *HoldingRepository) Insert(ctx context.Context, h *model.Holding) error {
	query := `
		INSERT INTO holding (id, user_id, ticker, shares, avg_price, asset_type)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		h.ID,
		h.UserID,
		h.Ticker,
		h.Shares,
		h.AvgPrice,
		nullableString(h.AssetType),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: %s already held", apperrors.ErrDuplicateEntry, h.Ticker)
		}
		return fmt.Errorf("failed to insert holding: %w", err)
	}

	return nil
}

// Update overwrites ticker, shares, and avg_price of an existing holding.
// The stored asset_type is preserved. Returns apperrors.ErrHoldingNotFound
// if the holding does not exist for the user.
func (r *HoldingRepository) Update(ctx context.Context, h *model.Holding) error {
	query := `
		UPDATE holding
		SET ticker = ?, shares = ?, avg_price = ?
		WHERE id = ? AND user_id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		h.Ticker,
		h.Shares,
		h.AvgPrice,
		h.ID,
		h.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update holding: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrHoldingNotFound
	}

	return nil
}

// Delete removes a holding, scoped to the owning user.
// Returns apperrors.ErrHoldingNotFound if absent or owned by another user.
func (r *HoldingRepository) Delete(ctx context.Context, userID, holdingID string) error {
	query := `DELETE FROM holding WHERE id = ? AND user_id = ?`

	result, err := r.db.ExecContext(ctx, query, holdingID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrHoldingNotFound
	}

	return nil
}

// ReplaceAll atomically deletes every holding of a user and inserts the given
// list. A failure at any point rolls back the whole replacement, so the user
// never observes a half-replaced ledger.
func (r *HoldingRepository) ReplaceAll(ctx context.Context, userID string, holdings []model.Holding) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM holding WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to delete holdings: %w", err)
	}

	insertQuery := `
		INSERT INTO holding (id, user_id, ticker, shares, avg_price, asset_type)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	for _, h := range holdings {
		if _, err := tx.ExecContext(ctx, insertQuery,
			h.ID,
			userID,
			h.Ticker,
			h.Shares,
			h.AvgPrice,
			nullableString(h.AssetType),
		); err != nil {
			return fmt.Errorf("failed to insert holding %s: %w", h.Ticker, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit holdings replacement: %w", err)
	}

	return nil
}

func scanHolding(rows *sql.Rows) (model.Holding, error) {
	var h model.Holding
	var assetType sql.NullString

	err := rows.Scan(
		&h.ID,
		&h.UserID,
		&h.Ticker,
		&h.Shares,
		&h.AvgPrice,
		&assetType,
	)
	if err != nil {
		return model.Holding{}, fmt.Errorf("failed to scan holding table results: %w", err)
	}

	if assetType.Valid {
		h.AssetType = assetType.String
	}

	return h, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
