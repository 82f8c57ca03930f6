package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/model"
)

// TranscriptRepository provides data access methods for the earnings_transcript table.
type TranscriptRepository struct {
	db *sql.DB
}

// NewTranscriptRepository creates a new TranscriptRepository with the provided database connection.
func NewTranscriptRepository(db *sql.DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

// Get retrieves the transcript record for a (ticker, quarter).
// Returns (nil, nil) when no record exists.
func (r *TranscriptRepository) Get(ticker, quarter string) (*model.Transcript, error) {
	query := `
		SELECT id, ticker, quarter, transcript, summary, fetched_at
		FROM earnings_transcript
		WHERE ticker = ? AND quarter = ?
	`

	var t model.Transcript
	var summary, fetchedAt sql.NullString

	err := r.db.QueryRow(query, ticker, quarter).Scan(
		&t.ID,
		&t.Ticker,
		&t.Quarter,
		&t.Text,
		&summary,
		&fetchedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query earnings_transcript table: %w", err)
	}

	if summary.Valid {
		t.Summary = summary.String
	}
	if fetchedAt.Valid {
		parsed, err := ParseTime(fetchedAt.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse fetched_at: %w", err)
		}
		t.FetchedAt = &parsed
	}

	return &t, nil
}

// Save upserts a transcript record keyed by (ticker, quarter).
// A record whose summary is already non-empty is treated as immutable by the
// service layer; the upsert exists for the first write and for backfilling a
// summary onto a previously raw record.
func (r *TranscriptRepository) Save(ctx context.Context, t *model.Transcript) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}

	var fetchedAt any
	if t.FetchedAt != nil {
		fetchedAt = FormatTime(*t.FetchedAt)
	}

	query := `
		INSERT INTO earnings_transcript (id, ticker, quarter, transcript, summary, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(ticker, quarter) DO UPDATE SET
			transcript = excluded.transcript,
			summary = excluded.summary,
			fetched_at = excluded.fetched_at
	`

	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.Ticker,
		t.Quarter,
		t.Text,
		nullableString(t.Summary),
		fetchedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert earnings_transcript: %w", err)
	}

	return nil
}
