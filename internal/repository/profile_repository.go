package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/model"
)

// ProfileRepository provides data access methods for the user_profile table.
// The profile row is created with the user; the cached analysis columns are
// written and cleared independently of the demographic fields on user.
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new ProfileRepository with the provided database connection.
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Get retrieves a user's profile.
// Returns (nil, nil) when the user has no profile row.
func (r *ProfileRepository) Get(userID string) (*model.UserProfile, error) {
	query := `
		SELECT user_id, ai_analysis, portfolio_analysis, portfolio_analysis_at,
		       portfolio_metrics, portfolio_transcripts, portfolio_transcripts_quarter,
		       created_at
		FROM user_profile
		WHERE user_id = ?
	`

	var p model.UserProfile
	var analysis, analysisAt, metrics, transcripts, transcriptsQuarter sql.NullString
	var createdAtStr string

	err := r.db.QueryRow(query, userID).Scan(
		&p.UserID,
		&p.AIAnalysis,
		&analysis,
		&analysisAt,
		&metrics,
		&transcripts,
		&transcriptsQuarter,
		&createdAtStr,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user_profile table: %w", err)
	}

	if analysis.Valid {
		p.PortfolioAnalysis = &analysis.String
	}
	if analysisAt.Valid {
		parsed, err := ParseTime(analysisAt.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse portfolio_analysis_at: %w", err)
		}
		p.PortfolioAnalysisAt = &parsed
	}
	if metrics.Valid {
		p.PortfolioMetrics = &metrics.String
	}
	if transcripts.Valid {
		p.PortfolioTranscripts = &transcripts.String
	}
	if transcriptsQuarter.Valid {
		p.PortfolioTranscriptsQuarter = &transcriptsQuarter.String
	}

	p.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return &p, nil
}

// Insert creates the profile row. The profile-creation narrative is written
// once here and never updated afterwards.
func (r *ProfileRepository) Insert(ctx context.Context, p *model.UserProfile) error {
	query := `
		INSERT INTO user_profile (user_id, ai_analysis, created_at)
		VALUES (?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query, p.UserID, p.AIAnalysis, FormatTime(p.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert user_profile: %w", err)
	}

	return nil
}

// SaveAnalysis stores a regenerated narrative with its generation timestamp.
// The two columns move together: this is the only place they are set.
func (r *ProfileRepository) SaveAnalysis(ctx context.Context, userID, analysis string, at time.Time) error {
	query := `
		UPDATE user_profile
		SET portfolio_analysis = ?, portfolio_analysis_at = ?
		WHERE user_id = ?
	`

	_, err := r.db.ExecContext(ctx, query, analysis, FormatTime(at), userID)
	if err != nil {
		return fmt.Errorf("failed to save portfolio analysis: %w", err)
	}

	return nil
}

// ClearAnalysis drops the cached narrative and its timestamp together.
// Called on every profile edit so the next analysis regenerates regardless
// of the cooldown window.
func (r *ProfileRepository) ClearAnalysis(ctx context.Context, userID string) error {
	query := `
		UPDATE user_profile
		SET portfolio_analysis = NULL, portfolio_analysis_at = NULL
		WHERE user_id = ?
	`

	_, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to clear portfolio analysis: %w", err)
	}

	return nil
}

// SaveMetrics stores the JSON-encoded metrics snapshot.
func (r *ProfileRepository) SaveMetrics(ctx context.Context, userID, metricsJSON string) error {
	query := `
		UPDATE user_profile
		SET portfolio_metrics = ?
		WHERE user_id = ?
	`

	_, err := r.db.ExecContext(ctx, query, metricsJSON, userID)
	if err != nil {
		return fmt.Errorf("failed to save portfolio metrics: %w", err)
	}

	return nil
}

// SaveTranscripts stores the JSON-encoded per-ticker transcript digest and
// the quarter it was built for.
func (r *ProfileRepository) SaveTranscripts(ctx context.Context, userID, quarter, transcriptsJSON string) error {
	query := `
		UPDATE user_profile
		SET portfolio_transcripts = ?, portfolio_transcripts_quarter = ?
		WHERE user_id = ?
	`

	_, err := r.db.ExecContext(ctx, query, transcriptsJSON, quarter, userID)
	if err != nil {
		return fmt.Errorf("failed to save portfolio transcripts: %w", err)
	}

	return nil
}
