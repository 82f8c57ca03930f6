package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/apperrors"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/model"
)

// UserRepository provides data access methods for the user table.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository with the provided database connection.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetUser retrieves a user by ID.
// Returns apperrors.ErrUserNotFound if no such user exists.
func (r *UserRepository) GetUser(userID string) (model.User, error) {
	query := `
		SELECT id, age, income, risk_tolerance, risk_assessment_mode,
		       retirement_years, obligations_amount, created_at
		FROM user
		WHERE id = ?
	`

	var u model.User
	var createdAtStr string

	err := r.db.QueryRow(query, userID).Scan(
		&u.ID,
		&u.Age,
		&u.Income,
		&u.RiskTolerance,
		&u.RiskAssessmentMode,
		&u.RetirementYears,
		&u.ObligationsAmount,
		&createdAtStr,
	)
	if err == sql.ErrNoRows {
		return model.User{}, apperrors.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to query user table: %w", err)
	}

	u.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return u, nil
}

// InsertUser creates a new user row.
func (r *UserRepository) InsertUser(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO user (id, age, income, risk_tolerance, risk_assessment_mode,
		                  retirement_years, obligations_amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		u.ID,
		u.Age,
		u.Income,
		u.RiskTolerance,
		u.RiskAssessmentMode,
		u.RetirementYears,
		u.ObligationsAmount,
		FormatTime(u.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// UpdateUser overwrites the profile fields of an existing user.
// Returns apperrors.ErrUserNotFound if the user does not exist.
func (r *UserRepository) UpdateUser(ctx context.Context, u *model.User) error {
	query := `
		UPDATE user
		SET age = ?, income = ?, risk_tolerance = ?, risk_assessment_mode = ?,
		    retirement_years = ?, obligations_amount = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		u.Age,
		u.Income,
		u.RiskTolerance,
		u.RiskAssessmentMode,
		u.RetirementYears,
		u.ObligationsAmount,
		u.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.ErrUserNotFound
	}

	return nil
}
