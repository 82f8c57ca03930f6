package service

import (
	"database/sql"

	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/database"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/version"
)

// SystemService answers the health and version endpoints. Health reflects
// database reachability only; the market-data provider is an external
// collaborator and is not part of liveness.
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService.
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{db: db}
}

// CheckHealth pings the database through the shared health check.
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// CheckVersion returns the build version string.
func (s *SystemService) CheckVersion() string {
	return version.Version
}
