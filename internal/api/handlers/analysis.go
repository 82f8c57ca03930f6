package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/api/response"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/apperrors"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/service"
)

// AnalysisHandler handles HTTP requests for portfolio analysis endpoints.
type AnalysisHandler struct {
	analysisService *service.AnalysisService
	profileService  *service.ProfileService
	cooldown        time.Duration
}

// NewAnalysisHandler creates a new AnalysisHandler. cooldown bounds how often
// the narrative may be regenerated per user.
func NewAnalysisHandler(analysisService *service.AnalysisService, profileService *service.ProfileService, cooldown time.Duration) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
		profileService:  profileService,
		cooldown:        cooldown,
	}
}

// Analyze handles GET requests to run the full portfolio analysis.
//
// Endpoint: GET /api/users/{userId}/analysis
// Response: 200 OK with AnalysisResult
// Error: 404 Not Found if user not found
// Error: 500 Internal Server Error if the analysis fails
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	user, err := h.profileService.GetUser(userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrUserNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToAnalyzePortfolio.Error(), err.Error())
		return
	}

	result, err := h.analysisService.Analyze(r.Context(), user, time.Now().UTC(), h.cooldown)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToAnalyzePortfolio.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// Metrics handles GET requests to recompute portfolio metrics from cached
// quotes without touching the provider or the narrative.
//
// Endpoint: GET /api/users/{userId}/analysis/metrics
// Response: 200 OK with MetricsSnapshot
// Error: 500 Internal Server Error if the computation fails
func (h *AnalysisHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	metrics, err := h.analysisService.ComputeMetricsOnly(r.Context(), userID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToAnalyzePortfolio.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, metrics)
}

// Snapshot handles GET requests to assemble a point-in-time portfolio view
// from cached data.
//
// Endpoint: GET /api/users/{userId}/snapshot
// Response: 200 OK with PortfolioSnapshot
// Error: 404 Not Found if user not found
// Error: 500 Internal Server Error if assembly fails
func (h *AnalysisHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	user, err := h.profileService.GetUser(userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrUserNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveProfile.Error(), err.Error())
		return
	}

	snapshot, err := h.analysisService.BuildSnapshot(r.Context(), user, time.Now().UTC())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToAnalyzePortfolio.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, snapshot)
}
