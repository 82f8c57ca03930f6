package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/api/request"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/api/response"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/apperrors"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/service"
)

// HoldingsHandler handles HTTP requests for holdings endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the holdingsService.
type HoldingsHandler struct {
	holdingsService *service.HoldingsService
}

// NewHoldingsHandler creates a new HoldingsHandler with the provided service dependency.
func NewHoldingsHandler(holdingsService *service.HoldingsService) *HoldingsHandler {
	return &HoldingsHandler{
		holdingsService: holdingsService,
	}
}

// ListHoldings handles GET requests to retrieve all holdings of a user.
//
// Endpoint: GET /api/users/{userId}/holdings
// Response: 200 OK with array of Holding
// Error: 400 Bad Request if user ID is invalid (validated by middleware)
// Error: 500 Internal Server Error if retrieval fails
func (h *HoldingsHandler) ListHoldings(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	holdings, err := h.holdingsService.ListHoldings(r.Context(), userID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveHoldings.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, holdings)
}

// AddHolding handles POST requests to create a holding or merge it into the
// user's existing position for the same ticker.
//
// Endpoint: POST /api/users/{userId}/holdings
// Request Body: HoldingRequest (ticker, shares, avgPrice, assetType)
// Response: 201 Created with the stored Holding
// Error: 400 Bad Request if validation fails or the ticker is unknown
// Error: 429 Too Many Requests if the provider is rate limited
// Error: 500 Internal Server Error if creation fails
func (h *HoldingsHandler) AddHolding(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	req, err := parseJSON[request.HoldingRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	holding, err := h.holdingsService.AddOrMerge(r.Context(), userID, req)
	if err != nil {
		respondHoldingError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, holding)
}

// ReplaceHoldings handles PUT requests to atomically replace the user's
// whole holdings list. Duplicate tickers in the payload are merged.
//
// Endpoint: PUT /api/users/{userId}/holdings
// Request Body: ReplaceHoldingsRequest
// Response: 200 OK with the stored holdings
// Error: 400 Bad Request if validation fails or a ticker is unknown
// Error: 429 Too Many Requests if the provider is rate limited
// Error: 500 Internal Server Error if the replacement fails
func (h *HoldingsHandler) ReplaceHoldings(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	req, err := parseJSON[request.ReplaceHoldingsRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	holdings, err := h.holdingsService.ReplaceHoldings(r.Context(), userID, req)
	if err != nil {
		respondHoldingError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, holdings)
}

// UpdateHolding handles PUT requests to overwrite an existing holding.
//
// Endpoint: PUT /api/users/{userId}/holdings/{holdingId}
// Request Body: HoldingRequest
// Response: 200 OK with the updated Holding
// Error: 400 Bad Request if validation fails or the ticker is unknown
// Error: 404 Not Found if the holding does not exist for the user
// Error: 429 Too Many Requests if the provider is rate limited
// Error: 500 Internal Server Error if the update fails
func (h *HoldingsHandler) UpdateHolding(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	holdingID := chi.URLParam(r, "holdingId")

	req, err := parseJSON[request.HoldingRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	holding, err := h.holdingsService.UpdateHolding(r.Context(), userID, holdingID, req)
	if err != nil {
		respondHoldingError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, holding)
}

// DeleteHolding handles DELETE requests to remove a holding.
//
// Endpoint: DELETE /api/users/{userId}/holdings/{holdingId}
// Response: 204 No Content
// Error: 404 Not Found if the holding does not exist for the user
// Error: 500 Internal Server Error if the deletion fails
func (h *HoldingsHandler) DeleteHolding(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	holdingID := chi.URLParam(r, "holdingId")

	if err := h.holdingsService.DeleteHolding(r.Context(), userID, holdingID); err != nil {
		if errors.Is(err, apperrors.ErrHoldingNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrHoldingNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to delete holding", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// respondHoldingError maps ledger mutation failures onto HTTP statuses.
// Ticker rejection and field validation are client errors; provider rate
// limiting is surfaced as retryable.
func respondHoldingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidTicker):
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidTicker.Error(), err.Error())
	case errors.Is(err, apperrors.ErrHoldingNotFound):
		response.RespondError(w, http.StatusNotFound, apperrors.ErrHoldingNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrProviderRateLimited):
		response.RespondError(w, http.StatusTooManyRequests, apperrors.ErrProviderRateLimited.Error(), err.Error())
	case errors.Is(err, apperrors.ErrProviderKeyMissing):
		response.RespondError(w, http.StatusServiceUnavailable, apperrors.ErrProviderKeyMissing.Error(), err.Error())
	case isValidationError(err):
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
	default:
		response.RespondError(w, http.StatusInternalServerError, "failed to save holding", err.Error())
	}
}
