package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/api/response"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/apperrors"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/service"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/validation"
)

// TickerHandler handles HTTP requests for ticker validation and quote endpoints.
type TickerHandler struct {
	tickerService     *service.TickerService
	marketDataService *service.MarketDataService
}

// NewTickerHandler creates a new TickerHandler with the provided service dependencies.
func NewTickerHandler(tickerService *service.TickerService, marketDataService *service.MarketDataService) *TickerHandler {
	return &TickerHandler{
		tickerService:     tickerService,
		marketDataService: marketDataService,
	}
}

// ValidateResponse reports a ticker validation outcome.
type ValidateResponse struct {
	Ticker string `json:"ticker"`
	Valid  bool   `json:"valid"`
}

// Validate handles GET requests to check whether a ticker is acceptable.
//
// Endpoint: GET /api/tickers/{ticker}/validate
// Response: 200 OK with ValidateResponse
// Error: 429 Too Many Requests if the provider is rate limited
// Error: 500 Internal Server Error if validation fails
func (h *TickerHandler) Validate(w http.ResponseWriter, r *http.Request) {
	ticker := validation.NormalizeTicker(chi.URLParam(r, "ticker"))

	valid, err := h.tickerService.Validate(r.Context(), ticker)
	if err != nil {
		respondProviderError(w, err, apperrors.ErrFailedToValidateTicker)
		return
	}

	response.RespondJSON(w, http.StatusOK, ValidateResponse{Ticker: ticker, Valid: valid})
}

// AssetType handles GET requests to classify a ticker's asset type.
//
// Endpoint: GET /api/tickers/{ticker}/asset-type
// Response: 200 OK with {"ticker": ..., "assetType": ...}
// Error: 400 Bad Request if the ticker is malformed
// Error: 429 Too Many Requests if the provider is rate limited
// Error: 500 Internal Server Error if classification fails
func (h *TickerHandler) AssetType(w http.ResponseWriter, r *http.Request) {
	ticker := validation.NormalizeTicker(chi.URLParam(r, "ticker"))
	if err := validation.ValidateTickerFormat(ticker); err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidTicker.Error(), err.Error())
		return
	}

	assetType, err := h.marketDataService.GetAssetType(r.Context(), ticker)
	if err != nil {
		respondProviderError(w, err, apperrors.ErrFailedToRetrieveAssetType)
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]string{
		"ticker":    ticker,
		"assetType": assetType,
	})
}

// Quote handles GET requests to fetch a ticker's quote through the cache.
// The optional "refresh" query parameter forces a provider round-trip.
//
// Endpoint: GET /api/tickers/{ticker}/quote[?refresh=true]
// Response: 200 OK with StockQuote
// Error: 400 Bad Request if the ticker is malformed
// Error: 404 Not Found if the provider does not know the ticker
// Error: 429 Too Many Requests if the provider is rate limited
// Error: 500 Internal Server Error if the fetch fails
func (h *TickerHandler) Quote(w http.ResponseWriter, r *http.Request) {
	ticker := validation.NormalizeTicker(chi.URLParam(r, "ticker"))
	if err := validation.ValidateTickerFormat(ticker); err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidTicker.Error(), err.Error())
		return
	}

	cacheValid := service.QuoteCacheValid
	if r.URL.Query().Get("refresh") == "true" {
		cacheValid = service.NeverValid
	}

	quote, _, err := h.marketDataService.GetQuote(r.Context(), ticker, time.Now().UTC(), cacheValid)
	if err != nil {
		if errors.Is(err, apperrors.ErrTickerNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTickerNotFound.Error(), err.Error())
			return
		}
		respondProviderError(w, err, apperrors.ErrFailedToRetrieveQuote)
		return
	}

	response.RespondJSON(w, http.StatusOK, quote)
}

// respondProviderError maps provider-facing failures onto HTTP statuses,
// falling back to a 500 with the given operation error.
func respondProviderError(w http.ResponseWriter, err error, fallback error) {
	switch {
	case errors.Is(err, apperrors.ErrProviderRateLimited):
		response.RespondError(w, http.StatusTooManyRequests, apperrors.ErrProviderRateLimited.Error(), err.Error())
	case errors.Is(err, apperrors.ErrProviderKeyMissing):
		response.RespondError(w, http.StatusServiceUnavailable, apperrors.ErrProviderKeyMissing.Error(), err.Error())
	default:
		response.RespondError(w, http.StatusInternalServerError, fallback.Error(), err.Error())
	}
}
