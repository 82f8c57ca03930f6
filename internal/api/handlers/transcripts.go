package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/api/response"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/apperrors"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/service"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/validation"
)

// TranscriptHandler handles HTTP requests for earnings transcript endpoints.
type TranscriptHandler struct {
	transcriptService *service.TranscriptService
}

// NewTranscriptHandler creates a new TranscriptHandler with the provided service dependency.
func NewTranscriptHandler(transcriptService *service.TranscriptService) *TranscriptHandler {
	return &TranscriptHandler{
		transcriptService: transcriptService,
	}
}

// Summary handles GET requests to retrieve the summarized transcript for a
// ticker and quarter. The optional "fallback" query parameter allows walking
// back up to four prior quarters when the requested one has no transcript.
//
// Endpoint: GET /api/transcripts/{ticker}/{quarter}[?fallback=N]
// Response: 200 OK with Transcript
// Error: 400 Bad Request if the ticker or quarter is malformed
// Error: 404 Not Found if no transcript exists in the fallback window
// Error: 429 Too Many Requests if the provider is rate limited
// Error: 500 Internal Server Error if the fetch fails
func (h *TranscriptHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ticker := validation.NormalizeTicker(chi.URLParam(r, "ticker"))
	if err := validation.ValidateTickerFormat(ticker); err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidTicker.Error(), err.Error())
		return
	}

	quarter := chi.URLParam(r, "quarter")
	if err := validation.ValidateQuarter(quarter); err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidQuarter.Error(), err.Error())
		return
	}

	fallback := parseFallback(r)

	record, err := h.transcriptService.GetSummary(r.Context(), ticker, quarter, fallback)
	if err != nil {
		if errors.Is(err, apperrors.ErrTranscriptNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTranscriptNotFound.Error(), err.Error())
			return
		}
		respondProviderError(w, err, apperrors.ErrFailedToSummarize)
		return
	}

	response.RespondJSON(w, http.StatusOK, record)
}

// Digest handles POST requests to summarize the latest transcripts for every
// holding of a user and cache the digest on the profile.
//
// Endpoint: POST /api/users/{userId}/transcripts/{quarter}[?fallback=N]
// Response: 200 OK with a ticker-to-summary map
// Error: 400 Bad Request if the quarter is malformed
// Error: 500 Internal Server Error if the digest fails
func (h *TranscriptHandler) Digest(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	quarter := chi.URLParam(r, "quarter")
	if err := validation.ValidateQuarter(quarter); err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidQuarter.Error(), err.Error())
		return
	}

	fallback := parseFallback(r)

	digest, err := h.transcriptService.DigestPortfolio(r.Context(), userID, quarter, fallback)
	if err != nil {
		respondProviderError(w, err, apperrors.ErrFailedToSummarize)
		return
	}

	response.RespondJSON(w, http.StatusOK, digest)
}

// parseFallback reads the optional "fallback" query parameter; malformed or
// missing values default to zero.
func parseFallback(r *http.Request) int {
	raw := r.URL.Query().Get("fallback")
	if raw == "" {
		return 0
	}
	fallback, err := strconv.Atoi(raw)
	if err != nil || fallback < 0 {
		return 0
	}
	return fallback
}
