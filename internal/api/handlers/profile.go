package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/api/request"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/api/response"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/apperrors"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/service"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/validation"
)

// ProfileHandler handles HTTP requests for user and profile endpoints.
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler with the provided service dependency.
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
	}
}

// CreateProfile handles POST requests to register a user with their risk profile.
//
// Endpoint: POST /api/users
// Request Body: CreateProfileRequest
// Response: 201 Created with the new User
// Error: 400 Bad Request if validation fails
// Error: 500 Internal Server Error if creation fails
func (h *ProfileHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateProfileRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateProfile(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	user, err := h.profileService.CreateProfile(r.Context(), req, time.Now().UTC())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to create profile", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, user)
}

// GetUser handles GET requests to retrieve a user by ID.
//
// Endpoint: GET /api/users/{userId}
// Response: 200 OK with User
// Error: 400 Bad Request if user ID is invalid (validated by middleware)
// Error: 404 Not Found if user not found
func (h *ProfileHandler) GetUser(w http.ResponseWriter, r *http.Request) {
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

	response.RespondJSON(w, http.StatusOK, user)
}

// GetProfile handles GET requests to retrieve the profile record with its
// narrative caches.
//
// Endpoint: GET /api/users/{userId}/profile
// Response: 200 OK with UserProfile
// Error: 404 Not Found if no profile exists for the user
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	profile, err := h.profileService.GetProfile(userID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveProfile.Error(), err.Error())
		return
	}
	if profile == nil {
		response.RespondError(w, http.StatusNotFound, apperrors.ErrProfileNotFound.Error(), "")
		return
	}

	response.RespondJSON(w, http.StatusOK, profile)
}

// UpdateProfile handles PUT requests to edit profile fields. Any successful
// update clears the cached portfolio analysis.
//
// Endpoint: PUT /api/users/{userId}/profile
// Request Body: UpdateProfileRequest (all fields optional)
// Response: 200 OK with the updated User
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if user not found
// Error: 500 Internal Server Error if the update fails
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	req, err := parseJSON[request.UpdateProfileRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateProfile(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	user, err := h.profileService.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrUserNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to update profile", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, user)
}
