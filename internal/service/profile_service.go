package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/api/request"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/model"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/repository"
)

// ProfileService manages user risk profiles and the profile-level caches that
// hang off them. Any successful profile edit invalidates the cached portfolio
// narrative, since the narrative embeds profile facts.
type ProfileService struct {
	userRepo    *repository.UserRepository
	profileRepo *repository.ProfileRepository
}

// NewProfileService creates a new profile service.
func NewProfileService(userRepo *repository.UserRepository, profileRepo *repository.ProfileRepository) *ProfileService {
	return &ProfileService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
	}
}

// GetUser returns a user by ID.
func (s *ProfileService) GetUser(userID string) (model.User, error) {
	return s.userRepo.GetUser(userID)
}

// GetProfile returns the profile row for a user, or nil when none exists.
func (s *ProfileService) GetProfile(userID string) (*model.UserProfile, error) {
	return s.profileRepo.Get(userID)
}

// CreateProfile registers a user with their risk profile and stores the
// one-time profile narrative. In auto assessment mode the risk tolerance is
// derived from the other profile facts; any client-supplied tolerance is
// ignored.
func (s *ProfileService) CreateProfile(ctx context.Context, req request.CreateProfileRequest, now time.Time) (model.User, error) {
	mode := req.RiskAssessmentMode
	if mode == "" {
		mode = "manual"
	}

	tolerance := req.RiskTolerance
	if mode == "auto" {
		tolerance = ComputeRiskTolerance(req.Age, req.Income, req.RetirementYears, req.ObligationsAmount)
	}

	user := model.User{
		ID:                 uuid.New().String(),
		Age:                req.Age,
		Income:             req.Income,
		RiskTolerance:      tolerance,
		RiskAssessmentMode: mode,
		RetirementYears:    req.RetirementYears,
		ObligationsAmount:  req.ObligationsAmount,
		CreatedAt:          now,
	}
	if err := s.userRepo.InsertUser(ctx, &user); err != nil {
		return model.User{}, err
	}

	profile := model.UserProfile{
		UserID:     user.ID,
		AIAnalysis: BuildProfileNarrative(user.Age, user.RetirementYears, user.RiskTolerance, user.ObligationsAmount),
		CreatedAt:  now,
	}
	if err := s.profileRepo.Insert(ctx, &profile); err != nil {
		return model.User{}, err
	}

	return user, nil
}

// UpdateProfile applies the provided fields to a user's profile. When the
// resulting assessment mode is auto, the risk tolerance is re-derived from
// the updated facts. The cached portfolio narrative is cleared even when the
// new values equal the old ones.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, req request.UpdateProfileRequest) (model.User, error) {
	user, err := s.userRepo.GetUser(userID)
	if err != nil {
		return model.User{}, err
	}

	if req.Age != nil {
		user.Age = *req.Age
	}
	if req.Income != nil {
		user.Income = *req.Income
	}
	if req.RiskTolerance != nil {
		user.RiskTolerance = *req.RiskTolerance
	}
	if req.RiskAssessmentMode != nil {
		user.RiskAssessmentMode = *req.RiskAssessmentMode
	}
	if req.RetirementYears != nil {
		user.RetirementYears = *req.RetirementYears
	}
	if req.ObligationsAmount != nil {
		user.ObligationsAmount = *req.ObligationsAmount
	}

	if user.RiskAssessmentMode == "auto" {
		user.RiskTolerance = ComputeRiskTolerance(user.Age, user.Income, user.RetirementYears, user.ObligationsAmount)
	}

	if err := s.userRepo.UpdateUser(ctx, &user); err != nil {
		return model.User{}, err
	}

	if err := s.profileRepo.ClearAnalysis(ctx, userID); err != nil {
		return model.User{}, err
	}

	return user, nil
}
