package validation

import (
	"fmt"

	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/api/request"
)

var ValidRiskTolerance = map[string]bool{
	"conservative": true, "moderate": true, "aggressive": true,
}

var ValidRiskAssessmentMode = map[string]bool{
	"manual": true, "auto": true,
}

func ValidateCreateProfile(req request.CreateProfileRequest) error {
	errors := make(map[string]string)

	if req.Age < 18 || req.Age > 120 {
		errors["age"] = "age must be between 18 and 120"
	}
	if req.Income < 0 {
		errors["income"] = "income cannot be negative"
	}
	if req.RetirementYears < 0 || req.RetirementYears > 80 {
		errors["retirementYears"] = "retirementYears must be between 0 and 80"
	}
	if req.ObligationsAmount < 0 {
		errors["obligationsAmount"] = "obligationsAmount cannot be negative"
	}
	if req.RiskAssessmentMode != "" && !ValidRiskAssessmentMode[req.RiskAssessmentMode] {
		errors["riskAssessmentMode"] = fmt.Sprintf("invalid risk assessment mode: %s", req.RiskAssessmentMode)
	}
	// Tolerance is required only in manual mode; auto mode derives it.
	if req.RiskAssessmentMode != "auto" && !ValidRiskTolerance[req.RiskTolerance] {
		errors["riskTolerance"] = fmt.Sprintf("invalid risk tolerance: %s", req.RiskTolerance)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

func ValidateUpdateProfile(req request.UpdateProfileRequest) error {
	errors := make(map[string]string)

	if req.Age != nil && (*req.Age < 18 || *req.Age > 120) {
		errors["age"] = "age must be between 18 and 120"
	}
	if req.Income != nil && *req.Income < 0 {
		errors["income"] = "income cannot be negative"
	}
	if req.RetirementYears != nil && (*req.RetirementYears < 0 || *req.RetirementYears > 80) {
		errors["retirementYears"] = "retirementYears must be between 0 and 80"
	}
	if req.ObligationsAmount != nil && *req.ObligationsAmount < 0 {
		errors["obligationsAmount"] = "obligationsAmount cannot be negative"
	}
	if req.RiskAssessmentMode != nil && !ValidRiskAssessmentMode[*req.RiskAssessmentMode] {
		errors["riskAssessmentMode"] = fmt.Sprintf("invalid risk assessment mode: %s", *req.RiskAssessmentMode)
	}
	if req.RiskTolerance != nil && !ValidRiskTolerance[*req.RiskTolerance] {
		errors["riskTolerance"] = fmt.Sprintf("invalid risk tolerance: %s", *req.RiskTolerance)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
