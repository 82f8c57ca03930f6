package request

// CreateProfileRequest is the payload for registering a user risk profile.
type CreateProfileRequest struct {
	Age                int     `json:"age"`
	Income             float64 `json:"income"`
	RiskTolerance      string  `json:"riskTolerance"`
	RiskAssessmentMode string  `json:"riskAssessmentMode"`
	RetirementYears    int     `json:"retirementYears"`
	ObligationsAmount  float64 `json:"obligationsAmount"`
}

// UpdateProfileRequest is the payload for editing profile fields.
// Only provided fields are updated; any successful update clears the
// cached portfolio analysis.
type UpdateProfileRequest struct {
	Age                *int     `json:"age"`
	Income             *float64 `json:"income"`
	RiskTolerance      *string  `json:"riskTolerance"`
	RiskAssessmentMode *string  `json:"riskAssessmentMode"`
	RetirementYears    *int     `json:"retirementYears"`
	ObligationsAmount  *float64 `json:"obligationsAmount"`
}
