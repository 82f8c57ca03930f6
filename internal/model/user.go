package model

import "time"

// User represents a registered user with their coarse risk profile inputs.
type User struct {
	ID                 string    `json:"id"`
	Age                int       `json:"age"`
	Income             float64   `json:"income"`
	RiskTolerance      string    `json:"riskTolerance"`
	RiskAssessmentMode string    `json:"riskAssessmentMode"`
	RetirementYears    int       `json:"retirementYears"`
	ObligationsAmount  float64   `json:"obligationsAmount"`
	CreatedAt          time.Time `json:"createdAt"`
}
