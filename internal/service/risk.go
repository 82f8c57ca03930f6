package service

// Risk tolerance levels returned by ComputeRiskTolerance.
const (
	RiskConservative = "conservative"
	RiskModerate     = "moderate"
	RiskAggressive   = "aggressive"
)

// ComputeRiskTolerance derives a risk tolerance from profile facts. The
// conservative checks run first: a short runway, older age, or heavy fixed
// obligations pins the profile conservative even when income would otherwise
// qualify it as aggressive.
func ComputeRiskTolerance(age int, income float64, retirementYears int, monthlyObligations float64) string {
	if retirementYears <= 10 || age >= 55 || monthlyObligations >= 2500 {
		return RiskConservative
	}
	if retirementYears >= 25 && income >= 100000 && monthlyObligations <= 1000 {
		return RiskAggressive
	}
	return RiskModerate
}
