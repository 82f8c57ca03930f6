package service

import "testing"

// TestComputeRiskTolerance tests the risk tolerance derivation.
//
// WHY: The derivation is order-significant: conservative triggers must win
// over aggressive qualifications, otherwise a 60-year-old high earner would
// be classified aggressive. The same inputs must always give the same answer
// since auto-mode profiles re-derive on every edit.
func TestComputeRiskTolerance(t *testing.T) {
	cases := []struct {
		name            string
		age             int
		income          float64
		retirementYears int
		obligations     float64
		want            string
	}{
		{"short runway pins conservative", 40, 150000, 10, 500, RiskConservative},
		{"age pins conservative", 55, 150000, 30, 500, RiskConservative},
		{"heavy obligations pin conservative", 30, 150000, 30, 2500, RiskConservative},
		{"conservative wins over aggressive qualification", 56, 200000, 30, 0, RiskConservative},
		{"long runway high income low obligations is aggressive", 30, 100000, 25, 1000, RiskAggressive},
		{"misses aggressive income floor", 30, 99999, 30, 500, RiskModerate},
		{"misses aggressive runway floor", 30, 150000, 24, 500, RiskModerate},
		{"obligations above aggressive cap", 30, 150000, 30, 1001, RiskModerate},
		{"middle of the road", 40, 60000, 20, 1200, RiskModerate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeRiskTolerance(tc.age, tc.income, tc.retirementYears, tc.obligations)
			if got != tc.want {
				t.Errorf("ComputeRiskTolerance(%d, %.0f, %d, %.0f) = %q, want %q",
					tc.age, tc.income, tc.retirementYears, tc.obligations, got, tc.want)
			}

			// Determinism: repeat calls agree
			if again := ComputeRiskTolerance(tc.age, tc.income, tc.retirementYears, tc.obligations); again != got {
				t.Errorf("Expected deterministic result, got %q then %q", got, again)
			}
		})
	}
}
