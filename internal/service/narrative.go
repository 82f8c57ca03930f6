package service

import (
	"fmt"
	"strings"

	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/model"
)

// EmptyPortfolioMessage is returned in place of a narrative when the user has
// no holdings to analyze.
const EmptyPortfolioMessage = "Add some holdings to see your portfolio analysis!"

// techTickers is the set used for the technology concentration check.
var techTickers = map[string]struct{}{
	"AAPL":  {},
	"MSFT":  {},
	"GOOGL": {},
	"NVDA":  {},
	"TSLA":  {},
	"META":  {},
	"AMZN":  {},
}

// BuildPortfolioNarrative renders the deterministic portfolio narrative from
// analyzed holdings and the user's risk profile. The same inputs always
// produce the same text.
func BuildPortfolioNarrative(user model.User, holdings []model.HoldingSummary) string {
	techCount := 0
	for _, h := range holdings {
		if _, ok := techTickers[h.Ticker]; ok {
			techCount++
		}
	}
	concentration := 0.0
	if len(holdings) > 0 {
		concentration = float64(techCount) / float64(len(holdings))
	}

	diversificationNote := "Your portfolio shows good sector diversification."
	if concentration > 0.6 {
		diversificationNote = "Your portfolio is heavily concentrated in technology. Consider diversifying into healthcare or utilities."
	}

	bullets := make([]string, 0, len(holdings))
	for _, h := range holdings {
		bullets = append(bullets, fmt.Sprintf("• %s: $%.2f (%+.1f%%)", h.Ticker, h.CurrentValue, h.GainLossPct))
	}

	timelineFit := "slightly aggressive"
	if user.RetirementYears > 20 {
		timelineFit = "well-suited"
	}

	riskMode := user.RiskAssessmentMode
	if riskMode == "" {
		riskMode = "manual"
	}

	return fmt.Sprintf(`Portfolio Analysis Summary:

Overall Assessment:
%s

Holdings Breakdown:
%s

Key Recommendations:
1. Review your positions regularly to maintain target allocation.
2. Consider tax-loss harvesting on underperforming positions.
3. Keep your long-term perspective with %d years until retirement and %s.

Risk Assessment: Your %s risk tolerance (%s assessment) is %s for your timeline.`,
		diversificationNote,
		strings.Join(bullets, "\n"),
		user.RetirementYears,
		obligationsText(user.ObligationsAmount),
		user.RiskTolerance,
		riskMode,
		timelineFit,
	)
}

// BuildProfileNarrative renders the one-time profile narrative produced at
// registration. It is stored once and never regenerated.
func BuildProfileNarrative(age, retirementYears int, riskTolerance string, obligationsAmount float64) string {
	return fmt.Sprintf(`Based on your profile (age %d, %d years to retirement, %s risk tolerance, %s):

Recommended Allocation:
- Equities: 80%%
- Bonds: 15%%
- Cash: 5%%

Key Recommendations:
1. With %d years until retirement, you have time to ride out market volatility
2. Your %s risk tolerance aligns with your timeline and obligations
3. Consider diversifying across large-cap, mid-cap, and international stocks
4. Begin gradually increasing bond allocation as you approach retirement

Focus sectors: Technology, Healthcare, Consumer Discretionary, Financials`,
		age,
		retirementYears,
		riskTolerance,
		obligationsText(obligationsAmount),
		retirementYears,
		riskTolerance,
	)
}

// obligationsText renders the monthly-obligations clause shared by both
// narratives. Amounts are rounded to whole dollars with thousands separators.
func obligationsText(amount float64) string {
	if amount == 0 {
		return "no major obligations reported"
	}
	return fmt.Sprintf("monthly obligations around $%s", groupThousands(fmt.Sprintf("%.0f", amount)))
}

// groupThousands inserts comma separators into a plain digit string.
func groupThousands(digits string) string {
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign = "-"
		digits = digits[1:]
	}
	if len(digits) <= 3 {
		return sign + digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return sign + b.String()
}
