package validation

import (
	"fmt"

	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/api/request"
)

// ValidateHolding checks a single holding submission. The ticker is
// normalized (NormalizeTicker) before the format gate, so lowercase or
// padded input is judged by the form the ledger will store. Shares and
// average price must be strictly positive so the weighted-average merge can
// never divide by zero.
func ValidateHolding(req request.HoldingRequest) error {
	errors := make(map[string]string)

	if err := ValidateTickerFormat(NormalizeTicker(req.Ticker)); err != nil {
		errors["ticker"] = "ticker must be 1-10 alphanumeric characters"
	}
	if req.Shares <= 0 {
		errors["shares"] = "shares must be greater than zero"
	}
	if req.AvgPrice <= 0 {
		errors["avgPrice"] = "avgPrice must be greater than zero"
	}
	if len(req.AssetType) > 20 {
		errors["assetType"] = "assetType must be 20 characters or less"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateReplaceHoldings checks every entry of a bulk submission.
// Field keys are indexed so the caller can tell which entry failed.
func ValidateReplaceHoldings(req request.ReplaceHoldingsRequest) error {
	errors := make(map[string]string)

	for i, h := range req.Holdings {
		if err := ValidateHolding(h); err != nil {
			errors[fmt.Sprintf("holdings[%d]", i)] = err.Error()
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
