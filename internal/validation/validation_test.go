package validation_test

import (
	"errors"
	"testing"

	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/api/request"
	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/validation"
)

func TestValidateUUID(t *testing.T) {
	if err := validation.ValidateUUID("550e8400-e29b-41d4-a716-446655440000"); err != nil {
		t.Errorf("Expected valid UUID to pass, got %v", err)
	}

	for _, id := range []string{"", "not-a-uuid", "550e8400"} {
		err := validation.ValidateUUID(id)
		if !errors.Is(err, validation.ErrInvalidUUID) {
			t.Errorf("Expected ErrInvalidUUID for %q, got %v", id, err)
		}
	}
}

func TestNormalizeTicker(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"aapl", "AAPL"},
		{"  MSFT  ", "MSFT"},
		{"BRK.B", "BRK.B"},
		{"", ""},
	}

	for _, tc := range cases {
		if got := validation.NormalizeTicker(tc.in); got != tc.want {
			t.Errorf("NormalizeTicker(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidateTickerFormat(t *testing.T) {
	for _, ticker := range []string{"A", "AAPL", "BRKB", "ABCDEFGHIJ", "123"} {
		if err := validation.ValidateTickerFormat(ticker); err != nil {
			t.Errorf("Expected %q to be format-valid, got %v", ticker, err)
		}
	}

	for _, ticker := range []string{"", "aapl", "BRK.B", "ABCDEFGHIJK", "AB C", "AB-C"} {
		if err := validation.ValidateTickerFormat(ticker); err == nil {
			t.Errorf("Expected %q to be rejected", ticker)
		}
	}
}

func TestValidateQuarter(t *testing.T) {
	for _, quarter := range []string{"2025Q1", "2024Q4", "1999Q2"} {
		if err := validation.ValidateQuarter(quarter); err != nil {
			t.Errorf("Expected %q to be valid, got %v", quarter, err)
		}
	}

	for _, quarter := range []string{"", "2025Q5", "2025Q0", "2025-Q1", "25Q1", "2025q1"} {
		if err := validation.ValidateQuarter(quarter); err == nil {
			t.Errorf("Expected %q to be rejected", quarter)
		}
	}
}

func TestValidateHolding(t *testing.T) {
	t.Run("accepts well-formed holding", func(t *testing.T) {
		err := validation.ValidateHolding(request.HoldingRequest{
			Ticker:   "AAPL",
			Shares:   10,
			AvgPrice: 150.25,
		})
		if err != nil {
			t.Errorf("Expected valid holding to pass, got %v", err)
		}
	})

	t.Run("collects every failing field", func(t *testing.T) {
		err := validation.ValidateHolding(request.HoldingRequest{
			Ticker:   "not valid",
			Shares:   0,
			AvgPrice: -5,
		})
		if err == nil {
			t.Fatal("Expected validation to fail")
		}

		var vErr *validation.Error
		if !errors.As(err, &vErr) {
			t.Fatalf("Expected *validation.Error, got %T", err)
		}
		for _, field := range []string{"ticker", "shares", "avgPrice"} {
			if _, ok := vErr.Fields[field]; !ok {
				t.Errorf("Expected field %q in error, got %v", field, vErr.Fields)
			}
		}
	})

	t.Run("normalizes the ticker before the format gate", func(t *testing.T) {
		for _, ticker := range []string{"aapl", "  MSFT  ", "brk"} {
			err := validation.ValidateHolding(request.HoldingRequest{
				Ticker:   ticker,
				Shares:   10,
				AvgPrice: 150,
			})
			if err != nil {
				t.Errorf("Expected %q to pass after normalization, got %v", ticker, err)
			}
		}
	})

	t.Run("rejects fractional share edge cases", func(t *testing.T) {
		err := validation.ValidateHolding(request.HoldingRequest{
			Ticker:   "AAPL",
			Shares:   0.0001,
			AvgPrice: 150,
		})
		if err != nil {
			t.Errorf("Expected fractional shares to pass, got %v", err)
		}
	})
}

func TestValidateReplaceHoldings(t *testing.T) {
	t.Run("indexes the failing entry", func(t *testing.T) {
		err := validation.ValidateReplaceHoldings(request.ReplaceHoldingsRequest{
			Holdings: []request.HoldingRequest{
				{Ticker: "AAPL", Shares: 10, AvgPrice: 150},
				{Ticker: "", Shares: 5, AvgPrice: 100},
			},
		})
		if err == nil {
			t.Fatal("Expected validation to fail")
		}

		var vErr *validation.Error
		if !errors.As(err, &vErr) {
			t.Fatalf("Expected *validation.Error, got %T", err)
		}
		if _, ok := vErr.Fields["holdings[1]"]; !ok {
			t.Errorf("Expected holdings[1] in error, got %v", vErr.Fields)
		}
		if _, ok := vErr.Fields["holdings[0]"]; ok {
			t.Errorf("Expected holdings[0] to be clean, got %v", vErr.Fields)
		}
	})

	t.Run("empty list is allowed", func(t *testing.T) {
		err := validation.ValidateReplaceHoldings(request.ReplaceHoldingsRequest{})
		if err != nil {
			t.Errorf("Expected empty replacement to pass validation, got %v", err)
		}
	})
}

func TestValidateCreateProfile(t *testing.T) {
	valid := request.CreateProfileRequest{
		Age:                35,
		Income:             85000,
		RiskTolerance:      "moderate",
		RiskAssessmentMode: "manual",
		RetirementYears:    30,
		ObligationsAmount:  1500,
	}

	t.Run("accepts well-formed profile", func(t *testing.T) {
		if err := validation.ValidateCreateProfile(valid); err != nil {
			t.Errorf("Expected valid profile to pass, got %v", err)
		}
	})

	t.Run("auto mode does not require a tolerance", func(t *testing.T) {
		req := valid
		req.RiskAssessmentMode = "auto"
		req.RiskTolerance = ""
		if err := validation.ValidateCreateProfile(req); err != nil {
			t.Errorf("Expected auto mode without tolerance to pass, got %v", err)
		}
	})

	t.Run("manual mode requires a known tolerance", func(t *testing.T) {
		req := valid
		req.RiskTolerance = "yolo"
		if err := validation.ValidateCreateProfile(req); err == nil {
			t.Error("Expected unknown tolerance to fail in manual mode")
		}
	})

	t.Run("rejects out-of-range fields", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*request.CreateProfileRequest)
		}{
			{"age too low", func(r *request.CreateProfileRequest) { r.Age = 17 }},
			{"age too high", func(r *request.CreateProfileRequest) { r.Age = 121 }},
			{"negative income", func(r *request.CreateProfileRequest) { r.Income = -1 }},
			{"retirement too long", func(r *request.CreateProfileRequest) { r.RetirementYears = 81 }},
			{"negative obligations", func(r *request.CreateProfileRequest) { r.ObligationsAmount = -1 }},
			{"unknown mode", func(r *request.CreateProfileRequest) { r.RiskAssessmentMode = "psychic" }},
		}

		for _, tc := range cases {
			req := valid
			tc.mutate(&req)
			if err := validation.ValidateCreateProfile(req); err == nil {
				t.Errorf("Expected %s to fail", tc.name)
			}
		}
	})
}

func TestValidateUpdateProfile(t *testing.T) {
	t.Run("empty update is valid", func(t *testing.T) {
		if err := validation.ValidateUpdateProfile(request.UpdateProfileRequest{}); err != nil {
			t.Errorf("Expected empty update to pass, got %v", err)
		}
	})

	t.Run("provided fields are range-checked", func(t *testing.T) {
		badAge := 200
		err := validation.ValidateUpdateProfile(request.UpdateProfileRequest{Age: &badAge})
		if err == nil {
			t.Error("Expected out-of-range age to fail")
		}
	})

	t.Run("explicit tolerance must be known", func(t *testing.T) {
		bad := "reckless"
		err := validation.ValidateUpdateProfile(request.UpdateProfileRequest{RiskTolerance: &bad})
		if err == nil {
			t.Error("Expected unknown tolerance to fail")
		}
	})
}
