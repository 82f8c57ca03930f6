package testutil

import (
	"context"

	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/alphavantage"
)

// MockProviderClient is a mock implementation of alphavantage.Client for
// testing. It returns predefined data instead of making API calls and counts
// invocations so tests can assert on provider call economy.
type MockProviderClient struct {
	// QuoteResponse is returned by GetQuote when QuoteErr is nil.
	QuoteResponse alphavantage.Quote
	// QuoteErr is the error to return from GetQuote.
	QuoteErr error
	// OverviewResponse is returned by GetOverview when OverviewErr is nil.
	OverviewResponse alphavantage.Quote
	// OverviewErr is the error to return from GetOverview.
	OverviewErr error
	// TranscriptResponses maps "TICKER/QUARTER" to a transcript text.
	// Missing keys yield an empty transcript, mirroring the provider's
	// behavior for quarters without a call.
	TranscriptResponses map[string]string
	// TranscriptErr is the error to return from GetTranscript.
	TranscriptErr error

	QuoteCalls      int
	OverviewCalls   int
	TranscriptCalls int
}

// NewMockProviderClient creates a mock with a plausible default quote and
// overview.
func NewMockProviderClient() *MockProviderClient {
	return &MockProviderClient{
		QuoteResponse: alphavantage.Quote{
			CurrentPrice: 175.50,
		},
		OverviewResponse: alphavantage.Quote{
			Sector:    "Technology",
			AssetType: "Common Stock",
		},
		TranscriptResponses: map[string]string{},
	}
}

// GetQuote returns the configured quote result.
func (m *MockProviderClient) GetQuote(_ context.Context, ticker string) (alphavantage.Quote, error) {
	m.QuoteCalls++
	if m.QuoteErr != nil {
		return alphavantage.Quote{}, m.QuoteErr
	}
	quote := m.QuoteResponse
	quote.Ticker = ticker
	return quote, nil
}

// GetOverview returns the configured overview result.
func (m *MockProviderClient) GetOverview(_ context.Context, ticker string) (alphavantage.Quote, error) {
	m.OverviewCalls++
	if m.OverviewErr != nil {
		return alphavantage.Quote{}, m.OverviewErr
	}
	overview := m.OverviewResponse
	overview.Ticker = ticker
	return overview, nil
}

// GetTranscript returns the configured transcript for "TICKER/QUARTER", or an
// empty transcript when none is configured.
func (m *MockProviderClient) GetTranscript(_ context.Context, ticker, quarter string) (alphavantage.Transcript, error) {
	m.TranscriptCalls++
	if m.TranscriptErr != nil {
		return alphavantage.Transcript{}, m.TranscriptErr
	}
	return alphavantage.Transcript{
		Ticker:  ticker,
		Quarter: quarter,
		Text:    m.TranscriptResponses[ticker+"/"+quarter],
	}, nil
}

// WithQuoteError configures GetQuote to fail.
func (m *MockProviderClient) WithQuoteError(err error) *MockProviderClient {
	m.QuoteErr = err
	return m
}

// WithOverviewError configures GetOverview to fail.
func (m *MockProviderClient) WithOverviewError(err error) *MockProviderClient {
	m.OverviewErr = err
	return m
}

// WithTranscript configures the transcript text for a (ticker, quarter).
func (m *MockProviderClient) WithTranscript(ticker, quarter, text string) *MockProviderClient {
	m.TranscriptResponses[ticker+"/"+quarter] = text
	return m
}
