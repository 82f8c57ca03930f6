// Package alphavantage provides a throttled client for the Alpha Vantage API.
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jkoster/Portfolio-Analyzer-Backend/internal/apperrors"
)

const (
	// DefaultBaseURL is the Alpha Vantage query endpoint.
	DefaultBaseURL = "https://www.alphavantage.co/query"

	// DefaultMinInterval is the minimum gap between outbound provider calls.
	// Alpha Vantage's free tier allows roughly one call per second; 1.1s
	// keeps a safety margin.
	DefaultMinInterval = 1100 * time.Millisecond
)

// Client is the interface consumed by the service layer. All methods share
// one throttle gate: concurrent callers serialize in arrival order so the
// provider's rate limit is never exceeded process-wide.
type Client interface {
	GetQuote(ctx context.Context, ticker string) (Quote, error)
	GetOverview(ctx context.Context, ticker string) (Quote, error)
	GetTranscript(ctx context.Context, ticker, quarter string) (Transcript, error)
}

// HTTPClient implements Client against the real Alpha Vantage API.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures the client
type Option func(*HTTPClient)

// WithBaseURL sets the base URL (used by tests to point at a local server).
func WithBaseURL(baseURL string) Option {
	return func(c *HTTPClient) {
		c.baseURL = baseURL
	}
}

// WithMinInterval sets the minimum interval between provider calls.
func WithMinInterval(interval time.Duration) Option {
	return func(c *HTTPClient) {
		c.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *HTTPClient) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Alpha Vantage client. An empty apiKey is accepted
// here; calls will fail with apperrors.ErrProviderKeyMissing at first use.
func NewClient(apiKey string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(DefaultMinInterval), 1),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// GetQuote fetches the current price for a ticker.
// Returns apperrors.ErrTickerNotFound when the provider returns an empty
// quote (its way of reporting an unknown symbol), and
// apperrors.ErrProviderRateLimited when the provider throttles the call.
func (c *HTTPClient) GetQuote(ctx context.Context, ticker string) (Quote, error) {
	params := url.Values{}
	params.Set("function", "GLOBAL_QUOTE")
	params.Set("symbol", ticker)

	var resp globalQuoteResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return Quote{}, err
	}
	if err := checkThrottled(resp.Note, resp.Information); err != nil {
		return Quote{}, err
	}

	if resp.GlobalQuote.Price == "" {
		return Quote{}, fmt.Errorf("%w: %s", apperrors.ErrTickerNotFound, ticker)
	}
	price, err := strconv.ParseFloat(resp.GlobalQuote.Price, 64)
	if err != nil {
		return Quote{}, fmt.Errorf("failed to parse quote price %q: %w", resp.GlobalQuote.Price, err)
	}

	return Quote{Ticker: ticker, CurrentPrice: price}, nil
}

// GetOverview fetches sector and asset-type metadata for a ticker.
// Missing fields default to "Unknown"; the cache layer treats that value as
// still-unknown and will retry the backfill on a later refresh.
func (c *HTTPClient) GetOverview(ctx context.Context, ticker string) (Quote, error) {
	params := url.Values{}
	params.Set("function", "OVERVIEW")
	params.Set("symbol", ticker)

	var resp overviewResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return Quote{}, err
	}
	if err := checkThrottled(resp.Note, resp.Information); err != nil {
		return Quote{}, err
	}

	sector := resp.Sector
	if sector == "" {
		sector = "Unknown"
	}
	assetType := resp.AssetType
	if assetType == "" {
		assetType = "Unknown"
	}

	return Quote{Ticker: ticker, Sector: sector, AssetType: assetType}, nil
}

// GetTranscript fetches the earnings-call transcript for a (ticker, quarter).
// The provider may return an empty transcript for quarters without a call;
// that is returned as-is, not as an error.
func (c *HTTPClient) GetTranscript(ctx context.Context, ticker, quarter string) (Transcript, error) {
	params := url.Values{}
	params.Set("function", "EARNINGS_CALL_TRANSCRIPT")
	params.Set("symbol", ticker)
	params.Set("quarter", quarter)

	var resp transcriptResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return Transcript{}, err
	}
	if err := checkThrottled(resp.Note, resp.Information); err != nil {
		return Transcript{}, err
	}

	parts := make([]string, 0, len(resp.Transcript))
	for _, segment := range resp.Transcript {
		if segment.Content != "" {
			parts = append(parts, segment.Content)
		}
	}

	return Transcript{
		Ticker:  ticker,
		Quarter: quarter,
		Text:    strings.TrimSpace(strings.Join(parts, " ")),
	}, nil
}

// get performs a throttled GET request against the provider.
// The limiter is the process-wide gate: every provider call waits here first.
func (c *HTTPClient) get(ctx context.Context, params url.Values, result any) error {
	if c.apiKey == "" {
		return apperrors.ErrProviderKeyMissing
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("throttle wait: %w", err)
	}

	params.Set("apikey", c.apiKey)
	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return apperrors.ErrProviderRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("provider returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// checkThrottled maps the provider's in-band rate-limit payload to the typed
// rate-limit error. Alpha Vantage reports throttling inside a 200 response
// via "Note" or "Information" fields.
func checkThrottled(note, information string) error {
	if note != "" {
		return fmt.Errorf("%w: %s", apperrors.ErrProviderRateLimited, note)
	}
	if information != "" {
		return fmt.Errorf("%w: %s", apperrors.ErrProviderRateLimited, information)
	}
	return nil
}
