package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// SEC EDGAR API endpoints
	SECCompanyFactsURL  = "https://data.sec.gov/api/xbrl/companyfacts/CIK%s.json"
	SECSubmissionsURL   = "https://data.sec.gov/submissions/CIK%s.json"
	SECTickerMappingURL = "https://www.sec.gov/files/company_tickers.json"

	// Fallback User-Agent; SEC rejects requests without one.
	DefaultUserAgent = "EquityAnalyst/1.0 (equity-analyst@example.com)"
)

// Client handles SEC EDGAR API requests. A nil cache disables caching.
type Client struct {
	httpClient *http.Client
	userAgent  string
	cache      *FileCache
}

// NewClient creates a new SEC EDGAR API client.
func NewClient(userAgent string, cache *FileCache) *Client {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		userAgent:  userAgent,
		cache:      cache,
	}
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// SEC requires a User-Agent identifying the caller
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("SEC API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("SEC API returned status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

// getCached reads through the file cache when one is configured.
func (c *Client) getCached(ctx context.Context, kind, cik, url string) ([]byte, error) {
	if c.cache != nil {
		if data := c.cache.Get(kind, cik); data != nil {
			return data, nil
		}
	}
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		_ = c.cache.Set(kind, cik, body)
	}
	return body, nil
}

// ResolveCIK finds the zero-padded 10-digit CIK for a ticker symbol.
func (c *Client) ResolveCIK(ctx context.Context, ticker string) (string, error) {
	body, err := c.get(ctx, SECTickerMappingURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch ticker mapping: %w", err)
	}

	// Response structure: { "0": {"cik_str": 320193, "ticker": "AAPL", "title": "..."}, ... }
	var mapping map[string]struct {
		CIK    int    `json:"cik_str"`
		Ticker string `json:"ticker"`
		Title  string `json:"title"`
	}
	if err := json.Unmarshal(body, &mapping); err != nil {
		return "", fmt.Errorf("failed to parse ticker mapping: %w", err)
	}

	ticker = strings.ToUpper(ticker)
	for _, entry := range mapping {
		if entry.Ticker == ticker {
			return fmt.Sprintf("%010d", entry.CIK), nil
		}
	}
	return "", fmt.Errorf("ticker %s not found in SEC database", ticker)
}

// CompanyFacts fetches the full XBRL companyfacts dataset for a CIK.
func (c *Client) CompanyFacts(ctx context.Context, cik string) (*CompanyFacts, error) {
	cik = PadCIK(cik)
	body, err := c.getCached(ctx, "companyfacts", cik, fmt.Sprintf(SECCompanyFactsURL, cik))
	if err != nil {
		return nil, err
	}

	var facts CompanyFacts
	if err := json.Unmarshal(body, &facts); err != nil {
		return nil, fmt.Errorf("failed to parse companyfacts for CIK %s: %w", cik, err)
	}
	return &facts, nil
}

// LatestFilingDates fetches the submissions index and returns the newest
// 10-K and 10-Q filing dates for a CIK.
func (c *Client) LatestFilingDates(ctx context.Context, cik string) (FilingDates, error) {
	cik = PadCIK(cik)
	body, err := c.getCached(ctx, "submissions", cik, fmt.Sprintf(SECSubmissionsURL, cik))
	if err != nil {
		return FilingDates{}, err
	}

	var subs Submissions
	if err := json.Unmarshal(body, &subs); err != nil {
		return FilingDates{}, fmt.Errorf("failed to parse submissions for CIK %s: %w", cik, err)
	}
	return subs.LatestFilingDates(), nil
}

// PadCIK zero-pads a CIK to the 10 digits the EDGAR URLs expect.
func PadCIK(cik string) string {
	return fmt.Sprintf("%010s", strings.TrimLeft(cik, "0"))
}
