// Package pricing fetches a current share price for display-only
// upside/downside context. It never feeds the valuation math.
package pricing

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// stooqQuoteURL serves a one-line CSV quote: Symbol,Date,Time,Open,High,Low,Close,Volume
const stooqQuoteURL = "https://stooq.com/q/l/?s=%s.us&f=sd2t2ohlcv&h&e=csv"

// Client fetches current prices.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a pricing client.
func NewClient() *Client {
	return &Client{httpClient: &http.Client{Timeout: 10 * time.Second}}
}

// CurrentPrice returns the latest daily close for a ticker. Callers treat
// any error as "price unavailable"; the pipeline continues without it.
func (c *Client) CurrentPrice(ctx context.Context, ticker string) (float64, error) {
	url := fmt.Sprintf(stooqQuoteURL, strings.ToLower(ticker))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("price request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("price API returned status %d", resp.StatusCode)
	}

	records, err := csv.NewReader(resp.Body).ReadAll()
	if err != nil {
		return 0, fmt.Errorf("failed to parse price CSV: %w", err)
	}
	if len(records) < 2 || len(records[1]) < 7 {
		return 0, fmt.Errorf("unexpected price CSV shape for %s", ticker)
	}

	closeField := records[1][6]
	if closeField == "N/D" {
		return 0, fmt.Errorf("no price data for %s", ticker)
	}
	price, err := strconv.ParseFloat(closeField, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid close price %q for %s: %w", closeField, ticker, err)
	}
	return price, nil
}
