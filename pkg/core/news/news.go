// Package news scrapes recent headlines for a ticker. Headlines are memo
// context only; failures here never fail an analysis run.
package news

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const defaultBaseURL = "https://finviz.com/quote.ashx?t=%s"

// Headline is one scraped news item.
type Headline struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Scraper fetches recent headlines from a quote page.
type Scraper struct {
	httpClient *http.Client
	baseURL    string
	limit      int
}

// NewScraper creates a scraper with the default source and a 10-headline cap.
func NewScraper() *Scraper {
	return &Scraper{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    defaultBaseURL,
		limit:      10,
	}
}

// RecentHeadlines scrapes the most recent headlines for a ticker.
func (s *Scraper) RecentHeadlines(ctx context.Context, ticker string) ([]Headline, error) {
	url := fmt.Sprintf(s.baseURL, strings.ToUpper(ticker))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; equity-analyst)")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news source returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse news page: %w", err)
	}
	return s.parse(doc), nil
}

func (s *Scraper) parse(doc *goquery.Document) []Headline {
	var headlines []Headline
	doc.Find("table#news-table a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		title := strings.TrimSpace(sel.Text())
		href, _ := sel.Attr("href")
		if title == "" || href == "" {
			return true
		}
		headlines = append(headlines, Headline{Title: title, URL: href})
		return len(headlines) < s.limit
	})
	return headlines
}
