package edgar

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"
)

// stubTransport serves canned bodies per URL and records request headers.
type stubTransport struct {
	responses map[string]string
	status    int
	lastReq   *http.Request
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.lastReq = req
	body, ok := s.responses[req.URL.String()]
	status := s.status
	if status == 0 {
		status = http.StatusOK
	}
	if !ok {
		status = http.StatusNotFound
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

func TestPadCIK(t *testing.T) {
	cases := map[string]string{
		"320193":     "0000320193",
		"0000320193": "0000320193",
		"1":          "0000000001",
	}
	for in, want := range cases {
		if got := PadCIK(in); got != want {
			t.Errorf("PadCIK(%s) = %s, want %s", in, got, want)
		}
	}
}

func TestResolveCIK(t *testing.T) {
	transport := &stubTransport{responses: map[string]string{
		SECTickerMappingURL: `{"0": {"cik_str": 320193, "ticker": "AAPL", "title": "Apple Inc."}}`,
	}}
	client := NewClient("test-agent test@example.com", nil)
	client.httpClient.Transport = transport

	cik, err := client.ResolveCIK(context.Background(), "aapl")
	if err != nil {
		t.Fatalf("ResolveCIK failed: %v", err)
	}
	if cik != "0000320193" {
		t.Errorf("cik = %s, want 0000320193", cik)
	}
	if ua := transport.lastReq.Header.Get("User-Agent"); ua != "test-agent test@example.com" {
		t.Errorf("User-Agent = %q; SEC requires an identifying header", ua)
	}
}

func TestResolveCIKUnknownTicker(t *testing.T) {
	transport := &stubTransport{responses: map[string]string{
		SECTickerMappingURL: `{}`,
	}}
	client := NewClient("", nil)
	client.httpClient.Transport = transport

	if _, err := client.ResolveCIK(context.Background(), "NOPE"); err == nil {
		t.Error("expected error for unknown ticker")
	}
}

func TestCompanyFactsServedFromCache(t *testing.T) {
	cache := NewFileCacheWithDir(t.TempDir())
	cached := `{"cik": 320193, "entityName": "Apple Inc.", "facts": {"us-gaap": {"Revenues": {"units": {"USD": [{"end": "2024-09-28", "val": 391035000000, "fy": 2024, "fp": "FY", "form": "10-K"}]}}}}}`
	if err := cache.Set("companyfacts", "0000320193", []byte(cached)); err != nil {
		t.Fatal(err)
	}

	// No transport stub: a network hit would fail the test
	client := NewClient("", cache)
	client.httpClient.Transport = &stubTransport{status: http.StatusInternalServerError}

	facts, err := client.CompanyFacts(context.Background(), "320193")
	if err != nil {
		t.Fatalf("CompanyFacts failed: %v", err)
	}
	if facts.EntityName != "Apple Inc." {
		t.Errorf("entity = %q", facts.EntityName)
	}
	concept, ok := facts.Concept("Revenues")
	if !ok || len(concept.Units["USD"]) != 1 {
		t.Error("cached concept data missing")
	}
}

func TestCompanyFactsPopulatesCache(t *testing.T) {
	cache := NewFileCacheWithDir(t.TempDir())
	transport := &stubTransport{responses: map[string]string{
		"https://data.sec.gov/api/xbrl/companyfacts/CIK0000320193.json": `{"cik": 320193, "entityName": "Apple Inc.", "facts": {}}`,
	}}
	client := NewClient("", cache)
	client.httpClient.Transport = transport

	if _, err := client.CompanyFacts(context.Background(), "320193"); err != nil {
		t.Fatalf("CompanyFacts failed: %v", err)
	}
	if !cache.Has("companyfacts", "0000320193") {
		t.Error("response should be written through to the cache")
	}
}

func TestLatestFilingDates(t *testing.T) {
	cache := NewFileCacheWithDir(t.TempDir())
	cached := `{"cik": 320193, "name": "Apple Inc.", "filings": {"recent": {
		"accessionNumber": ["a1", "a2", "a3", "a4"],
		"filingDate": ["2024-11-01", "2024-08-02", "2023-11-03", "2024-02-02"],
		"reportDate": ["2024-09-28", "2024-06-29", "2023-09-30", "2023-12-30"],
		"form": ["10-K", "10-Q", "10-K", "10-Q"]
	}}}`
	if err := cache.Set("submissions", "0000320193", []byte(cached)); err != nil {
		t.Fatal(err)
	}
	client := NewClient("", cache)
	client.httpClient.Transport = &stubTransport{status: http.StatusInternalServerError}

	dates, err := client.LatestFilingDates(context.Background(), "320193")
	if err != nil {
		t.Fatalf("LatestFilingDates failed: %v", err)
	}
	if dates.Latest10K != "2024-11-01" {
		t.Errorf("Latest10K = %s", dates.Latest10K)
	}
	if dates.Latest10Q != "2024-08-02" {
		t.Errorf("Latest10Q = %s", dates.Latest10Q)
	}
}

func TestConceptTaxonomyLookupOrder(t *testing.T) {
	cf := &CompanyFacts{Facts: map[string]map[string]ConceptFacts{
		"dei": {
			"EntityCommonStockSharesOutstanding": {Units: map[string][]FactEntry{
				"shares": {{End: "2024-10-18", Val: 15115823000}},
			}},
		},
	}}
	concept, ok := cf.Concept("EntityCommonStockSharesOutstanding")
	if !ok {
		t.Fatal("dei concepts must be reachable")
	}
	if concept.Units["shares"][0].Val != 15115823000 {
		t.Error("unexpected value")
	}
	if _, ok := cf.Concept("Revenues"); ok {
		t.Error("absent concepts must report false")
	}
}
