package pricing

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"
)

type stubTransport struct {
	body   string
	status int
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	status := s.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(s.body)),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

func TestCurrentPrice(t *testing.T) {
	client := NewClient()
	client.httpClient.Transport = &stubTransport{
		body: "Symbol,Date,Time,Open,High,Low,Close,Volume\nAAPL.US,2025-02-28,22:00:11,241.79,242.09,230.2,241.84,56833360\n",
	}

	price, err := client.CurrentPrice(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("CurrentPrice failed: %v", err)
	}
	if price != 241.84 {
		t.Errorf("price = %v, want 241.84", price)
	}
}

func TestCurrentPriceNoData(t *testing.T) {
	client := NewClient()
	client.httpClient.Transport = &stubTransport{
		body: "Symbol,Date,Time,Open,High,Low,Close,Volume\nXXXX.US,N/D,N/D,N/D,N/D,N/D,N/D,N/D\n",
	}

	if _, err := client.CurrentPrice(context.Background(), "XXXX"); err == nil {
		t.Error("expected error for N/D quote")
	}
}

func TestCurrentPriceBadStatus(t *testing.T) {
	client := NewClient()
	client.httpClient.Transport = &stubTransport{status: http.StatusServiceUnavailable}

	if _, err := client.CurrentPrice(context.Background(), "AAPL"); err == nil {
		t.Error("expected error on non-200 status")
	}
}
