package financials

import (
	"context"
	"errors"
	"strings"
	"testing"

	"equity_analyst/pkg/core/edgar"
)

// fakeSource serves a fixed companyfacts tree for one ticker.
type fakeSource struct {
	cik   string
	facts *edgar.CompanyFacts
}

func (f *fakeSource) ResolveCIK(ctx context.Context, ticker string) (string, error) {
	if f.cik == "" {
		return "", errors.New("unknown ticker")
	}
	return f.cik, nil
}

func (f *fakeSource) CompanyFacts(ctx context.Context, cik string) (*edgar.CompanyFacts, error) {
	if f.facts == nil {
		return nil, errors.New("no facts")
	}
	return f.facts, nil
}

type fakeIndex struct {
	dates edgar.FilingDates
	err   error
}

func (f *fakeIndex) LatestFilingDates(ctx context.Context, cik string) (edgar.FilingDates, error) {
	return f.dates, f.err
}

// healthyFacts builds a tree with enough revenue history for validation:
// four annual years and four quarters.
func healthyFacts() *edgar.CompanyFacts {
	return makeFacts(map[string]edgar.ConceptFacts{
		"Revenues": usdConcept(
			annualEntry("2024-12-31", 1000),
			annualEntry("2023-12-31", 900),
			annualEntry("2022-12-31", 820),
			annualEntry("2021-12-31", 750),
			quarterEntry("2024-09-30", "Q3", 260),
			quarterEntry("2024-06-30", "Q2", 255),
			quarterEntry("2024-03-31", "Q1", 250),
			quarterEntry("2023-12-31", "Q4", 245),
		),
		"OperatingIncomeLoss": usdConcept(
			annualEntry("2024-12-31", 150),
			annualEntry("2023-12-31", 130),
			annualEntry("2022-12-31", 120),
		),
	})
}

func TestAnalyzeHappyPath(t *testing.T) {
	n := NewNormalizer(
		&fakeSource{cik: "0000320193", facts: healthyFacts()},
		&fakeIndex{dates: edgar.FilingDates{Latest10K: "2025-01-31", Latest10Q: "2024-11-01"}},
	)

	summary, err := n.Analyze(context.Background(), "TEST")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if summary.Ticker != "TEST" {
		t.Errorf("ticker = %q", summary.Ticker)
	}
	if len(summary.AnnualPeriods) != 4 {
		t.Errorf("annual periods = %d, want 4", len(summary.AnnualPeriods))
	}
	if len(summary.QuarterlyPeriods) != 4 {
		t.Errorf("quarterly periods = %d, want 4", len(summary.QuarterlyPeriods))
	}
	if summary.AnnualPeriods[0] != "2024" {
		t.Errorf("periods must be most-recent-first, got %q", summary.AnnualPeriods[0])
	}
	if summary.TTMPeriod != "TTM-2024-Q3" {
		t.Errorf("TTM period = %q, want TTM-2024-Q3", summary.TTMPeriod)
	}

	revenue := summary.Metric(MetricRevenue)
	if revenue == nil {
		t.Fatal("revenue series missing")
	}
	if v, ok := revenue.LatestAnnual(); !ok || v != 1000 {
		t.Errorf("latest annual revenue = %v, want 1000", v)
	}

	if summary.Metadata["cik"] != "0000320193" {
		t.Errorf("cik metadata = %q", summary.Metadata["cik"])
	}
	if summary.Metadata["entity_name"] != "Test Corp" {
		t.Errorf("entity_name metadata = %q", summary.Metadata["entity_name"])
	}
	if summary.Metadata["latest_10k_date"] != "2025-01-31" {
		t.Errorf("latest_10k_date metadata = %q", summary.Metadata["latest_10k_date"])
	}
}

func TestAnalyzeMissingRevenueIsFatal(t *testing.T) {
	facts := makeFacts(map[string]edgar.ConceptFacts{
		"OperatingIncomeLoss": usdConcept(annualEntry("2024-12-31", 150)),
	})
	n := NewNormalizer(&fakeSource{cik: "123", facts: facts}, nil)

	_, err := n.Analyze(context.Background(), "TEST")
	var missing *MissingMandatoryDataError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingMandatoryDataError, got %v", err)
	}
	if missing.Metric != MetricRevenue {
		t.Errorf("missing metric = %q", missing.Metric)
	}
}

func TestAnalyzeInsufficientAnnualHistory(t *testing.T) {
	// 2 annual years, 4 quarters: quarterly requirement met, annual not
	facts := makeFacts(map[string]edgar.ConceptFacts{
		"Revenues": usdConcept(
			annualEntry("2024-12-31", 1000),
			annualEntry("2023-12-31", 900),
			quarterEntry("2024-09-30", "Q3", 260),
			quarterEntry("2024-06-30", "Q2", 255),
			quarterEntry("2024-03-31", "Q1", 250),
			quarterEntry("2023-12-31", "Q4", 245),
		),
	})
	n := NewNormalizer(&fakeSource{cik: "123", facts: facts}, nil)

	_, err := n.Analyze(context.Background(), "TEST")
	var insufficient *InsufficientHistoryError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientHistoryError, got %v", err)
	}
	if insufficient.AnnualCount != 2 || insufficient.QuarterlyCount != 4 {
		t.Errorf("counts = %d annual / %d quarterly, want 2/4",
			insufficient.AnnualCount, insufficient.QuarterlyCount)
	}
	if !strings.Contains(err.Error(), "2") || !strings.Contains(err.Error(), "3") {
		t.Errorf("error should state actual vs required counts: %v", err)
	}
}

func TestAnalyzeOptionalMetricAbsent(t *testing.T) {
	n := NewNormalizer(&fakeSource{cik: "123", facts: healthyFacts()}, nil)

	summary, err := n.Analyze(context.Background(), "TEST")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if summary.Metric(MetricCapex) != nil {
		t.Error("capex series should be absent, not defaulted, at this layer")
	}
	if summary.Metric(MetricOperatingIncome) == nil {
		t.Error("operating income series should be present")
	}
}

func TestAnalyzeIndexFailureIsNotFatal(t *testing.T) {
	n := NewNormalizer(
		&fakeSource{cik: "123", facts: healthyFacts()},
		&fakeIndex{err: errors.New("submissions down")},
	)

	summary, err := n.Analyze(context.Background(), "TEST")
	if err != nil {
		t.Fatalf("filing index failure must not fail the run: %v", err)
	}
	if _, ok := summary.Metadata["latest_10k_date"]; ok {
		t.Error("filing dates should be absent when the index fails")
	}
}
