package financials

import (
	"context"
	"fmt"
	"sort"

	"equity_analyst/pkg/core/edgar"
)

// Minimum history for a credible 3-year CAGR and TTM.
const (
	minAnnualPeriods    = 3
	minQuarterlyPeriods = 4
)

// FactSource resolves tickers and serves raw companyfacts trees.
// Implemented by edgar.Client; faked in tests.
type FactSource interface {
	ResolveCIK(ctx context.Context, ticker string) (string, error)
	CompanyFacts(ctx context.Context, cik string) (*edgar.CompanyFacts, error)
}

// FilingIndex serves the latest annual/quarterly filing dates for a filer.
type FilingIndex interface {
	LatestFilingDates(ctx context.Context, cik string) (edgar.FilingDates, error)
}

// conceptSpec describes one tracked concept: its canonical name, target unit,
// and the ordered XBRL tag aliases tried first-match-wins.
type conceptSpec struct {
	name      string
	unit      string
	tags      []string
	mandatory bool
}

// trackedConcepts lists the nine extracted line items, revenue first.
// The tag lists reflect how inconsistently issuers apply the taxonomy:
// Total Debt ends in a deliberately coarse "Liabilities" super-fallback.
var trackedConcepts = []conceptSpec{
	{
		name:      MetricRevenue,
		unit:      "USD",
		tags:      []string{"Revenues", "RevenueFromContractWithCustomerExcludingAssessedTax"},
		mandatory: true,
	},
	{
		name: MetricOperatingIncome,
		unit: "USD",
		tags: []string{"OperatingIncomeLoss", "IncomeLossFromContinuingOperationsBeforeTax"},
	},
	{
		name: MetricNetIncome,
		unit: "USD",
		tags: []string{"NetIncomeLoss", "ProfitLoss"},
	},
	{
		name: MetricCapex,
		unit: "USD",
		tags: []string{
			"PaymentsToAcquirePropertyPlantAndEquipment",
			"CapitalExpenditure",
			"CapitalExpenditures",
		},
	},
	{
		name: MetricCFO,
		unit: "USD",
		tags: []string{"NetCashProvidedByUsedInOperatingActivities", "CashFlowFromOperatingActivities"},
	},
	{
		name: MetricDA,
		unit: "USD",
		tags: []string{"DepreciationDepletionAndAmortization", "DepreciationAndAmortization"},
	},
	{
		name: MetricShares,
		unit: "shares",
		tags: []string{
			"EntityCommonStockSharesOutstanding",
			"WeightedAverageNumberOfSharesOutstandingBasic",
			"WeightedAverageNumberOfDilutedSharesOutstanding",
		},
	},
	{
		name: MetricTotalDebt,
		unit: "USD",
		tags: []string{
			"LongTermDebtAndCapitalLeaseObligations",
			"LongTermDebt",
			"DebtCurrent",
			"Liabilities",
		},
	},
	{
		name: MetricCash,
		unit: "USD",
		tags: []string{"CashAndCashEquivalentsAtCarryingValue", "CashCashEquivalentsAndShortTermInvestments"},
	},
}

// Normalizer orchestrates metric extraction and period normalization into a
// FinancialSummary.
type Normalizer struct {
	source FactSource
	index  FilingIndex
}

// NewNormalizer creates a normalizer. index may be nil; filing dates are
// provenance metadata only.
func NewNormalizer(source FactSource, index FilingIndex) *Normalizer {
	return &Normalizer{source: source, index: index}
}

// Analyze fetches and normalizes financial metrics for a ticker, returning a
// validated FinancialSummary. Revenue absence or insufficient history are
// hard failures; any other missing concept is simply omitted.
func (n *Normalizer) Analyze(ctx context.Context, ticker string) (*FinancialSummary, error) {
	cik, err := n.source.ResolveCIK(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("could not find CIK for ticker %s: %w", ticker, err)
	}

	facts, err := n.source.CompanyFacts(ctx, cik)
	if err != nil {
		return nil, fmt.Errorf("no companyfacts data found for %s: %w", ticker, err)
	}

	var metrics []MetricSeries
	var revenueQuarterly []edgar.FactEntry

	for _, spec := range trackedConcepts {
		ext := ExtractMetric(facts, spec.tags, spec.unit)
		if ext.Empty() {
			if spec.mandatory {
				return nil, &MissingMandatoryDataError{Ticker: ticker, Metric: spec.name}
			}
			continue
		}
		metrics = append(metrics, buildSeries(spec.name, spec.unit, ext))
		if spec.name == MetricRevenue {
			revenueQuarterly = ext.Quarterly
		}
	}

	annualPeriods, quarterlyPeriods := collectPeriods(metrics)
	if len(annualPeriods) < minAnnualPeriods || len(quarterlyPeriods) < minQuarterlyPeriods {
		return nil, &InsufficientHistoryError{
			AnnualCount:    len(annualPeriods),
			QuarterlyCount: len(quarterlyPeriods),
			MinAnnual:      minAnnualPeriods,
			MinQuarterly:   minQuarterlyPeriods,
		}
	}

	allPeriods := append(append([]string{}, annualPeriods...), quarterlyPeriods...)
	sort.Sort(sort.Reverse(sort.StringSlice(allPeriods)))

	ttmPeriod := ""
	if _, ok := TTM(revenueQuarterly); ok {
		ttmPeriod = TTMLabel(QuarterLabel(revenueQuarterly[0].End))
	}

	metadata := map[string]string{
		"source":      "SEC XBRL companyfacts",
		"cik":         cik,
		"entity_name": facts.EntityName,
	}
	if n.index != nil {
		// Filing dates are display provenance; failure here is not fatal.
		if dates, err := n.index.LatestFilingDates(ctx, cik); err == nil {
			metadata["latest_10k_date"] = dates.Latest10K
			metadata["latest_10q_date"] = dates.Latest10Q
		}
	}

	return &FinancialSummary{
		Ticker:           ticker,
		Metrics:          metrics,
		Periods:          allPeriods,
		AnnualPeriods:    annualPeriods,
		QuarterlyPeriods: quarterlyPeriods,
		TTMPeriod:        ttmPeriod,
		Metadata:         metadata,
	}, nil
}

// buildSeries combines a concept's annual and quarterly entries into one
// MetricSeries, annual first, deduplicated by canonical period label.
func buildSeries(name, unit string, ext Extraction) MetricSeries {
	series := MetricSeries{MetricName: name, Unit: unit}
	seen := make(map[string]bool)
	for _, entry := range append(append([]edgar.FactEntry{}, ext.Annual...), ext.Quarterly...) {
		label := PeriodLabel(entry)
		if seen[label] {
			continue
		}
		seen[label] = true
		series.Values = append(series.Values, entry.Val)
		series.Periods = append(series.Periods, label)
	}
	return series
}

// collectPeriods aggregates distinct periods across all extracted metrics
// into disjoint annual and quarterly sets, sorted descending. Lexicographic
// descending on these zero-padded label formats matches chronological
// descending.
func collectPeriods(metrics []MetricSeries) (annual, quarterly []string) {
	annualSet := make(map[string]bool)
	quarterlySet := make(map[string]bool)
	for _, m := range metrics {
		for _, p := range m.Periods {
			if IsQuarterPeriod(p) {
				quarterlySet[p] = true
			} else {
				annualSet[p] = true
			}
		}
	}
	for p := range annualSet {
		annual = append(annual, p)
	}
	for p := range quarterlySet {
		quarterly = append(quarterly, p)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(annual)))
	sort.Sort(sort.Reverse(sort.StringSlice(quarterly)))
	return annual, quarterly
}
